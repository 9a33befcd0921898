package formatter

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/helmcode/gbp-pulse/pkg/model"
	"github.com/helmcode/gbp-pulse/pkg/plan"
)

type planView struct {
	Business model.BusinessContext `json:"business" yaml:"business"`
	Progress int                   `json:"progress" yaml:"progress"`
	Steps    model.ActionPlan      `json:"steps" yaml:"steps"`
}

// Plan prints the diagnosis and the action plan with its progress.
func (p *Printer) Plan(bc model.BusinessContext, t *plan.Tracker) error {
	v := planView{Business: bc, Progress: t.Progress(), Steps: t.Steps()}
	return p.display(v, func() { p.humanPlan(v) })
}

func (p *Printer) humanPlan(v planView) {
	fmt.Fprintln(p.Out)
	if v.Business.HasIdentity() {
		white.Fprintf(p.Out, "🏢 %s", v.Business.Name)
		fmt.Fprintf(p.Out, " (%s)\n\n", v.Business.Industry)
	}

	if v.Business.Diagnosed() {
		categoryColor(v.Business.DetectedCategory).Fprintf(p.Out, "📊 CATEGORY: %s\n\n", v.Business.DetectedCategory)
		red.Fprintln(p.Out, "💡 ROOT CAUSE IDENTIFIED:")
		fmt.Fprintln(p.Out, wrapText(v.Business.Analysis, 80, "   "))
		fmt.Fprintln(p.Out)
	}

	if len(v.Steps) == 0 {
		yellow.Fprintln(p.Out, "⚠️  No action plan yet. Run `gbp-pulse diagnose` first.")
		fmt.Fprintln(p.Out)
		p.footer()
		return
	}

	cyan.Fprintf(p.Out, "📋 ACTION PLAN  %s %d%%\n", progressBar(v.Progress, 20), v.Progress)
	for i, s := range v.Steps {
		fmt.Fprintf(p.Out, "   %d. %s %s\n", i+1, statusIcon(s), s.Title)
		if s.Description != "" {
			fmt.Fprintln(p.Out, wrapText(s.Description, 80, "      "))
		}
		fmt.Fprintf(p.Out, "      %s\n\n", color.HiBlackString("id: %s", s.ID))
	}
	p.footer()
}

func statusIcon(s model.FixStep) string {
	if s.Completed() {
		return "✅"
	}
	return "⬜"
}

func progressBar(percent, width int) string {
	filled := percent * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func categoryColor(c model.Category) *color.Color {
	switch c {
	case model.CategorySuspension:
		return color.New(color.FgRed, color.Bold)
	case model.CategoryVerification:
		return color.New(color.FgYellow, color.Bold)
	case model.CategoryRanking:
		return color.New(color.FgCyan, color.Bold)
	case model.CategoryReviews:
		return color.New(color.FgMagenta, color.Bold)
	default:
		return color.New(color.FgWhite, color.Bold)
	}
}

// Guide prints a step deep-dive.
func (p *Printer) Guide(g *model.StepGuide) error {
	return p.display(g, func() {
		fmt.Fprintln(p.Out)
		white.Fprintf(p.Out, "📘 %s\n\n", g.Title)
		fmt.Fprintln(p.Out, wrapText(g.BigPicture, 80, "   "))
		fmt.Fprintln(p.Out)
		p.list(cyan, "🧭 STEPS:", g.Steps, true)
		p.list(red, "⚠️  PITFALLS:", g.Pitfalls, false)
		p.list(green, "🚀 PRO TIPS:", g.ProTips, false)
		p.footer()
	})
}

func (p *Printer) list(c *color.Color, title string, items []string, numbered bool) {
	if len(items) == 0 {
		return
	}
	c.Fprintln(p.Out, title)
	for i, item := range items {
		if numbered {
			fmt.Fprintf(p.Out, "   %d. %s\n", i+1, item)
		} else {
			fmt.Fprintf(p.Out, "   • %s\n", item)
		}
	}
	fmt.Fprintln(p.Out)
}
