package formatter

import (
	"fmt"

	"github.com/helmcode/gbp-pulse/pkg/claim"
	"github.com/helmcode/gbp-pulse/pkg/model"
	"github.com/helmcode/gbp-pulse/pkg/wizard"
)

type contentView struct {
	Tool   model.Tool `json:"tool" yaml:"tool"`
	Label  string     `json:"label" yaml:"label"`
	Input  string     `json:"input" yaml:"input"`
	Output string     `json:"output" yaml:"output"`
}

// Content prints generated studio text.
func (p *Printer) Content(tool model.Tool, input, output string) error {
	v := contentView{Tool: tool, Label: tool.Label(), Input: input, Output: output}
	return p.display(v, func() {
		fmt.Fprintln(p.Out)
		green.Fprintf(p.Out, "✍️  %s\n\n", v.Label)
		fmt.Fprintln(p.Out, p.markdown(v.Output))
		fmt.Fprintln(p.Out)
		p.footer()
	})
}

type auditView struct {
	Draft  model.NewProfileData    `json:"draft" yaml:"draft"`
	Result *model.ValidationResult `json:"result" yaml:"result"`
}

// Audit prints a compliance audit of a profile draft.
func (p *Printer) Audit(draft model.NewProfileData, r *model.ValidationResult) error {
	return p.display(auditView{Draft: draft, Result: r}, func() {
		fmt.Fprintln(p.Out)
		if r.IsValid {
			green.Fprintln(p.Out, "✅ Compliance Check Passed")
		} else {
			red.Fprintln(p.Out, "🚫 Violations Detected")
		}
		fmt.Fprintln(p.Out)
		p.list(red, "⚠️  ISSUES:", r.Issues, true)
		p.list(cyan, "💡 SUGGESTIONS:", r.Suggestions, false)
		if r.OptimizedDescription != nil {
			white.Fprintln(p.Out, "📄 OPTIMIZED DESCRIPTION:")
			fmt.Fprintln(p.Out, wrapText(*r.OptimizedDescription, 80, "   "))
			fmt.Fprintln(p.Out)
		}
		if r.VerificationAdvice != nil {
			method := r.VerificationAdvice.Method
			if method == "" {
				method = "Standard Verification"
			}
			yellow.Fprintf(p.Out, "🔐 EXPECT: %s\n", method)
			p.list(yellow, "   Pre-checklist:", r.VerificationAdvice.Tips, false)
		}
		p.footer()
	})
}

// Summary prints the values to transfer into a new profile.
func (p *Printer) Summary(fields []wizard.Field) error {
	return p.display(fields, func() {
		fmt.Fprintln(p.Out)
		white.Fprintln(p.Out, "📋 PROFILE READY:")
		for _, f := range fields {
			fmt.Fprintf(p.Out, "   %-14s %s\n", f.Label+":", f.Value)
		}
		fmt.Fprintln(p.Out)
		fmt.Fprintln(p.Out, "   Open https://business.google.com/create and paste the values above.")
		fmt.Fprintln(p.Out)
	})
}

// Claim prints one claim scenario.
func (p *Printer) Claim(g claim.Guide) error {
	return p.display(g, func() {
		fmt.Fprintln(p.Out)
		white.Fprintf(p.Out, "🔑 %s\n", g.Title)
		fmt.Fprintln(p.Out, wrapText(g.Summary, 80, "   "))
		fmt.Fprintln(p.Out)
		for i, s := range g.Steps {
			fmt.Fprintf(p.Out, "   %d. %s\n", i+1, s.Title)
			fmt.Fprintln(p.Out, wrapText(s.Detail, 80, "      "))
		}
		if g.CreateProfile {
			cyan.Fprintln(p.Out, "   ➜ Run `gbp-pulse run` and open Create Profile to build one.")
		}
		fmt.Fprintln(p.Out)
		fmt.Fprintln(p.Out, wrapText(claim.Help, 80, "   "))
		fmt.Fprintln(p.Out)
	})
}

// Identity prints the stored business context.
func (p *Printer) Identity(bc model.BusinessContext) error {
	return p.display(bc, func() {
		fmt.Fprintln(p.Out)
		if !bc.HasIdentity() {
			yellow.Fprintln(p.Out, "⚠️  No business identity set. Use `gbp-pulse identity set`.")
			return
		}
		white.Fprintf(p.Out, "🏢 %s", bc.Name)
		fmt.Fprintf(p.Out, " (%s)\n", bc.Industry)
		if bc.Diagnosed() {
			fmt.Fprintf(p.Out, "   Last diagnosis: %s\n", bc.DetectedCategory)
		}
	})
}

// Reply prints an assistant answer.
func (p *Printer) Reply(m model.ChatMessage) error {
	return p.display(m, func() {
		fmt.Fprintln(p.Out)
		cyan.Fprintln(p.Out, "🤖 GBP Assistant:")
		fmt.Fprintln(p.Out, p.markdown(m.Text))
		fmt.Fprintln(p.Out)
	})
}
