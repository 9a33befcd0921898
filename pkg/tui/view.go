package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/helmcode/gbp-pulse/pkg/claim"
	"github.com/helmcode/gbp-pulse/pkg/model"
	"github.com/helmcode/gbp-pulse/pkg/session"
	"github.com/helmcode/gbp-pulse/pkg/wizard"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	tabStyle     = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	activeTab    = lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 1)
	headingStyle = lipgloss.NewStyle().Bold(true)
	faint        = lipgloss.NewStyle().Faint(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	modalStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("196")).Padding(1, 2)
	chatStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true, false, false, false)
)

func (m Model) View() string {
	var b strings.Builder
	if !(m.state.View() == session.ViewWriter && m.state.Focus()) {
		b.WriteString(m.header())
		b.WriteString("\n\n")
	}
	if m.state.ResetPending() {
		b.WriteString(modalStyle.Render(
			headingStyle.Render("Reset session?") + "\n\n" +
				"Are you sure you want to reset? All progress will be lost.\n\n" +
				"/yes to reset, /no to keep working"))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.vp.View())
		b.WriteString("\n")
	}
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

func (m Model) header() string {
	tabs := make([]string, 0, len(session.Views()))
	for _, v := range session.Views() {
		if v == m.state.View() {
			tabs = append(tabs, activeTab.Render(v.Label()))
			continue
		}
		tabs = append(tabs, tabStyle.Render(v.Label()))
	}
	title := titleStyle.Render("GBP Pulse")
	if bc := m.state.Context(); bc.HasIdentity() {
		title += faint.Render(fmt.Sprintf("  %s · %s", bc.Name, bc.Industry))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) status() string {
	if m.busy() {
		return m.spin.View() + " Working..."
	}
	if m.notice == "" {
		return faint.Render("/help for commands · PgUp/PgDn to scroll · Ctrl+C to quit")
	}
	if m.isErr {
		return errStyle.Render(m.notice)
	}
	return okStyle.Render(m.notice)
}

// refresh re-renders the body of the current view into the viewport.
func (m *Model) refresh() {
	var body string
	switch m.state.View() {
	case session.ViewDashboard:
		body = m.dashboard()
	case session.ViewDiagnostic:
		body = m.diagnostic()
	case session.ViewPlan:
		body = m.plan()
	case session.ViewWriter:
		body = m.writer()
	case session.ViewCreateWizard:
		body = m.wizard()
	case session.ViewClaimGuide:
		body = m.claimGuide()
	}
	if m.showChat {
		body += "\n" + chatStyle.Render(m.conversation())
	}
	m.vp.SetContent(body)
}

func (m Model) markdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) dashboard() string {
	var b strings.Builder
	bc := m.state.Context()
	if !bc.HasIdentity() {
		b.WriteString(headingStyle.Render("Welcome to GBP Pulse") + "\n\n")
		b.WriteString("Tell me which business we are working on:\n")
		b.WriteString("  /identity Acme Plumbing | Plumbing\n\n")
	} else {
		b.WriteString(headingStyle.Render(bc.Name) + faint.Render(" · "+bc.Industry) + "\n\n")
		if m.state.HasActiveSession() {
			p := m.state.Plan()
			fmt.Fprintf(&b, "Active plan: %d%% complete (%d of %d steps)\n", p.Progress(), p.Completed(), p.Len())
			b.WriteString("  /plan to continue\n\n")
		} else {
			b.WriteString("  /diagnose to analyze a profile problem\n\n")
		}
	}
	for _, v := range session.Views()[1:] {
		fmt.Fprintf(&b, "  %-16s %s\n", "/"+alias(v), v.Label())
	}
	b.WriteString("\n  /identity NAME | INDUSTRY to switch business\n")
	return b.String()
}

func alias(v session.View) string {
	switch v {
	case session.ViewDiagnostic:
		return "diagnose"
	case session.ViewWriter:
		return "studio"
	case session.ViewCreateWizard:
		return "create"
	}
	return strings.ToLower(string(v))
}

func (m Model) diagnostic() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Diagnose an issue") + "\n\n")
	fmt.Fprintf(&b, "  Business:  %s\n", orDash(m.diag.Name))
	fmt.Fprintf(&b, "  Industry:  %s\n", orDash(m.diag.Industry))
	fmt.Fprintf(&b, "  Issue:     %s\n\n", orDash(m.diag.IssueDescription))
	if m.diagnosing {
		b.WriteString(m.spin.View() + " Analyzing with AI...\n")
		return b.String()
	}
	b.WriteString(faint.Render("Describe the problem and press Enter. /set name|industry VALUE to change the business.") + "\n")
	return b.String()
}

func (m Model) plan() string {
	var b strings.Builder
	bc := m.state.Context()
	t := m.state.Plan()
	if t.Len() == 0 && !bc.Diagnosed() {
		return "No action plan yet. Run /diagnose first.\n"
	}
	b.WriteString(headingStyle.Render("Action Plan") + "\n")
	if bc.Diagnosed() {
		fmt.Fprintf(&b, "%s  %s\n", warnStyle.Render(string(bc.DetectedCategory)), bc.Analysis)
	}
	fmt.Fprintf(&b, "\n%s %d%%\n\n", bar(t.Progress(), 30), t.Progress())
	if t.Len() == 0 {
		b.WriteString("No fix steps were needed.\n")
		return b.String()
	}
	for i, s := range t.Steps() {
		mark := "[ ]"
		title := s.Title
		if s.Status == model.StatusCompleted {
			mark = okStyle.Render("[x]")
			title = faint.Render(title)
		}
		fmt.Fprintf(&b, "%2d. %s %s\n", i+1, mark, title)
		if s.Description != "" {
			fmt.Fprintf(&b, "        %s\n", faint.Render(s.Description))
		}
	}
	b.WriteString("\n" + faint.Render("/toggle N to mark a step · /guide N for a step by step guide") + "\n")

	if m.guideLoading {
		b.WriteString("\n" + m.spin.View() + " Preparing guide...\n")
	} else if g := m.guide; g != nil {
		b.WriteString("\n" + headingStyle.Render(g.Title) + "\n")
		b.WriteString(m.markdown(guideMarkdown(g)) + "\n")
	}
	return b.String()
}

func guideMarkdown(g *model.StepGuide) string {
	var b strings.Builder
	b.WriteString(g.BigPicture + "\n\n")
	section := func(title string, items []string, numbered bool) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "### %s\n\n", title)
		for i, it := range items {
			if numbered {
				fmt.Fprintf(&b, "%d. %s\n", i+1, it)
			} else {
				fmt.Fprintf(&b, "- %s\n", it)
			}
		}
		b.WriteString("\n")
	}
	section("Steps", g.Steps, true)
	section("Pitfalls", g.Pitfalls, false)
	section("Pro tips", g.ProTips, false)
	return b.String()
}

func bar(percent, width int) string {
	filled := percent * width / 100
	return okStyle.Render(strings.Repeat("█", filled)) + faint.Render(strings.Repeat("░", width-filled))
}

func (m Model) writer() string {
	var b strings.Builder
	st := m.state.Studio()
	active := st.Active()

	if !m.state.Focus() {
		tabs := make([]string, 0, model.NumTools)
		for _, t := range model.Tools() {
			label := t.Label()
			if st.InFlight(t) {
				label += "…"
			}
			if t == active {
				tabs = append(tabs, activeTab.Render(label))
				continue
			}
			tabs = append(tabs, tabStyle.Render(label))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n")
		if !m.state.Context().HasIdentity() {
			b.WriteString(warnStyle.Render("Set your business first: /identity NAME | INDUSTRY") + "\n\n")
		}
	}

	e := st.Entry(active)
	b.WriteString(headingStyle.Render(active.InputLabel()) + "\n")
	if e.Input == "" {
		b.WriteString(faint.Render(active.Placeholder()) + "\n\n")
	} else {
		b.WriteString(e.Input + "\n\n")
	}

	switch {
	case st.InFlight(active):
		b.WriteString(m.spin.View() + " Writing...\n")
	case e.Output != "":
		b.WriteString(m.markdown(e.Output) + "\n")
		if st.Copied() {
			b.WriteString(okStyle.Render("Copied!") + "\n")
		}
	default:
		b.WriteString(faint.Render("Type your input, then /gen.") + "\n")
	}

	if st.PublishGuideVisible() {
		b.WriteString("\n" + headingStyle.Render("How to publish") + "\n")
		b.WriteString("  1. Open your profile on Google Search or Maps.\n")
		b.WriteString("  2. Choose Edit profile (or Add update for posts).\n")
		b.WriteString("  3. Paste the text and save.\n")
	}
	return b.String()
}

func (m Model) wizard() string {
	var b strings.Builder
	w := m.state.Wizard()
	d := w.Draft()

	if w.Completed() {
		b.WriteString(okStyle.Render("Profile ready") + "\n\n")
		for _, f := range w.Summary() {
			fmt.Fprintf(&b, "  %-14s %s\n", f.Label+":", orDash(f.Value))
		}
		b.WriteString("\nOpen business.google.com/create and paste the values above.\n")
		return b.String()
	}

	steps := make([]string, 0, 4)
	for s := wizard.StageInfo; s <= wizard.StageAudit; s++ {
		label := fmt.Sprintf("%d %s", s, s)
		if s == w.Stage() {
			steps = append(steps, activeTab.Render(label))
			continue
		}
		steps = append(steps, tabStyle.Render(label))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, steps...) + "\n\n")

	switch w.Stage() {
	case wizard.StageInfo:
		fmt.Fprintf(&b, "  name:      %s\n  category:  %s\n", orDash(d.BusinessName), orDash(d.Category))
	case wizard.StageLocation:
		fmt.Fprintf(&b, "  type:      %s (/set area, /set storefront)\n  address:   %s\n", d.LocationKind(), orDash(d.Address))
	case wizard.StageContact:
		fmt.Fprintf(&b, "  phone:       %s\n  website:     %s\n  description: %s\n", orDash(d.Phone), orDash(d.Website), orDash(d.Description))
	case wizard.StageAudit:
		b.WriteString(m.audit(w.Result()))
	}

	b.WriteString("\n")
	switch w.Phase() {
	case wizard.PhaseValidating:
		b.WriteString(m.spin.View() + " Auditing against Google's guidelines...\n")
	case wizard.PhaseSubmitting:
		b.WriteString(m.spin.View() + " Preparing profile...\n")
	case wizard.PhaseFailed:
		b.WriteString(errStyle.Render("Check failed. Edit the draft or try /next again.") + "\n")
	default:
		if w.Stage() == wizard.StageAudit {
			b.WriteString(faint.Render("/submit to prepare the profile · /back to edit") + "\n")
		} else if w.CanAdvance() {
			b.WriteString(faint.Render("/set FIELD VALUE · /next · /back") + "\n")
		} else {
			b.WriteString(warnStyle.Render("Enter the business name to continue: /set name VALUE") + "\n")
		}
	}
	return b.String()
}

func (m Model) audit(r *model.ValidationResult) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	if r.IsValid {
		b.WriteString(okStyle.Render("Compliance check passed") + "\n")
	} else {
		b.WriteString(errStyle.Render("Violations detected") + "\n")
	}
	for _, is := range r.Issues {
		b.WriteString("  ! " + is + "\n")
	}
	for _, s := range r.Suggestions {
		b.WriteString("  + " + s + "\n")
	}
	if r.OptimizedDescription != nil {
		b.WriteString("\n" + headingStyle.Render("Optimized description") + "\n" + *r.OptimizedDescription + "\n")
	}
	if v := r.VerificationAdvice; v != nil {
		method := v.Method
		if method == "" {
			method = "Standard Verification"
		}
		b.WriteString("\n" + headingStyle.Render("Expect: "+method) + "\n")
		for _, t := range v.Tips {
			b.WriteString("  - " + t + "\n")
		}
	}
	return b.String()
}

func (m Model) claimGuide() string {
	var b strings.Builder
	if g := m.scenario; g != nil {
		b.WriteString(headingStyle.Render(g.Title) + "\n" + g.Summary + "\n\n")
		for i, s := range g.Steps {
			fmt.Fprintf(&b, "  %d. %s\n     %s\n", i+1, s.Title, faint.Render(s.Detail))
		}
		if g.CreateProfile {
			b.WriteString("\n  /create to build a new profile\n")
		}
		b.WriteString("\n" + faint.Render(claim.Help) + "\n")
		return b.String()
	}
	b.WriteString(headingStyle.Render("Claim your business") + "\n\n")
	for _, g := range claim.Guides() {
		fmt.Fprintf(&b, "  /claim %-10s %s\n", strings.ToLower(string(g.Scenario)), g.Choice)
		fmt.Fprintf(&b, "  %-17s %s\n", "", faint.Render(g.Hint))
	}
	return b.String()
}

func (m Model) conversation() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("GBP Assistant") + "\n")
	for _, msg := range m.chat.Messages() {
		who := "You"
		if msg.Role == model.RoleModel {
			who = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", headingStyle.Render(who), msg.Text)
	}
	if m.chat.Thinking() {
		b.WriteString(m.spin.View() + " Thinking...\n")
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
