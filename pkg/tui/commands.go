package tui

import (
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/claim"
	"github.com/helmcode/gbp-pulse/pkg/diagnosis"
	"github.com/helmcode/gbp-pulse/pkg/model"
	"github.com/helmcode/gbp-pulse/pkg/session"
	"github.com/helmcode/gbp-pulse/pkg/studio"
	"github.com/helmcode/gbp-pulse/pkg/wizard"
)

const help = `Navigation:  /dashboard  /diagnose  /plan  /studio  /create  /claim [scenario]
Identity:    /identity NAME | INDUSTRY
Diagnose:    /set name|industry VALUE, then type the issue and press Enter
Plan:        /toggle N   /guide N
Studio:      /tool NAME  (type input)  /gen  /clear  /copy  /publish  /edit TEXT  /focus  /replies
Create:      /set FIELD VALUE  /next  /back  /submit
Assistant:   /ask QUESTION  /chat
Session:     /reset  /yes  /no  /help  /quit`

var studioCommands = map[string]bool{
	"tool": true, "gen": true, "generate": true, "clear": true,
	"copy": true, "publish": true, "edit": true, "replies": true,
}

// exec runs one line of input. Plain text goes to the component of the
// current view; slash commands drive the state machine. The returned command,
// if any, is the gateway call to run off the loop.
func (m Model) exec(line string) (Model, tea.Cmd) {
	line = strings.TrimSpace(line)
	if line == "" {
		return m, nil
	}
	m.notice = ""

	var cmd tea.Cmd
	if strings.HasPrefix(line, "/") {
		name, arg, _ := strings.Cut(line[1:], " ")
		m, cmd = m.command(strings.ToLower(name), strings.TrimSpace(arg))
	} else {
		m, cmd = m.text(line)
	}
	m.refresh()
	return m, cmd
}

func (m Model) text(line string) (Model, tea.Cmd) {
	if m.state.ResetPending() {
		m.fail("Answer the reset confirmation with /yes or /no.")
		return m, nil
	}
	switch m.state.View() {
	case session.ViewDiagnostic:
		m.diag.IssueDescription = line
		return m.diagnose()
	case session.ViewWriter:
		st := m.state.Studio()
		_ = st.SetInput(st.Active(), line)
		m.say("Input saved. Use /gen to write %s.", st.Active().Label())
		return m, nil
	case session.ViewCreateWizard:
		m.fail("Use /set FIELD VALUE to fill in the profile.")
		return m, nil
	}
	return m.ask(line)
}

func (m Model) command(name, arg string) (Model, tea.Cmd) {
	switch name {
	case "help", "?":
		m.say("%s", help)
		return m, nil
	case "quit", "exit":
		return m, tea.Quit
	case "yes":
		return m.confirmReset()
	case "no":
		m.state.CancelReset()
		m.say("Reset cancelled.")
		return m, nil
	case "reset":
		m.state.RequestReset()
		return m, nil
	}

	if m.state.ResetPending() {
		m.fail("Answer the reset confirmation with /yes or /no.")
		return m, nil
	}

	if studioCommands[name] && m.state.View() != session.ViewWriter {
		m.fail("/%s works in the Content Studio. Open it with /studio.", name)
		return m, nil
	}

	switch name {
	case "dashboard", "home", "plan", "studio", "writer", "create", "wizard":
		return m.navigate(name)
	case "diagnose", "diagnostic":
		m = m.openDiagnostic()
		return m.navigate(name)
	case "claim":
		return m.claim(arg)
	case "identity", "switch":
		return m.identity(arg)
	case "ask":
		return m.ask(arg)
	case "chat":
		m.showChat = !m.showChat
		return m, nil
	case "set":
		return m.set(arg)
	case "toggle":
		return m.toggle(arg)
	case "guide":
		return m.openGuide(arg)
	case "tool":
		return m.selectTool(arg)
	case "gen", "generate":
		return m.generate()
	case "clear":
		st := m.state.Studio()
		_ = st.Clear(st.Active())
		m.say("%s cleared.", st.Active().Label())
		return m, nil
	case "copy":
		return m.copyOutput()
	case "publish":
		if !m.state.Studio().ShowPublishGuide() {
			m.fail("Generate something first.")
		}
		return m, nil
	case "edit":
		st := m.state.Studio()
		_ = st.SetOutput(st.Active(), arg)
		return m, nil
	case "replies":
		m.say("%d review replies written this session.", len(m.state.Studio().Replies()))
		return m, nil
	case "focus":
		if err := m.state.SetFocus(!m.state.Focus()); err != nil {
			m.fail("%s", apperr.UserMessage(err))
		}
		return m, nil
	case "next":
		return m.next()
	case "back":
		if err := m.state.Wizard().Back(); err != nil {
			m.fail("%s", apperr.UserMessage(err))
		}
		return m, nil
	case "submit":
		return m.submit()
	}

	m.fail("Unknown command /%s. Type /help for commands.", name)
	return m, nil
}

func (m Model) navigate(name string) (Model, tea.Cmd) {
	v, err := session.ParseView(name)
	if err == nil {
		err = m.state.Navigate(v)
	}
	if err != nil {
		m.fail("%v", err)
	}
	return m, nil
}

// openDiagnostic prefills the diagnosis form from the identity.
func (m Model) openDiagnostic() Model {
	bc := m.state.Context()
	if m.diag.Name == "" {
		m.diag.Name = bc.Name
	}
	if m.diag.Industry == "" {
		m.diag.Industry = bc.Industry
	}
	return m
}

func (m Model) confirmReset() (Model, tea.Cmd) {
	if !m.state.ResetPending() {
		m.fail("Nothing to confirm.")
		return m, nil
	}
	err := m.state.ConfirmReset(m.ctx)
	m.guides.Flush()
	m.diag = diagnosis.Input{}
	m.diagnosing = false
	m.guide, m.guideStep, m.guideLoading = nil, "", false
	m.scenario = nil
	if err != nil {
		m.fail("Session reset, but saved data could not be removed: %s", apperr.UserMessage(err))
		return m, nil
	}
	m.say("Session reset.")
	return m, nil
}

func (m Model) identity(arg string) (Model, tea.Cmd) {
	name, industry, ok := strings.Cut(arg, "|")
	if !ok {
		m.fail("Usage: /identity NAME | INDUSTRY")
		return m, nil
	}
	if err := m.state.SetIdentity(m.ctx, name, industry); err != nil {
		m.fail("%s", apperr.UserMessage(err))
		return m, nil
	}
	bc := m.state.Context()
	m.diag.Name, m.diag.Industry = bc.Name, bc.Industry
	m.say("Working on %s (%s).", bc.Name, bc.Industry)
	return m, nil
}

func (m Model) diagnose() (Model, tea.Cmd) {
	if m.diagnosing {
		m.fail("A diagnosis is already running.")
		return m, nil
	}
	in, err := m.pipeline.Check(m.diag)
	if err != nil {
		m.fail("%s", apperr.UserMessage(err))
		return m, nil
	}
	m.diagToken++
	m.diagnosing = true
	return m, m.diagnoseCmd(in, m.state.Generation(), m.diagToken)
}

func (m Model) set(arg string) (Model, tea.Cmd) {
	field, value, _ := strings.Cut(arg, " ")
	field = strings.ToLower(field)
	value = strings.TrimSpace(value)

	if m.state.View() == session.ViewDiagnostic {
		switch field {
		case "name":
			m.diag.Name = value
		case "industry":
			m.diag.Industry = value
		case "issue":
			m.diag.IssueDescription = value
		default:
			m.fail("Fields: name, industry, issue")
		}
		return m, nil
	}

	if m.state.View() != session.ViewCreateWizard {
		m.fail("/set works in the Diagnose and Create Profile views.")
		return m, nil
	}
	known := true
	err := m.state.Wizard().Edit(func(d *model.NewProfileData) {
		switch field {
		case "name":
			d.BusinessName = value
		case "category":
			d.Category = value
		case "area":
			d.IsServiceArea = value == "" || parseBool(value)
		case "storefront":
			d.IsServiceArea = false
		case "address":
			d.Address = value
		case "phone":
			d.Phone = value
		case "website":
			d.Website = value
		case "description":
			d.Description = value
		default:
			known = false
		}
	})
	switch {
	case err != nil:
		m.fail("%s", apperr.UserMessage(err))
	case !known:
		m.fail("Fields: name, category, area, storefront, address, phone, website, description")
	}
	return m, nil
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return s == "yes" || s == "y"
	}
	return b
}

// step resolves a 1-based position or a step id.
func (m Model) step(arg string) (model.FixStep, bool) {
	steps := m.state.Plan().Steps()
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(steps) {
			return model.FixStep{}, false
		}
		return steps[n-1], true
	}
	return m.state.Plan().Step(arg)
}

func (m Model) toggle(arg string) (Model, tea.Cmd) {
	s, ok := m.step(arg)
	if !ok || !m.state.Plan().Toggle(m.ctx, s.ID) {
		m.fail("No step %q.", arg)
	}
	return m, nil
}

func (m Model) openGuide(arg string) (Model, tea.Cmd) {
	s, ok := m.step(arg)
	if !ok {
		m.fail("No step %q.", arg)
		return m, nil
	}
	m.guideStep = s.ID
	m.guide = nil
	m.guideLoading = true
	return m, m.guideCmd(m.state.Context(), s, m.state.Generation())
}

func (m Model) claim(arg string) (Model, tea.Cmd) {
	m, _ = m.navigate("claim")
	if arg == "" {
		m.scenario = nil
		return m, nil
	}
	g, err := claim.Lookup(arg)
	if err != nil {
		m.fail("%v", err)
		return m, nil
	}
	m.scenario = &g
	return m, nil
}

func (m Model) selectTool(arg string) (Model, tea.Cmd) {
	t, err := model.ParseTool(arg)
	if err == nil {
		err = m.state.Studio().Select(t)
	}
	if err != nil {
		m.fail("%v", err)
	}
	return m, nil
}

func (m Model) generate() (Model, tea.Cmd) {
	st := m.state.Studio()
	req, err := st.Begin(st.Active(), m.state.Context())
	if err != nil {
		if errors.Is(err, studio.ErrIdentityRequired) {
			m.fail("%s Use /identity NAME | INDUSTRY.", apperr.UserMessage(err))
			return m, nil
		}
		m.fail("%s", apperr.UserMessage(err))
		return m, nil
	}
	return m, m.contentCmd(req)
}

func (m Model) copyOutput() (Model, tea.Cmd) {
	st := m.state.Studio()
	if !st.MarkCopied() {
		m.fail("Nothing to copy yet.")
		return m, nil
	}
	if err := m.copy(st.Entry(st.Active()).Output); err != nil {
		m.fail("Could not copy: %v", err)
		return m, nil
	}
	m.say("Copied to clipboard.")
	return m, nil
}

func (m Model) next() (Model, tea.Cmd) {
	w := m.state.Wizard()
	if w.Stage() != wizard.StageContact {
		if err := w.Next(); err != nil {
			m.fail("%s", apperr.UserMessage(err))
		}
		return m, nil
	}
	req, err := w.BeginAudit()
	if err != nil {
		m.fail("%s", apperr.UserMessage(err))
		return m, nil
	}
	return m, m.auditCmd(w, req)
}

func (m Model) submit() (Model, tea.Cmd) {
	w := m.state.Wizard()
	draft, err := w.BeginSubmit()
	if err != nil {
		m.fail("%s", apperr.UserMessage(err))
		return m, nil
	}
	return m, m.submitCmd(w, draft)
}

func (m Model) ask(text string) (Model, tea.Cmd) {
	ex, err := m.chat.Prepare(text, m.state.Context())
	if err != nil {
		m.fail("%s", apperr.UserMessage(err))
		return m, nil
	}
	m.showChat = true
	return m, m.chatCmd(ex)
}
