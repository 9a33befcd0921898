package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/assistant"
	"github.com/helmcode/gbp-pulse/pkg/diagnosis"
	"github.com/helmcode/gbp-pulse/pkg/model"
	"github.com/helmcode/gbp-pulse/pkg/session"
	"github.com/helmcode/gbp-pulse/pkg/studio"
	"github.com/helmcode/gbp-pulse/pkg/wizard"
)

type diagnosisMsg struct {
	generation uint64
	token      uint64
	result     *diagnosis.Result
	err        error
}

type contentMsg struct {
	studio.Completion
}

type auditMsg struct {
	wiz    *wizard.Wizard
	token  uint64
	result *model.ValidationResult
	err    error
}

type submitMsg struct {
	wiz *wizard.Wizard
	err error
}

type guideMsg struct {
	generation uint64
	stepID     string
	guide      *model.StepGuide
	err        error
}

type chatMsg struct {
	reply string
	err   error
}

func (m Model) diagnoseCmd(in diagnosis.Input, generation, token uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.call()
		defer cancel()
		res, err := m.pipeline.Run(ctx, in)
		return diagnosisMsg{generation: generation, token: token, result: res, err: err}
	}
}

func (m Model) contentCmd(req studio.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.call()
		defer cancel()
		return contentMsg{studio.Execute(ctx, m.gw, req)}
	}
}

func (m Model) auditCmd(w *wizard.Wizard, req wizard.AuditRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.call()
		defer cancel()
		res, err := m.gw.ValidateProfile(ctx, req.Draft)
		return auditMsg{wiz: w, token: req.Token, result: res, err: err}
	}
}

func (m Model) submitCmd(w *wizard.Wizard, draft model.NewProfileData) tea.Cmd {
	return func() tea.Msg {
		return submitMsg{wiz: w, err: m.submitter.Submit(m.ctx, draft)}
	}
}

func (m Model) guideCmd(bc model.BusinessContext, step model.FixStep, generation uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.call()
		defer cancel()
		g, err := m.guides.Guide(ctx, bc, step)
		return guideMsg{generation: generation, stepID: step.ID, guide: g, err: err}
	}
}

func (m Model) chatCmd(ex assistant.Exchange) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.call()
		defer cancel()
		reply, err := assistant.Send(ctx, m.gw, ex)
		return chatMsg{reply: reply, err: err}
	}
}

// resolve applies a finished gateway call to the target it was issued for.
func (m Model) resolve(msg tea.Msg) Model {
	switch msg := msg.(type) {
	case diagnosisMsg:
		if msg.token != m.diagToken {
			return m
		}
		m.diagnosing = false
		if msg.err != nil {
			m.fail("Diagnosis failed: %s", apperr.UserMessage(msg.err))
			return m
		}
		err := m.state.CompleteDiagnosis(m.ctx, msg.generation, msg.result)
		switch {
		case errors.Is(err, session.ErrStale):
			m.logger.Debug("diagnosis from a previous session dropped")
		case err != nil:
			m.fail("Diagnosis failed: %s", apperr.UserMessage(err))
		default:
			m.guide = nil
			m.say("Diagnosis complete: %d steps.", len(msg.result.Plan))
		}

	case contentMsg:
		if !m.state.Studio().Apply(msg.Completion) {
			return m
		}
		if msg.Err != nil {
			m.fail("%s generation failed: %s", msg.Tool.Label(), apperr.UserMessage(msg.Err))
		}

	case auditMsg:
		if !msg.wiz.FinishAudit(msg.token, msg.result, msg.err) {
			return m
		}
		if err := msg.wiz.Err(); err != nil {
			m.fail("Audit failed: %s", apperr.UserMessage(err))
		}

	case submitMsg:
		msg.wiz.FinishSubmit(msg.err)
		if msg.err != nil {
			m.fail("Submission failed: %v", msg.err)
		}

	case guideMsg:
		if msg.generation != m.state.Generation() || msg.stepID != m.guideStep {
			return m
		}
		m.guideLoading = false
		if msg.err != nil {
			m.logger.Warn("guide failed", zap.String("step", msg.stepID), zap.Error(msg.err))
			m.fail("Guide failed: %s", apperr.UserMessage(msg.err))
		}
		m.guide = msg.guide

	case chatMsg:
		m.chat.Resolve(msg.reply, msg.err)
		m.showChat = true
	}
	return m
}
