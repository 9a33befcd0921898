package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/helmcode/gbp-pulse/pkg/assistant"
	"github.com/helmcode/gbp-pulse/pkg/gateway/gatewaytest"
	"github.com/helmcode/gbp-pulse/pkg/model"
	"github.com/helmcode/gbp-pulse/pkg/session"
	"github.com/helmcode/gbp-pulse/pkg/store"
	"github.com/helmcode/gbp-pulse/pkg/studio"
	"github.com/helmcode/gbp-pulse/pkg/wizard"
)

type noDelay struct{}

func (noDelay) Submit(context.Context, model.NewProfileData) error { return nil }

func newModel(t *testing.T, gw *gatewaytest.Fake) (Model, *[]string) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cs := store.NewContextStore(store.NewMemory(), logger)
	state := session.New(cs, logger)
	state.Init(context.Background())

	var copied []string
	m := New(context.Background(), Options{
		State:     state,
		Gateway:   gw,
		Submitter: noDelay{},
		Copy: func(s string) error {
			copied = append(copied, s)
			return nil
		},
		Logger: logger,
	})
	return m, &copied
}

// enter runs a line and returns the model with the gateway command, if any,
// still pending.
func enter(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	return m.exec(line)
}

// finish runs a pending gateway command and feeds its message back.
func finish(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd, "expected a gateway call")
	next, _ := m.Update(cmd())
	return next.(Model)
}

// do runs a line and any gateway call it starts.
func do(t *testing.T, m Model, line string) Model {
	t.Helper()
	m, cmd := enter(t, m, line)
	if cmd != nil {
		m = finish(t, m, cmd)
	}
	return m
}

func acmeGateway() *gatewaytest.Fake {
	return &gatewaytest.Fake{
		DiagnoseFunc: func(context.Context, model.BusinessContext) (*model.Diagnosis, error) {
			return &model.Diagnosis{
				Category: "SUSPENSION",
				Analysis: "Duplicate listings at one address.",
				Steps: []model.DiagnosisStep{
					{Title: "Remove the duplicate", Description: "Mark it as a duplicate."},
					{Title: "Submit a reinstatement request", Description: "Attach proof of address."},
				},
			}, nil
		},
	}
}

func TestIdentityThenDiagnosis(t *testing.T) {
	m, _ := newModel(t, acmeGateway())

	m = do(t, m, "/identity Acme Plumbing | Plumbing")
	assert.Equal(t, "Acme Plumbing", m.state.Context().Name)

	m = do(t, m, "/diagnose")
	assert.Equal(t, session.ViewDiagnostic, m.state.View())
	assert.Equal(t, "Acme Plumbing", m.diag.Name)

	m, cmd := enter(t, m, "Listing suspended for duplicate content")
	assert.True(t, m.diagnosing)
	assert.Contains(t, m.View(), "Analyzing")

	m = finish(t, m, cmd)
	assert.False(t, m.diagnosing)
	assert.Equal(t, session.ViewPlan, m.state.View())
	assert.Equal(t, 2, m.state.Plan().Len())
	assert.Equal(t, model.CategorySuspension, m.state.Context().DetectedCategory)
	assert.Contains(t, m.vp.View(), "Remove the duplicate")
}

func TestDiagnosisRequiresInput(t *testing.T) {
	gw := acmeGateway()
	m, _ := newModel(t, gw)

	m = do(t, m, "/diagnose")
	m, cmd := enter(t, m, "Suspended")
	assert.Nil(t, cmd)
	assert.True(t, m.isErr)
	assert.Contains(t, m.notice, "business name")
	assert.Zero(t, gw.Calls("diagnose"))
}

func TestDiagnosisFailureKeepsState(t *testing.T) {
	gw := &gatewaytest.Fake{
		DiagnoseFunc: func(context.Context, model.BusinessContext) (*model.Diagnosis, error) {
			return nil, errors.New("boom")
		},
	}
	m, _ := newModel(t, gw)
	m = do(t, m, "/identity Acme | Plumbing")
	m = do(t, m, "/diagnose")
	m = do(t, m, "Suspended")

	assert.Equal(t, session.ViewDiagnostic, m.state.View())
	assert.False(t, m.diagnosing)
	assert.True(t, m.isErr)
	assert.Zero(t, m.state.Plan().Len())
}

func TestResetDropsLateDiagnosis(t *testing.T) {
	m, _ := newModel(t, acmeGateway())
	m = do(t, m, "/identity Acme | Plumbing")
	m = do(t, m, "/diagnose")
	m, cmd := enter(t, m, "Suspended")

	m = do(t, m, "/reset")
	assert.True(t, m.state.ResetPending())
	assert.Contains(t, m.View(), "All progress will be lost")
	m = do(t, m, "/yes")
	assert.Equal(t, session.ViewDashboard, m.state.View())

	m = finish(t, m, cmd)
	assert.Equal(t, session.ViewDashboard, m.state.View())
	assert.Zero(t, m.state.Plan().Len())
	assert.False(t, m.state.Context().HasIdentity())
}

func TestResetModalBlocksNavigation(t *testing.T) {
	m, _ := newModel(t, &gatewaytest.Fake{})
	m = do(t, m, "/studio")
	m = do(t, m, "/reset")

	m = do(t, m, "/plan")
	assert.Equal(t, session.ViewWriter, m.state.View())
	assert.True(t, m.isErr)

	m = do(t, m, "/no")
	assert.False(t, m.state.ResetPending())
	m = do(t, m, "/plan")
	assert.Equal(t, session.ViewPlan, m.state.View())
}

func TestStudioResultsLandOnIssuingTool(t *testing.T) {
	gw := &gatewaytest.Fake{
		ContentFunc: func(_ context.Context, tool model.Tool, _ model.BusinessContext, input string) (string, error) {
			return tool.String() + ": " + input, nil
		},
	}
	m, _ := newModel(t, gw)
	m = do(t, m, "/identity Acme | Plumbing")
	m = do(t, m, "/studio")

	m = do(t, m, "/tool post")
	m = do(t, m, "10% off this week")
	m, postCmd := enter(t, m, "/gen")
	assert.True(t, m.state.Studio().InFlight(model.ToolPost))

	m = do(t, m, "/tool reply")
	m = do(t, m, "Great service!")
	m, replyCmd := enter(t, m, "/gen")

	m = finish(t, m, replyCmd)
	m = finish(t, m, postCmd)

	st := m.state.Studio()
	assert.Equal(t, model.ToolReply, st.Active())
	assert.Equal(t, "post: 10% off this week", st.Entry(model.ToolPost).Output)
	assert.Equal(t, "reply: Great service!", st.Entry(model.ToolReply).Output)
	assert.Len(t, st.Replies(), 1)
	assert.False(t, m.busy())
}

func TestStudioFailureAndCopy(t *testing.T) {
	fail := true
	gw := &gatewaytest.Fake{
		ContentFunc: func(context.Context, model.Tool, model.BusinessContext, string) (string, error) {
			if fail {
				return "", errors.New("timeout")
			}
			return "Trusted local plumbers.", nil
		},
	}
	m, copied := newModel(t, gw)
	m = do(t, m, "/identity Acme | Plumbing")
	m = do(t, m, "/studio")
	m = do(t, m, "Family owned since 1990")

	m = do(t, m, "/gen")
	assert.Equal(t, studio.FailureText, m.state.Studio().Entry(model.ToolDescription).Output)
	assert.False(t, m.state.Studio().InFlight(model.ToolDescription))

	fail = false
	m = do(t, m, "/gen")
	m = do(t, m, "/copy")
	assert.Equal(t, []string{"Trusted local plumbers."}, *copied)
	assert.True(t, m.state.Studio().Copied())

	m = do(t, m, "/clear")
	assert.Equal(t, studio.Entry{}, m.state.Studio().Entry(model.ToolDescription))
	m = do(t, m, "/copy")
	assert.True(t, m.isErr)
	assert.Len(t, *copied, 1)
}

func TestStudioNeedsIdentity(t *testing.T) {
	gw := &gatewaytest.Fake{}
	m, _ := newModel(t, gw)
	m = do(t, m, "/studio")
	m = do(t, m, "some input")
	m, cmd := enter(t, m, "/gen")
	assert.Nil(t, cmd)
	assert.Contains(t, m.notice, "/identity")
	assert.Zero(t, gw.Calls("content"))
}

func TestFocusOnlyInStudio(t *testing.T) {
	m, _ := newModel(t, &gatewaytest.Fake{})
	m = do(t, m, "/focus")
	assert.True(t, m.isErr)
	assert.False(t, m.state.Focus())

	m = do(t, m, "/studio")
	m = do(t, m, "/focus")
	assert.True(t, m.state.Focus())
	assert.NotContains(t, m.View(), "Dashboard")

	m = do(t, m, "/plan")
	assert.False(t, m.state.Focus())
}

func TestWizardAuditGate(t *testing.T) {
	optimized := "Licensed plumbers serving Springfield since 1990."
	gw := &gatewaytest.Fake{
		ValidateFunc: func(_ context.Context, d model.NewProfileData) (*model.ValidationResult, error) {
			assert.Equal(t, "Acme Plumbing", d.BusinessName)
			return &model.ValidationResult{IsValid: true, Issues: []string{}, OptimizedDescription: &optimized}, nil
		},
	}
	m, _ := newModel(t, gw)
	m = do(t, m, "/create")

	m = do(t, m, "/next")
	assert.True(t, m.isErr, "name is required")
	m = do(t, m, "/set name Acme Plumbing")
	m = do(t, m, "/next")
	m = do(t, m, "/set area")
	m = do(t, m, "/next")
	m = do(t, m, "/set description BEST PLUMBER!!!")

	m, cmd := enter(t, m, "/next")
	w := m.state.Wizard()
	assert.Equal(t, wizard.PhaseValidating, w.Phase())
	assert.Equal(t, wizard.StageContact, w.Stage())

	m = finish(t, m, cmd)
	assert.Equal(t, wizard.StageAudit, w.Stage())
	assert.Equal(t, optimized, w.Draft().Description)
	assert.True(t, w.Draft().IsServiceArea)

	m = do(t, m, "/submit")
	assert.True(t, w.Completed())
	assert.Contains(t, m.vp.View(), "Profile ready")
}

func TestWizardAuditFailureStaysOnContact(t *testing.T) {
	gw := &gatewaytest.Fake{
		ValidateFunc: func(context.Context, model.NewProfileData) (*model.ValidationResult, error) {
			return nil, errors.New("unreachable")
		},
	}
	m, _ := newModel(t, gw)
	m = do(t, m, "/create")
	m = do(t, m, "/set name Acme")
	m = do(t, m, "/next")
	m = do(t, m, "/next")
	m = do(t, m, "/next")

	w := m.state.Wizard()
	assert.Equal(t, wizard.StageContact, w.Stage())
	assert.Equal(t, wizard.PhaseFailed, w.Phase())
	assert.True(t, m.isErr)
}

func TestPlanToggleAndGuide(t *testing.T) {
	gw := acmeGateway()
	gw.GuideFunc = func(_ context.Context, title, _ string, _ model.BusinessContext) (*model.StepGuide, error) {
		return &model.StepGuide{Title: title, BigPicture: "Why it matters.", Steps: []string{"Open Maps"}}, nil
	}
	m, _ := newModel(t, gw)
	m = do(t, m, "/identity Acme | Plumbing")
	m = do(t, m, "/diagnose")
	m = do(t, m, "Suspended")

	m = do(t, m, "/toggle 1")
	assert.Equal(t, 50, m.state.Plan().Progress())
	m = do(t, m, "/toggle 9")
	assert.True(t, m.isErr)

	m = do(t, m, "/guide 2")
	require.NotNil(t, m.guide)
	assert.Equal(t, "Submit a reinstatement request", m.guide.Title)

	m = do(t, m, "/guide 2")
	assert.Equal(t, 1, gw.Calls("guide"), "second lookup is cached")
}

func TestAssistantReplies(t *testing.T) {
	gw := &gatewaytest.Fake{
		ChatFunc: func(_ context.Context, history []model.ChatMessage, msg string, bc *model.BusinessContext) (string, error) {
			require.NotNil(t, bc)
			assert.Len(t, history, 1)
			return "", errors.New("down")
		},
	}
	m, _ := newModel(t, gw)
	m = do(t, m, "/identity Acme | Plumbing")
	m = do(t, m, "How long does an appeal take?")

	msgs := m.chat.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, assistant.ErrorReply, msgs[2].Text)
	assert.True(t, m.showChat)
	assert.True(t, strings.Contains(m.vp.View(), "GBP Assistant"))
}

func TestClaimScenario(t *testing.T) {
	m, _ := newModel(t, &gatewaytest.Fake{})
	m = do(t, m, "/claim missing")
	assert.Equal(t, session.ViewClaimGuide, m.state.View())
	require.NotNil(t, m.scenario)
	assert.True(t, m.scenario.CreateProfile)

	m = do(t, m, "/claim nowhere")
	assert.True(t, m.isErr)
}

func TestUnknownCommand(t *testing.T) {
	m, _ := newModel(t, &gatewaytest.Fake{})
	m = do(t, m, "/frobnicate")
	assert.True(t, m.isErr)
	assert.Contains(t, m.notice, "/help")
}

func TestWindowResize(t *testing.T) {
	m, _ := newModel(t, &gatewaytest.Fake{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got := next.(Model)
	assert.Equal(t, 120, got.vp.Width)
	assert.Equal(t, 33, got.vp.Height)

	next, _ = got.Update(tea.WindowSizeMsg{Width: 0, Height: 0})
	assert.Equal(t, 3, next.(Model).vp.Height)
}

func TestStudioCommandsOutsideStudio(t *testing.T) {
	gw := &gatewaytest.Fake{}
	m, copied := newModel(t, gw)
	m = do(t, m, "/identity Acme | Plumbing")

	for _, line := range []string{"/tool post", "/gen", "/clear", "/copy", "/publish", "/edit text", "/replies"} {
		var cmd tea.Cmd
		m, cmd = enter(t, m, line)
		assert.Nil(t, cmd, line)
		assert.True(t, m.isErr, line)
		assert.Contains(t, m.notice, "Content Studio", line)
	}
	assert.Equal(t, session.ViewDashboard, m.state.View())
	assert.Equal(t, model.ToolDescription, m.state.Studio().Active())
	assert.Equal(t, studio.Entry{}, m.state.Studio().Entry(model.ToolDescription))
	assert.Zero(t, gw.Calls("content"))
	assert.Empty(t, *copied)

	m = do(t, m, "/studio")
	m = do(t, m, "/tool post")
	assert.False(t, m.isErr)
	assert.Equal(t, model.ToolPost, m.state.Studio().Active())
}

func TestDiagnosisWithoutSteps(t *testing.T) {
	gw := &gatewaytest.Fake{
		DiagnoseFunc: func(context.Context, model.BusinessContext) (*model.Diagnosis, error) {
			return &model.Diagnosis{Category: "OTHER", Analysis: "Nothing to fix.", Steps: []model.DiagnosisStep{}}, nil
		},
	}
	m, _ := newModel(t, gw)
	m = do(t, m, "/identity Acme | Plumbing")
	m = do(t, m, "/diagnose")
	m = do(t, m, "Is my profile fine?")

	assert.False(t, m.isErr)
	assert.Equal(t, session.ViewPlan, m.state.View())
	assert.Zero(t, m.state.Plan().Len())
	assert.Zero(t, m.state.Plan().Progress())
	assert.Contains(t, m.vp.View(), "Nothing to fix.")
	assert.Contains(t, m.vp.View(), "No fix steps were needed.")
}
