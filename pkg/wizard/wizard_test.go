package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/gateway/gatewaytest"
	"github.com/helmcode/gbp-pulse/pkg/model"
)

func auditor(result *model.ValidationResult, err error) *gatewaytest.Fake {
	return &gatewaytest.Fake{
		ValidateFunc: func(context.Context, model.NewProfileData) (*model.ValidationResult, error) {
			return result, err
		},
	}
}

func strptr(s string) *string { return &s }

// atContact returns a wizard filled in up to the Contact stage.
func atContact(t *testing.T) *Wizard {
	t.Helper()
	w := New(zaptest.NewLogger(t))
	require.NoError(t, w.Edit(func(d *model.NewProfileData) {
		d.BusinessName = "Acme Plumbing"
		d.Category = "Plumber"
		d.Description = "We fix pipes."
	}))
	require.NoError(t, w.Next())
	require.NoError(t, w.Edit(func(d *model.NewProfileData) {
		d.IsServiceArea = true
		d.Address = "Phoenix, AZ"
	}))
	require.NoError(t, w.Next())
	require.NoError(t, w.Edit(func(d *model.NewProfileData) {
		d.Phone = "(555) 123-4567"
		d.Website = "https://acme.example"
	}))
	require.Equal(t, StageContact, w.Stage())
	return w
}

func TestInfoRequiresName(t *testing.T) {
	w := New(nil)
	assert.False(t, w.CanAdvance())
	assert.ErrorIs(t, w.Next(), ErrNameRequired)

	require.NoError(t, w.Edit(func(d *model.NewProfileData) { d.BusinessName = "   " }))
	assert.False(t, w.CanAdvance())

	require.NoError(t, w.Edit(func(d *model.NewProfileData) { d.BusinessName = "Acme" }))
	assert.True(t, w.CanAdvance())
	require.NoError(t, w.Next())
	assert.Equal(t, StageLocation, w.Stage())
}

func TestGateFailureKeepsStage(t *testing.T) {
	w := atContact(t)
	gw := auditor(nil, apperr.Gateway("audit request failed", errors.New("503")))

	err := w.Advance(context.Background(), gw)
	assert.Error(t, err)
	assert.Equal(t, StageContact, w.Stage())
	assert.Equal(t, PhaseFailed, w.Phase())
	assert.Nil(t, w.Result())
	assert.True(t, w.CanAdvance(), "the user may retry")
}

func TestReauditFailureDropsPreviousResult(t *testing.T) {
	ctx := context.Background()
	w := atContact(t)
	require.NoError(t, w.Advance(ctx, auditor(&model.ValidationResult{IsValid: true, Issues: []string{}}, nil)))
	require.NotNil(t, w.Result())
	require.NoError(t, w.Back())

	_, err := w.BeginAudit()
	require.NoError(t, err)
	assert.Nil(t, w.Result(), "pending audit shows no verdict")
}

func TestReauditAfterBackFails(t *testing.T) {
	ctx := context.Background()
	w := atContact(t)
	require.NoError(t, w.Advance(ctx, auditor(&model.ValidationResult{IsValid: true, Issues: []string{}}, nil)))
	require.NoError(t, w.Back())

	err := w.Advance(ctx, auditor(nil, errors.New("503")))
	assert.Error(t, err)
	assert.Nil(t, w.Result())
	assert.Equal(t, StageContact, w.Stage())
	assert.Equal(t, PhaseFailed, w.Phase())
}

func TestGateNilResultFails(t *testing.T) {
	w := atContact(t)
	err := w.Advance(context.Background(), auditor(nil, nil))
	assert.True(t, apperr.Is(err, apperr.KindMalformed))
	assert.Equal(t, StageContact, w.Stage())
}

func TestGatePassKeepsDescription(t *testing.T) {
	w := atContact(t)
	res := &model.ValidationResult{IsValid: true, Issues: []string{}}

	require.NoError(t, w.Advance(context.Background(), auditor(res, nil)))
	assert.Equal(t, StageAudit, w.Stage())
	assert.Equal(t, "We fix pipes.", w.Draft().Description)
	assert.Same(t, res, w.Result())
}

func TestGateOptimizedDescriptionOverwrites(t *testing.T) {
	w := atContact(t)
	res := &model.ValidationResult{
		IsValid:              false,
		Issues:               []string{"Description too short"},
		OptimizedDescription: strptr("Family-owned Phoenix plumbers since 1990."),
	}

	require.NoError(t, w.Advance(context.Background(), auditor(res, nil)))
	assert.Equal(t, StageAudit, w.Stage())
	assert.Equal(t, "Family-owned Phoenix plumbers since 1990.", w.Draft().Description)
}

func TestValidatingBlocksActions(t *testing.T) {
	w := atContact(t)
	req, err := w.BeginAudit()
	require.NoError(t, err)
	assert.Equal(t, "Acme Plumbing", req.Draft.BusinessName)

	assert.False(t, w.CanAdvance())
	assert.ErrorIs(t, w.Back(), ErrBusy)
	assert.ErrorIs(t, w.Edit(func(*model.NewProfileData) {}), ErrBusy)
	_, err = w.BeginAudit()
	assert.ErrorIs(t, err, ErrBusy)

	assert.False(t, w.FinishAudit(req.Token+1, &model.ValidationResult{IsValid: true}, nil))
	assert.Equal(t, PhaseValidating, w.Phase())
	assert.True(t, w.FinishAudit(req.Token, &model.ValidationResult{IsValid: true}, nil))
	assert.Equal(t, StageAudit, w.Stage())
	assert.False(t, w.FinishAudit(req.Token, &model.ValidationResult{IsValid: true}, nil))
}

func TestNextIsGatedAtContact(t *testing.T) {
	w := atContact(t)
	assert.ErrorIs(t, w.Next(), ErrGated)
	assert.Equal(t, StageContact, w.Stage())
}

func TestBackNeverRunsGate(t *testing.T) {
	w := atContact(t)
	gw := auditor(&model.ValidationResult{IsValid: true}, nil)
	require.NoError(t, w.Advance(context.Background(), gw))
	require.Equal(t, 1, gw.Calls("validate"))

	require.NoError(t, w.Back())
	assert.Equal(t, StageContact, w.Stage())
	require.NoError(t, w.Back())
	require.NoError(t, w.Back())
	assert.Equal(t, StageInfo, w.Stage())
	assert.ErrorIs(t, w.Back(), ErrNotAtStage)

	assert.Equal(t, 1, gw.Calls("validate"))
}

func TestSubmitCompletes(t *testing.T) {
	ctx := context.Background()
	w := atContact(t)
	require.NoError(t, w.Advance(ctx, auditor(&model.ValidationResult{IsValid: true}, nil)))

	require.NoError(t, w.Submit(ctx, SimulatedSubmitter{Delay: time.Millisecond}))
	assert.True(t, w.Completed())
	assert.Equal(t, StageAudit, w.Stage())

	assert.ErrorIs(t, w.Back(), ErrCompleted)
	assert.ErrorIs(t, w.Submit(ctx, SimulatedSubmitter{}), ErrCompleted)
	assert.False(t, w.CanAdvance())
	assert.True(t, w.Completed())
}

func TestSubmitOnlyAtAudit(t *testing.T) {
	w := atContact(t)
	assert.ErrorIs(t, w.Submit(context.Background(), SimulatedSubmitter{}), ErrNotAtStage)
}

func TestSubmitFailureAllowsRetry(t *testing.T) {
	ctx := context.Background()
	w := atContact(t)
	require.NoError(t, w.Advance(ctx, auditor(&model.ValidationResult{IsValid: true}, nil)))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, w.Submit(cancelled, SimulatedSubmitter{Delay: time.Hour}), context.Canceled)
	assert.Equal(t, PhaseFailed, w.Phase())

	require.NoError(t, w.Submit(ctx, SimulatedSubmitter{}))
	assert.True(t, w.Completed())
}

func TestSummary(t *testing.T) {
	w := atContact(t)
	assert.Equal(t, []Field{
		{Label: "Business Name", Value: "Acme Plumbing"},
		{Label: "Category", Value: "Plumber"},
		{Label: "Description", Value: "We fix pipes."},
		{Label: "Phone", Value: "(555) 123-4567"},
		{Label: "Website", Value: "https://acme.example"},
	}, w.Summary())
}
