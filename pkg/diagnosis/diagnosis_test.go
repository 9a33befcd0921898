package diagnosis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/gateway/gatewaytest"
	"github.com/helmcode/gbp-pulse/pkg/model"
)

var acme = Input{
	Name:             "Acme Plumbing",
	Industry:         "Plumbing",
	IssueDescription: "Listing suspended for duplicate content",
}

func scripted(d *model.Diagnosis, err error) *gatewaytest.Fake {
	return &gatewaytest.Fake{
		DiagnoseFunc: func(context.Context, model.BusinessContext) (*model.Diagnosis, error) {
			return d, err
		},
	}
}

func TestRunAcmePlumbing(t *testing.T) {
	gw := scripted(&model.Diagnosis{
		Category: "SUSPENSION",
		Analysis: "Two listings share one address.",
		Steps:    []model.DiagnosisStep{{Title: "Appeal", Description: "File the reinstatement form"}},
	}, nil)
	p := New(gw, zaptest.NewLogger(t))

	res, err := p.Run(context.Background(), acme)
	require.NoError(t, err)

	assert.Equal(t, model.CategorySuspension, res.Context.DetectedCategory)
	assert.Equal(t, "Two listings share one address.", res.Context.Analysis)
	assert.Equal(t, "Acme Plumbing", res.Context.Name)
	assert.Equal(t, acme.IssueDescription, res.Context.IssueDescription)
	require.Len(t, res.Plan, 1)
	assert.NotEmpty(t, res.Plan[0].ID)
	assert.Equal(t, model.StatusPending, res.Plan[0].Status)
	assert.Equal(t, "Appeal", res.Plan[0].Title)
}

func TestRunAssignsFreshIDs(t *testing.T) {
	steps := []model.DiagnosisStep{{Title: "a"}, {Title: "b"}, {Title: "c"}}
	gw := scripted(&model.Diagnosis{Category: "RANKING", Steps: steps}, nil)
	p := New(gw, nil)

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		res, err := p.Run(context.Background(), acme)
		require.NoError(t, err)
		for _, s := range res.Plan {
			assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
			seen[s.ID] = true
		}
		assert.Equal(t, []string{"a", "b", "c"}, []string{res.Plan[0].Title, res.Plan[1].Title, res.Plan[2].Title})
	}
}

func TestRunUnknownCategory(t *testing.T) {
	gw := scripted(&model.Diagnosis{Category: "billing", Steps: []model.DiagnosisStep{{Title: "x"}}}, nil)
	res, err := New(gw, nil).Run(context.Background(), acme)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryOther, res.Context.DetectedCategory)
}

func TestRunWithoutSteps(t *testing.T) {
	gw := scripted(&model.Diagnosis{Category: "VERIFICATION", Analysis: "Already verified.", Steps: []model.DiagnosisStep{}}, nil)
	res, err := New(gw, zaptest.NewLogger(t)).Run(context.Background(), acme)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryVerification, res.Context.DetectedCategory)
	assert.Equal(t, "Already verified.", res.Context.Analysis)
	assert.NotNil(t, res.Plan)
	assert.Empty(t, res.Plan)
}

func TestRunRequiresInput(t *testing.T) {
	gw := scripted(nil, nil)
	p := New(gw, nil)

	res, err := p.Run(context.Background(), Input{Name: "Acme", Industry: "  "})
	assert.Nil(t, res)
	assert.True(t, apperr.Is(err, apperr.KindInput))
	assert.Equal(t, "Please provide the industry, issue description.", apperr.UserMessage(err))
	assert.Zero(t, gw.Calls("diagnose"))
}

func TestRunGatewayFailure(t *testing.T) {
	for name, gw := range map[string]*gatewaytest.Fake{
		"error":     scripted(nil, apperr.Gateway("diagnose request failed", errors.New("503"))),
		"malformed": scripted(nil, apperr.Malformed("bad", nil)),
		"nil":       scripted(nil, nil),
	} {
		t.Run(name, func(t *testing.T) {
			res, err := New(gw, zaptest.NewLogger(t)).Run(context.Background(), acme)
			assert.Nil(t, res)
			assert.Error(t, err)
		})
	}
}
