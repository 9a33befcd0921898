// Package diagnosis turns an issue description into a categorized diagnosis
// and a fresh action plan.
package diagnosis

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/gateway"
	"github.com/helmcode/gbp-pulse/pkg/model"
)

type Input struct {
	Name             string `validate:"required"`
	Industry         string `validate:"required"`
	IssueDescription string `validate:"required"`
}

// Result is everything a completed diagnosis changes. It is applied as a
// whole or not at all.
type Result struct {
	Context model.BusinessContext
	Plan    model.ActionPlan
}

type Pipeline struct {
	gw       gateway.Gateway
	validate *validator.Validate
	newID    func() string
	logger   *zap.Logger
}

func New(gw gateway.Gateway, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		gw:       gw,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		newID:    uuid.NewString,
		logger:   logger.Named("diagnosis"),
	}
}

var fieldLabels = map[string]string{
	"Name":             "business name",
	"Industry":         "industry",
	"IssueDescription": "issue description",
}

// Check validates the trimmed input without calling the gateway.
func (p *Pipeline) Check(in Input) (Input, error) {
	in = Input{
		Name:             strings.TrimSpace(in.Name),
		Industry:         strings.TrimSpace(in.Industry),
		IssueDescription: strings.TrimSpace(in.IssueDescription),
	}
	if err := p.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return in, apperr.Input(err.Error())
		}
		missing := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			missing = append(missing, fieldLabels[fe.Field()])
		}
		return in, apperr.Input("Please provide the " + strings.Join(missing, ", ") + ".")
	}
	return in, nil
}

// Run diagnoses in. On any failure it returns a nil Result.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	in, err := p.Check(in)
	if err != nil {
		return nil, err
	}

	bc := model.BusinessContext{
		Name:             in.Name,
		Industry:         in.Industry,
		IssueDescription: in.IssueDescription,
	}
	d, err := p.gw.Diagnose(ctx, bc)
	if err != nil {
		p.logger.Warn("diagnosis failed", zap.String("business", in.Name), zap.Error(err))
		return nil, err
	}
	if d == nil {
		return nil, apperr.Malformed("empty diagnosis", nil)
	}

	return p.assemble(bc, d), nil
}

func (p *Pipeline) assemble(bc model.BusinessContext, d *model.Diagnosis) *Result {
	bc.DetectedCategory = model.ParseCategory(d.Category)
	bc.Analysis = strings.TrimSpace(d.Analysis)

	plan := make(model.ActionPlan, 0, len(d.Steps))
	for _, s := range d.Steps {
		plan = append(plan, model.FixStep{
			ID:          p.newID(),
			Title:       s.Title,
			Description: s.Description,
			Status:      model.StatusPending,
		})
	}
	p.logger.Info("diagnosis complete",
		zap.String("business", bc.Name),
		zap.String("category", string(bc.DetectedCategory)),
		zap.Int("steps", len(plan)))
	return &Result{Context: bc, Plan: plan}
}
