// Package wizard drives the four-stage new profile form.
//
// The wizard is an explicit state machine: a stage (Info, Location, Contact,
// Audit) and a phase. The Contact to Audit transition goes through an
// asynchronous compliance audit; the final confirmation goes through a
// separate submission.
package wizard

import (
	"context"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/model"
)

type Stage int

const (
	StageInfo Stage = iota + 1
	StageLocation
	StageContact
	StageAudit
)

var stageNames = map[Stage]string{
	StageInfo:     "Info",
	StageLocation: "Location",
	StageContact:  "Contact",
	StageAudit:    "Audit",
}

func (s Stage) String() string { return stageNames[s] }

type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseValidating Phase = "validating"
	PhaseFailed     Phase = "failed"
	PhaseSubmitting Phase = "submitting"
	PhaseCompleted  Phase = "completed"
)

var (
	ErrNameRequired = apperr.Input("Enter the business name to continue.")
	ErrBusy         = apperr.Input("Please wait for the current check to finish.")
	ErrCompleted    = apperr.Input("This profile has already been prepared.")
	ErrGated        = apperr.Input("This step needs the compliance audit.")
	ErrNotAtStage   = apperr.Input("That action is not available at this step.")
)

// Validator is the compliance audit used by the Contact to Audit gate.
type Validator interface {
	ValidateProfile(ctx context.Context, draft model.NewProfileData) (*model.ValidationResult, error)
}

// Submitter confirms the prepared profile.
type Submitter interface {
	Submit(ctx context.Context, draft model.NewProfileData) error
}

// AuditRequest is an audit captured when the gate was entered.
type AuditRequest struct {
	Draft model.NewProfileData
	Token uint64
}

type Wizard struct {
	mu       sync.Mutex
	stage    Stage
	phase    Phase
	draft    model.NewProfileData
	result   *model.ValidationResult
	err      error
	token    uint64
	validate *validator.Validate
	logger   *zap.Logger
}

func New(logger *zap.Logger) *Wizard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wizard{
		stage:    StageInfo,
		phase:    PhaseEditing,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.Named("wizard"),
	}
}

func (w *Wizard) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

func (w *Wizard) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

func (w *Wizard) Draft() model.NewProfileData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Result is the stored audit, nil before the gate has passed.
func (w *Wizard) Result() *model.ValidationResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// Err is the last gate or submission failure, cleared by the next attempt.
func (w *Wizard) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Wizard) Completed() bool {
	return w.Phase() == PhaseCompleted
}

func (w *Wizard) busy() error {
	switch w.phase {
	case PhaseValidating, PhaseSubmitting:
		return ErrBusy
	case PhaseCompleted:
		return ErrCompleted
	}
	return nil
}

// Edit applies fn to the draft.
func (w *Wizard) Edit(fn func(d *model.NewProfileData)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.busy(); err != nil {
		return err
	}
	fn(&w.draft)
	if w.phase == PhaseFailed {
		w.phase = PhaseEditing
	}
	return nil
}

func (w *Wizard) nameMissing() bool {
	d := w.draft
	d.BusinessName = strings.TrimSpace(d.BusinessName)
	return w.validate.Struct(d) != nil
}

// CanAdvance reports whether the forward action is enabled.
func (w *Wizard) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy() != nil {
		return false
	}
	return !(w.stage == StageInfo && w.nameMissing())
}

// Next advances Info to Location and Location to Contact. Contact and Audit
// return ErrGated: use the audit and the submission instead.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.busy(); err != nil {
		return err
	}
	switch w.stage {
	case StageInfo:
		if w.nameMissing() {
			return ErrNameRequired
		}
		w.stage = StageLocation
	case StageLocation:
		w.stage = StageContact
	default:
		return ErrGated
	}
	w.phase = PhaseEditing
	return nil
}

// BeginAudit enters the gate. The stage does not change until FinishAudit
// accepts a result.
func (w *Wizard) BeginAudit() (AuditRequest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.busy(); err != nil {
		return AuditRequest{}, err
	}
	if w.stage != StageContact {
		return AuditRequest{}, ErrNotAtStage
	}
	w.token++
	w.phase = PhaseValidating
	w.result = nil
	w.err = nil
	return AuditRequest{Draft: w.draft, Token: w.token}, nil
}

// FinishAudit resolves the gate. It reports false for a result that does not
// belong to the pending audit.
func (w *Wizard) FinishAudit(token uint64, result *model.ValidationResult, err error) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseValidating || token != w.token {
		return false
	}
	if err == nil && result == nil {
		err = apperr.Malformed("empty audit result", nil)
	}
	if err != nil {
		w.logger.Warn("profile audit failed", zap.Error(err))
		w.phase = PhaseFailed
		w.err = err
		return true
	}

	w.result = result
	if result.OptimizedDescription != nil {
		w.draft.Description = *result.OptimizedDescription
	}
	w.stage = StageAudit
	w.phase = PhaseEditing
	w.logger.Info("profile audit complete",
		zap.Bool("valid", result.IsValid), zap.Int("issues", len(result.Issues)))
	return true
}

// Advance runs the gate synchronously.
func (w *Wizard) Advance(ctx context.Context, v Validator) error {
	req, err := w.BeginAudit()
	if err != nil {
		return err
	}
	result, err := v.ValidateProfile(ctx, req.Draft)
	w.FinishAudit(req.Token, result, err)
	return w.Err()
}

// Back moves one stage back without running the gate.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.busy(); err != nil {
		return err
	}
	if w.stage == StageInfo {
		return ErrNotAtStage
	}
	w.stage--
	w.phase = PhaseEditing
	w.err = nil
	return nil
}

// BeginSubmit starts the final confirmation at the Audit stage.
func (w *Wizard) BeginSubmit() (model.NewProfileData, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.busy(); err != nil {
		return model.NewProfileData{}, err
	}
	if w.stage != StageAudit {
		return model.NewProfileData{}, ErrNotAtStage
	}
	w.phase = PhaseSubmitting
	w.err = nil
	return w.draft, nil
}

func (w *Wizard) FinishSubmit(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseSubmitting {
		return
	}
	if err != nil {
		w.phase = PhaseFailed
		w.err = err
		return
	}
	w.phase = PhaseCompleted
	w.logger.Info("profile prepared", zap.String("business", w.draft.BusinessName))
}

func (w *Wizard) Submit(ctx context.Context, s Submitter) error {
	draft, err := w.BeginSubmit()
	if err != nil {
		return err
	}
	err = s.Submit(ctx, draft)
	w.FinishSubmit(err)
	return err
}

// Field is one labelled value of the completion summary.
type Field struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Summary lists the values to transfer into Google Business Profile.
func (w *Wizard) Summary() []Field {
	d := w.Draft()
	return []Field{
		{Label: "Business Name", Value: d.BusinessName},
		{Label: "Category", Value: d.Category},
		{Label: "Description", Value: d.Description},
		{Label: "Phone", Value: d.Phone},
		{Label: "Website", Value: d.Website},
	}
}
