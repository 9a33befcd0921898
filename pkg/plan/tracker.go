// Package plan tracks the remediation steps of the active diagnosis.
package plan

import (
	"context"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/helmcode/gbp-pulse/pkg/model"
)

// Saver persists the whole plan on every mutation.
type Saver interface {
	SavePlan(ctx context.Context, plan model.ActionPlan) error
}

// Tracker owns the step list and its completion state. Steps keep the order
// they were installed in.
type Tracker struct {
	mu     sync.Mutex
	steps  model.ActionPlan
	saver  Saver
	logger *zap.Logger
}

func NewTracker(saver Saver, initial model.ActionPlan, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{steps: initial.Clone(), saver: saver, logger: logger.Named("plan")}
}

// Toggle flips the step with the given id. It reports false for an unknown id.
func (t *Tracker) Toggle(ctx context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.steps {
		if t.steps[i].ID != id {
			continue
		}
		if t.steps[i].Completed() {
			t.steps[i].Status = model.StatusPending
		} else {
			t.steps[i].Status = model.StatusCompleted
		}
		t.persist(ctx)
		return true
	}
	return false
}

// Progress is the rounded completion percentage, 0 for an empty plan.
func (t *Tracker) Progress() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.steps) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(t.completed()) / float64(len(t.steps))))
}

func (t *Tracker) Completed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed()
}

func (t *Tracker) completed() int {
	n := 0
	for _, s := range t.steps {
		if s.Completed() {
			n++
		}
	}
	return n
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.steps)
}

// Steps returns a copy of the plan.
func (t *Tracker) Steps() model.ActionPlan {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.steps.Clone()
}

func (t *Tracker) Step(id string) (model.FixStep, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range t.steps {
		if s.ID == id {
			return s, true
		}
	}
	return model.FixStep{}, false
}

// Replace installs a new plan and persists it.
func (t *Tracker) Replace(ctx context.Context, plan model.ActionPlan) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = plan.Clone()
	t.persist(ctx)
}

// Clear empties the plan and persists the empty plan.
func (t *Tracker) Clear(ctx context.Context) {
	t.Replace(ctx, nil)
}

// Restore sets the in-memory plan without writing it.
func (t *Tracker) Restore(plan model.ActionPlan) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = plan.Clone()
}

// persist writes the plan; failures leave the in-memory plan authoritative.
func (t *Tracker) persist(ctx context.Context) {
	if t.saver == nil {
		return
	}
	if err := t.saver.SavePlan(ctx, t.steps.Clone()); err != nil {
		t.logger.Warn("plan not saved", zap.Error(err))
	}
}
