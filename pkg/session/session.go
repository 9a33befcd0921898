// Package session is the view state machine of a gbp-pulse session.
//
// State is the single handle through which identity, diagnosis results, the
// action plan and reset flow. Descendant state that must not survive a reset
// (studio drafts, wizard progress) is keyed on the session generation.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/diagnosis"
	"github.com/helmcode/gbp-pulse/pkg/model"
	"github.com/helmcode/gbp-pulse/pkg/plan"
	"github.com/helmcode/gbp-pulse/pkg/studio"
	"github.com/helmcode/gbp-pulse/pkg/wizard"
)

var (
	ErrModalPending   = errors.New("reset confirmation pending")
	ErrNoResetPending = errors.New("no reset to confirm")
	ErrUnknownView    = errors.New("unknown view")
	ErrFocusOutside   = apperr.Input("Focus mode is only available in the Content Studio.")
	ErrStale          = errors.New("result belongs to a previous session")
	ErrIdentityFields = apperr.Input("Business name and industry are both required.")
)

// Store is the persistence the state machine writes through.
type Store interface {
	Load(ctx context.Context) model.BusinessContext
	LoadPlan(ctx context.Context) model.ActionPlan
	Save(ctx context.Context, bc model.BusinessContext) error
	SavePlan(ctx context.Context, p model.ActionPlan) error
	Clear(ctx context.Context) error
}

type State struct {
	mu           sync.Mutex
	store        Store
	view         View
	focus        bool
	resetPending bool
	deferred     View
	generation   uint64
	context      model.BusinessContext
	plan         *plan.Tracker
	studio       *studio.Session
	wizard       *wizard.Wizard
	logger       *zap.Logger
}

// New returns a state on the dashboard with an empty context. Call Init to
// load persisted records.
func New(store Store, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{
		store:  store,
		view:   ViewDashboard,
		plan:   plan.NewTracker(store, nil, logger),
		logger: logger.Named("session"),
	}
}

// Init loads the persisted context and plan. Missing or corrupt records
// yield empty defaults.
func (s *State) Init(ctx context.Context) {
	bc := s.store.Load(ctx)
	p := s.store.LoadPlan(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = bc
	s.plan.Restore(p)
	s.logger.Debug("session loaded",
		zap.Bool("identity", bc.HasIdentity()), zap.Int("steps", len(p)))
}

func (s *State) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *State) Focus() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}

func (s *State) ResetPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetPending
}

func (s *State) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *State) Context() model.BusinessContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context
}

func (s *State) Plan() *plan.Tracker { return s.plan }

// HasActiveSession reports whether there is a plan to continue.
func (s *State) HasActiveSession() bool {
	return s.Context().HasIdentity() && s.plan.Len() > 0
}

// Studio returns the content studio of the current generation.
func (s *State) Studio() *studio.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.studio == nil || s.studio.Generation() != s.generation {
		s.studio = studio.New(s.generation, s.logger)
	}
	return s.studio
}

// Wizard returns the profile wizard. A completed wizard is replaced by a
// fresh one when the wizard view is entered again.
func (s *State) Wizard() *wizard.Wizard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wizard == nil {
		s.wizard = wizard.New(s.logger)
	}
	return s.wizard
}

// setView is the only place the view changes.
func (s *State) setView(v View) {
	if v == ViewCreateWizard && s.view != ViewCreateWizard && s.wizard != nil && s.wizard.Completed() {
		s.wizard = nil
	}
	s.view = v
	if v != ViewWriter {
		s.focus = false
	}
}

// Navigate moves to any view. It is rejected while a reset confirmation is
// pending.
func (s *State) Navigate(v View) error {
	if !v.Valid() {
		return ErrUnknownView
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resetPending {
		return ErrModalPending
	}
	s.setView(v)
	return nil
}

// SetFocus toggles the immersive studio mode.
func (s *State) SetFocus(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resetPending {
		return ErrModalPending
	}
	if on && s.view != ViewWriter {
		return ErrFocusOutside
	}
	s.focus = on
	return nil
}

// SetIdentity sets the business name and industry. Diagnosis fields are kept.
func (s *State) SetIdentity(ctx context.Context, name, industry string) error {
	name, industry = strings.TrimSpace(name), strings.TrimSpace(industry)
	if name == "" || industry == "" {
		return ErrIdentityFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.context
	next.Name = name
	next.Industry = industry
	s.context = next
	s.save(ctx, next)
	return nil
}

// CompleteDiagnosis applies a diagnosis issued during generation and moves
// to the plan. A result from an earlier generation is dropped. While a reset
// confirmation is pending the move is deferred until the modal is cancelled.
func (s *State) CompleteDiagnosis(ctx context.Context, generation uint64, res *diagnosis.Result) error {
	if res == nil {
		return apperr.Malformed("empty diagnosis", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return ErrStale
	}

	s.context = res.Context
	s.save(ctx, res.Context)
	s.plan.Replace(ctx, res.Plan)

	if s.resetPending {
		s.deferred = ViewPlan
		return nil
	}
	s.setView(ViewPlan)
	return nil
}

func (s *State) save(ctx context.Context, bc model.BusinessContext) {
	if err := s.store.Save(ctx, bc); err != nil {
		s.logger.Warn("context not saved", zap.Error(err))
	}
}

// RequestReset opens the reset confirmation.
func (s *State) RequestReset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetPending = true
}

// CancelReset closes the confirmation without changing anything else.
func (s *State) CancelReset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetPending = false
	if s.deferred != "" {
		s.setView(s.deferred)
		s.deferred = ""
	}
}

// ConfirmReset resets the session if a confirmation is pending.
func (s *State) ConfirmReset(ctx context.Context) error {
	s.mu.Lock()
	pending := s.resetPending
	s.mu.Unlock()
	if !pending {
		return ErrNoResetPending
	}
	return s.Reset(ctx)
}

// Reset clears the store and the plan, empties the context, turns focus off,
// returns to the dashboard and starts a new generation. In-memory state is
// reset even when the store cannot be cleared; that error is returned.
func (s *State) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.Clear(ctx)
	if err != nil {
		s.logger.Warn("store not cleared", zap.Error(err))
	}
	s.plan.Restore(nil)
	s.context = model.BusinessContext{}
	s.focus = false
	s.resetPending = false
	s.deferred = ""
	s.generation++
	s.studio = nil
	s.wizard = nil
	s.view = ViewDashboard

	s.logger.Info("session reset", zap.Uint64("generation", s.generation))
	return err
}
