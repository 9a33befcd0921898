package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/model"
	"github.com/helmcode/gbp-pulse/pkg/parser"
)

// Record keys. They match the names used by earlier releases so existing
// state keeps loading.
const (
	KeyContext = "gbp_context"
	KeyPlan    = "gbp_plan"
)

// ErrCorrupt marks a stored value that could not be decoded.
var ErrCorrupt = errors.New("store: corrupt record")

// ContextStore persists the business context and the action plan.
type ContextStore struct {
	backend Backend
	logger  *zap.Logger
}

func NewContextStore(backend Backend, logger *zap.Logger) *ContextStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContextStore{backend: backend, logger: logger.Named("store")}
}

// ReadContext returns the stored context. A missing record yields the empty
// context and no error; an undecodable or invalid one yields ErrCorrupt.
// An unknown detected category reads as OTHER.
func (s *ContextStore) ReadContext(ctx context.Context) (model.BusinessContext, error) {
	raw, err := s.read(ctx, KeyContext)
	if err != nil || raw == nil {
		return model.BusinessContext{}, err
	}
	bc, err := parser.ParseStoredContext(raw)
	if err != nil {
		return model.BusinessContext{}, corrupt(KeyContext, err)
	}
	return bc, nil
}

// ReadPlan is ReadContext for the action plan. Duplicate step ids and
// unknown statuses make the record corrupt.
func (s *ContextStore) ReadPlan(ctx context.Context) (model.ActionPlan, error) {
	raw, err := s.read(ctx, KeyPlan)
	if err != nil || raw == nil {
		return model.ActionPlan{}, err
	}
	plan, err := parser.ParseStoredPlan(raw)
	if err != nil {
		return model.ActionPlan{}, corrupt(KeyPlan, err)
	}
	return plan, nil
}

// Load never fails: any read or decode problem yields the empty context.
func (s *ContextStore) Load(ctx context.Context) model.BusinessContext {
	bc, err := s.ReadContext(ctx)
	if err != nil {
		s.logger.Warn("falling back to empty business context", zap.Error(err))
		return model.BusinessContext{}
	}
	return bc
}

// LoadPlan never fails: any read or decode problem yields the empty plan.
func (s *ContextStore) LoadPlan(ctx context.Context) model.ActionPlan {
	plan, err := s.ReadPlan(ctx)
	if err != nil {
		s.logger.Warn("falling back to empty action plan", zap.Error(err))
		return model.ActionPlan{}
	}
	return plan
}

func (s *ContextStore) Save(ctx context.Context, bc model.BusinessContext) error {
	return s.write(ctx, KeyContext, bc)
}

func (s *ContextStore) SavePlan(ctx context.Context, plan model.ActionPlan) error {
	if plan == nil {
		plan = model.ActionPlan{}
	}
	return s.write(ctx, KeyPlan, plan)
}

// Clear removes both records in one backend operation.
func (s *ContextStore) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, KeyContext, KeyPlan); err != nil {
		return apperr.Storage("clear session", err)
	}
	return nil
}

func (s *ContextStore) Close() error {
	return s.backend.Close()
}

// read returns nil bytes and no error for a missing key.
func (s *ContextStore) read(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("read "+key, err)
	}
	if raw == nil {
		raw = []byte{}
	}
	return raw, nil
}

func corrupt(key string, err error) error {
	return fmt.Errorf("%w %s: %v", ErrCorrupt, key, err)
}

func (s *ContextStore) write(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return apperr.Storage("encode "+key, err)
	}
	if err := s.backend.Put(ctx, key, raw); err != nil {
		return apperr.Storage("write "+key, err)
	}
	return nil
}
