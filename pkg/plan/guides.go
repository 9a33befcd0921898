package plan

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/helmcode/gbp-pulse/pkg/gateway"
	"github.com/helmcode/gbp-pulse/pkg/model"
)

const guideTTL = 30 * time.Minute

// Guides looks up deep-dive guides for plan steps. Successful answers are
// cached per business and step.
type Guides struct {
	gw     gateway.Gateway
	cache  *cache.Cache
	logger *zap.Logger
}

func NewGuides(gw gateway.Gateway, logger *zap.Logger) *Guides {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guides{
		gw:     gw,
		cache:  cache.New(guideTTL, 10*time.Minute),
		logger: logger.Named("guides"),
	}
}

func guideKey(bc model.BusinessContext, step model.FixStep) string {
	return bc.Name + "\x00" + step.ID
}

// Guide returns the guide for step. A malformed answer is returned with its
// error and not cached.
func (g *Guides) Guide(ctx context.Context, bc model.BusinessContext, step model.FixStep) (*model.StepGuide, error) {
	key := guideKey(bc, step)
	if v, ok := g.cache.Get(key); ok {
		return v.(*model.StepGuide), nil
	}

	guide, err := g.gw.GenerateGuide(ctx, step.Title, step.Description, bc)
	if err != nil {
		g.logger.Warn("guide lookup failed", zap.String("step", step.ID), zap.Error(err))
		return guide, err
	}
	g.cache.SetDefault(key, guide)
	return guide, nil
}

// Cached reports whether a guide for step is already available.
func (g *Guides) Cached(bc model.BusinessContext, step model.FixStep) bool {
	_, ok := g.cache.Get(guideKey(bc, step))
	return ok
}

// Flush drops every cached guide.
func (g *Guides) Flush() {
	g.cache.Flush()
}
