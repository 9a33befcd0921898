package wizard

import (
	"context"
	"time"

	"github.com/helmcode/gbp-pulse/pkg/model"
)

// SimulatedSubmitter stands in for a real submission: it waits Delay and
// succeeds.
type SimulatedSubmitter struct {
	Delay time.Duration
}

func (s SimulatedSubmitter) Submit(ctx context.Context, _ model.NewProfileData) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
