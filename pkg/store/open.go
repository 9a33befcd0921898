package store

import (
	"go.uber.org/zap"

	"github.com/helmcode/gbp-pulse/pkg/config"
)

// Open returns the backend selected by cfg. When the database cannot be
// opened the session continues on a Memory backend and degraded is true.
func Open(cfg config.StoreConfig, logger *zap.Logger) (backend Backend, degraded bool) {
	if cfg.Driver == config.DriverMemory {
		return NewMemory(), false
	}
	db, err := OpenSQLite(cfg.Path)
	if err != nil {
		logger.Warn("state database unavailable, keeping session in memory",
			zap.String("path", cfg.Path), zap.Error(err))
		return NewMemory(), true
	}
	return db, false
}
