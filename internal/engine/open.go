package engine

import (
	"context"

	"github.com/pkg/errors"

	"hibari/internal/config"
)

// Open constructs the engine adapter selected by the configuration.
func Open(ctx context.Context, cfg config.Config) (Engine, error) {
	switch cfg.Engine {
	case "", "duckdb":
		return OpenDuckDB(cfg.Generation.MaxInsertPerTable)
	case "mysql":
		return OpenMySQL(ctx, cfg.DSN, cfg.Database, cfg.Generation.MaxInsertPerTable)
	default:
		return nil, errors.Errorf("unknown engine %q", cfg.Engine)
	}
}
