package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/platewise/nutrition-engine/internal/adjust"
	"github.com/platewise/nutrition-engine/internal/convert"
	"github.com/platewise/nutrition-engine/internal/engine"
	"github.com/platewise/nutrition-engine/internal/resolver"
	"github.com/platewise/nutrition-engine/internal/store"
	"github.com/platewise/nutrition-engine/pkg/fdc"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "ingredient-cache.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "memory":
		return store.NewMemory(), nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initEngine(ctx context.Context) (*engine.Engine, store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, nil, eris.Wrap(err, "migrate store")
	}

	client := fdc.NewClient(cfg.FDC.Key,
		fdc.WithBaseURL(cfg.FDC.BaseURL),
		fdc.WithPageSize(cfg.FDC.MaxCandidates),
		fdc.WithRateLimit(cfg.FDC.RequestsPerSec),
	)

	res := resolver.New(st, client).WithFreshness(cfg.Engine.CacheFreshness)

	adj := adjust.New()
	if cfg.Engine.TolerancePct > 0 {
		adj.Tolerance = cfg.Engine.TolerancePct
	}
	if cfg.Engine.MaxIterations > 0 {
		adj.MaxIterations = cfg.Engine.MaxIterations
	}

	eng := engine.New(res, convert.NewGramConverter(),
		engine.WithConcurrency(cfg.Engine.ResolveConcurrency),
		engine.WithAdjuster(adj),
	)
	return eng, st, nil
}
