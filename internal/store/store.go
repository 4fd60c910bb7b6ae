// Package store persists resolved per-100g nutrition records keyed by
// normalized ingredient name.
package store

import (
	"context"

	"github.com/platewise/nutrition-engine/internal/model"
)

// Store defines the ingredient cache interface. Get returns (nil, nil)
// on a cache miss. Upserts are idempotent and keyed by normalized name,
// so concurrent writers racing on the same ingredient are safe.
type Store interface {
	Get(ctx context.Context, name string) (*model.ResolvedIngredient, error)
	Upsert(ctx context.Context, rec model.ResolvedIngredient) error
	UpsertBatch(ctx context.Context, recs []model.ResolvedIngredient) (int, error)
	Delete(ctx context.Context, name string) error

	// Administrative operations, used after fixing extraction bugs.
	DeleteAll(ctx context.Context) (int, error)
	DeleteNames(ctx context.Context, names []string) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
