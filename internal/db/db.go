// Package db provides pgx bulk-load helpers for seeding the ingredient
// cache from exported nutrition datasets.
package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/platewise/nutrition-engine/internal/model"
)

// Beginner is the subset of pgxpool.Pool needed for transactional bulk
// loads. Narrowed so tests can substitute pgxmock.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

const tempTable = "_tmp_ingredient_cache"

var ingredientColumns = []string{
	"name", "fdc_id", "description", "calories", "protein", "carbs", "fat", "updated_at",
}

// BulkUpsertIngredients loads resolved records into ingredient_cache via
// a temp table and INSERT ... ON CONFLICT:
// 1. Creates a temp table mirroring ingredient_cache
// 2. COPY rows into the temp table
// 3. INSERT INTO ingredient_cache SELECT ... ON CONFLICT (name) DO UPDATE
func BulkUpsertIngredients(ctx context.Context, pool Beginner, recs []model.ResolvedIngredient) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(recs))
	for _, rec := range recs {
		updatedAt := rec.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = now
		}
		rows = append(rows, []any{
			rec.Name, rec.FDCID, rec.Description,
			rec.CaloriesPer100g, rec.ProteinPer100g, rec.CarbsPer100g, rec.FatPer100g,
			updatedAt,
		})
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: bulk upsert: begin tx")
	}
	defer tx.Rollback(ctx)

	createSQL := "CREATE TEMP TABLE " + tempTable +
		" (LIKE ingredient_cache INCLUDING DEFAULTS) ON COMMIT DROP"
	if _, err := tx.Exec(ctx, createSQL); err != nil {
		return 0, eris.Wrap(err, "db: bulk upsert: create temp table")
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{tempTable}, ingredientColumns, pgx.CopyFromRows(rows)); err != nil {
		return 0, eris.Wrap(err, "db: bulk upsert: COPY into temp table")
	}

	upsertSQL := `INSERT INTO ingredient_cache (name, fdc_id, description, calories, protein, carbs, fat, updated_at)
		SELECT name, fdc_id, description, calories, protein, carbs, fat, updated_at FROM ` + tempTable + `
		ON CONFLICT (name) DO UPDATE SET
			fdc_id = EXCLUDED.fdc_id,
			description = EXCLUDED.description,
			calories = EXCLUDED.calories,
			protein = EXCLUDED.protein,
			carbs = EXCLUDED.carbs,
			fat = EXCLUDED.fat,
			updated_at = EXCLUDED.updated_at`

	tag, err := tx.Exec(ctx, upsertSQL)
	if err != nil {
		return 0, eris.Wrap(err, "db: bulk upsert: INSERT ON CONFLICT")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: bulk upsert: commit tx")
	}

	return tag.RowsAffected(), nil
}
