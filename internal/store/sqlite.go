package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/platewise/nutrition-engine/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS ingredient_cache (
	name       TEXT PRIMARY KEY,
	fdc_id     INTEGER NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	calories   REAL NOT NULL,
	protein    REAL NOT NULL,
	carbs      REAL NOT NULL,
	fat        REAL NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ingredient_cache_updated_at ON ingredient_cache(updated_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, name string) (*model.ResolvedIngredient, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, fdc_id, description, calories, protein, carbs, fat, updated_at
		 FROM ingredient_cache WHERE name = ?`,
		name,
	)

	var rec model.ResolvedIngredient
	err := row.Scan(&rec.Name, &rec.FDCID, &rec.Description,
		&rec.CaloriesPer100g, &rec.ProteinPer100g, &rec.CarbsPer100g, &rec.FatPer100g,
		&rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get %s", name)
	}
	return &rec, nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, rec model.ResolvedIngredient) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingredient_cache (name, fdc_id, description, calories, protein, carbs, fat, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			fdc_id = excluded.fdc_id,
			description = excluded.description,
			calories = excluded.calories,
			protein = excluded.protein,
			carbs = excluded.carbs,
			fat = excluded.fat,
			updated_at = excluded.updated_at`,
		rec.Name, rec.FDCID, rec.Description,
		rec.CaloriesPer100g, rec.ProteinPer100g, rec.CarbsPer100g, rec.FatPer100g,
		rec.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: upsert %s", rec.Name)
}

// UpsertBatch writes records one statement at a time inside a single
// transaction; SQLite has no COPY equivalent worth the complexity.
func (s *SQLiteStore) UpsertBatch(ctx context.Context, recs []model.ResolvedIngredient) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert batch: begin tx")
	}
	defer tx.Rollback()

	for _, rec := range recs {
		if rec.UpdatedAt.IsZero() {
			rec.UpdatedAt = time.Now().UTC()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ingredient_cache (name, fdc_id, description, calories, protein, carbs, fat, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET
				fdc_id = excluded.fdc_id,
				description = excluded.description,
				calories = excluded.calories,
				protein = excluded.protein,
				carbs = excluded.carbs,
				fat = excluded.fat,
				updated_at = excluded.updated_at`,
			rec.Name, rec.FDCID, rec.Description,
			rec.CaloriesPer100g, rec.ProteinPer100g, rec.CarbsPer100g, rec.FatPer100g,
			rec.UpdatedAt,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert batch: %s", rec.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert batch: commit tx")
	}
	return len(recs), nil
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM ingredient_cache WHERE name = ?`, name)
	return eris.Wrapf(err, "sqlite: delete %s", name)
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ingredient_cache`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete all")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

func (s *SQLiteStore) DeleteNames(ctx context.Context, names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(names))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM ingredient_cache WHERE name IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete names")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}
