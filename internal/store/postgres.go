package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/platewise/nutrition-engine/internal/db"
	"github.com/platewise/nutrition-engine/internal/model"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore. Narrowed so
// tests can substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool (or mock) without dialing.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS ingredient_cache (
	name        TEXT PRIMARY KEY,
	fdc_id      INTEGER NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	calories    DOUBLE PRECISION NOT NULL,
	protein     DOUBLE PRECISION NOT NULL,
	carbs       DOUBLE PRECISION NOT NULL,
	fat         DOUBLE PRECISION NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ingredient_cache_updated_at ON ingredient_cache(updated_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, name string) (*model.ResolvedIngredient, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT name, fdc_id, description, calories, protein, carbs, fat, updated_at
		 FROM ingredient_cache WHERE name = $1`,
		name,
	)

	var rec model.ResolvedIngredient
	err := row.Scan(&rec.Name, &rec.FDCID, &rec.Description,
		&rec.CaloriesPer100g, &rec.ProteinPer100g, &rec.CarbsPer100g, &rec.FatPer100g,
		&rec.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get %s", name)
	}
	return &rec, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, rec model.ResolvedIngredient) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ingredient_cache (name, fdc_id, description, calories, protein, carbs, fat, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (name) DO UPDATE SET
			fdc_id = EXCLUDED.fdc_id,
			description = EXCLUDED.description,
			calories = EXCLUDED.calories,
			protein = EXCLUDED.protein,
			carbs = EXCLUDED.carbs,
			fat = EXCLUDED.fat,
			updated_at = EXCLUDED.updated_at`,
		rec.Name, rec.FDCID, rec.Description,
		rec.CaloriesPer100g, rec.ProteinPer100g, rec.CarbsPer100g, rec.FatPer100g,
		rec.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: upsert %s", rec.Name)
}

// UpsertBatch bulk-loads records through a temp table, used when seeding
// the cache from an exported dataset.
func (s *PostgresStore) UpsertBatch(ctx context.Context, recs []model.ResolvedIngredient) (int, error) {
	n, err := db.BulkUpsertIngredients(ctx, s.pool, recs)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert batch")
	}
	return int(n), nil
}

func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM ingredient_cache WHERE name = $1`, name)
	return eris.Wrapf(err, "postgres: delete %s", name)
}

func (s *PostgresStore) DeleteAll(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM ingredient_cache`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete all")
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) DeleteNames(ctx context.Context, names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM ingredient_cache WHERE name = ANY($1)`, names)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete names")
	}
	return int(tag.RowsAffected()), nil
}
