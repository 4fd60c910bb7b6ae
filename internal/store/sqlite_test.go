package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/nutrition-engine/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func chickenRec() model.ResolvedIngredient {
	return model.ResolvedIngredient{
		Name:            "chicken breast",
		FDCID:           171077,
		Description:     "Chicken, broilers or fryers, breast, meat only, raw",
		CaloriesPer100g: 120,
		ProteinPer100g:  22.5,
		CarbsPer100g:    0,
		FatPer100g:      2.6,
		UpdatedAt:       time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLite_UpsertAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := chickenRec()
	require.NoError(t, st.Upsert(ctx, rec))

	got, err := st.Get(ctx, "chicken breast")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.FDCID, got.FDCID)
	assert.InDelta(t, 22.5, got.ProteinPer100g, 0.001)
}

func TestSQLite_GetMissing(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.Get(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_UpsertOverwrites(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := chickenRec()
	require.NoError(t, st.Upsert(ctx, rec))

	rec.CaloriesPer100g = 165
	require.NoError(t, st.Upsert(ctx, rec))

	got, err := st.Get(ctx, "chicken breast")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 165.0, got.CaloriesPer100g, 0.001)
}

func TestSQLite_UpsertBatch(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := chickenRec()
	recs := []model.ResolvedIngredient{rec}
	rec.Name = "brown rice"
	rec.CaloriesPer100g = 123
	recs = append(recs, rec)

	n, err := st.UpsertBatch(ctx, recs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := st.Get(ctx, "brown rice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 123.0, got.CaloriesPer100g, 0.001)

	n, err = st.UpsertBatch(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSQLite_Delete(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.Upsert(ctx, chickenRec()))
	require.NoError(t, st.Delete(ctx, "chicken breast"))

	got, err := st.Get(ctx, "chicken breast")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting a missing key is not an error.
	require.NoError(t, st.Delete(ctx, "chicken breast"))
}

func TestSQLite_DeleteAll(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := chickenRec()
	require.NoError(t, st.Upsert(ctx, rec))
	rec.Name = "brown rice"
	require.NoError(t, st.Upsert(ctx, rec))

	n, err := st.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := st.Get(ctx, "brown rice")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_DeleteNames(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := chickenRec()
	for _, name := range []string{"chicken breast", "brown rice", "olive oil"} {
		rec.Name = name
		require.NoError(t, st.Upsert(ctx, rec))
	}

	n, err := st.DeleteNames(ctx, []string{"brown rice", "olive oil", "unknown"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := st.Get(ctx, "chicken breast")
	require.NoError(t, err)
	assert.NotNil(t, got)

	n, err = st.DeleteNames(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
