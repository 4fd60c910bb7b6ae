// Package resolver resolves free-text ingredient names to verified
// per-100g nutrition records, backed by a persistent cache and a
// confidence-scored best-match search against the food database.
package resolver

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/platewise/nutrition-engine/internal/model"
	"github.com/platewise/nutrition-engine/internal/store"
	"github.com/platewise/nutrition-engine/pkg/fdc"
)

// DefaultFreshness is how long a cached record stays valid before it is
// re-fetched.
const DefaultFreshness = 90 * 24 * time.Hour

// Resolver orchestrates cache lookup, staleness and corruption checks,
// best-match selection and cache population.
type Resolver struct {
	store     store.Store
	client    fdc.Client
	freshness time.Duration
	now       func() time.Time // injectable for testing
}

// New creates a Resolver with the default freshness window.
func New(st store.Store, client fdc.Client) *Resolver {
	return &Resolver{
		store:     st,
		client:    client,
		freshness: DefaultFreshness,
		now:       time.Now,
	}
}

// WithFreshness overrides the cache freshness window.
func (r *Resolver) WithFreshness(d time.Duration) *Resolver {
	if d > 0 {
		r.freshness = d
	}
	return r
}

// WithNow sets a fixed clock for testing.
func (r *Resolver) WithNow(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve returns the per-100g nutrition record for an ingredient name,
// or (nil, nil) when no acceptable match exists, in which case the
// caller falls back to category-based estimation. Network and cache
// failures degrade
// to a miss; only a configuration error (missing API credentials)
// propagates.
func (r *Resolver) Resolve(ctx context.Context, name string) (*model.ResolvedIngredient, error) {
	normalized := Normalize(name)
	if normalized == "" {
		return nil, nil
	}
	log := zap.L().With(zap.String("ingredient", normalized))

	if rec := r.fromCache(ctx, normalized, log); rec != nil {
		return rec, nil
	}

	query := canonicalQuery(normalized)
	candidates, err := r.client.Search(ctx, query)
	if err != nil {
		if errors.Is(err, fdc.ErrMissingAPIKey) {
			return nil, err
		}
		log.Warn("resolver: search failed, treating as no match", zap.Error(err))
		return nil, nil
	}
	if len(candidates) == 0 {
		log.Debug("resolver: no search results")
		return nil, nil
	}

	best, _ := SelectBest(query, candidates)
	detail, err := r.client.FoodDetail(ctx, best.FDCID)
	if err != nil {
		if errors.Is(err, fdc.ErrMissingAPIKey) {
			return nil, err
		}
		log.Warn("resolver: detail fetch failed, treating as no match",
			zap.Int("fdc_id", best.FDCID),
			zap.Error(err),
		)
		return nil, nil
	}

	macros, ok := extractMacros(detail.Nutrients)
	if !ok {
		log.Warn("resolver: no energy value in nutrient record",
			zap.Int("fdc_id", detail.FDCID),
		)
		return nil, nil
	}

	rec := &model.ResolvedIngredient{
		Name:            normalized,
		FDCID:           detail.FDCID,
		Description:     detail.Description,
		CaloriesPer100g: macros.calories,
		ProteinPer100g:  macros.protein,
		CarbsPer100g:    macros.carbs,
		FatPer100g:      macros.fat,
		UpdatedAt:       r.now().UTC(),
	}

	// A write failure only costs the next run a re-fetch.
	if err := r.store.Upsert(ctx, *rec); err != nil {
		log.Warn("resolver: cache write failed", zap.Error(err))
	}

	log.Debug("resolver: resolved from database",
		zap.Int("fdc_id", rec.FDCID),
		zap.String("description", rec.Description),
	)
	return rec, nil
}

// fromCache returns a fresh, sane cached record or nil. Stale entries
// fall through to a re-fetch; corrupt entries are purged first.
func (r *Resolver) fromCache(ctx context.Context, normalized string, log *zap.Logger) *model.ResolvedIngredient {
	rec, err := r.store.Get(ctx, normalized)
	if err != nil {
		log.Warn("resolver: cache read failed", zap.Error(err))
		return nil
	}
	if rec == nil {
		return nil
	}

	if r.now().Sub(rec.UpdatedAt) >= r.freshness {
		log.Debug("resolver: cache entry stale", zap.Time("updated_at", rec.UpdatedAt))
		return nil
	}

	if IsCorrupt(*rec) {
		log.Warn("resolver: purging corrupt cache entry",
			zap.Float64("calories", rec.CaloriesPer100g),
			zap.Float64("protein", rec.ProteinPer100g),
			zap.Float64("carbs", rec.CarbsPer100g),
			zap.Float64("fat", rec.FatPer100g),
		)
		if err := r.store.Delete(ctx, normalized); err != nil {
			log.Warn("resolver: corrupt entry delete failed", zap.Error(err))
		}
		return nil
	}

	return rec
}

// Normalize lowercases and trims an ingredient name; it is the cache key.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsCorrupt detects cache entries whose macros cannot be trusted,
// typically left behind by extraction bugs:
//
//  1. Calories without carbs, unless the entry is a pure fat or oil
//     (fat above 80 g/100g at oil-like calorie density).
//  2. Calories with protein, carbs and fat all exactly zero.
//  3. Macro-derived energy far below the stored calorie value.
func IsCorrupt(rec model.ResolvedIngredient) bool {
	pureFat := rec.FatPer100g > 80 && rec.CaloriesPer100g > 800

	if rec.CaloriesPer100g > 50 && rec.CarbsPer100g == 0 && !pureFat {
		return true
	}

	if rec.CaloriesPer100g > 0 &&
		rec.ProteinPer100g == 0 && rec.CarbsPer100g == 0 && rec.FatPer100g == 0 {
		return true
	}

	derived := rec.ProteinPer100g*4 + rec.CarbsPer100g*4 + rec.FatPer100g*9
	if derived < 20 && rec.CaloriesPer100g > 80 {
		return true
	}

	return false
}
