// Package engine orchestrates a full meal-plan validation run: ingredient
// resolution, macro recomputation, portion adjustment, and grocery
// consolidation.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/platewise/nutrition-engine/internal/adjust"
	"github.com/platewise/nutrition-engine/internal/convert"
	"github.com/platewise/nutrition-engine/internal/grocery"
	"github.com/platewise/nutrition-engine/internal/macro"
	"github.com/platewise/nutrition-engine/internal/model"
)

// DefaultConcurrency bounds how many ingredients resolve in flight at
// once across the whole plan.
const DefaultConcurrency = 8

// IngredientResolver resolves a free-text ingredient name to a per-100g
// record, or nil when nothing in the database matches.
type IngredientResolver interface {
	Resolve(ctx context.Context, name string) (*model.ResolvedIngredient, error)
}

// Engine validates and adjusts draft meal plans.
type Engine struct {
	resolver    IngredientResolver
	converter   convert.Converter
	adjuster    *adjust.Adjuster
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrency sets the resolution fan-out limit.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithAdjuster replaces the default portion adjuster.
func WithAdjuster(a *adjust.Adjuster) Option {
	return func(e *Engine) {
		e.adjuster = a
	}
}

func New(res IngredientResolver, conv convert.Converter, opts ...Option) *Engine {
	e := &Engine{
		resolver:    res,
		converter:   conv,
		adjuster:    adjust.New(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// categoryEstimates holds representative per-100g macros used when an
// ingredient cannot be resolved against the database.
var categoryEstimates = map[model.Category]model.ResolvedIngredient{
	model.CategoryProtein: {CaloriesPer100g: 165, ProteinPer100g: 25, CarbsPer100g: 0, FatPer100g: 7},
	model.CategoryProduce: {CaloriesPer100g: 45, ProteinPer100g: 1.5, CarbsPer100g: 10, FatPer100g: 0.3},
	model.CategoryDairy:   {CaloriesPer100g: 90, ProteinPer100g: 6, CarbsPer100g: 5, FatPer100g: 5},
	model.CategoryGrains:  {CaloriesPer100g: 130, ProteinPer100g: 4, CarbsPer100g: 27, FatPer100g: 1},
	model.CategoryPantry:  {CaloriesPer100g: 300, ProteinPer100g: 5, CarbsPer100g: 35, FatPer100g: 14},
	model.CategoryFrozen:  {CaloriesPer100g: 120, ProteinPer100g: 6, CarbsPer100g: 15, FatPer100g: 4},
	model.CategoryOther:   {CaloriesPer100g: 150, ProteinPer100g: 5, CarbsPer100g: 18, FatPer100g: 6},
}

// ValidateAndAdjust resolves every ingredient in the plan, recomputes
// true macro totals, rescales portions on days that miss the target
// beyond tolerance, and builds the consolidated grocery list.
func (e *Engine) ValidateAndAdjust(ctx context.Context, plan model.MealPlan, target model.TargetMacroProfile) (*model.ValidationResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))

	days := make([]model.DayPlan, len(plan.Days))
	for di, rawDay := range plan.Days {
		days[di].Day = rawDay.Day
		days[di].Meals = make([]model.Meal, len(rawDay.Meals))
		for mi, rawMeal := range rawDay.Meals {
			days[di].Meals[mi].Name = rawMeal.Name
			days[di].Meals[mi].Ingredients = make([]model.IngredientDetail, len(rawMeal.Ingredients))
		}
	}

	// Every ingredient resolves independently; each task writes only its
	// own preallocated slot.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for di, rawDay := range plan.Days {
		for mi, rawMeal := range rawDay.Meals {
			for ii, rawIng := range rawMeal.Ingredients {
				di, mi, ii := di, mi, ii
				rawIng := rawIng
				mealEstimate := rawMeal.EstimatedMacros
				mealSize := len(rawMeal.Ingredients)
				g.Go(func() error {
					detail, err := e.buildDetail(gctx, rawIng, mealEstimate, mealSize)
					if err != nil {
						return err
					}
					days[di].Meals[mi].Ingredients[ii] = detail
					return nil
				})
			}
		}
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "engine: resolve ingredients")
	}

	var summary model.ValidationSummary
	for di := range days {
		macro.SumDay(&days[di])
		for _, meal := range days[di].Meals {
			for _, ing := range meal.Ingredients {
				if ing.Verified {
					summary.IngredientsValidated++
				} else {
					summary.IngredientsFallback++
				}
			}
		}
	}

	for di := range days {
		out := e.adjuster.AdjustDay(&days[di], target)
		if out.Adjusted {
			summary.AdjustmentsMade = true
		}
		if out.Adjusted && !out.Converged {
			log.Warn("day left out of tolerance after adjustment",
				zap.String("day", days[di].Day),
				zap.Int("iterations", out.Iterations),
			)
		}
	}

	result := &model.ValidationResult{
		RunID:       runID,
		Days:        days,
		GroceryList: grocery.Consolidate(days),
		Summary:     summary,
		Elapsed:     time.Since(start),
	}

	log.Info("plan validation complete",
		zap.Int("days", len(days)),
		zap.Int("ingredients_validated", summary.IngredientsValidated),
		zap.Int("ingredients_fallback", summary.IngredientsFallback),
		zap.Bool("adjustments_made", summary.AdjustmentsMade),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// buildDetail resolves one ingredient occurrence and picks its macro
// source. Database macros are used only when both the resolution and
// the gram conversion are trustworthy; a low-confidence conversion
// falls back to the generator's holistic meal estimate, and an
// unresolved ingredient to a category-level estimate.
func (e *Engine) buildDetail(ctx context.Context, raw model.RawIngredient, mealEstimate model.Macros, mealSize int) (model.IngredientDetail, error) {
	detail := model.IngredientDetail{
		Name:     raw.Name,
		Amount:   raw.Amount,
		Unit:     raw.Unit,
		Category: raw.Category.Normalize(),
	}

	conv := e.converter.Convert(raw.Amount, raw.Unit, raw.Name)
	detail.Grams = conv.Grams

	rec, err := e.resolver.Resolve(ctx, raw.Name)
	if err != nil {
		return detail, eris.Wrapf(err, "engine: resolve %q", raw.Name)
	}

	switch {
	case rec != nil && conv.Confidence != model.ConfidenceLow:
		detail.Macros = macro.ForAmount(*rec, conv.Grams)
		detail.Verified = true
		detail.PerHundred = rec

	case conv.Confidence == model.ConfidenceLow:
		share := 1.0
		if mealSize > 0 {
			share = 1.0 / float64(mealSize)
		}
		detail.Macros = macro.RoundLeaf(mealEstimate.Scale(share))

	default:
		est := categoryEstimates[detail.Category]
		detail.Macros = macro.ForAmount(est, conv.Grams)
	}
	return detail, nil
}
