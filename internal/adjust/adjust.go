// Package adjust rescales ingredient portions until a day's computed
// totals land within tolerance of the user's macro targets.
package adjust

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/platewise/nutrition-engine/internal/convert"
	"github.com/platewise/nutrition-engine/internal/macro"
	"github.com/platewise/nutrition-engine/internal/model"
)

// DefaultMaxIterations bounds the convergence loop per day.
const DefaultMaxIterations = 5

type state int

const (
	stateChecking state = iota
	stateAdjusting
	stateConverged
	stateGaveUp
)

// Adjuster runs the per-day convergence loop. Days are independent;
// the same Adjuster may be used concurrently across days.
type Adjuster struct {
	Tolerance     float64
	MaxIterations int
}

// New creates an Adjuster with the default tolerance and iteration cap.
func New() *Adjuster {
	return &Adjuster{
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

// Outcome describes how a day's adjustment loop ended. GaveUp is not an
// error: the day carries the closest totals reached within the budget.
type Outcome struct {
	Adjusted   bool
	Converged  bool
	Iterations int
}

// AdjustDay recomputes the day's totals and, while they miss the target
// beyond tolerance, rescales every ingredient by a blended calorie and
// protein correction factor. Carbs and fat are allowed to drift.
func (a *Adjuster) AdjustDay(day *model.DayPlan, target model.TargetMacroProfile) Outcome {
	macro.SumDay(day)

	var out Outcome
	st := stateChecking
	for {
		switch st {
		case stateChecking:
			if WithinTolerance(day.Totals, target, a.Tolerance) {
				st = stateConverged
			} else if out.Iterations >= a.MaxIterations {
				st = stateGaveUp
			} else {
				st = stateAdjusting
			}

		case stateAdjusting:
			factor := blendedFactor(day.Totals, target)
			rescaleDay(day, factor)
			macro.SumDay(day)
			out.Adjusted = true
			out.Iterations++
			st = stateChecking

		case stateConverged:
			out.Converged = true
			return out

		case stateGaveUp:
			zap.L().Debug("adjust: iteration budget exhausted",
				zap.String("day", day.Day),
				zap.Float64("calories", day.Totals.Calories),
				zap.Float64("target_calories", target.Calories),
			)
			return out
		}
	}
}

// blendedFactor treats calories and protein as the primary correction
// signals, weighting them equally.
func blendedFactor(actual model.Macros, target model.TargetMacroProfile) float64 {
	caloriesFactor := target.Calories / max(actual.Calories, 1)
	proteinFactor := target.Protein / max(actual.Protein, 1)
	return 0.5*caloriesFactor + 0.5*proteinFactor
}

func rescaleDay(day *model.DayPlan, factor float64) {
	for mi := range day.Meals {
		meal := &day.Meals[mi]
		for ii := range meal.Ingredients {
			rescaleIngredient(&meal.Ingredients[ii], factor)
		}
	}
}

// rescaleIngredient multiplies the gram weight and textual amount by the
// factor, then recomputes macros. Ingredients that resolved against the
// database get exact per-100g math; the rest scale proportionally.
func rescaleIngredient(ing *model.IngredientDetail, factor float64) {
	ing.Grams *= factor
	ing.Amount = scaleAmountText(ing.Amount, factor)

	if ing.PerHundred != nil {
		ing.Macros = macro.ForAmount(*ing.PerHundred, ing.Grams)
	} else {
		ing.Macros = macro.RoundLeaf(ing.Macros.Scale(factor))
	}
}

// scaleAmountText rescales the leading quantity in a free-text amount.
// Non-numeric amounts ("a pinch") are kept as-is; the gram weight
// carries the truth.
func scaleAmountText(amount string, factor float64) string {
	qty, ok := convert.ParseAmount(amount)
	if !ok {
		return amount
	}
	return formatQuantity(qty * factor)
}

func formatQuantity(v float64) string {
	switch {
	case v >= 10:
		return fmt.Sprintf("%.0f", v)
	case v >= 1:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
