package adjust

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/nutrition-engine/internal/model"
)

func target() model.TargetMacroProfile {
	return model.TargetMacroProfile{Calories: 2000, Protein: 150, Carbs: 200, Fat: 67}
}

func TestWithinToleranceSymmetry(t *testing.T) {
	tg := target()

	within := func(calories float64) bool {
		return WithinTolerance(model.Macros{
			Calories: calories, Protein: 150, Carbs: 200, Fat: 67,
		}, tg, DefaultTolerance)
	}

	assert.True(t, within(2000*1.099))
	assert.True(t, within(2000*0.901))
	assert.False(t, within(2000*1.101))
	assert.False(t, within(2000*0.899))
}

func TestWithinToleranceZeroTarget(t *testing.T) {
	tg := model.TargetMacroProfile{Calories: 2000, Protein: 150, Carbs: 0, Fat: 67}

	assert.True(t, WithinTolerance(model.Macros{Calories: 2000, Protein: 150, Carbs: 0, Fat: 67}, tg, DefaultTolerance))
	assert.False(t, WithinTolerance(model.Macros{Calories: 2000, Protein: 150, Carbs: 0.1, Fat: 67}, tg, DefaultTolerance))
}

func TestWithinToleranceAllMacrosMustPass(t *testing.T) {
	tg := target()

	assert.False(t, WithinTolerance(model.Macros{Calories: 2000, Protein: 150, Carbs: 200, Fat: 90}, tg, DefaultTolerance))
}

// scalableDay builds a one-meal day whose ingredient macros scale
// linearly, mimicking a database-resolved ingredient.
func scalableDay(calories, protein, carbs, fat float64) model.DayPlan {
	per := &model.ResolvedIngredient{
		CaloriesPer100g: calories / 10,
		ProteinPer100g:  protein / 10,
		CarbsPer100g:    carbs / 10,
		FatPer100g:      fat / 10,
	}
	return model.DayPlan{
		Day: "monday",
		Meals: []model.Meal{
			{
				Name: "bowl",
				Ingredients: []model.IngredientDetail{
					{
						Name:       "everything bowl",
						Amount:     "10",
						Unit:       "oz",
						Grams:      1000,
						Macros:     model.Macros{Calories: calories, Protein: protein, Carbs: carbs, Fat: fat},
						PerHundred: per,
					},
				},
			},
		},
	}
}

func TestAdjustDayAlreadyWithinTolerance(t *testing.T) {
	day := scalableDay(2000, 150, 200, 67)

	out := New().AdjustDay(&day, target())

	assert.True(t, out.Converged)
	assert.False(t, out.Adjusted)
	assert.Equal(t, 0, out.Iterations)
}

func TestAdjustDayConvergesWithinBudget(t *testing.T) {
	// Everything 20% over target, so a uniform rescale can land every
	// macro inside the band.
	day := scalableDay(2400, 180, 240, 80.4)
	tg := target()

	out := New().AdjustDay(&day, tg)

	assert.True(t, out.Adjusted)
	assert.True(t, out.Converged)
	assert.LessOrEqual(t, out.Iterations, DefaultMaxIterations)
	assert.InDelta(t, tg.Calories, day.Totals.Calories, tg.Calories*0.10)
	assert.InDelta(t, tg.Protein, day.Totals.Protein, tg.Protein*0.10)
	assert.InDelta(t, tg.Carbs, day.Totals.Carbs, tg.Carbs*0.10)
	assert.InDelta(t, tg.Fat, day.Totals.Fat, tg.Fat*0.10)
}

func TestAdjustDayMovesCaloriesTowardTarget(t *testing.T) {
	// Pure deficit: the first rescale must strictly shrink the calorie
	// gap, never overshoot past the far edge of the band.
	day := scalableDay(1200, 90, 120, 40.2)
	tg := target()

	initialGap := math.Abs(day.Totals.Calories - tg.Calories)
	out := New().AdjustDay(&day, tg)

	assert.True(t, out.Adjusted)
	assert.True(t, out.Converged)
	assert.Less(t, math.Abs(day.Totals.Calories-tg.Calories), initialGap)
	assert.LessOrEqual(t, day.Totals.Calories, tg.Calories*1.10)
}

func TestBlendedFactorDirection(t *testing.T) {
	tg := target()

	assert.Greater(t, blendedFactor(model.Macros{Calories: 1200, Protein: 90}, tg), 1.0)
	assert.Less(t, blendedFactor(model.Macros{Calories: 2800, Protein: 210}, tg), 1.0)
	assert.InDelta(t, 1.0, blendedFactor(model.Macros{Calories: 2000, Protein: 150}, tg), 1e-9)
}

func TestAdjustDayGivesUpAtIterationCap(t *testing.T) {
	// Calories need halving while protein needs doubling; the blended
	// factor can never satisfy both.
	day := scalableDay(4000, 75, 200, 67)

	out := New().AdjustDay(&day, target())

	assert.True(t, out.Adjusted)
	assert.False(t, out.Converged)
	assert.Equal(t, DefaultMaxIterations, out.Iterations)
}

func TestAdjustDayRescalesAmountAndGrams(t *testing.T) {
	day := scalableDay(2400, 160, 260, 80)

	out := New().AdjustDay(&day, target())
	require.True(t, out.Adjusted)

	ing := day.Meals[0].Ingredients[0]
	assert.Less(t, ing.Grams, 1000.0)
	assert.NotEqual(t, "10", ing.Amount)
}

func TestAdjustDayKeepsNonNumericAmountText(t *testing.T) {
	day := scalableDay(2400, 160, 260, 80)
	day.Meals[0].Ingredients[0].Amount = "a generous scoop"

	out := New().AdjustDay(&day, target())
	require.True(t, out.Adjusted)

	assert.Equal(t, "a generous scoop", day.Meals[0].Ingredients[0].Amount)
}

func TestBlendedFactor(t *testing.T) {
	// calories factor 2000/2400, protein factor 150/160.
	f := blendedFactor(model.Macros{Calories: 2400, Protein: 160}, target())
	assert.InDelta(t, 0.5*(2000.0/2400)+0.5*(150.0/160), f, 1e-9)

	// Zero actuals are clamped to 1 to avoid division blowups.
	f = blendedFactor(model.Macros{}, target())
	assert.InDelta(t, 0.5*2000+0.5*150, f, 1e-9)
}

func TestScaleAmountTextFormatting(t *testing.T) {
	assert.Equal(t, "12", scaleAmountText("24", 0.5))
	assert.Equal(t, "1.5", scaleAmountText("3", 0.5))
	assert.Equal(t, "0.75", scaleAmountText("1.5", 0.5))
}
