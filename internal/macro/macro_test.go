package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platewise/nutrition-engine/internal/model"
)

func banana() model.ResolvedIngredient {
	return model.ResolvedIngredient{
		Name:            "banana",
		CaloriesPer100g: 89,
		ProteinPer100g:  1.09,
		CarbsPer100g:    22.84,
		FatPer100g:      0.33,
	}
}

func TestForAmount(t *testing.T) {
	m := ForAmount(banana(), 150)

	assert.InDelta(t, 134, m.Calories, 0.001) // 133.5 rounds up
	assert.InDelta(t, 1.6, m.Protein, 0.001)  // 1.635 -> 1.6
	assert.InDelta(t, 34.3, m.Carbs, 0.001)   // 34.26 -> 34.3
	assert.InDelta(t, 0.5, m.Fat, 0.001)      // 0.495 -> 0.5
}

func TestForAmountZeroGrams(t *testing.T) {
	assert.Equal(t, model.Macros{}, ForAmount(banana(), 0))
}

func TestForAmountLinearity(t *testing.T) {
	// Doubling grams doubles macros, within leaf rounding.
	single := ForAmount(banana(), 100)
	double := ForAmount(banana(), 200)

	assert.InDelta(t, 2*single.Calories, double.Calories, 1.0)
	assert.InDelta(t, 2*single.Protein, double.Protein, 0.1)
	assert.InDelta(t, 2*single.Carbs, double.Carbs, 0.1)
	assert.InDelta(t, 2*single.Fat, double.Fat, 0.1)
}

func TestSumMealAndDay(t *testing.T) {
	day := model.DayPlan{
		Meals: []model.Meal{
			{
				Ingredients: []model.IngredientDetail{
					{Macros: model.Macros{Calories: 300, Protein: 30, Carbs: 10, Fat: 12}},
					{Macros: model.Macros{Calories: 200, Protein: 5, Carbs: 40, Fat: 2}},
				},
			},
			{
				Ingredients: []model.IngredientDetail{
					{Macros: model.Macros{Calories: 500, Protein: 25, Carbs: 55, Fat: 18}},
				},
			},
		},
	}

	SumDay(&day)

	assert.Equal(t, model.Macros{Calories: 500, Protein: 35, Carbs: 50, Fat: 14}, day.Meals[0].Macros)
	assert.Equal(t, model.Macros{Calories: 1000, Protein: 60, Carbs: 105, Fat: 32}, day.Totals)
}

func TestSumMealEmpty(t *testing.T) {
	meal := model.Meal{Macros: model.Macros{Calories: 999}}
	SumMeal(&meal)
	assert.Equal(t, model.Macros{}, meal.Macros)
}

func TestRoundLeaf(t *testing.T) {
	m := RoundLeaf(model.Macros{Calories: 133.4, Protein: 1.649, Carbs: 34.26, Fat: 0.451})
	assert.Equal(t, model.Macros{Calories: 133, Protein: 1.6, Carbs: 34.3, Fat: 0.5}, m)
}
