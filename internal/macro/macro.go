// Package macro computes absolute macros from per-100g records and sums
// them into meal and day totals.
package macro

import (
	"math"

	"github.com/platewise/nutrition-engine/internal/model"
)

// ForAmount scales a per-100g record to a gram weight. Calories are
// rounded to whole kcal and macros to one decimal; aggregates built on
// top of these values are never re-rounded.
func ForAmount(rec model.ResolvedIngredient, grams float64) model.Macros {
	factor := grams / 100
	return model.Macros{
		Calories: math.Round(rec.CaloriesPer100g * factor),
		Protein:  round1(rec.ProteinPer100g * factor),
		Carbs:    round1(rec.CarbsPer100g * factor),
		Fat:      round1(rec.FatPer100g * factor),
	}
}

// RoundLeaf applies the leaf-level rounding convention to an already
// computed macro set, used when rescaling existing ingredient macros.
func RoundLeaf(m model.Macros) model.Macros {
	return model.Macros{
		Calories: math.Round(m.Calories),
		Protein:  round1(m.Protein),
		Carbs:    round1(m.Carbs),
		Fat:      round1(m.Fat),
	}
}

// SumMeal recomputes a meal's macros from its ingredients.
func SumMeal(meal *model.Meal) {
	var total model.Macros
	for _, ing := range meal.Ingredients {
		total = total.Add(ing.Macros)
	}
	meal.Macros = total
}

// SumDay recomputes each meal's macros and the day totals.
func SumDay(day *model.DayPlan) {
	var total model.Macros
	for i := range day.Meals {
		SumMeal(&day.Meals[i])
		total = total.Add(day.Meals[i].Macros)
	}
	day.Totals = total
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
