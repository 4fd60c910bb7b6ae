package grocery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/nutrition-engine/internal/model"
)

func mealOf(ings ...model.IngredientDetail) model.Meal {
	return model.Meal{Ingredients: ings}
}

func dayOf(meals ...model.Meal) model.DayPlan {
	return model.DayPlan{Meals: meals}
}

func ing(name, amount, unit string, cat model.Category) model.IngredientDetail {
	return model.IngredientDetail{Name: name, Amount: amount, Unit: unit, Category: cat}
}

func TestConsolidateMergesAcrossDays(t *testing.T) {
	days := []model.DayPlan{
		dayOf(mealOf(ing("chicken breast", "6", "oz", model.CategoryProtein))),
		dayOf(mealOf(ing("Chicken Breast", "8", "oz", model.CategoryProtein))),
	}

	items := Consolidate(days)

	require.Len(t, items, 1)
	assert.Equal(t, "chicken breast", items[0].Name)
	assert.Equal(t, "14", items[0].Amount)
	assert.Equal(t, "oz", items[0].Unit)
	assert.Equal(t, model.CategoryProtein, items[0].Category)
}

func TestConsolidateKeepsUnitsSeparate(t *testing.T) {
	days := []model.DayPlan{
		dayOf(mealOf(
			ing("olive oil", "1", "tbsp", model.CategoryPantry),
			ing("olive oil", "0.5", "cup", model.CategoryPantry),
		)),
	}

	items := Consolidate(days)

	require.Len(t, items, 2)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{23.456, "23"},
		{4.37, "4.4"},
		{0.456, "0.46"},
		{10, "10"},
		{1, "1.0"},
		{0.5, "0.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.in), "formatAmount(%v)", tt.in)
	}
}

func TestConsolidateRepeatSuffix(t *testing.T) {
	repeat := func(n int) []model.DayPlan {
		var days []model.DayPlan
		for i := 0; i < n; i++ {
			days = append(days, dayOf(mealOf(ing("eggs", "2", "large", model.CategoryProtein))))
		}
		return days
	}

	items := Consolidate(repeat(7))
	require.Len(t, items, 1)
	assert.Equal(t, "eggs (x7)", items[0].Name)
	assert.Equal(t, "14", items[0].Amount)

	items = Consolidate(repeat(6))
	require.Len(t, items, 1)
	assert.Equal(t, "eggs", items[0].Name)
}

func TestConsolidateSortsByCategoryThenName(t *testing.T) {
	days := []model.DayPlan{
		dayOf(mealOf(
			ing("rice", "1", "cup", model.CategoryGrains),
			ing("spinach", "2", "cup", model.CategoryProduce),
			ing("broccoli", "1", "cup", model.CategoryProduce),
			ing("chicken breast", "6", "oz", model.CategoryProtein),
		)),
	}

	items := Consolidate(days)

	require.Len(t, items, 4)
	got := make([]string, len(items))
	for i, it := range items {
		got[i] = it.Name
	}
	assert.Equal(t, []string{"rice", "broccoli", "spinach", "chicken breast"}, got)
}

func TestConsolidateUnparseableAmountKeptVerbatim(t *testing.T) {
	days := []model.DayPlan{
		dayOf(mealOf(ing("salt", "a pinch", "", model.CategoryPantry))),
		dayOf(mealOf(ing("salt", "a pinch", "", model.CategoryPantry))),
	}

	items := Consolidate(days)

	require.Len(t, items, 1)
	assert.Equal(t, "a pinch", items[0].Amount)
}

func TestConsolidateFractionAmounts(t *testing.T) {
	days := []model.DayPlan{
		dayOf(mealOf(ing("butter", "1/2", "tbsp", model.CategoryDairy))),
		dayOf(mealOf(ing("butter", "1/4", "tbsp", model.CategoryDairy))),
	}

	items := Consolidate(days)

	require.Len(t, items, 1)
	assert.Equal(t, "0.75", items[0].Amount)
}
