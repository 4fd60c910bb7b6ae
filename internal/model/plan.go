package model

import "time"

// Category buckets ingredients for grocery sorting and for the per-100g
// fallback estimates used when database resolution fails.
type Category string

const (
	CategoryProtein Category = "protein"
	CategoryProduce Category = "produce"
	CategoryDairy   Category = "dairy"
	CategoryGrains  Category = "grains"
	CategoryPantry  Category = "pantry"
	CategoryFrozen  Category = "frozen"
	CategoryOther   Category = "other"
)

// Normalize maps unknown category strings to CategoryOther.
func (c Category) Normalize() Category {
	switch c {
	case CategoryProtein, CategoryProduce, CategoryDairy, CategoryGrains, CategoryPantry, CategoryFrozen:
		return c
	default:
		return CategoryOther
	}
}

// Macros holds calorie and macronutrient amounts. Calories are kcal,
// the rest are grams.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns the component-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
	}
}

// Scale returns m multiplied by factor, unrounded.
func (m Macros) Scale(factor float64) Macros {
	return Macros{
		Calories: m.Calories * factor,
		Protein:  m.Protein * factor,
		Carbs:    m.Carbs * factor,
		Fat:      m.Fat * factor,
	}
}

// TargetMacroProfile is a user's daily macro goal.
type TargetMacroProfile struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// RawIngredient is a single draft ingredient as produced by the upstream
// plan generator. Amount is free text and may be non-numeric ("a pinch").
type RawIngredient struct {
	Name     string   `json:"name"`
	Amount   string   `json:"amount"`
	Unit     string   `json:"unit"`
	Category Category `json:"category"`
}

// RawMeal is a draft meal with the generator's holistic macro estimate.
type RawMeal struct {
	Name            string          `json:"name"`
	Ingredients     []RawIngredient `json:"ingredients"`
	EstimatedMacros Macros          `json:"estimated_macros"`
}

// RawDay is one day of the draft plan.
type RawDay struct {
	Day   string    `json:"day"`
	Meals []RawMeal `json:"meals"`
}

// MealPlan is the full draft plan handed to the engine.
type MealPlan struct {
	Days []RawDay `json:"days"`
}

// ResolvedIngredient is a verified per-100g nutrition record, either
// freshly fetched from the food-composition database or read from cache.
type ResolvedIngredient struct {
	Name            string    `json:"name"` // normalized (lowercase, trimmed)
	FDCID           int       `json:"fdc_id"`
	Description     string    `json:"description"`
	CaloriesPer100g float64   `json:"calories_per_100g"`
	ProteinPer100g  float64   `json:"protein_per_100g"`
	CarbsPer100g    float64   `json:"carbs_per_100g"`
	FatPer100g      float64   `json:"fat_per_100g"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Confidence grades how reliable a textual amount-to-grams conversion is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConversionResult is the outcome of converting a free-text amount and
// unit into grams. Never persisted.
type ConversionResult struct {
	Grams      float64    `json:"grams"`
	Confidence Confidence `json:"confidence"`
}

// IngredientDetail is one ingredient occurrence after resolution: the
// grams used, the macros computed for that amount, and whether the macros
// came from verified database data.
type IngredientDetail struct {
	Name     string   `json:"name"`
	Amount   string   `json:"amount"`
	Unit     string   `json:"unit"`
	Category Category `json:"category"`
	Grams    float64  `json:"grams"`
	Macros   Macros   `json:"macros"`
	Verified bool     `json:"verified"`

	// PerHundred is kept when the ingredient resolved against the
	// database so portion adjustment can recompute exact macros instead
	// of compounding rounding error. Not serialized.
	PerHundred *ResolvedIngredient `json:"-"`
}

// Meal is a validated meal. Macros always equals the sum of the
// ingredients' macros.
type Meal struct {
	Name        string             `json:"name"`
	Ingredients []IngredientDetail `json:"ingredients"`
	Macros      Macros             `json:"macros"`
}

// DayPlan is a validated day. Totals always equals the sum over meals.
type DayPlan struct {
	Day    string `json:"day"`
	Meals  []Meal `json:"meals"`
	Totals Macros `json:"totals"`
}

// GroceryItem is one consolidated shopping-list entry, keyed upstream by
// (lowercased name, lowercased unit).
type GroceryItem struct {
	Name     string   `json:"name"`
	Amount   string   `json:"amount"`
	Unit     string   `json:"unit"`
	Category Category `json:"category"`
}

// ValidationSummary reports resolution provenance counts and whether any
// portion adjustment was applied.
type ValidationSummary struct {
	IngredientsValidated int  `json:"ingredients_validated"`
	IngredientsFallback  int  `json:"ingredients_fallback"`
	AdjustmentsMade      bool `json:"adjustments_made"`
}

// ValidationResult is the engine's final output for one plan.
type ValidationResult struct {
	RunID       string            `json:"run_id"`
	Days        []DayPlan         `json:"days"`
	GroceryList []GroceryItem     `json:"grocery_list"`
	Summary     ValidationSummary `json:"validation_summary"`
	Elapsed     time.Duration     `json:"elapsed"`
}
