package resolver

import "github.com/platewise/nutrition-engine/pkg/fdc"

// The database reports nutrients under two numbering schemes depending
// on which dataset a food came from: legacy nutrient numbers (strings)
// and newer numeric nutrient IDs. Both are checked per macro.
//
// Energy additionally appears under two entries in the newer datasets;
// the Atwater-general value (957/2048) is preferred only when the plain
// energy entry (208/1008) is absent.
type macroCodes struct {
	numbers []string
	ids     []int
}

var (
	energyCodes  = macroCodes{numbers: []string{"208", "957"}, ids: []int{1008, 2048}}
	proteinCodes = macroCodes{numbers: []string{"203"}, ids: []int{1003}}
	carbCodes    = macroCodes{numbers: []string{"205"}, ids: []int{1005}}
	fatCodes     = macroCodes{numbers: []string{"204"}, ids: []int{1004}}
)

// perHundred holds extracted per-100g macro values.
type perHundred struct {
	calories float64
	protein  float64
	carbs    float64
	fat      float64
}

// extractMacros pulls calories/protein/carbs/fat out of a nutrient list.
// Returns false when no energy value is present under either scheme;
// a record without energy is useless for validation.
func extractMacros(nutrients []fdc.Nutrient) (perHundred, bool) {
	calories, ok := findNutrient(nutrients, energyCodes)
	if !ok {
		return perHundred{}, false
	}

	// Missing macro entries are legitimate zeros (e.g. carbs in meat).
	protein, _ := findNutrient(nutrients, proteinCodes)
	carbs, _ := findNutrient(nutrients, carbCodes)
	fat, _ := findNutrient(nutrients, fatCodes)

	return perHundred{
		calories: calories,
		protein:  protein,
		carbs:    carbs,
		fat:      fat,
	}, true
}

// findNutrient checks both code families in preference order.
func findNutrient(nutrients []fdc.Nutrient, codes macroCodes) (float64, bool) {
	for _, number := range codes.numbers {
		for _, n := range nutrients {
			if n.Number == number {
				return n.Amount, true
			}
		}
	}
	for _, id := range codes.ids {
		for _, n := range nutrients {
			if n.ID == id {
				return n.Amount, true
			}
		}
	}
	return 0, false
}
