package adjust

import (
	"math"

	"github.com/platewise/nutrition-engine/internal/model"
)

// DefaultTolerance is the symmetric band around each macro target.
const DefaultTolerance = 0.10

// WithinTolerance reports whether actual lands inside the symmetric
// percentage band around every macro target. A zero target passes only
// when the actual value is exactly zero.
func WithinTolerance(actual model.Macros, target model.TargetMacroProfile, tolerance float64) bool {
	checks := []struct {
		actual, target float64
	}{
		{actual.Calories, target.Calories},
		{actual.Protein, target.Protein},
		{actual.Carbs, target.Carbs},
		{actual.Fat, target.Fat},
	}

	for _, c := range checks {
		if c.target == 0 {
			if c.actual != 0 {
				return false
			}
			continue
		}
		if math.Abs(c.actual-c.target)/c.target > tolerance {
			return false
		}
	}
	return true
}
