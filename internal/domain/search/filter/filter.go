package filter

import (
	"fmt"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Nutrition is the direct predicate of a nutrition query: an optional calorie
// ceiling and an optional protein floor.
type Nutrition struct {
	maxCalories *float64
	minProtein  *float64
}

// NewNutrition validates and creates a Nutrition predicate. Nil bounds are unset.
func NewNutrition(maxCalories, minProtein *float64) (Nutrition, error) {
	if maxCalories != nil && *maxCalories < 0 {
		return Nutrition{}, fmt.Errorf("max_calories must be non-negative")
	}
	if minProtein != nil && *minProtein < 0 {
		return Nutrition{}, fmt.Errorf("min_protein must be non-negative")
	}
	return Nutrition{maxCalories: maxCalories, minProtein: minProtein}, nil
}

// MaxCalories returns the calorie ceiling, nil when unset.
func (n Nutrition) MaxCalories() *float64 { return n.maxCalories }

// MinProtein returns the protein floor, nil when unset.
func (n Nutrition) MinProtein() *float64 { return n.minProtein }

// IsEmpty reports whether no bound is set.
func (n Nutrition) IsEmpty() bool { return n.maxCalories == nil && n.minProtein == nil }

// Matches reports whether r satisfies every set bound. A recipe whose field
// is unknown fails a bound set on that field.
func (n Nutrition) Matches(r *recipe.Recipe) bool {
	if n.maxCalories != nil {
		c := r.Nutrition.Calories
		if c == nil || *c > *n.maxCalories {
			return false
		}
	}
	if n.minProtein != nil {
		p := r.Nutrition.Protein
		if p == nil || *p < *n.minProtein {
			return false
		}
	}
	return true
}
