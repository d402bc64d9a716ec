package health

import (
	"cmp"
	"math"
	"slices"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Goal ordering defaults for unknown values.
const (
	missingLoseValue = 999
	maintainTarget   = 400
)

// Rank sorts recipes in place for goal. Lose orders ascending by
// (calories, fat) with unknown values as 999. Gain orders descending by
// calories with unknown as 0. Anything else orders by distance from a
// 400-calorie target with unknown as exactly on target. Ties keep input order.
func Rank(recipes []recipe.Recipe, goal Goal) {
	switch goal {
	case GoalLose:
		slices.SortStableFunc(recipes, func(a, b recipe.Recipe) int {
			return cmp.Or(
				cmp.Compare(or(a.Nutrition.Calories, missingLoseValue), or(b.Nutrition.Calories, missingLoseValue)),
				cmp.Compare(or(a.Nutrition.Fat, missingLoseValue), or(b.Nutrition.Fat, missingLoseValue)),
			)
		})
	case GoalGain:
		slices.SortStableFunc(recipes, func(a, b recipe.Recipe) int {
			return cmp.Compare(or(b.Nutrition.Calories, 0), or(a.Nutrition.Calories, 0))
		})
	default:
		slices.SortStableFunc(recipes, func(a, b recipe.Recipe) int {
			return cmp.Compare(maintainDistance(&a), maintainDistance(&b))
		})
	}
}

func maintainDistance(r *recipe.Recipe) float64 {
	return math.Abs(or(r.Nutrition.Calories, maintainTarget) - maintainTarget)
}

func or(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
