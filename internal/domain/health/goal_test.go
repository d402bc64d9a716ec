package health

import (
	"slices"
	"testing"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

func ids(rs []recipe.Recipe) []int64 {
	out := make([]int64, len(rs))
	for i := range rs {
		out[i] = rs[i].ID
	}
	return out
}

func withNutrition(id int64, calories, fat *float64) recipe.Recipe {
	return recipe.Recipe{ID: id, Nutrition: recipe.Nutrition{Calories: calories, Fat: fat}}
}

func TestRank_Lose(t *testing.T) {
	rs := []recipe.Recipe{
		withNutrition(1, nil, nil),
		withNutrition(2, recipe.Float(300), recipe.Float(12)),
		withNutrition(3, recipe.Float(300), recipe.Float(5)),
		withNutrition(4, recipe.Float(150), nil),
		withNutrition(5, recipe.Float(999), recipe.Float(1)),
	}
	Rank(rs, GoalLose)

	if got := ids(rs); !slices.Equal(got, []int64{4, 3, 2, 5, 1}) {
		t.Errorf("order = %v", got)
	}
}

func TestRank_Gain(t *testing.T) {
	rs := []recipe.Recipe{
		withNutrition(1, nil, nil),
		withNutrition(2, recipe.Float(300), nil),
		withNutrition(3, recipe.Float(800), nil),
		withNutrition(4, recipe.Float(0), nil),
	}
	Rank(rs, GoalGain)

	if got := ids(rs); !slices.Equal(got, []int64{3, 2, 1, 4}) {
		t.Errorf("order = %v", got)
	}
}

func TestRank_MaintainAndUnknownGoal(t *testing.T) {
	for _, goal := range []Goal{GoalMaintain, "", "bulk"} {
		rs := []recipe.Recipe{
			withNutrition(1, recipe.Float(700), nil),
			withNutrition(2, nil, nil),
			withNutrition(3, recipe.Float(350), nil),
			withNutrition(4, recipe.Float(450), nil),
			withNutrition(5, recipe.Float(100), nil),
		}
		Rank(rs, goal)

		if got := ids(rs); !slices.Equal(got, []int64{2, 3, 4, 1, 5}) {
			t.Errorf("goal %q: order = %v", goal, got)
		}
	}
}
