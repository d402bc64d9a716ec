package health

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Benefit thresholds.
const (
	lowSodiumMax   = 300
	highFiberMin   = 5
	highProteinMin = 20
	lowCalorieMax  = 300
)

// Warnings returns advisory cautions for r: one line naming every declared
// allergen found, then one line per declared condition whose headline
// nutrient exceeds its warning ceiling.
func Warnings(r *recipe.Recipe, p *Profile) []string {
	var out []string

	if found := MatchedAllergens(r, p.Allergies); len(found) > 0 {
		names := make([]string, len(found))
		for i, a := range found {
			names[i] = titleCase(a)
		}
		out = append(out, "⚠️ Contains allergens: "+strings.Join(names, ", "))
	}

	for _, c := range p.Conditions {
		ceiling, ok := warningCeilings[c]
		if !ok || !ceiling.Exceeded(r) {
			continue
		}
		v := *ceiling.Nutrient.Of(r)
		out = append(out, fmt.Sprintf("⚠️ High %s content (%s%s) - not recommended for %s",
			ceiling.Nutrient, formatAmount(v), unit(ceiling.Nutrient), c))
	}
	return out
}

// Benefits returns the favorable traits of r for the user's conditions,
// restrictions and goal.
func Benefits(r *recipe.Recipe, p *Profile) []string {
	var out []string
	n := &r.Nutrition

	if below(n.Sodium, lowSodiumMax) && (p.HasCondition(Hypertension) || p.HasCondition(HeartDisease)) {
		out = append(out, "✅ Low sodium - good for blood pressure")
	}
	if above(n.Fiber, highFiberMin) && p.HasCondition(Diabetes) {
		out = append(out, "✅ High fiber - helps control blood sugar")
	}
	if above(n.Protein, highProteinMin) && (p.Goal == GoalGain || p.HasRestriction(MuscleBuilding)) {
		out = append(out, "✅ High protein - supports muscle growth")
	}
	if below(n.Calories, lowCalorieMax) && (p.Goal == GoalLose || p.HasCondition(Obesity)) {
		out = append(out, "✅ Low calorie - supports weight management")
	}
	return out
}

func below(v *float64, limit float64) bool { return v != nil && *v < limit }

func above(v *float64, limit float64) bool { return v != nil && *v > limit }

func unit(n Nutrient) string {
	if n == Sodium {
		return "mg"
	}
	return "g"
}

func formatAmount(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// titleCase upper-cases the first letter of every word.
func titleCase(s string) string {
	out := []rune(s)
	start := true
	for i, r := range out {
		if unicode.IsLetter(r) {
			if start {
				out[i] = unicode.ToUpper(r)
			}
			start = false
		} else {
			start = true
		}
	}
	return string(out)
}
