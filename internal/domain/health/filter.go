package health

import (
	"strings"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Allows reports whether r passes every check of p: allergen safety,
// condition suitability and restriction compatibility.
func Allows(r *recipe.Recipe, p *Profile) bool {
	if len(p.Allergies) == 0 && len(p.Conditions) == 0 && len(p.Restrictions) == 0 {
		return true
	}
	text := r.Text()
	return safeText(text, p.Allergies) &&
		SuitableForConditions(r, p.Conditions) &&
		compatibleText(r, text, p.Restrictions)
}

// SafeForAllergies reports whether none of the allergies' keywords occur in
// the recipe's name, description, ingredients or tags.
func SafeForAllergies(r *recipe.Recipe, allergies []string) bool {
	if len(allergies) == 0 {
		return true
	}
	return safeText(r.Text(), allergies)
}

func safeText(text string, allergies []string) bool {
	for _, allergy := range allergies {
		if containsAny(text, AllergenKeywords(allergy)) {
			return false
		}
	}
	return true
}

// MatchedAllergens returns the declared allergies whose keywords occur in r,
// in declaration order.
func MatchedAllergens(r *recipe.Recipe, allergies []string) []string {
	if len(allergies) == 0 {
		return nil
	}
	text := r.Text()
	var out []string
	for _, allergy := range allergies {
		if containsAny(text, AllergenKeywords(allergy)) {
			out = append(out, allergy)
		}
	}
	return out
}

// SuitableForConditions reports whether r stays within every guideline
// ceiling of the declared conditions. Conditions without a guideline entry
// and unknown nutrition values pass.
func SuitableForConditions(r *recipe.Recipe, conditions []string) bool {
	for _, c := range conditions {
		for _, ceiling := range conditionCeilings[c] {
			if ceiling.Exceeded(r) {
				return false
			}
		}
	}
	return true
}

// CompatibleWithRestrictions evaluates each declared restriction's keyword
// blocklist or nutrient ceiling. Unrecognized restrictions are ignored.
func CompatibleWithRestrictions(r *recipe.Recipe, restrictions []string) bool {
	if len(restrictions) == 0 {
		return true
	}
	return compatibleText(r, r.Text(), restrictions)
}

func compatibleText(r *recipe.Recipe, text string, restrictions []string) bool {
	for _, name := range restrictions {
		rule, ok := restrictionRules[name]
		if !ok {
			continue
		}
		if containsAny(text, rule.blocked) {
			return false
		}
		for _, ceiling := range rule.ceilings {
			if ceiling.Exceeded(r) {
				return false
			}
		}
	}
	return true
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
