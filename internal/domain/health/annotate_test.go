package health

import (
	"slices"
	"testing"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

func TestWarnings(t *testing.T) {
	r := rec("Mac and Cheese", `["macaroni", "cheddar cheese", "almond milk"]`, recipe.Nutrition{
		Sugar:  recipe.Float(12.5),
		Sodium: recipe.Float(900),
		Fat:    recipe.Float(20),
	})
	p := &Profile{
		Allergies:  []string{"dairy", "tree nuts", "shellfish"},
		Conditions: []string{Diabetes, Hypertension, HeartDisease},
	}

	want := []string{
		"⚠️ Contains allergens: Dairy, Tree Nuts",
		"⚠️ High sugar content (12.5g) - not recommended for diabetes",
		"⚠️ High sodium content (900mg) - not recommended for hypertension",
		"⚠️ High fat content (20g) - not recommended for heart disease",
	}
	if got := Warnings(r, p); !slices.Equal(got, want) {
		t.Errorf("Warnings =\n%q\nwant\n%q", got, want)
	}
}

func TestWarnings_NarrowerThanFilter(t *testing.T) {
	// carbs 60 fails the diabetes filter but has no warning line
	r := rec("Rice", "", recipe.Nutrition{Sugar: recipe.Float(3), Carbs: recipe.Float(60)})
	p := &Profile{Conditions: []string{Diabetes, KidneyDisease}}

	if SuitableForConditions(r, p.Conditions) {
		t.Fatal("expected the filter to reject the recipe")
	}
	if got := Warnings(r, p); len(got) != 0 {
		t.Errorf("expected no warnings, got %q", got)
	}
}

func TestWarnings_MissingValues(t *testing.T) {
	r := rec("Mystery Stew", "", recipe.Nutrition{})
	p := &Profile{Conditions: []string{Diabetes, Hypertension, HeartDisease}}
	if got := Warnings(r, p); len(got) != 0 {
		t.Errorf("expected no warnings, got %q", got)
	}
}

func TestBenefits(t *testing.T) {
	n := recipe.Nutrition{
		Sodium:   recipe.Float(150),
		Fiber:    recipe.Float(8),
		Protein:  recipe.Float(30),
		Calories: recipe.Float(250),
	}
	tests := []struct {
		name string
		p    *Profile
		want []string
	}{
		{"none declared", &Profile{}, nil},
		{"heart disease", &Profile{Conditions: []string{HeartDisease}}, []string{"✅ Low sodium - good for blood pressure"}},
		{"diabetes", &Profile{Conditions: []string{Diabetes}}, []string{"✅ High fiber - helps control blood sugar"}},
		{"gain goal", &Profile{Goal: GoalGain}, []string{"✅ High protein - supports muscle growth"}},
		{"muscle building", &Profile{Restrictions: []string{MuscleBuilding}}, []string{"✅ High protein - supports muscle growth"}},
		{"lose goal", &Profile{Goal: GoalLose}, []string{"✅ Low calorie - supports weight management"}},
		{"obesity", &Profile{Conditions: []string{Obesity, Hypertension}}, []string{
			"✅ Low sodium - good for blood pressure",
			"✅ Low calorie - supports weight management",
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := rec("Lentil Soup", "", n)
			if got := Benefits(r, tc.p); !slices.Equal(got, tc.want) {
				t.Errorf("Benefits = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBenefits_UnknownNutritionNeverQualifies(t *testing.T) {
	p := &Profile{Goal: GoalLose, Conditions: []string{Hypertension, Diabetes}}
	if got := Benefits(rec("Bread", "", recipe.Nutrition{}), p); len(got) != 0 {
		t.Errorf("expected no benefits, got %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	for in, want := range map[string]string{"tree nuts": "Tree Nuts", "kiwi": "Kiwi", "low-sodium": "Low-Sodium", "": ""} {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
