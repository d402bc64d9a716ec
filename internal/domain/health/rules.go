package health

import "github.com/kailas-cloud/recipedex/internal/domain/recipe"

// Nutrient names one per-serving nutrition field of a recipe.
type Nutrient int

// Nutrients.
const (
	Calories Nutrient = iota
	Protein
	Carbs
	Fat
	Fiber
	Sugar
	Sodium
)

var nutrientNames = [...]string{"calories", "protein", "carbs", "fat", "fiber", "sugar", "sodium"}

func (n Nutrient) String() string {
	if int(n) < len(nutrientNames) {
		return nutrientNames[n]
	}
	return "unknown"
}

// Of returns the recipe's value for n, nil when unknown.
func (n Nutrient) Of(r *recipe.Recipe) *float64 {
	switch n {
	case Calories:
		return r.Nutrition.Calories
	case Protein:
		return r.Nutrition.Protein
	case Carbs:
		return r.Nutrition.Carbs
	case Fat:
		return r.Nutrition.Fat
	case Fiber:
		return r.Nutrition.Fiber
	case Sugar:
		return r.Nutrition.Sugar
	case Sodium:
		return r.Nutrition.Sodium
	}
	return nil
}

// Ceiling is the maximum per-serving value of one nutrient.
type Ceiling struct {
	Nutrient Nutrient
	Max      float64
}

// Exceeded reports whether r is known to go over the ceiling. An unknown
// value never exceeds.
func (c Ceiling) Exceeded(r *recipe.Recipe) bool {
	v := c.Nutrient.Of(r)
	return v != nil && *v > c.Max
}

// Condition names with guideline entries.
const (
	Diabetes        = "diabetes"
	Hypertension    = "hypertension"
	HeartDisease    = "heart disease"
	HighCholesterol = "high cholesterol"
	KidneyDisease   = "kidney disease"
	Obesity         = "obesity"
)

// Restriction names with rules, plus the benefit-only "muscle building".
const (
	Vegetarian     = "vegetarian"
	Vegan          = "vegan"
	Halal          = "halal"
	Kosher         = "kosher"
	Keto           = "keto"
	Ketogenic      = "ketogenic"
	LowSodium      = "low-sodium"
	LowCarb        = "low-carb"
	MuscleBuilding = "muscle building"
)

// allergenKeywords maps an allergy to the ingredient substrings that reveal it.
// Allergies missing here match on their own name.
var allergenKeywords = map[string][]string{
	"peanuts":   {"peanut", "groundnut"},
	"tree nuts": {"almond", "walnut", "cashew", "pecan", "hazelnut", "pistachio", "brazil nut"},
	"dairy":     {"milk", "cheese", "butter", "cream", "yogurt", "whey", "casein"},
	"eggs":      {"egg", "albumin", "mayonnaise"},
	"shellfish": {"shrimp", "crab", "lobster", "oyster", "mussel", "scallop"},
	"fish":      {"salmon", "tuna", "cod", "fish", "anchovy"},
	"soy":       {"soy", "tofu", "tempeh", "miso", "edamame"},
	"wheat":     {"wheat", "flour", "bread", "pasta", "gluten"},
	"gluten":    {"wheat", "barley", "rye", "flour", "bread", "pasta", "gluten"},
	"sesame":    {"sesame", "tahini"},
}

// conditionCeilings holds the per-serving guideline ceilings of each medical
// condition.
var conditionCeilings = map[string][]Ceiling{
	Diabetes:        {{Sugar, 10}, {Carbs, 45}},
	Hypertension:    {{Sodium, 600}},
	HeartDisease:    {{Fat, 15}, {Sodium, 600}},
	HighCholesterol: {{Fat, 12}},
	KidneyDisease:   {{Sodium, 400}, {Protein, 20}},
	Obesity:         {{Calories, 400}, {Fat, 15}},
}

// warningCeilings is the narrower subset of conditionCeilings that produces
// human-readable warnings.
var warningCeilings = map[string]Ceiling{
	Diabetes:     {Sugar, 10},
	Hypertension: {Sodium, 600},
	HeartDisease: {Fat, 15},
}

var meatKeywords = []string{"chicken", "beef", "pork", "fish", "turkey", "lamb", "seafood", "meat"}

type restrictionRule struct {
	blocked  []string
	ceilings []Ceiling
}

var restrictionRules = map[string]restrictionRule{
	Vegetarian: {blocked: meatKeywords},
	Vegan: {blocked: append(append([]string(nil), meatKeywords...),
		"dairy", "milk", "cheese", "butter", "cream", "egg", "honey")},
	Halal:     {blocked: []string{"pork", "ham", "bacon", "alcohol", "wine", "beer"}},
	Kosher:    {blocked: []string{"pork", "ham", "bacon", "shellfish", "lobster", "crab", "shrimp"}},
	Keto:      {ceilings: []Ceiling{{Carbs, 10}}},
	Ketogenic: {ceilings: []Ceiling{{Carbs, 10}}},
	LowSodium: {ceilings: []Ceiling{{Sodium, 500}}},
	LowCarb:   {ceilings: []Ceiling{{Carbs, 20}}},
}

// AllergenKeywords returns the substrings checked for allergy.
func AllergenKeywords(allergy string) []string {
	if kw, ok := allergenKeywords[allergy]; ok {
		return kw
	}
	return []string{allergy}
}

// ConditionCeilings returns the guideline ceilings of condition, nil when the
// condition has no guideline entry.
func ConditionCeilings(condition string) []Ceiling { return conditionCeilings[condition] }
