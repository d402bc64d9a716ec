package recipedex

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/recipedex/internal/domain/health"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Ingredient is one entry of a recipe's ingredient list.
type Ingredient struct {
	Name   string
	Amount string
}

// Nutrition holds per-serving values. A nil field is unknown.
type Nutrition struct {
	Calories *float64 // kcal
	Protein  *float64 // g
	Carbs    *float64 // g
	Fat      *float64 // g
	Fiber    *float64 // g
	Sugar    *float64 // g
	Sodium   *float64 // mg
}

// RecipeInput is a recipe to add to the catalog. Category defaults to
// "Unknown" and Servings to 1.
type RecipeInput struct {
	Name         string
	Description  string
	Ingredients  []Ingredient
	Instructions string
	Tags         []string
	Category     string
	PrepTime     int // minutes
	CookTime     int // minutes
	Servings     int
	Nutrition    Nutrition
}

// Recipe is a stored catalog record. When the stored ingredient or tag list
// cannot be decoded, the raw payload is kept in RawIngredients or RawTags.
type Recipe struct {
	ID             int64
	Name           string
	Description    string
	Ingredients    []Ingredient
	RawIngredients string
	Instructions   string
	Tags           []string
	RawTags        string
	Category       string
	PrepTime       int
	CookTime       int
	Servings       int
	Nutrition      Nutrition
	CreatedAt      time.Time
}

// SearchResult is a recipe with its free-text relevance score.
type SearchResult struct {
	Recipe
	Score int
}

// ImportStatus is the outcome of one imported recipe.
type ImportStatus string

// Import status constants.
const (
	ImportOK      ImportStatus = "ok"
	ImportSkipped ImportStatus = "skipped"
	ImportError   ImportStatus = "error"
)

// ImportResult is the outcome of one item of an import.
type ImportResult struct {
	Name   string
	ID     int64 // zero unless Status is ImportOK
	Status ImportStatus
	Err    error
}

// NutritionFilter bounds per-serving nutrition. Nil bounds are ignored.
type NutritionFilter struct {
	MaxCalories *float64
	MinProtein  *float64
}

// User carries a user's health declarations.
type User struct {
	Goal                string // lose, gain or maintain
	Allergies           []string
	MedicalConditions   []string
	DietaryRestrictions []string
}

// Annotations are the health notes of one recipe for one user.
type Annotations struct {
	Warnings []string
	Benefits []string
}

// IndexInfo describes the published search index.
type IndexInfo struct {
	Ready           bool
	Generation      uint64
	BuiltAt         time.Time
	Recipes         int
	NameTokens      int
	IngredientTerms int
	TagTokens       int
	Categories      int
	MalformedFields int
}

// --- converters ---

func toDraft(in *RecipeInput) recipe.Draft {
	d := recipe.Draft{
		Name:         in.Name,
		Description:  in.Description,
		Instructions: in.Instructions,
		Tags:         in.Tags,
		Category:     in.Category,
		PrepTime:     in.PrepTime,
		CookTime:     in.CookTime,
		Servings:     in.Servings,
		Calories:     in.Nutrition.Calories,
		Protein:      in.Nutrition.Protein,
		Carbs:        in.Nutrition.Carbs,
		Fat:          in.Nutrition.Fat,
		Fiber:        in.Nutrition.Fiber,
		Sugar:        in.Nutrition.Sugar,
		Sodium:       in.Nutrition.Sodium,
	}
	if len(in.Ingredients) > 0 {
		d.Ingredients = make([]recipe.Ingredient, len(in.Ingredients))
		for i, ing := range in.Ingredients {
			d.Ingredients[i] = recipe.Ingredient{Name: ing.Name, Amount: ing.Amount}
		}
	}
	return d
}

func fromDomain(r *recipe.Recipe) Recipe {
	out := Recipe{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Instructions: r.Instructions,
		Category:     r.Category,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		Nutrition:    Nutrition(r.Nutrition),
		CreatedAt:    r.CreatedAt,
	}
	if items, err := recipe.ParseIngredients(r.Ingredients); err == nil {
		out.Ingredients = make([]Ingredient, len(items))
		for i, it := range items {
			out.Ingredients[i] = Ingredient{Name: it.Name, Amount: it.Amount}
		}
	} else {
		out.RawIngredients = r.Ingredients
	}
	if tags, err := recipe.ParseTags(r.Tags); err == nil {
		out.Tags = tags
	} else {
		out.RawTags = r.Tags
	}
	return out
}

func fromDomainList(rs []recipe.Recipe) []Recipe {
	out := make([]Recipe, len(rs))
	for i := range rs {
		out[i] = fromDomain(&rs[i])
	}
	return out
}

// declarations serializes the user's lists into the stored declaration form.
func (u *User) declarations() (health.Declarations, error) {
	d := health.Declarations{Goal: u.Goal}
	for _, f := range []struct {
		name string
		src  []string
		dst  *string
	}{
		{"allergies", u.Allergies, &d.Allergies},
		{"medical_conditions", u.MedicalConditions, &d.MedicalConditions},
		{"dietary_restrictions", u.DietaryRestrictions, &d.DietaryRestrictions},
	} {
		if len(f.src) == 0 {
			continue
		}
		raw, err := json.Marshal(f.src)
		if err != nil {
			return health.Declarations{}, fmt.Errorf("encode %s: %w", f.name, err)
		}
		*f.dst = string(raw)
	}
	return d, nil
}
