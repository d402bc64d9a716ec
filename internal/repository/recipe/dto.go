package recipe

import (
	"strconv"
	"time"

	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Hash field names of a stored recipe.
const (
	fieldName         = "name"
	fieldDescription  = "description"
	fieldIngredients  = "ingredients"
	fieldInstructions = "instructions"
	fieldTags         = "tags"
	fieldCategory     = "category"
	fieldPrepTime     = "prep_time"
	fieldCookTime     = "cook_time"
	fieldServings     = "servings"
	fieldCalories     = "calories"
	fieldProtein      = "protein"
	fieldCarbs        = "carbs"
	fieldFat          = "fat"
	fieldFiber        = "fiber"
	fieldSugar        = "sugar"
	fieldSodium       = "sodium"
	fieldCreatedAt    = "created_at"
)

// recipeToHash converts a Recipe to a map for HSET. Unknown nutrition
// values are left out.
func recipeToHash(r *domrecipe.Recipe) map[string]string {
	m := map[string]string{
		fieldName:         r.Name,
		fieldDescription:  r.Description,
		fieldIngredients:  r.Ingredients,
		fieldInstructions: r.Instructions,
		fieldTags:         r.Tags,
		fieldCategory:     r.Category,
		fieldPrepTime:     strconv.Itoa(r.PrepTime),
		fieldCookTime:     strconv.Itoa(r.CookTime),
		fieldServings:     strconv.Itoa(r.Servings),
		fieldCreatedAt:    strconv.FormatInt(r.CreatedAt.UnixMilli(), 10),
	}
	n := &r.Nutrition
	for field, v := range map[string]*float64{
		fieldCalories: n.Calories,
		fieldProtein:  n.Protein,
		fieldCarbs:    n.Carbs,
		fieldFat:      n.Fat,
		fieldFiber:    n.Fiber,
		fieldSugar:    n.Sugar,
		fieldSodium:   n.Sodium,
	} {
		if v != nil {
			m[field] = strconv.FormatFloat(*v, 'f', -1, 64)
		}
	}
	return m
}

// recipeFromHash hydrates a Recipe from an HGETALL result map. Numeric
// fields that do not parse read as zero, or as unknown for nutrition.
func recipeFromHash(id int64, m map[string]string) domrecipe.Recipe {
	r := domrecipe.Recipe{
		ID:           id,
		Name:         m[fieldName],
		Description:  m[fieldDescription],
		Ingredients:  m[fieldIngredients],
		Instructions: m[fieldInstructions],
		Tags:         m[fieldTags],
		Category:     m[fieldCategory],
		PrepTime:     atoi(m[fieldPrepTime]),
		CookTime:     atoi(m[fieldCookTime]),
		Servings:     atoi(m[fieldServings]),
		Nutrition: domrecipe.Nutrition{
			Calories: parseFloat(m, fieldCalories),
			Protein:  parseFloat(m, fieldProtein),
			Carbs:    parseFloat(m, fieldCarbs),
			Fat:      parseFloat(m, fieldFat),
			Fiber:    parseFloat(m, fieldFiber),
			Sugar:    parseFloat(m, fieldSugar),
			Sodium:   parseFloat(m, fieldSodium),
		},
	}
	if ms, err := strconv.ParseInt(m[fieldCreatedAt], 10, 64); err == nil {
		r.CreatedAt = time.UnixMilli(ms).UTC()
	}
	return r
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(m map[string]string, field string) *float64 {
	s, ok := m[field]
	if !ok || s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
