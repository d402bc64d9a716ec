package recipe

import "strings"

// DefaultCategory is assigned to drafts that name no category.
const DefaultCategory = "Unknown"

// Draft is a recipe as submitted for import, before the store assigns an id.
// The JSON layout matches the catalog import files.
type Draft struct {
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions string       `json:"instructions,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	Category     string       `json:"category,omitempty"`
	PrepTime     int          `json:"prep_time,omitempty"`
	CookTime     int          `json:"cook_time,omitempty"`
	Servings     int          `json:"servings,omitempty"`
	Calories     *float64     `json:"calories_per_serving,omitempty"`
	Protein      *float64     `json:"protein,omitempty"`
	Carbs        *float64     `json:"carbs,omitempty"`
	Fat          *float64     `json:"fat,omitempty"`
	Fiber        *float64     `json:"fiber,omitempty"`
	Sugar        *float64     `json:"sugar,omitempty"`
	Sodium       *float64     `json:"sodium,omitempty"`
}

// Build validates the draft and turns it into a Recipe with the given id.
// A blank category becomes DefaultCategory and a non-positive serving count
// becomes one.
func (d *Draft) Build(id int64) (Recipe, error) {
	category := strings.TrimSpace(d.Category)
	if category == "" {
		category = DefaultCategory
	}
	r, err := New(id, d.Name, d.Description, d.Ingredients, d.Tags, category)
	if err != nil {
		return Recipe{}, err
	}
	if d.PrepTime < 0 || d.CookTime < 0 {
		return Recipe{}, errNegativeTime
	}
	r.Instructions = d.Instructions
	r.PrepTime = d.PrepTime
	r.CookTime = d.CookTime
	r.Servings = max(d.Servings, 1)
	r.Nutrition = Nutrition{
		Calories: d.Calories,
		Protein:  d.Protein,
		Carbs:    d.Carbs,
		Fat:      d.Fat,
		Fiber:    d.Fiber,
		Sugar:    d.Sugar,
		Sodium:   d.Sodium,
	}
	return r, nil
}
