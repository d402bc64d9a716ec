package recipe

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Field length limits.
const (
	MaxNameLength        = 200
	MaxCategoryLength    = 100
	MaxDescriptionLength = 16384
)

var errNegativeTime = errors.New("prep and cook time must not be negative")

// Nutrition holds per-serving nutrition values. A nil field is unknown.
type Nutrition struct {
	Calories *float64 // kcal
	Protein  *float64 // g
	Carbs    *float64 // g
	Fat      *float64 // g
	Fiber    *float64 // g
	Sugar    *float64 // g
	Sodium   *float64 // mg
}

// Recipe is a catalog record. Ingredients and Tags keep the serialized list
// exactly as stored so that malformed payloads can still be matched as text.
type Recipe struct {
	ID           int64
	Name         string
	Description  string
	Ingredients  string
	Instructions string
	Tags         string
	Category     string
	PrepTime     int // minutes
	CookTime     int // minutes
	Servings     int
	Nutrition    Nutrition
	CreatedAt    time.Time
}

// New validates and creates a Recipe from structured ingredient and tag lists.
// The id may be zero when the store assigns it.
func New(id int64, name, description string, ingredients []Ingredient, tags []string, category string) (Recipe, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Recipe{}, fmt.Errorf("recipe name is required")
	}
	if len(name) > MaxNameLength {
		return Recipe{}, fmt.Errorf("recipe name too long (max %d)", MaxNameLength)
	}
	if len(category) > MaxCategoryLength {
		return Recipe{}, fmt.Errorf("category too long (max %d)", MaxCategoryLength)
	}
	if len(description) > MaxDescriptionLength {
		return Recipe{}, fmt.Errorf("description too long (max %d)", MaxDescriptionLength)
	}
	if id < 0 {
		return Recipe{}, fmt.Errorf("recipe id must not be negative")
	}
	if len(ingredients) == 0 {
		return Recipe{}, fmt.Errorf("at least one ingredient is required")
	}

	rawIngredients, err := EncodeIngredients(ingredients)
	if err != nil {
		return Recipe{}, err
	}
	rawTags, err := EncodeTags(tags)
	if err != nil {
		return Recipe{}, err
	}

	return Recipe{
		ID:          id,
		Name:        name,
		Description: description,
		Ingredients: rawIngredients,
		Tags:        rawTags,
		Category:    strings.TrimSpace(category),
	}, nil
}

// Text is the lower-cased concatenation of name, description, raw ingredients,
// and raw tags. Keyword rules match against it.
func (r *Recipe) Text() string {
	var b strings.Builder
	b.Grow(len(r.Name) + len(r.Description) + len(r.Ingredients) + len(r.Tags) + 3)
	b.WriteString(r.Name)
	b.WriteByte(' ')
	b.WriteString(r.Description)
	b.WriteByte(' ')
	b.WriteString(r.Ingredients)
	b.WriteByte(' ')
	b.WriteString(r.Tags)
	return strings.ToLower(b.String())
}

// Float returns a pointer to v, for building Nutrition literals.
func Float(v float64) *float64 { return &v }
