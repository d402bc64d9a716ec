package chi

import (
	"time"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes returned in ErrorResponse.
const (
	ErrorResponseCodeBadRequest         ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed   ErrorResponseCode = "validation_failed"
	ErrorResponseCodeRecipeNotFound     ErrorResponseCode = "recipe_not_found"
	ErrorResponseCodeNotFound           ErrorResponseCode = "not_found"
	ErrorResponseCodeCatalogUnavailable ErrorResponseCode = "catalog_unavailable"
	ErrorResponseCodeInternalError      ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// Nutrition is the per-serving nutrition block of a recipe. Unknown values are omitted.
type Nutrition struct {
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
	Fiber    *float64 `json:"fiber,omitempty"`
	Sugar    *float64 `json:"sugar,omitempty"`
	Sodium   *float64 `json:"sodium,omitempty"`
}

// RecipeResponse is the wire form of a recipe. Ingredients and tags are
// decoded lists; a malformed stored payload is returned under Raw* instead.
type RecipeResponse struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Ingredients    []string   `json:"ingredients"`
	RawIngredients string     `json:"raw_ingredients,omitempty"`
	Instructions   string     `json:"instructions,omitempty"`
	Tags           []string   `json:"tags"`
	RawTags        string     `json:"raw_tags,omitempty"`
	Category       string     `json:"category"`
	PrepTime       int        `json:"prep_time"`
	CookTime       int        `json:"cook_time"`
	Servings       int        `json:"servings"`
	Nutrition      Nutrition  `json:"nutrition"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

// RecipeListResponse wraps a list of recipes.
type RecipeListResponse struct {
	Items []RecipeResponse `json:"items"`
	Total int              `json:"total"`
}

// SearchResultItem is a recipe with its relevance score.
type SearchResultItem struct {
	RecipeResponse
	Score int `json:"score"`
}

// SearchResultListResponse wraps ranked search results.
type SearchResultListResponse struct {
	Items []SearchResultItem `json:"items"`
	Total int                `json:"total"`
}

// ImportResultItem is the outcome of one imported recipe.
type ImportResultItem struct {
	Name   string         `json:"name"`
	ID     *int64         `json:"id,omitempty"`
	Status string         `json:"status"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// ImportResponse summarizes a catalog import.
type ImportResponse struct {
	Items    []ImportResultItem `json:"items"`
	Imported int                `json:"imported"`
	Skipped  int                `json:"skipped"`
	Failed   int                `json:"failed"`
}

// AnnotationsResponse holds the health notes for one recipe.
type AnnotationsResponse struct {
	RecipeID int64    `json:"recipe_id"`
	Warnings []string `json:"warnings"`
	Benefits []string `json:"benefits"`
}

// IndexResponse describes the published search index.
type IndexResponse struct {
	Ready           bool       `json:"ready"`
	Generation      uint64     `json:"generation"`
	BuiltAt         *time.Time `json:"built_at,omitempty"`
	Recipes         int        `json:"recipes"`
	NameTokens      int        `json:"name_tokens"`
	IngredientTerms int        `json:"ingredient_terms"`
	TagTokens       int        `json:"tag_tokens"`
	Categories      int        `json:"categories"`
	MalformedFields int        `json:"malformed_fields"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}

func recipeToAPI(r *recipe.Recipe) RecipeResponse {
	resp := RecipeResponse{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Instructions: r.Instructions,
		Category:     r.Category,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		Nutrition: Nutrition{
			Calories: r.Nutrition.Calories,
			Protein:  r.Nutrition.Protein,
			Carbs:    r.Nutrition.Carbs,
			Fat:      r.Nutrition.Fat,
			Fiber:    r.Nutrition.Fiber,
			Sugar:    r.Nutrition.Sugar,
			Sodium:   r.Nutrition.Sodium,
		},
	}

	if names, err := r.IngredientNames(); err == nil {
		resp.Ingredients = names
	} else {
		resp.RawIngredients = r.Ingredients
	}
	if tags, err := r.TagList(); err == nil {
		resp.Tags = tags
	} else {
		resp.RawTags = r.Tags
	}
	if resp.Ingredients == nil {
		resp.Ingredients = []string{}
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}

	if !r.CreatedAt.IsZero() {
		t := r.CreatedAt
		resp.CreatedAt = &t
	}
	return resp
}

func recipesToAPI(rs []recipe.Recipe) RecipeListResponse {
	items := make([]RecipeResponse, len(rs))
	for i := range rs {
		items[i] = recipeToAPI(&rs[i])
	}
	return RecipeListResponse{Items: items, Total: len(items)}
}
