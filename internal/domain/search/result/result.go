package result

import "github.com/kailas-cloud/recipedex/internal/domain/recipe"

// Result is a single search hit.
type Result struct {
	recipe recipe.Recipe
	score  int
}

// New creates a search result.
func New(r recipe.Recipe, score int) Result {
	return Result{recipe: r, score: score}
}

// Recipe returns the matched recipe.
func (r *Result) Recipe() recipe.Recipe { return r.recipe }

// ID returns the recipe identifier.
func (r *Result) ID() int64 { return r.recipe.ID }

// Score returns the relevance score. Unscored query modes leave it at zero.
func (r *Result) Score() int { return r.score }

// Recipes strips the scores from results, keeping order.
func Recipes(results []Result) []recipe.Recipe {
	out := make([]recipe.Recipe, len(results))
	for i := range results {
		out[i] = results[i].recipe
	}
	return out
}
