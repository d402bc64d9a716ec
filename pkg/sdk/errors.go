package recipedex

import "github.com/kailas-cloud/recipedex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrRecipeNotFound     = domain.ErrRecipeNotFound
	ErrInvalidRecipe      = domain.ErrInvalidRecipe
	ErrInvalidQuery       = domain.ErrInvalidQuery
	ErrCatalogUnavailable = domain.ErrCatalogUnavailable
)
