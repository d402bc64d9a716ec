package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrRecipeNotFound signals a missing recipe.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrInvalidRecipe signals a recipe that fails validation.
	ErrInvalidRecipe = errors.New("invalid recipe")
	// ErrInvalidQuery signals query parameters that fail validation.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrCatalogUnavailable signals a failed catalog store round-trip.
	// It is the only error class allowed to abort a search or personalization call.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrIndexNotReady signals a query against an index that was never built.
	// Services resolve it with a synchronous rebuild; it is not returned to callers.
	ErrIndexNotReady = errors.New("search index not ready")
)

// MalformedFieldError describes a stored list field that could not be decoded.
// Consumers degrade the field to its fallback form and keep going.
type MalformedFieldError struct {
	RecipeID int64
	Field    string
	Err      error
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("recipe %d: malformed %s: %v", e.RecipeID, e.Field, e.Err)
}

func (e *MalformedFieldError) Unwrap() error { return e.Err }

// CatalogError wraps a catalog store failure with ErrCatalogUnavailable.
func CatalogError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrCatalogUnavailable, err)
}
