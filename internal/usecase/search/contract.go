package search

import (
	"context"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Catalog is the read side of the recipe store used by search.
type Catalog interface {
	// GetByIDs returns the recipes for ids in ascending id order. Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []int64) ([]recipe.Recipe, error)
	// GetAll returns every recipe in ascending id order.
	GetAll(ctx context.Context) ([]recipe.Recipe, error)
}
