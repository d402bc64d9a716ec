package personalize

import (
	"context"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Catalog reads recipes for personalization.
type Catalog interface {
	GetAll(ctx context.Context) ([]recipe.Recipe, error)
	GetByIDs(ctx context.Context, ids []int64) ([]recipe.Recipe, error)
}
