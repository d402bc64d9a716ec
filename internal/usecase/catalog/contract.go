package catalog

import (
	"context"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Repository defines the storage contract for recipes.
type Repository interface {
	// Create assigns the next id, stamps the creation time and stores r.
	Create(ctx context.Context, r recipe.Recipe) (recipe.Recipe, error)
	GetByIDs(ctx context.Context, ids []int64) ([]recipe.Recipe, error)
	GetAll(ctx context.Context) ([]recipe.Recipe, error)
	GetByCategory(ctx context.Context, label string) ([]recipe.Recipe, error)
	Delete(ctx context.Context, id int64) error
}
