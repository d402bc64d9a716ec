package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain"
	dombatch "github.com/kailas-cloud/recipedex/internal/domain/batch"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// MaxImportSize is the maximum number of recipes per import.
const MaxImportSize = 5000

// Service manages catalog records. It never touches the search index;
// callers rebuild the index after mutating the catalog.
type Service struct {
	repo          Repository
	logger        *zap.Logger
	maxImportSize int
}

// New creates a catalog service.
func New(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, maxImportSize: MaxImportSize}
}

// WithMaxImportSize configures the maximum import size.
func (s *Service) WithMaxImportSize(size int) *Service {
	if size > 0 {
		s.maxImportSize = size
	}
	return s
}

// Create validates and stores a single recipe.
func (s *Service) Create(ctx context.Context, d *recipe.Draft) (recipe.Recipe, error) {
	r, err := d.Build(0)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("%w: %w", domain.ErrInvalidRecipe, err)
	}
	created, err := s.repo.Create(ctx, r)
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("create recipe: %w", err)
	}
	return created, nil
}

// Import stores drafts in order. A draft whose name already exists in the
// catalog, or earlier in the same import, is skipped. Invalid drafts fail
// individually. Only a catalog read failure aborts the whole import.
func (s *Service) Import(ctx context.Context, drafts []recipe.Draft) ([]dombatch.Result, error) {
	if len(drafts) > s.maxImportSize {
		return nil, fmt.Errorf("import size %d exceeds %d: %w", len(drafts), s.maxImportSize, domain.ErrInvalidRecipe)
	}

	existing, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	names := make(map[string]struct{}, len(existing)+len(drafts))
	for i := range existing {
		names[existing[i].Name] = struct{}{}
	}

	results := make([]dombatch.Result, len(drafts))
	for i := range drafts {
		d := &drafts[i]
		r, err := d.Build(0)
		if err != nil {
			results[i] = dombatch.NewError(d.Name, fmt.Errorf("%w: %w", domain.ErrInvalidRecipe, err))
			continue
		}
		if _, dup := names[r.Name]; dup {
			results[i] = dombatch.NewSkipped(r.Name)
			continue
		}
		created, err := s.repo.Create(ctx, r)
		if err != nil {
			results[i] = dombatch.NewError(r.Name, fmt.Errorf("create recipe: %w", err))
			continue
		}
		names[created.Name] = struct{}{}
		results[i] = dombatch.NewOK(created.Name, created.ID)
	}

	sum := dombatch.Summarize(results)
	s.logger.Info("Catalog import finished",
		zap.Int("submitted", len(drafts)),
		zap.Int("imported", sum.Imported),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed),
	)
	return results, nil
}

// Get retrieves a recipe by id.
func (s *Service) Get(ctx context.Context, id int64) (recipe.Recipe, error) {
	found, err := s.repo.GetByIDs(ctx, []int64{id})
	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("get recipe: %w", err)
	}
	if len(found) == 0 {
		return recipe.Recipe{}, fmt.Errorf("recipe %d: %w", id, domain.ErrRecipeNotFound)
	}
	return found[0], nil
}

// List returns every recipe in ascending id order.
func (s *Service) List(ctx context.Context) ([]recipe.Recipe, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return all, nil
}

// FilterByCategory returns the recipes whose category equals label exactly.
// Unlike category search it is case-sensitive and bypasses the index.
func (s *Service) FilterByCategory(ctx context.Context, label string) ([]recipe.Recipe, error) {
	found, err := s.repo.GetByCategory(ctx, label)
	if err != nil {
		return nil, fmt.Errorf("filter by category: %w", err)
	}
	return found, nil
}

// Delete removes a recipe by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}
