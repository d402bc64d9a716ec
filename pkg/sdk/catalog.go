package recipedex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// CatalogService stores and retrieves recipes. Writes do not refresh the
// search index; call SearchService.Rebuild afterwards.
type CatalogService struct {
	svc catalogUseCase
	obs *observer
}

// Create validates and stores one recipe under the next free id.
func (s *CatalogService) Create(ctx context.Context, in *RecipeInput) (_ Recipe, err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog.create", start, err) }()

	d := toDraft(in)
	r, err := s.svc.Create(ctx, &d)
	if err != nil {
		return Recipe{}, fmt.Errorf("create recipe: %w", err)
	}
	return fromDomain(&r), nil
}

// Import stores every recipe whose name is not yet in the catalog. Invalid
// items are reported per item; the returned error is set only when the
// catalog itself fails or the batch is too large.
func (s *CatalogService) Import(ctx context.Context, items []RecipeInput) (_ []ImportResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog.import", start, err) }()

	drafts := make([]recipe.Draft, len(items))
	for i := range items {
		drafts[i] = toDraft(&items[i])
	}
	results, err := s.svc.Import(ctx, drafts)
	if err != nil {
		return nil, fmt.Errorf("import recipes: %w", err)
	}

	out := make([]ImportResult, len(results))
	for i, r := range results {
		out[i] = ImportResult{Name: r.Name(), ID: r.ID(), Status: ImportStatus(r.Status()), Err: r.Err()}
	}
	return out, nil
}

// Get returns one recipe by id.
func (s *CatalogService) Get(ctx context.Context, id int64) (_ Recipe, err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog.get", start, err) }()

	r, err := s.svc.Get(ctx, id)
	if err != nil {
		return Recipe{}, fmt.Errorf("get recipe %d: %w", id, err)
	}
	return fromDomain(&r), nil
}

// List returns every recipe in id order.
func (s *CatalogService) List(ctx context.Context) (_ []Recipe, err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog.list", start, err) }()

	rs, err := s.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return fromDomainList(rs), nil
}

// ByCategory returns the recipes whose category equals label exactly.
func (s *CatalogService) ByCategory(ctx context.Context, label string) (_ []Recipe, err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog.by_category", start, err) }()

	rs, err := s.svc.FilterByCategory(ctx, label)
	if err != nil {
		return nil, fmt.Errorf("filter by category: %w", err)
	}
	return fromDomainList(rs), nil
}

// Delete removes a recipe. Its id is never reused.
func (s *CatalogService) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog.delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe %d: %w", id, err)
	}
	return nil
}
