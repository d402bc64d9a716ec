package recipedex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/recipedex/internal/domain/search/filter"
)

// SearchService queries the in-memory index. Limits of zero or less select
// the configured default.
type SearchService struct {
	svc searchUseCase
	obs *observer
}

// Text ranks recipes by relevance of name, ingredients, tags and category
// to query. A blank query returns no results.
func (s *SearchService) Text(ctx context.Context, query string, limit int) (found []SearchResult, err error) {
	start := time.Now()
	defer func() { s.obs.observeResults("search.text", start, len(found), err) }()

	results, err := s.svc.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	out := make([]SearchResult, len(results))
	for i := range results {
		r := results[i].Recipe()
		out[i] = SearchResult{Recipe: fromDomain(&r), Score: results[i].Score()}
	}
	return out, nil
}

// Ingredients returns recipes with an ingredient containing any of terms.
func (s *SearchService) Ingredients(ctx context.Context, terms []string, limit int) (found []Recipe, err error) {
	start := time.Now()
	defer func() { s.obs.observeResults("search.ingredients", start, len(found), err) }()

	rs, err := s.svc.SearchByIngredients(ctx, terms, limit)
	if err != nil {
		return nil, fmt.Errorf("search by ingredients: %w", err)
	}
	return fromDomainList(rs), nil
}

// Category returns recipes whose category contains label, ignoring case.
func (s *SearchService) Category(ctx context.Context, label string, limit int) (found []Recipe, err error) {
	start := time.Now()
	defer func() { s.obs.observeResults("search.category", start, len(found), err) }()

	rs, err := s.svc.SearchByCategory(ctx, label, limit)
	if err != nil {
		return nil, fmt.Errorf("search by category: %w", err)
	}
	return fromDomainList(rs), nil
}

// Nutrition returns recipes within the bounds of f. Recipes with an unknown
// value for a bounded nutrient are excluded.
func (s *SearchService) Nutrition(ctx context.Context, f NutritionFilter, limit int) (found []Recipe, err error) {
	start := time.Now()
	defer func() { s.obs.observeResults("search.nutrition", start, len(found), err) }()

	pred, err := filter.NewNutrition(f.MaxCalories, f.MinProtein)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	rs, err := s.svc.SearchByNutrition(ctx, pred, limit)
	if err != nil {
		return nil, fmt.Errorf("search by nutrition: %w", err)
	}
	return fromDomainList(rs), nil
}

// Popular returns the most recently added recipes.
func (s *SearchService) Popular(ctx context.Context, limit int) (found []Recipe, err error) {
	start := time.Now()
	defer func() { s.obs.observeResults("search.popular", start, len(found), err) }()

	rs, err := s.svc.Popular(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("popular recipes: %w", err)
	}
	return fromDomainList(rs), nil
}

// Rebuild reindexes the whole catalog and publishes the new generation.
// On failure the previous generation keeps serving.
func (s *SearchService) Rebuild(ctx context.Context) (_ IndexInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("index.rebuild", start, err) }()

	if _, err = s.svc.Rebuild(ctx); err != nil {
		return IndexInfo{}, fmt.Errorf("rebuild index: %w", err)
	}
	return s.Info(), nil
}

// Info describes the published index.
func (s *SearchService) Info() IndexInfo {
	info := s.svc.Info()
	return IndexInfo{
		Ready:           info.Ready,
		Generation:      info.Generation,
		BuiltAt:         info.BuiltAt,
		Recipes:         info.Stats.Recipes,
		NameTokens:      info.Stats.NameTokens,
		IngredientTerms: info.Stats.IngredientTerms,
		TagTokens:       info.Stats.TagTokens,
		Categories:      info.Stats.Categories,
		MalformedFields: info.Stats.MalformedFields,
	}
}
