package search

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/filter"
	"github.com/kailas-cloud/recipedex/internal/domain/search/mode"
	"github.com/kailas-cloud/recipedex/internal/domain/search/request"
	"github.com/kailas-cloud/recipedex/internal/domain/search/result"
	"github.com/kailas-cloud/recipedex/internal/index"
	"github.com/kailas-cloud/recipedex/internal/metrics"
)

// Relevance weights of the free-text search.
const (
	NameWeight       = 10
	IngredientWeight = 5
	TagWeight        = 3
	CategoryWeight   = 7
)

// snapshot is one published index generation.
type snapshot struct {
	gen     *index.Generation
	seq     uint64
	builtAt time.Time
}

// Info describes the published index.
type Info struct {
	Ready      bool
	Generation uint64
	BuiltAt    time.Time
	Stats      index.Stats
}

// Service answers recipe queries from an in-memory index over the catalog.
// Rebuilds construct a fresh generation and publish it with one atomic swap;
// queries never block on a rebuild in progress.
type Service struct {
	catalog Catalog
	limits  request.Limits
	logger  *zap.Logger

	current atomic.Pointer[snapshot]
	buildMu sync.Mutex
	seq     uint64 // guarded by buildMu
}

// New creates a search service. The index is empty until the first Rebuild
// or the first query.
func New(catalog Catalog, limits request.Limits, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: catalog, limits: limits, logger: logger}
}

// Info reports the state of the published generation.
func (s *Service) Info() Info {
	snap := s.current.Load()
	if snap == nil {
		return Info{}
	}
	return Info{Ready: true, Generation: snap.seq, BuiltAt: snap.builtAt, Stats: snap.gen.Stats()}
}

// Ready reports whether a generation has been published.
func (s *Service) Ready() bool { return s.current.Load() != nil }

// Rebuild reads the whole catalog and publishes a new generation. On failure
// the previous generation stays in place.
func (s *Service) Rebuild(ctx context.Context) (index.Stats, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	snap, err := s.build(ctx)
	if err != nil {
		return index.Stats{}, err
	}
	return snap.gen.Stats(), nil
}

// build must be called with buildMu held.
func (s *Service) build(ctx context.Context) (*snapshot, error) {
	start := time.Now()

	recipes, err := s.catalog.GetAll(ctx)
	if err != nil {
		metrics.IndexBuildsTotal.WithLabelValues("error").Inc()
		s.logger.Error("Index build failed", zap.Error(err))
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	gen := index.Build(recipes, func(err error) {
		s.logger.Debug("Malformed field indexed as text", zap.Error(err))
	})

	s.seq++
	snap := &snapshot{gen: gen, seq: s.seq, builtAt: time.Now()}
	s.current.Store(snap)

	st := gen.Stats()
	duration := time.Since(start)
	metrics.IndexBuildsTotal.WithLabelValues("ok").Inc()
	metrics.IndexBuildDuration.Observe(duration.Seconds())
	metrics.IndexedRecipes.Set(float64(st.Recipes))
	metrics.IndexGeneration.Set(float64(snap.seq))
	metrics.IndexMalformedFieldsTotal.Add(float64(st.MalformedFields))

	s.logger.Info("Index built",
		zap.Uint64("generation", snap.seq),
		zap.Int("recipes", st.Recipes),
		zap.Int("name_tokens", st.NameTokens),
		zap.Int("ingredient_terms", st.IngredientTerms),
		zap.Int("tag_tokens", st.TagTokens),
		zap.Int("categories", st.Categories),
		zap.Int("malformed_fields", st.MalformedFields),
		zap.Duration("duration", duration),
	)
	return snap, nil
}

// generation returns the published generation, building one synchronously
// when none exists yet.
func (s *Service) generation(ctx context.Context) (*index.Generation, error) {
	if snap := s.current.Load(); snap != nil {
		return snap.gen, nil
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	if snap := s.current.Load(); snap != nil {
		return snap.gen, nil
	}

	s.logger.Info("Index not ready, building before serving query", zap.Error(domain.ErrIndexNotReady))
	snap, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	return snap.gen, nil
}

// Search resolves a free-text query into recipes ranked by relevance. A blank
// query returns no results.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]result.Result, error) {
	if err := request.ValidateQuery(query); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []result.Result{}, nil
	}

	gen, err := s.generation(ctx)
	if err != nil {
		return nil, s.failed(mode.Text, err)
	}

	candidates, err := s.fetch(ctx, mode.Text, gen.Candidates(query).Sorted())
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	results := make([]result.Result, len(candidates))
	for i := range candidates {
		results[i] = result.New(candidates[i], Score(&candidates[i], needle))
	}
	slices.SortStableFunc(results, func(a, b result.Result) int {
		return b.Score() - a.Score()
	})

	return truncate(results, s.limits.Apply(limit)), nil
}

// SearchByIngredients returns recipes with an ingredient containing any of terms.
func (s *Service) SearchByIngredients(ctx context.Context, terms []string, limit int) ([]recipe.Recipe, error) {
	if err := request.ValidateTerms(terms); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	gen, err := s.generation(ctx)
	if err != nil {
		return nil, s.failed(mode.Ingredients, err)
	}
	ids := gen.IngredientCandidates(terms).Sorted()
	recipes, err := s.fetch(ctx, mode.Ingredients, ids)
	if err != nil {
		return nil, err
	}
	return truncate(recipes, s.limits.Apply(limit)), nil
}

// SearchByCategory returns recipes whose category equals or contains label,
// case-insensitively.
func (s *Service) SearchByCategory(ctx context.Context, label string, limit int) ([]recipe.Recipe, error) {
	gen, err := s.generation(ctx)
	if err != nil {
		return nil, s.failed(mode.Category, err)
	}
	ids := gen.CategoryCandidates(label).Sorted()
	recipes, err := s.fetch(ctx, mode.Category, ids)
	if err != nil {
		return nil, err
	}
	return truncate(recipes, s.limits.Apply(limit)), nil
}

// SearchByNutrition filters the whole catalog by the nutrition predicate,
// bypassing the index.
func (s *Service) SearchByNutrition(ctx context.Context, n filter.Nutrition, limit int) ([]recipe.Recipe, error) {
	all, err := s.catalog.GetAll(ctx)
	if err != nil {
		return nil, s.failed(mode.Nutrition, fmt.Errorf("load catalog: %w", err))
	}
	lim := s.limits.Apply(limit)
	out := make([]recipe.Recipe, 0, min(lim, len(all)))
	for i := range all {
		if len(out) == lim {
			break
		}
		if n.Matches(&all[i]) {
			out = append(out, all[i])
		}
	}
	s.observe(mode.Nutrition, len(all))
	return out, nil
}

// Popular returns the most recently added recipes. No engagement signal is
// tracked, so recency stands in for popularity.
func (s *Service) Popular(ctx context.Context, limit int) ([]recipe.Recipe, error) {
	all, err := s.catalog.GetAll(ctx)
	if err != nil {
		return nil, s.failed(mode.Popular, fmt.Errorf("load catalog: %w", err))
	}
	slices.SortFunc(all, func(a, b recipe.Recipe) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	s.observe(mode.Popular, len(all))
	return truncate(all, s.limits.Apply(limit)), nil
}

func (s *Service) fetch(ctx context.Context, m mode.Mode, ids []int64) ([]recipe.Recipe, error) {
	if len(ids) == 0 {
		s.observe(m, 0)
		return []recipe.Recipe{}, nil
	}
	recipes, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, s.failed(m, fmt.Errorf("fetch candidates: %w", err))
	}
	s.observe(m, len(recipes))
	return recipes, nil
}

func (s *Service) observe(m mode.Mode, candidates int) {
	metrics.QueriesTotal.WithLabelValues(string(m), "ok").Inc()
	metrics.QueryCandidates.WithLabelValues(string(m)).Observe(float64(candidates))
}

func (s *Service) failed(m mode.Mode, err error) error {
	metrics.QueriesTotal.WithLabelValues(string(m), "error").Inc()
	return err
}

// Score computes the relevance of r for needle, which must already be
// trimmed and lower-cased. Every ingredient entry and every tag containing
// the needle adds its weight. A malformed ingredient or tag payload is
// matched once as raw text.
func Score(r *recipe.Recipe, needle string) int {
	score := 0
	if containsFold(r.Name, needle) {
		score += NameWeight
	}

	if names, err := r.IngredientNames(); err != nil {
		if containsFold(r.Ingredients, needle) {
			score += IngredientWeight
		}
	} else {
		for _, n := range names {
			if containsFold(n, needle) {
				score += IngredientWeight
			}
		}
	}

	if tags, err := r.TagList(); err != nil {
		if containsFold(r.Tags, needle) {
			score += TagWeight
		}
	} else {
		for _, t := range tags {
			if containsFold(t, needle) {
				score += TagWeight
			}
		}
	}

	if containsFold(r.Category, needle) {
		score += CategoryWeight
	}
	return score
}

func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

func truncate[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
