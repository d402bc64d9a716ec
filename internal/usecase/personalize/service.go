package personalize

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/health"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/mode"
	"github.com/kailas-cloud/recipedex/internal/domain/search/request"
	"github.com/kailas-cloud/recipedex/internal/metrics"
)

// Annotations are the advisory lines for one recipe and user.
type Annotations struct {
	Warnings []string
	Benefits []string
}

// Service ranks the catalog against a user's health declarations.
// It holds no mutable state; calls for different users may run in parallel.
type Service struct {
	catalog Catalog
	limits  request.Limits
	logger  *zap.Logger
}

// New creates a personalization service.
func New(catalog Catalog, limits request.Limits, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: catalog, limits: limits, logger: logger}
}

// Recommend returns the catalog recipes that pass every health check for the
// user, ordered by the user's goal and truncated to limit.
func (s *Service) Recommend(ctx context.Context, d health.Declarations, limit int) ([]recipe.Recipe, error) {
	all, err := s.catalog.GetAll(ctx)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(string(mode.Personalized), "error").Inc()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	metrics.QueriesTotal.WithLabelValues(string(mode.Personalized), "ok").Inc()
	metrics.QueryCandidates.WithLabelValues(string(mode.Personalized)).Observe(float64(len(all)))

	p := s.profile(d)
	return Rank(all, &p, s.limits.Apply(limit)), nil
}

// Rank filters pool through the health checks of p, orders the survivors by
// p's goal and keeps at most limit of them. pool is not modified.
func Rank(pool []recipe.Recipe, p *health.Profile, limit int) []recipe.Recipe {
	kept := make([]recipe.Recipe, 0, len(pool))
	for i := range pool {
		if health.Allows(&pool[i], p) {
			kept = append(kept, pool[i])
		}
	}
	health.Rank(kept, p.Goal)
	if limit >= 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// Warnings returns the cautions for r and the user.
func (s *Service) Warnings(r *recipe.Recipe, d health.Declarations) []string {
	p := s.profile(d)
	return health.Warnings(r, &p)
}

// Benefits returns the favorable traits of r for the user.
func (s *Service) Benefits(r *recipe.Recipe, d health.Declarations) []string {
	p := s.profile(d)
	return health.Benefits(r, &p)
}

// Annotate loads recipe id and returns its warnings and benefits for the user.
func (s *Service) Annotate(ctx context.Context, id int64, d health.Declarations) (Annotations, error) {
	found, err := s.catalog.GetByIDs(ctx, []int64{id})
	if err != nil {
		return Annotations{}, fmt.Errorf("get recipe: %w", err)
	}
	if len(found) == 0 {
		return Annotations{}, fmt.Errorf("recipe %d: %w", id, domain.ErrRecipeNotFound)
	}

	p := s.profile(d)
	r := &found[0]
	return Annotations{
		Warnings: nonNil(health.Warnings(r, &p)),
		Benefits: nonNil(health.Benefits(r, &p)),
	}, nil
}

// profile extracts the user's profile. Malformed declaration fields are
// logged and treated as empty.
func (s *Service) profile(d health.Declarations) health.Profile {
	p, errs := health.Extract(d)
	for _, err := range errs {
		s.logger.Debug("Health declaration ignored", zap.Error(err))
	}
	return p
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}
