package recipedex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/app"
	"github.com/kailas-cloud/recipedex/internal/config"
	"github.com/kailas-cloud/recipedex/internal/db"
	dombatch "github.com/kailas-cloud/recipedex/internal/domain/batch"
	"github.com/kailas-cloud/recipedex/internal/domain/health"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/filter"
	"github.com/kailas-cloud/recipedex/internal/domain/search/result"
	"github.com/kailas-cloud/recipedex/internal/index"
	personalizeuc "github.com/kailas-cloud/recipedex/internal/usecase/personalize"
	searchuc "github.com/kailas-cloud/recipedex/internal/usecase/search"
)

const defaultReadinessTimeout = 10

// Internal interfaces, swapped for mocks in tests.
type catalogUseCase interface {
	Create(ctx context.Context, d *recipe.Draft) (recipe.Recipe, error)
	Import(ctx context.Context, drafts []recipe.Draft) ([]dombatch.Result, error)
	Get(ctx context.Context, id int64) (recipe.Recipe, error)
	List(ctx context.Context) ([]recipe.Recipe, error)
	FilterByCategory(ctx context.Context, label string) ([]recipe.Recipe, error)
	Delete(ctx context.Context, id int64) error
}

type searchUseCase interface {
	Search(ctx context.Context, query string, limit int) ([]result.Result, error)
	SearchByIngredients(ctx context.Context, terms []string, limit int) ([]recipe.Recipe, error)
	SearchByCategory(ctx context.Context, label string, limit int) ([]recipe.Recipe, error)
	SearchByNutrition(ctx context.Context, n filter.Nutrition, limit int) ([]recipe.Recipe, error)
	Popular(ctx context.Context, limit int) ([]recipe.Recipe, error)
	Rebuild(ctx context.Context) (index.Stats, error)
	Info() searchuc.Info
}

type personalizeUseCase interface {
	Recommend(ctx context.Context, d health.Declarations, limit int) ([]recipe.Recipe, error)
	Annotate(ctx context.Context, id int64, d health.Declarations) (personalizeuc.Annotations, error)
}

// Client is the recipedex SDK entry point.
type Client struct {
	store          db.Store
	catalogSvc     catalogUseCase
	searchSvc      searchUseCase
	personalizeSvc personalizeUseCase
	healthSvc      healthUseCase
	obs            *observer
}

// New opens the catalog store and wires the services in-process.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cc := &clientConfig{}
	for _, o := range opts {
		o.apply(cc)
	}

	cfg, err := toConfig(cc)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cc.logger, cc.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := app.OpenStore(ctx, cfg.Database, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("recipedex: %w", err)
	}
	return wireClient(app.New(store, &cfg, zap.NewNop()), obs), nil
}

func toConfig(cc *clientConfig) (config.Config, error) {
	if cc.driver == "" {
		return config.Config{}, errors.New("recipedex: catalog store required (use WithValkey, WithRedis, WithBadger or WithInMemory)")
	}
	cfg := config.Config{
		Database: config.DatabaseConfig{
			Driver:           cc.driver,
			Addrs:            cc.addrs,
			Password:         cc.password,
			Path:             cc.path,
			InMemory:         cc.inMemory,
			ReadinessTimeout: defaultReadinessTimeout,
		},
		Search: config.SearchConfig{
			DefaultLimit: cc.defaultLimit,
			MaxLimit:     cc.maxLimit,
		},
		Catalog: config.CatalogConfig{MaxImportSize: cc.maxImportSize},
		Storage: config.StorageConfig{KeyPrefix: cc.keyPrefix},
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("recipedex: %w", err)
	}
	return cfg, nil
}

func wireClient(a *app.App, obs *observer) *Client {
	return &Client{
		store:          a.Store,
		catalogSvc:     a.Catalog,
		searchSvc:      a.Search,
		personalizeSvc: a.Personalize,
		healthSvc:      a.Health,
		obs:            obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks catalog store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Catalog returns the recipe storage service.
func (c *Client) Catalog() *CatalogService {
	return &CatalogService{svc: c.catalogSvc, obs: c.obs}
}

// Search returns the query service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc, obs: c.obs}
}

// Personalize returns the health-aware recommendation service.
func (c *Client) Personalize() *PersonalizeService {
	return &PersonalizeService{svc: c.personalizeSvc, obs: c.obs}
}
