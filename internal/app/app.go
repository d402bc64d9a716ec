// Package app is the composition root shared by the recipedex binaries:
// it opens the configured catalog store and wires the use case services.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/config"
	"github.com/kailas-cloud/recipedex/internal/db"
	dbBadger "github.com/kailas-cloud/recipedex/internal/db/badger"
	dbRedis "github.com/kailas-cloud/recipedex/internal/db/redis"
	"github.com/kailas-cloud/recipedex/internal/domain/search/request"
	reciperepo "github.com/kailas-cloud/recipedex/internal/repository/recipe"
	cataloguc "github.com/kailas-cloud/recipedex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
	personalizeuc "github.com/kailas-cloud/recipedex/internal/usecase/personalize"
	searchuc "github.com/kailas-cloud/recipedex/internal/usecase/search"
)

// App holds the opened store and the services built on it.
type App struct {
	Store       db.Store
	Repo        *reciperepo.Repo
	Catalog     *cataloguc.Service
	Search      *searchuc.Service
	Personalize *personalizeuc.Service
	Health      *healthuc.Service
}

// OpenStore creates the catalog store for the configured driver and waits
// until it answers.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverValkey, config.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	case config.DriverBadger:
		store, err = dbBadger.Open(dbBadger.Config{
			Path:     cfg.Path,
			InMemory: cfg.InMemory,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	return store, nil
}

// New wires the services over an opened store.
func New(store db.Store, cfg *config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	limits := request.Limits{Default: cfg.Search.DefaultLimit, Max: cfg.Search.MaxLimit}

	repo := reciperepo.New(store, cfg.Storage.KeyPrefix)
	search := searchuc.New(repo, limits, logger.Named("search"))
	return &App{
		Store:       store,
		Repo:        repo,
		Catalog:     cataloguc.New(repo, logger.Named("catalog")).WithMaxImportSize(cfg.Catalog.MaxImportSize),
		Search:      search,
		Personalize: personalizeuc.New(repo, limits, logger.Named("personalize")),
		Health:      healthuc.New(repo, search),
	}
}

// Open is OpenStore followed by New.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	return New(store, cfg, logger), nil
}

// Close releases the store.
func (a *App) Close() { a.Store.Close() }
