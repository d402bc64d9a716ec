package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/config"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
)

func badgerConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(`
database:
  driver: badger
  in_memory: true
storage:
  key_prefix: "apptest:"
search:
  default_limit: 2
`))
	require.NoError(t, err)
	return &cfg
}

func TestOpen_Badger(t *testing.T) {
	a, err := Open(context.Background(), badgerConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	ctx := context.Background()
	for _, name := range []string{"Soup", "Salad", "Stew"} {
		_, err := a.Catalog.Create(ctx, &recipe.Draft{Name: name, Ingredients: []recipe.Ingredient{{Name: "water"}}})
		require.NoError(t, err)
	}

	report := a.Health.Check(ctx)
	assert.Equal(t, healthuc.Degraded, report.Status)

	_, err = a.Search.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, healthuc.Healthy, a.Health.Check(ctx).Status)

	popular, err := a.Search.Popular(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, popular, 2, "default limit comes from config")
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), config.DatabaseConfig{Driver: "sqlite"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown database driver "sqlite"`)
}
