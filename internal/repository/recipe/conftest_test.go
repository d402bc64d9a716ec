package recipe

import (
	"context"
	"testing"
	"time"

	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

const testPrefix = "rx:"

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	pingFn         func(ctx context.Context) error
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
	incrFn         func(ctx context.Context, key string) (int64, error)
}

func (m *mockStore) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) Incr(ctx context.Context, key string) (int64, error) {
	if m.incrFn != nil {
		return m.incrFn(ctx, key)
	}
	return 1, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, testPrefix)
	repo.now = func() time.Time { return testNow }
	return repo, ms
}

func testRecipe(t *testing.T) domrecipe.Recipe {
	t.Helper()
	d := domrecipe.Draft{
		Name:        "Veggie Tacos",
		Ingredients: []domrecipe.Ingredient{{Name: "tortillas"}, {Name: "black beans"}},
		Tags:        []string{"vegetarian", "quick"},
		Category:    "Mexican",
		PrepTime:    10,
		CookTime:    15,
		Servings:    4,
		Calories:    domrecipe.Float(320),
		Sodium:      domrecipe.Float(410.5),
	}
	r, err := d.Build(0)
	if err != nil {
		t.Fatalf("build recipe: %v", err)
	}
	return r
}
