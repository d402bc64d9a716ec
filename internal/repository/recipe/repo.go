package recipe

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/recipedex/internal/domain"
	domrecipe "github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// DefaultKeyPrefix namespaces every key written by the repository.
const DefaultKeyPrefix = "recipedex:"

// store is the consumer interface for recipes (ISP).
type store interface {
	Ping(ctx context.Context) error
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Repo implements the catalog store over hashes: one hash per recipe at
// <prefix>recipe:<id> plus an INCR counter at <prefix>recipe:seq.
type Repo struct {
	store  store
	prefix string
	now    func() time.Time
}

// New creates a recipe repository. An empty prefix selects DefaultKeyPrefix.
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: keyPrefix, now: time.Now}
}

// Ping checks the underlying store.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.store.Ping(ctx); err != nil {
		return domain.CatalogError("ping", err)
	}
	return nil
}

// Create assigns the next id from the sequence, stamps the creation time
// and writes the recipe hash.
func (r *Repo) Create(ctx context.Context, rec domrecipe.Recipe) (domrecipe.Recipe, error) {
	id, err := r.store.Incr(ctx, r.seqKey())
	if err != nil {
		return domrecipe.Recipe{}, domain.CatalogError("next id", err)
	}
	rec.ID = id
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}

	if err := r.store.HSet(ctx, r.recipeKey(id), recipeToHash(&rec)); err != nil {
		return domrecipe.Recipe{}, domain.CatalogError(fmt.Sprintf("hset recipe %d", id), err)
	}
	return rec, nil
}

// GetByIDs returns the recipes for ids in ascending id order. Unknown and
// repeated ids are skipped.
func (r *Repo) GetByIDs(ctx context.Context, ids []int64) ([]domrecipe.Recipe, error) {
	if len(ids) == 0 {
		return []domrecipe.Recipe{}, nil
	}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return r.load(ctx, sorted)
}

// GetAll returns every recipe in ascending id order.
func (r *Repo) GetAll(ctx context.Context) ([]domrecipe.Recipe, error) {
	keys, err := r.store.Scan(ctx, r.recipeKeyPattern())
	if err != nil {
		return nil, domain.CatalogError("scan recipes", err)
	}

	ids := make([]int64, 0, len(keys))
	for _, key := range keys {
		if id, ok := r.idFromKey(key); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return r.load(ctx, ids)
}

// GetByCategory returns the recipes whose category equals label exactly.
func (r *Repo) GetByCategory(ctx context.Context, label string) ([]domrecipe.Recipe, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domrecipe.Recipe, 0)
	for i := range all {
		if all[i].Category == label {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// Delete removes a recipe by id.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	key := r.recipeKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return domain.CatalogError(fmt.Sprintf("check recipe %d", id), err)
	}
	if !exists {
		return domain.ErrRecipeNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return domain.CatalogError(fmt.Sprintf("del recipe %d", id), err)
	}
	return nil
}

// load fetches ids, which must be sorted, in one round-trip.
func (r *Repo) load(ctx context.Context, ids []int64) ([]domrecipe.Recipe, error) {
	if len(ids) == 0 {
		return []domrecipe.Recipe{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.recipeKey(id)
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, domain.CatalogError("hgetall recipes", err)
	}

	out := make([]domrecipe.Recipe, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		out = append(out, recipeFromHash(ids[i], m))
	}
	return out, nil
}

// Key patterns: <prefix>recipe:{id}, <prefix>recipe:seq

func (r *Repo) recipeKey(id int64) string {
	return r.prefix + "recipe:" + strconv.FormatInt(id, 10)
}

func (r *Repo) seqKey() string {
	return r.prefix + "recipe:seq"
}

func (r *Repo) recipeKeyPattern() string {
	return r.prefix + "recipe:*"
}

func (r *Repo) idFromKey(key string) (int64, bool) {
	rest, ok := strings.CutPrefix(key, r.prefix+"recipe:")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
