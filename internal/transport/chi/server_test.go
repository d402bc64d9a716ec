package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/db/badger"
	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/search/request"
	reciperepo "github.com/kailas-cloud/recipedex/internal/repository/recipe"
	cataloguc "github.com/kailas-cloud/recipedex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
	personalizeuc "github.com/kailas-cloud/recipedex/internal/usecase/personalize"
	searchuc "github.com/kailas-cloud/recipedex/internal/usecase/search"
)

type testEnv struct {
	handler http.Handler
	store   *badger.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := badger.Open(badger.Config{InMemory: true}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(store.Close)

	repo := reciperepo.New(store, "test:")
	limits := request.DefaultLimits()
	srv := NewServer(
		cataloguc.New(repo, nil),
		searchuc.New(repo, limits, nil),
		personalizeuc.New(repo, limits, nil),
		healthuc.New(repo, nil),
		nil,
	)
	return &testEnv{handler: NewRouter(srv, RouterOptions{}), store: store}
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

const seedCatalog = `[
  {"name": "Veggie Tacos", "ingredients": [{"name": "corn tortilla"}, {"name": "black beans"}],
   "tags": ["vegetarian", "quick"], "category": "Mexican", "calories_per_serving": 320, "protein": 12, "sodium": 200},
  {"name": "Beef Tacos", "ingredients": [{"name": "corn tortilla"}, {"name": "ground beef"}, {"name": "cheese"}],
   "tags": ["beef"], "category": "Mexican", "calories_per_serving": 540, "protein": 30, "sodium": 580},
  {"name": "Grilled Salmon", "ingredients": [{"name": "salmon fillet"}, {"name": "lemon"}],
   "tags": ["seafood"], "category": "Seafood", "calories_per_serving": 380, "protein": 34, "sodium": 250}
]`

func seed(t *testing.T, e *testEnv) ImportResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/recipes/import", seedCatalog)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[ImportResponse](t, w)
}

func TestImport_ThenListAndGet(t *testing.T) {
	e := newTestEnv(t)
	res := seed(t, e)
	assert.Equal(t, 3, res.Imported)
	assert.Zero(t, res.Skipped)
	require.Len(t, res.Items, 3)
	require.NotNil(t, res.Items[0].ID)

	again := decode[ImportResponse](t, e.do(t, http.MethodPost, "/recipes/import", seedCatalog))
	assert.Equal(t, 3, again.Skipped)
	assert.Zero(t, again.Imported)

	list := decode[RecipeListResponse](t, e.do(t, http.MethodGet, "/recipes", nil))
	assert.Equal(t, 3, list.Total)

	w := e.do(t, http.MethodGet, "/recipes/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[RecipeResponse](t, w)
	assert.Equal(t, "Veggie Tacos", got.Name)
	assert.Equal(t, []string{"corn tortilla", "black beans"}, got.Ingredients)
	assert.Equal(t, []string{"vegetarian", "quick"}, got.Tags)
	require.NotNil(t, got.Nutrition.Calories)
	assert.InDelta(t, 320, *got.Nutrition.Calories, 0.001)
	assert.Nil(t, got.Nutrition.Fat)
}

func TestImport_ReportsInvalidItems(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/recipes/import", `[{"name": "Broken"}, {"name": "Rice", "ingredients": [{"name": "rice"}]}]`)
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[ImportResponse](t, w)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Imported)
	require.NotNil(t, res.Items[0].Error)
	assert.Equal(t, ErrorResponseCodeValidationFailed, res.Items[0].Error.Code)
}

func TestImport_EmptyBody(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/recipes/import", `[]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRecipe(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/recipes", `{"name": "Plain Rice", "ingredients": [{"name": "rice"}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/recipes/1", w.Header().Get("Location"))

	got := decode[RecipeResponse](t, w)
	assert.Equal(t, int64(1), got.ID)
	assert.NotNil(t, got.CreatedAt)
}

func TestCreateRecipe_Invalid(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/recipes", `{"name": "No Ingredients"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrorResponseCodeValidationFailed, decode[ErrorResponse](t, w).Code)

	w = e.do(t, http.MethodPost, "/recipes", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrorResponseCodeBadRequest, decode[ErrorResponse](t, w).Code)
}

func TestGetRecipe_Errors(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/recipes/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorResponseCodeRecipeNotFound, decode[ErrorResponse](t, w).Code)

	for _, id := range []string{"abc", "0", "-3"} {
		w = e.do(t, http.MethodGet, "/recipes/"+id, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", id)
	}
}

func TestDeleteRecipe(t *testing.T) {
	e := newTestEnv(t)
	seed(t, e)

	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodDelete, "/recipes/2", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodDelete, "/recipes/2", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/recipes/2", nil).Code)
}

func TestListRecipes_CategoryIsExact(t *testing.T) {
	e := newTestEnv(t)
	seed(t, e)

	list := decode[RecipeListResponse](t, e.do(t, http.MethodGet, "/recipes?category=Mexican", nil))
	assert.Equal(t, 2, list.Total)

	list = decode[RecipeListResponse](t, e.do(t, http.MethodGet, "/recipes?category=mexican", nil))
	assert.Equal(t, 0, list.Total)
	assert.NotNil(t, list.Items)
}

func TestSearchRecipes(t *testing.T) {
	e := newTestEnv(t)
	seed(t, e)

	w := e.do(t, http.MethodGet, "/recipes/search?q=tacos&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[SearchResultListResponse](t, w)
	require.Equal(t, 2, res.Total)
	for _, item := range res.Items {
		assert.Contains(t, item.Name, "Tacos")
		assert.Positive(t, item.Score)
	}

	res = decode[SearchResultListResponse](t, e.do(t, http.MethodGet, "/recipes/search?q=%20%20", nil))
	assert.Zero(t, res.Total)
}

func TestSearchRecipes_BadLimit(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/recipes/search?q=tacos&limit=many", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchByIngredients(t *testing.T) {
	e := newTestEnv(t)
	seed(t, e)

	res := decode[RecipeListResponse](t, e.do(t, http.MethodGet, "/recipes/by-ingredients?ingredient=beef&ingredient=lemon", nil))
	require.Equal(t, 2, res.Total)
	assert.Equal(t, int64(2), res.Items[0].ID)
	assert.Equal(t, int64(3), res.Items[1].ID)

	w := e.do(t, http.MethodGet, "/recipes/by-ingredients", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchByCategory(t *testing.T) {
	e := newTestEnv(t)
	seed(t, e)

	res := decode[RecipeListResponse](t, e.do(t, http.MethodGet, "/recipes/by-category?category=sea", nil))
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Grilled Salmon", res.Items[0].Name)
}

func TestSearchByNutrition(t *testing.T) {
	e := newTestEnv(t)
	seed(t, e)

	res := decode[RecipeListResponse](t, e.do(t, http.MethodGet, "/recipes/by-nutrition?max_calories=400&min_protein=20", nil))
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Grilled Salmon", res.Items[0].Name)

	w := e.do(t, http.MethodGet, "/recipes/by-nutrition?max_calories=lots", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPopularRecipes_NewestFirst(t *testing.T) {
	e := newTestEnv(t)
	seed(t, e)

	res := decode[RecipeListResponse](t, e.do(t, http.MethodGet, "/recipes/popular?limit=2", nil))
	require.Equal(t, 2, res.Total)
	assert.Equal(t, int64(3), res.Items[0].ID)
	assert.Equal(t, int64(2), res.Items[1].ID)
}

func TestPersonalizedRecipes(t *testing.T) {
	e := newTestEnv(t)
	seed(t, e)

	tests := []struct {
		name string
		body string
		want []int64
	}{
		{
			name: "array form",
			body: `{"dietary_restrictions": ["vegetarian"]}`,
			want: []int64{1},
		},
		{
			name: "stored string form",
			body: `{"dietary_restrictions": "[\"vegetarian\"]"}`,
			want: []int64{1},
		},
		{
			name: "allergy excludes cheese",
			body: `{"allergies": ["dairy"], "goal": "gain"}`,
			want: []int64{3, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(t, http.MethodPost, "/recipes/personalized", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			res := decode[RecipeListResponse](t, w)
			got := make([]int64, len(res.Items))
			for i, item := range res.Items {
				got[i] = item.ID
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnnotateRecipe(t *testing.T) {
	e := newTestEnv(t)
	seed(t, e)

	w := e.do(t, http.MethodPost, "/recipes/3/annotations",
		`{"goal": "gain", "allergies": ["fish"], "medical_conditions": ["hypertension"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decode[AnnotationsResponse](t, w)
	assert.Equal(t, int64(3), res.RecipeID)
	assert.Equal(t, []string{"⚠️ Contains allergens: Fish"}, res.Warnings)
	assert.Equal(t, []string{
		"✅ Low sodium - good for blood pressure",
		"✅ High protein - supports muscle growth",
	}, res.Benefits)

	w = e.do(t, http.MethodPost, "/recipes/99/annotations", `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIndexLifecycle(t *testing.T) {
	e := newTestEnv(t)

	info := decode[IndexResponse](t, e.do(t, http.MethodGet, "/index", nil))
	assert.False(t, info.Ready)
	assert.Nil(t, info.BuiltAt)

	seed(t, e)
	w := e.do(t, http.MethodPost, "/index/rebuild", nil)
	require.Equal(t, http.StatusOK, w.Code)
	info = decode[IndexResponse](t, w)
	assert.True(t, info.Ready)
	assert.Equal(t, uint64(1), info.Generation)
	assert.Equal(t, 3, info.Recipes)
	assert.Equal(t, 2, info.Categories)
	assert.NotNil(t, info.BuiltAt)
}

func TestIndex_NotRebuiltByCatalogWrites(t *testing.T) {
	e := newTestEnv(t)
	seed(t, e)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/index/rebuild", nil).Code)

	e.do(t, http.MethodPost, "/recipes", `{"name": "Fish Tacos", "ingredients": [{"name": "cod"}]}`)

	res := decode[SearchResultListResponse](t, e.do(t, http.MethodGet, "/recipes/search?q=fish", nil))
	assert.Zero(t, res.Total)

	e.do(t, http.MethodPost, "/index/rebuild", nil)
	res = decode[SearchResultListResponse](t, e.do(t, http.MethodGet, "/recipes/search?q=fish", nil))
	assert.Equal(t, 1, res.Total)
}

func TestHealthCheck(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[HealthResponse](t, w)
	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, "ok", res.Checks["database"])
	assert.NotEmpty(t, res.Version)

	e.store.Close()
	w = e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "error", decode[HealthResponse](t, w).Status)
}

func TestCatalogUnavailable(t *testing.T) {
	e := newTestEnv(t)
	e.store.Close()

	w := e.do(t, http.MethodGet, "/recipes", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, ErrorResponseCodeCatalogUnavailable, decode[ErrorResponse](t, w).Code)
}

func TestRouter_RequestIDAndUnknownRoute(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, ErrorResponseCodeNotFound, decode[ErrorResponse](t, w).Code)
}

func TestRouter_Metrics(t *testing.T) {
	e := newTestEnv(t)
	e.do(t, http.MethodGet, "/health", nil)

	w := e.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recipedex_http_requests_total")
}

func TestRouter_CORS(t *testing.T) {
	srv := NewRouter(NewServer(nil, nil, nil, nil, nil), RouterOptions{CORSOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/recipes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, ErrorResponseCodeInternalError, decode[ErrorResponse](t, w).Code)
}

func TestHandleDomainError(t *testing.T) {
	s := NewServer(nil, nil, nil, nil, nil)
	tests := []struct {
		err  error
		want int
		code ErrorResponseCode
	}{
		{domain.ErrRecipeNotFound, http.StatusNotFound, ErrorResponseCodeRecipeNotFound},
		{domain.ErrInvalidQuery, http.StatusBadRequest, ErrorResponseCodeValidationFailed},
		{domain.CatalogError("scan", errors.New("dial tcp: refused")), http.StatusServiceUnavailable, ErrorResponseCodeCatalogUnavailable},
		{errors.New("secret detail"), http.StatusInternalServerError, ErrorResponseCodeInternalError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())
		s.handleDomainError(w, r, tt.err)

		assert.Equal(t, tt.want, w.Code, tt.err.Error())
		res := decode[ErrorResponse](t, w)
		assert.Equal(t, tt.code, res.Code)
		assert.NotContains(t, res.Message, "secret")
		assert.NotContains(t, res.Message, "dial tcp")
	}
}

func TestRawList(t *testing.T) {
	assert.Equal(t, "", rawList(nil))
	assert.Equal(t, "", rawList(json.RawMessage(`null`)))
	assert.Equal(t, `["a"]`, rawList(json.RawMessage(`"[\"a\"]"`)))
	assert.Equal(t, `["a", "b"]`, rawList(json.RawMessage(` ["a", "b"] `)))
}
