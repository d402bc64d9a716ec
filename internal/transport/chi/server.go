package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain"
	dombatch "github.com/kailas-cloud/recipedex/internal/domain/batch"
	"github.com/kailas-cloud/recipedex/internal/domain/health"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/search/filter"
	"github.com/kailas-cloud/recipedex/internal/logger"
	catalogSvc "github.com/kailas-cloud/recipedex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
	personalizeuc "github.com/kailas-cloud/recipedex/internal/usecase/personalize"
	searchuc "github.com/kailas-cloud/recipedex/internal/usecase/search"
	"github.com/kailas-cloud/recipedex/internal/version"
)

// maxBodyBytes bounds request bodies; imports are the largest payloads.
const maxBodyBytes = 32 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers of the recipe API.
type Server struct {
	catalog       *catalogSvc.Service
	search        *searchuc.Service
	personalize   *personalizeuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalog *catalogSvc.Service,
	search *searchuc.Service,
	personalize *personalizeuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		catalog:     catalog,
		search:      search,
		personalize: personalize,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRecipeNotFound, http.StatusNotFound, ErrorResponseCodeRecipeNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrInvalidRecipe, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, ErrorResponseCodeCatalogUnavailable),
	}
	return s
}

// SearchRecipes handles GET /recipes/search.
func (s *Server) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	var q string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		s.badParam(w, "q", err)
		return
	}
	limit, ok := s.limitParam(w, r)
	if !ok {
		return
	}

	results, err := s.search.Search(r.Context(), q, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]SearchResultItem, len(results))
	for i := range results {
		rec := results[i].Recipe()
		items[i] = SearchResultItem{RecipeResponse: recipeToAPI(&rec), Score: results[i].Score()}
	}
	writeJSON(w, http.StatusOK, SearchResultListResponse{Items: items, Total: len(items)})
}

// SearchByIngredients handles GET /recipes/by-ingredients.
func (s *Server) SearchByIngredients(w http.ResponseWriter, r *http.Request) {
	var terms []string
	if err := runtime.BindQueryParameter("form", true, true, "ingredient", r.URL.Query(), &terms); err != nil {
		s.badParam(w, "ingredient", err)
		return
	}
	limit, ok := s.limitParam(w, r)
	if !ok {
		return
	}

	found, err := s.search.SearchByIngredients(r.Context(), terms, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipesToAPI(found))
}

// SearchByCategory handles GET /recipes/by-category.
func (s *Server) SearchByCategory(w http.ResponseWriter, r *http.Request) {
	var label string
	if err := runtime.BindQueryParameter("form", true, true, "category", r.URL.Query(), &label); err != nil {
		s.badParam(w, "category", err)
		return
	}
	limit, ok := s.limitParam(w, r)
	if !ok {
		return
	}

	found, err := s.search.SearchByCategory(r.Context(), label, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipesToAPI(found))
}

// SearchByNutrition handles GET /recipes/by-nutrition.
func (s *Server) SearchByNutrition(w http.ResponseWriter, r *http.Request) {
	var maxCalories, minProtein *float64
	if err := runtime.BindQueryParameter("form", true, false, "max_calories", r.URL.Query(), &maxCalories); err != nil {
		s.badParam(w, "max_calories", err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "min_protein", r.URL.Query(), &minProtein); err != nil {
		s.badParam(w, "min_protein", err)
		return
	}
	limit, ok := s.limitParam(w, r)
	if !ok {
		return
	}

	pred, err := filter.NewNutrition(maxCalories, minProtein)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	found, err := s.search.SearchByNutrition(r.Context(), pred, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipesToAPI(found))
}

// PopularRecipes handles GET /recipes/popular.
func (s *Server) PopularRecipes(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.limitParam(w, r)
	if !ok {
		return
	}
	found, err := s.search.Popular(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipesToAPI(found))
}

// ListRecipes handles GET /recipes. With ?category= it returns the exact,
// case-sensitive matches only.
func (s *Server) ListRecipes(w http.ResponseWriter, r *http.Request) {
	var category *string
	if err := runtime.BindQueryParameter("form", true, false, "category", r.URL.Query(), &category); err != nil {
		s.badParam(w, "category", err)
		return
	}

	var (
		found []recipe.Recipe
		err   error
	)
	if category != nil {
		found, err = s.catalog.FilterByCategory(r.Context(), *category)
	} else {
		found, err = s.catalog.List(r.Context())
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipesToAPI(found))
}

// GetRecipe handles GET /recipes/{id}.
func (s *Server) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	rec, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipeToAPI(&rec))
}

// CreateRecipe handles POST /recipes.
func (s *Server) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var d recipe.Draft
	if !s.decodeBody(w, r, &d) {
		return
	}
	rec, err := s.catalog.Create(r.Context(), &d)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/recipes/%d", rec.ID))
	writeJSON(w, http.StatusCreated, recipeToAPI(&rec))
}

// ImportRecipes handles POST /recipes/import.
func (s *Server) ImportRecipes(w http.ResponseWriter, r *http.Request) {
	var drafts []recipe.Draft
	if !s.decodeBody(w, r, &drafts) {
		return
	}
	if len(drafts) == 0 {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "at least one recipe is required")
		return
	}

	results, err := s.catalog.Import(r.Context(), drafts)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	sum := dombatch.Summarize(results)
	items := make([]ImportResultItem, len(results))
	for i, res := range results {
		items[i] = importResultToAPI(res)
	}
	writeJSON(w, http.StatusOK, ImportResponse{
		Items:    items,
		Imported: sum.Imported,
		Skipped:  sum.Skipped,
		Failed:   sum.Failed,
	})
}

// DeleteRecipe handles DELETE /recipes/{id}.
func (s *Server) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	if err := s.catalog.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PersonalizedRecipes handles POST /recipes/personalized.
func (s *Server) PersonalizedRecipes(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.limitParam(w, r)
	if !ok {
		return
	}
	var req UserRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	found, err := s.personalize.Recommend(r.Context(), req.Declarations(), limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipesToAPI(found))
}

// AnnotateRecipe handles POST /recipes/{id}/annotations.
func (s *Server) AnnotateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	var req UserRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	notes, err := s.personalize.Annotate(r.Context(), id, req.Declarations())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AnnotationsResponse{RecipeID: id, Warnings: notes.Warnings, Benefits: notes.Benefits})
}

// RebuildIndex handles POST /index/rebuild.
func (s *Server) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	if _, err := s.search.Rebuild(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, indexToAPI(s.search.Info()))
}

// IndexStatus handles GET /index.
func (s *Server) IndexStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, indexToAPI(s.search.Info()))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

// UserRequest carries a user's health declarations. Each list may be sent
// as a JSON array or as the serialized string form stored on users.
type UserRequest struct {
	Goal                string          `json:"goal"`
	Allergies           json.RawMessage `json:"allergies"`
	MedicalConditions   json.RawMessage `json:"medical_conditions"`
	DietaryRestrictions json.RawMessage `json:"dietary_restrictions"`
}

// Declarations converts the request to the stored declaration form.
func (u *UserRequest) Declarations() health.Declarations {
	return health.Declarations{
		Goal:                u.Goal,
		Allergies:           rawList(u.Allergies),
		MedicalConditions:   rawList(u.MedicalConditions),
		DietaryRestrictions: rawList(u.DietaryRestrictions),
	}
}

// rawList unwraps a JSON string and passes any other JSON value through as
// text, leaving malformed content for the extractor to reject.
func rawList(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

func (s *Server) limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		s.badParam(w, "limit", err)
		return 0, false
	}
	if limit == nil {
		return 0, true
	}
	return *limit, true
}

func (s *Server) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (s *Server) badParam(w http.ResponseWriter, name string, err error) {
	s.logger.Debug("invalid query parameter", zap.String("param", name), zap.Error(err))
	writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, fmt.Sprintf("invalid %s parameter", name))
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrRecipeNotFound,
		domain.ErrNotFound,
		domain.ErrInvalidRecipe,
		domain.ErrInvalidQuery,
		domain.ErrCatalogUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// validationMessage keeps the detail of a validation failure, which only
// ever describes the caller's own input.
func validationMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRecipe) || errors.Is(err, domain.ErrInvalidQuery) {
		return err.Error()
	}
	return safeDomainMessage(err)
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := validationMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func importResultToAPI(res dombatch.Result) ImportResultItem {
	item := ImportResultItem{Name: res.Name(), Status: string(res.Status())}
	if res.Status() == dombatch.StatusOK {
		id := res.ID()
		item.ID = &id
	}
	if res.Err() != nil {
		code := ErrorResponseCodeInternalError
		if errors.Is(res.Err(), domain.ErrInvalidRecipe) {
			code = ErrorResponseCodeValidationFailed
		} else if errors.Is(res.Err(), domain.ErrCatalogUnavailable) {
			code = ErrorResponseCodeCatalogUnavailable
		}
		item.Error = &ErrorResponse{Code: code, Message: validationMessage(res.Err())}
	}
	return item
}

func indexToAPI(info searchuc.Info) IndexResponse {
	resp := IndexResponse{
		Ready:           info.Ready,
		Generation:      info.Generation,
		Recipes:         info.Stats.Recipes,
		NameTokens:      info.Stats.NameTokens,
		IngredientTerms: info.Stats.IngredientTerms,
		TagTokens:       info.Stats.TagTokens,
		Categories:      info.Stats.Categories,
		MalformedFields: info.Stats.MalformedFields,
	}
	if info.Ready {
		t := info.BuiltAt
		resp.BuiltAt = &t
	}
	return resp
}
