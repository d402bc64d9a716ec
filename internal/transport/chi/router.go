package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/metrics"
)

// RouterOptions configures the HTTP router.
type RouterOptions struct {
	// CORSOrigins lists the browser origins allowed to call the API. Empty disables CORS.
	CORSOrigins []string
	Logger      *zap.Logger
}

// NewRouter mounts the recipe API on a chi router.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(jsonRecoverer(logger))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "Location"},
			MaxAge:         300,
		}))
	}
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorResponseCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorResponseCodeBadRequest, "method not allowed")
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", s.ListRecipes)
		r.Post("/", s.CreateRecipe)
		r.Post("/import", s.ImportRecipes)
		r.Get("/search", s.SearchRecipes)
		r.Get("/by-ingredients", s.SearchByIngredients)
		r.Get("/by-category", s.SearchByCategory)
		r.Get("/by-nutrition", s.SearchByNutrition)
		r.Get("/popular", s.PopularRecipes)
		r.Post("/personalized", s.PersonalizedRecipes)
		r.Get("/{id}", s.GetRecipe)
		r.Delete("/{id}", s.DeleteRecipe)
		r.Post("/{id}/annotations", s.AnnotateRecipe)
	})
	r.Get("/index", s.IndexStatus)
	r.Post("/index/rebuild", s.RebuildIndex)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
