package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/domain/search/request"
	"github.com/kailas-cloud/shopdex/internal/metrics"
	"github.com/kailas-cloud/shopdex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/shopdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/shopdex/internal/usecase/search"
	"github.com/kailas-cloud/shopdex/internal/version"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

// IntentSourceHeader reports which extractor produced a natural search.
const IntentSourceHeader = "X-Intent-Source"

// Options tunes request normalisation.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Server holds the HTTP handlers of the catalog API.
type Server struct {
	catalog       *catalog.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	opts          Options
	schemas       *productSchemas
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalogSvc *catalog.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	opts Options,
) *Server {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = request.DefaultLimit
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = request.MaxLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		catalog:       catalogSvc,
		search:        search,
		health:        health,
		logger:        logger,
		opts:          opts,
		schemas:       mustLoadProductSchemas(),
		errorHandlers: defaultErrorHandlers(),
	}
}

// Router builds the full handler: middleware stack, API routes and
// the operational endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/", s.Welcome)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route(APIPrefix, func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.ListProducts)
			r.Post("/", s.CreateProduct)
			r.Get("/{id}", s.GetProduct)
			r.Put("/{id}", s.UpdateProduct)
			r.Delete("/{id}", s.DeleteProduct)
		})
		r.Route("/search", func(r chi.Router) {
			r.Get("/", s.FacetedSearch)
			r.Post("/natural", s.NaturalSearch)
			r.Get("/featured", s.FeaturedProducts)
		})
	})
	return r
}

// Welcome handles GET /.
func (s *Server) Welcome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "shopdex",
		"message": "e-commerce catalog with natural-language search",
		"version": version.String(),
		"docs":    APIPrefix,
	})
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
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
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
