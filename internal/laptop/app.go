package laptop

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"PCBook/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	// Per-IP limits on writes. Zero disables limiting.
	WritesPerSecond float64
	WriteBurst      int
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if s.Log == nil {
		s.Log = deps.Log
	}
	if s.Metrics == nil {
		var reg prometheus.Registerer
		if deps.Registry != nil {
			reg = deps.Registry
		}
		s.Metrics = NewMetrics(reg)
	}
	if s.MaxImageSize <= 0 {
		s.MaxImageSize = DefaultMaxImageSize
	}

	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)
	setupRoutes(r, s, deps)

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func setupRoutes(r *chi.Mux, s *Server, deps HTTPDeps) {
	limited := func(h http.HandlerFunc) http.Handler { return h }
	if deps.WritesPerSecond > 0 {
		limiter := kit.NewIPRateLimiter(deps.WritesPerSecond, max(deps.WriteBurst, 1))
		limited = func(h http.HandlerFunc) http.Handler { return limiter.Middleware(h) }
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Route("/laptops", func(rr chi.Router) {
		rr.Method(http.MethodPost, "/", limited(s.create))
		rr.Post("/search", s.search)
		rr.Method(http.MethodPost, "/ratings", limited(s.rate))
		rr.Get("/{id}", s.get)
		rr.Get("/{id}/rating", s.getRating)
		rr.Method(http.MethodPost, "/{id}/image", limited(s.uploadImage))
	})
}
