package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/rogerio-castellano/product-catalog/docs"
	"github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-catalog/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-catalog/internal/observability"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Options configures the cross-cutting parts of the router. Zero values disable
// the optional pieces.
type Options struct {
	ServiceName        string
	Logger             *zap.Logger
	Collector          *observability.Collector
	TracerProvider     trace.TracerProvider
	Limiter            *rl.Limiter
	CORSAllowedOrigins []string
	// ConfigAuthSecret guards GET /config when set.
	ConfigAuthSecret string
}

func NewRouter(s *handlers.Server, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = noop.NewTracerProvider()
	}
	if opts.Collector == nil {
		opts.Collector = observability.NewCollector("product_catalog")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(observability.TracingMiddleware(opts.TracerProvider, opts.ServiceName))
	r.Use(observability.MetricsMiddleware(opts.Collector))
	r.Use(observability.LoggingMiddleware(opts.Logger))
	r.Use(observability.Recoverer(opts.Logger))
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"Location", "X-Trace-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.HealthHandler)
	r.Handle("/metrics", opts.Collector.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Group(func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware)
		}
		r.Post("/products", s.CreateProductHandler)
		r.Get("/products", s.GetProductsHandler)
		r.Get("/products/{id}", s.GetProductByIDHandler)

		if opts.ConfigAuthSecret != "" {
			r.With(AuthMiddleware([]byte(opts.ConfigAuthSecret))).Get("/config", s.GetConfigHandler)
		} else {
			r.Get("/config", s.GetConfigHandler)
		}
	})

	return r
}
