package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/BorisDmv/blog-posts-api/internal/config"
	"github.com/BorisDmv/blog-posts-api/internal/handlers"
	appmiddleware "github.com/BorisDmv/blog-posts-api/internal/middleware"
)

// NewRouter wires the HTTP routes. The returned stop func ends the rate
// limiter's background sweep.
func NewRouter(cfg config.Config, stores handlers.StoreProvider, logger *zap.Logger) (http.Handler, func()) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	r.Get("/health", handlers.Health)

	postsHandler := handlers.NewPostsHandler(stores, logger)
	stop := func() {}

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimitPerMinute > 0 {
			limiter := appmiddleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
			r.Use(limiter.Limit)
			stop = limiter.Stop
		}
		r.Get("/blogs", postsHandler.List)
		r.Post("/blogs", postsHandler.Create)
	})

	return r, stop
}

func New(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
