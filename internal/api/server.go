// Package api provides the HTTP API server and handlers for the storefront catalog.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Config holds the HTTP-facing settings of the server.
type Config struct {
	AllowedOrigins []string
	// SecureCookies marks the session cookie Secure. Off for plain-HTTP development.
	SecureCookies bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services *Services
	config   Config
	router   *chi.Mux
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, cfg Config, logger *slog.Logger) *Server {
	s := &Server{
		services: services,
		config:   cfg,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestSize(MaxBodySize))

		// Public storefront.
		r.Get("/categories", s.handleListCategories)
		r.Get("/search", s.handleSearch)
		r.Get("/images/transform", s.handleTransformImage)

		// Auth.
		r.Route("/auth", func(r chi.Router) {
			r.With(RateLimitMiddleware(s.services.LoginLimiter, s.logger)).Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.With(s.requireAdmin).Get("/session", s.handleGetSession)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handleListProducts)
			r.Get("/{id}", s.handleGetProduct)

			// Admin catalog management.
			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Post("/", s.handleSaveProduct)
				r.Patch("/", s.handleBulkUpdateProducts)
				r.Get("/stats", s.handleGetStats)
				r.Post("/sync", s.handleSync)
				r.Patch("/{id}", s.handleUpdateProduct)
				r.Delete("/{id}", s.handleDeleteProduct)
				r.Patch("/{id}/images", s.handleUpdateProductImages)
			})
		})

		r.With(s.requireAdmin).Post("/images/destroy", s.handleDestroyImage)
	})
}
