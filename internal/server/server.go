// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"trendxl/internal/config"
	"trendxl/internal/domain/content"
	"trendxl/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	analysisCfg config.AnalysisConfig,
	natsConn *nats.Conn,
	provider content.Provider,
	labeler content.Labeler,
	store content.Store,
	results handlers.ResultReader,
	refresher handlers.Refresher,
	searchDepth int,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	profileHandler := handlers.NewProfileHandler(provider, labeler, store, searchDepth)
	trendHandler := handlers.NewTrendHandler(store, refresher)
	analysisHandler := handlers.NewAnalysisHandler(results, refresher, analysisCfg.CacheMaxAge)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Profiles API
			r.Route("/profiles", func(r chi.Router) {
				r.Post("/", profileHandler.TrackProfile)
				r.Get("/{username}", profileHandler.GetProfile)
			})

			// Trends API
			r.Route("/trends", func(r chi.Router) {
				r.Get("/", trendHandler.GetTrends)
				r.Post("/refresh", trendHandler.RefreshTrends)
				r.Get("/{username}", trendHandler.GetTrendsForUser)
			})

			// Analytics API
			r.Route("/analytics", func(r chi.Router) {
				r.Get("/{username}", analysisHandler.GetAnalytics)
			})
		})
	})

	// WebSocket endpoint for real-time analysis updates
	router.Get("/ws/analytics/{username}", handlers.AnalyticsWebSocketHandler(natsConn, analysisCfg.EventsTopic))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
