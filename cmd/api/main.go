// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"trendxl/internal/adapter/labeler"
	"trendxl/internal/adapter/provider"
	"trendxl/internal/adapter/storage"
	"trendxl/internal/config"
	"trendxl/internal/domain/insight"
	"trendxl/internal/server"
	"trendxl/internal/service/analysis"
	"trendxl/internal/service/ingest"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	// Initialize storage adapters
	store := storage.NewStore(db)
	resultStore := storage.NewResultStore(db)

	// Initialize external adapters
	tiktokProvider := provider.NewTikTokClient(provider.Config{
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
		Timeout: cfg.Provider.Timeout,
	})

	relevanceLabeler := labeler.NewOpenAIClient(labeler.Config{
		BaseURL: cfg.Labeler.BaseURL,
		APIKey:  cfg.Labeler.APIKey,
		Model:   cfg.Labeler.Model,
		Timeout: cfg.Labeler.Timeout,
	})
	if !relevanceLabeler.Enabled() {
		log.Println("Labeler API key not set, falling back to heuristic profile analysis")
	}

	// Initialize analytics engine
	engine := analysis.NewEngine(analysis.EngineConfig{
		MaxRecords:      cfg.Analysis.MaxRecords,
		TopIdeaKeywords: cfg.Analysis.TopIdeaKeywords,
	})

	// Initialize ingestion refresher
	refresher := ingest.NewRefresher(
		tiktokProvider,
		relevanceLabeler,
		store,
		resultStore,
		engine,
		natsConn,
		ingest.RefresherConfig{
			RefreshInterval:    cfg.Analysis.RefreshInterval,
			SearchDepth:        cfg.Provider.SearchDepth,
			MaxResultsPerQuery: cfg.Provider.MaxResultsPerQuery,
			EventsTopic:        cfg.Analysis.EventsTopic,
		},
	)

	refresher.RegisterResultHandler(func(result insight.AnalysisResult) error {
		log.Printf("Analysis %s completed for @%s (%d records)", result.RunID, result.Owner, result.RecordsAnalyzed)
		return nil
	})

	// Start the background refresh loop
	if err := refresher.Start(ctx); err != nil {
		log.Fatalf("Failed to start refresher: %v", err)
	}

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		cfg.Analysis,
		natsConn,
		tiktokProvider,
		relevanceLabeler,
		store,
		resultStore,
		refresher,
		cfg.Provider.SearchDepth,
	)

	// Start HTTP server
	go func() {
		log.Printf("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Println("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	log.Println("Shutting down services...")

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Stop refresher
	if err := refresher.Stop(shutdownCtx); err != nil {
		log.Printf("Refresher shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
