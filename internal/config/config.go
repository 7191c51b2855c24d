// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Provider    ProviderConfig
	Labeler     LabelerConfig
	Analysis    AnalysisConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// ProviderConfig holds content data provider configuration
type ProviderConfig struct {
	BaseURL            string
	APIKey             string
	Timeout            time.Duration
	SearchDepth        int
	MaxResultsPerQuery int
}

// LabelerConfig holds relevance labeling service configuration
type LabelerConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// AnalysisConfig holds analytics engine configuration
type AnalysisConfig struct {
	MaxRecords      int
	TopIdeaKeywords int
	RefreshInterval time.Duration
	EventsTopic     string
	CacheMaxAge     time.Duration
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "trendxl"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Provider: ProviderConfig{
			BaseURL:            getEnv("PROVIDER_BASE_URL", "https://ensembledata.com/apis"),
			APIKey:             getEnv("PROVIDER_API_KEY", ""),
			Timeout:            getEnvAsDuration("PROVIDER_TIMEOUT", 15*time.Second),
			SearchDepth:        getEnvAsInt("PROVIDER_SEARCH_DEPTH", 2),
			MaxResultsPerQuery: getEnvAsInt("PROVIDER_MAX_RESULTS", 20),
		},
		Labeler: LabelerConfig{
			BaseURL: getEnv("LABELER_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  getEnv("LABELER_API_KEY", ""),
			Model:   getEnv("LABELER_MODEL", "gpt-4o-mini"),
			Timeout: getEnvAsDuration("LABELER_TIMEOUT", 30*time.Second),
		},
		Analysis: AnalysisConfig{
			MaxRecords:      getEnvAsInt("ANALYSIS_MAX_RECORDS", 500),
			TopIdeaKeywords: getEnvAsInt("ANALYSIS_TOP_IDEA_KEYWORDS", 3),
			RefreshInterval: getEnvAsDuration("ANALYSIS_REFRESH_INTERVAL", 30*time.Minute),
			EventsTopic:     getEnv("ANALYSIS_EVENTS_TOPIC", "analysis"),
			CacheMaxAge:     getEnvAsDuration("ANALYSIS_CACHE_MAX_AGE", 1*time.Hour),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Provider.APIKey == "" && config.Environment != "development" {
		return fmt.Errorf("provider API key must be set in non-development environments")
	}
	if config.Analysis.MaxRecords <= 0 {
		return fmt.Errorf("analysis max records must be positive")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
