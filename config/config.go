package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from
// environment variables or a .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	UPSTREAM_BASE_URL=https://api.provider.example
//	UPSTREAM_API_KEY=secret
//	NONCE_HEADER=x-nonce
//	NONCE_TTL_MS=300000
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Nonce    NonceConfig
	Cache    CacheConfig
	Rate     RateConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port       string // TCP port the HTTP server listens on (e.g., "8080")
	HealthPath string // health endpoint path, bypasses the nonce guard
}

// UpstreamConfig defines the brokerage data provider connection.
type UpstreamConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NonceConfig controls the replay guard and its backing store.
type NonceConfig struct {
	Header          string        // request header carrying the nonce
	TTL             time.Duration // replay validity window
	CleanupInterval time.Duration // background sweep period for the nonce store
}

// CacheConfig controls the upstream response cache store.
type CacheConfig struct {
	MaxSize         int // 0 = unbounded
	TTL             time.Duration
	CleanupInterval time.Duration
}

// RateConfig controls the per-IP fixed-window rate limiter.
type RateConfig struct {
	Limit  int
	Window time.Duration
}

// CORSConfig controls the outer CORS middleware.
type CORSConfig struct {
	AllowOrigins []string
}

// AppConfig is the globally accessible configuration instance,
// populated once via LoadConfig().
var AppConfig Config

// LoadConfig initializes the global AppConfig.
//
// Precedence (lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Missing required values terminate the process via validateConfig().
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("HEALTH_PATH", "/health")

	viper.SetDefault("UPSTREAM_BASE_URL", "https://api.provider.example")
	viper.SetDefault("UPSTREAM_API_KEY", "")
	viper.SetDefault("UPSTREAM_TIMEOUT_MS", 10000)

	viper.SetDefault("NONCE_HEADER", "x-nonce")
	viper.SetDefault("NONCE_TTL_MS", 300000)
	viper.SetDefault("NONCE_CLEANUP_INTERVAL_MS", 8*60*60*1000)

	viper.SetDefault("CACHE_MAX_SIZE", 1000)
	viper.SetDefault("CACHE_TTL_MS", 300000)
	viper.SetDefault("CACHE_CLEANUP_INTERVAL_MS", 60000)

	viper.SetDefault("RATE_LIMIT", 60)
	viper.SetDefault("RATE_WINDOW_MS", 60000)

	viper.SetDefault("CORS_ALLOW_ORIGINS", "*")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	ms := func(key string) time.Duration {
		return time.Duration(viper.GetInt64(key)) * time.Millisecond
	}

	AppConfig = Config{
		Server: ServerConfig{
			Port:       viper.GetString("SERVER_PORT"),
			HealthPath: viper.GetString("HEALTH_PATH"),
		},
		Upstream: UpstreamConfig{
			BaseURL: strings.TrimRight(viper.GetString("UPSTREAM_BASE_URL"), "/"),
			APIKey:  viper.GetString("UPSTREAM_API_KEY"),
			Timeout: ms("UPSTREAM_TIMEOUT_MS"),
		},
		Nonce: NonceConfig{
			Header:          viper.GetString("NONCE_HEADER"),
			TTL:             ms("NONCE_TTL_MS"),
			CleanupInterval: ms("NONCE_CLEANUP_INTERVAL_MS"),
		},
		Cache: CacheConfig{
			MaxSize:         viper.GetInt("CACHE_MAX_SIZE"),
			TTL:             ms("CACHE_TTL_MS"),
			CleanupInterval: ms("CACHE_CLEANUP_INTERVAL_MS"),
		},
		Rate: RateConfig{
			Limit:  viper.GetInt("RATE_LIMIT"),
			Window: ms("RATE_WINDOW_MS"),
		},
		CORS: CORSConfig{
			AllowOrigins: splitCSV(viper.GetString("CORS_ALLOW_ORIGINS")),
		},
	}

	validateConfig()
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Upstream.BaseURL == "" {
		missing = append(missing, "UPSTREAM_BASE_URL")
	}
	if AppConfig.Nonce.Header == "" {
		missing = append(missing, "NONCE_HEADER")
	}
	if AppConfig.Nonce.TTL <= 0 {
		missing = append(missing, "NONCE_TTL_MS")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
