package app

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/idxpulse/idxpulse/config"
	"github.com/idxpulse/idxpulse/internal/api"
	"github.com/idxpulse/idxpulse/internal/domain/models"
	"github.com/idxpulse/idxpulse/internal/middleware"
	"github.com/idxpulse/idxpulse/internal/service"
	"github.com/idxpulse/idxpulse/internal/store"
	"github.com/idxpulse/idxpulse/internal/upstream"
)

// clientCtor is an indirection for unit testing; defaults to the real
// upstream client.
var clientCtor = func(cfg config.UpstreamConfig) upstream.Provider {
	return upstream.NewClient(cfg)
}

// InitializeApp wires the whole application and returns the outermost
// HTTP handler, a cleanup function for graceful shutdown, and any
// initialization error.
//
// Wiring, outside in:
//   - ErrorBoundary: the single place chain errors become responses.
//   - CORS: answers preflight before anything else runs.
//   - NonceGuard: rejects missing/replayed nonces before the router.
//   - Gin router: request id, access log, recovery, typed-error
//     mapping, rate limiting, then the API handlers.
//
// The nonce store, response cache, and rate-limit store are constructed
// here, owned by the process, and handed to their consumers by
// reference; the cleanup function stops their sweep timers.
func InitializeApp() (http.Handler, func(), error) {
	cfg := config.AppConfig

	if _, err := url.Parse(cfg.Upstream.BaseURL); err != nil {
		return nil, nil, fmt.Errorf("invalid upstream base URL: %w", err)
	}

	// Process-wide stores. The nonce store's DefaultTTL is the replay
	// validity window; the cache store is bounded with FIFO eviction.
	nonces := store.New(store.Options[string, middleware.NonceRecord]{
		DefaultTTL:      cfg.Nonce.TTL,
		CleanupInterval: cfg.Nonce.CleanupInterval,
		AutoCleanup:     true,
	})
	cache := store.New(store.Options[string, *models.BrokerSummary]{
		MaxSize:         cfg.Cache.MaxSize,
		DefaultTTL:      cfg.Cache.TTL,
		CleanupInterval: cfg.Cache.CleanupInterval,
		AutoCleanup:     true,
	})
	hits := middleware.NewRateLimitStore(cfg.Rate.Window, cfg.Rate.Window)

	// Service and router.
	provider := clientCtor(cfg.Upstream)
	svc := service.NewBrokerService(provider, cache)
	handler := api.NewHandler(svc)
	router := api.NewRouter(handler, middleware.RateLimiter(hits, cfg.Rate.Limit))
	api.NewHealthHandler(cfg.Server.HealthPath).Register(router)

	// Outer chain: order is significant.
	chain := middleware.NewChain(
		middleware.CORS(middleware.CORSConfig{AllowOrigins: cfg.CORS.AllowOrigins}),
		middleware.NonceGuard(nonces, middleware.NonceGuardConfig{
			Header:     cfg.Nonce.Header,
			HealthPath: cfg.Server.HealthPath,
		}),
	)
	root := middleware.ErrorBoundary(chain.Then(middleware.Terminal(router)))

	cleanup := func() {
		nonces.StopCleanup()
		cache.StopCleanup()
		hits.StopCleanup()
	}

	return root, cleanup, nil
}
