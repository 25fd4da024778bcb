package middleware

import (
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/idxpulse/idxpulse/internal/domain/dto"
	"github.com/idxpulse/idxpulse/internal/httperr"
	"github.com/idxpulse/idxpulse/internal/store"
)

// hitCounter accumulates requests for one client within the current
// window. The window boundary is the TTL of the store entry holding it.
type hitCounter struct {
	n atomic.Int64
}

// RateLimiter limits each client IP to limit requests per fixed window.
// The window is the DefaultTTL of the hits store: when the entry
// expires, the client's count starts over.
//
// Response when the limit is exceeded: HTTP 429 with the standard error
// body.
func RateLimiter(hits *store.Store[string, *hitCounter], limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctr, _ := hits.GetOrCreate(c.ClientIP(), func() *hitCounter { return &hitCounter{} })
		if ctr.n.Add(1) > int64(limit) {
			e := httperr.RateLimited()
			c.AbortWithStatusJSON(e.Status, dto.NewErrorResponse(e))
			return
		}
		c.Next()
	}
}

// NewRateLimitStore builds the store backing RateLimiter: unbounded,
// entry TTL equal to the window, swept once per window.
func NewRateLimitStore(window, cleanupInterval time.Duration) *store.Store[string, *hitCounter] {
	return store.New(store.Options[string, *hitCounter]{
		DefaultTTL:      window,
		CleanupInterval: cleanupInterval,
		AutoCleanup:     true,
	})
}
