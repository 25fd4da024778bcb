package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/idxpulse/idxpulse/internal/domain/dto"
	"github.com/idxpulse/idxpulse/internal/httperr"
	"github.com/idxpulse/idxpulse/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter creates the Gin engine with all API routes configured.
// The router is the terminal handler of the outer middleware chain:
// CORS and the nonce guard have already run by the time a request
// reaches it.
//
// Responsibilities:
//   - Registers router-side middlewares (RequestID, RequestLogger,
//     Recovery, ErrorHandler, and the optional rate limiter).
//   - Adds request timeout handling (10 seconds).
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures API v1 routes (/api/v1).
//
// Note:
//   - The health endpoint is registered in app.InitializeApp().
func NewRouter(handler *Handler, rateLimiter gin.HandlerFunc) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
	)
	if rateLimiter != nil {
		router.Use(rateLimiter)
	}

	// ─── Timeout ──────────────────────────────────
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		v1.GET("/broker-summary", handler.GetBrokerSummary)
	}

	// Unmatched routes get the standard error body.
	router.NoRoute(func(c *gin.Context) {
		e := httperr.NotFound("route not found")
		c.JSON(e.Status, dto.NewErrorResponse(e))
	})

	return router
}
