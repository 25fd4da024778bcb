package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/idxpulse/idxpulse/internal/domain/dto"
	"github.com/idxpulse/idxpulse/internal/httperr"
	"github.com/idxpulse/idxpulse/internal/logger"
)

// ErrorHandler maps errors attached via c.Error to HTTP responses after
// the handler chain runs. Handlers surface failures with
// c.Error(err); this middleware is the router-side translation point,
// mirroring what ErrorBoundary does for the outer chain. The last
// attached error wins.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	e := httperr.FromError(c.Errors.Last().Err)
	if e.Status >= http.StatusInternalServerError {
		logger.L().Error().Err(e.Err).Str("error", e.Name).Str("path", c.Request.URL.Path).Msg(e.Message)
	}
	c.JSON(e.Status, dto.NewErrorResponse(e))
}
