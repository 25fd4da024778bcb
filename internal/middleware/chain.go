package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/idxpulse/idxpulse/internal/domain/dto"
	"github.com/idxpulse/idxpulse/internal/httperr"
	"github.com/idxpulse/idxpulse/internal/logger"
)

// Handler is an http.Handler variant that reports failures instead of
// writing them. Errors returned here travel up through every enclosing
// middleware to the ErrorBoundary, which is the only place they are
// translated into HTTP responses.
type Handler func(http.ResponseWriter, *http.Request) error

// Middleware wraps a Handler. A middleware short-circuits by writing a
// response (or returning an error) without calling next, and
// post-processes by acting after next returns.
type Middleware func(next Handler) Handler

// Chain composes an ordered list of middleware around a terminal
// handler. Order is significant: the first middleware is outermost.
// A Chain holds no per-request state and is reused across requests.
type Chain struct {
	middlewares []Middleware
}

// NewChain builds a chain that applies the given middleware in order.
func NewChain(mw ...Middleware) Chain {
	return Chain{middlewares: mw}
}

// Then closes the chain over terminal and returns the composed Handler.
func (c Chain) Then(terminal Handler) Handler {
	h := terminal
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		h = c.middlewares[i](h)
	}
	return h
}

// Terminal adapts a plain http.Handler (the application router) as the
// chain's terminal handler.
func Terminal(h http.Handler) Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		h.ServeHTTP(w, r)
		return nil
	}
}

// ErrorBoundary is the outermost request boundary. Typed errors
// escaping the chain are mapped to their status and JSON body here,
// exactly once; panics are logged with their stack and reduced to a
// generic 500 with no internal detail in the client body.
func ErrorBoundary(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.L().Error().
					Str("panic", fmt.Sprintf("%v", rec)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered at request boundary")
				writeError(w, httperr.Internal(fmt.Errorf("%v", rec)))
			}
		}()

		if err := h(w, r); err != nil {
			e := httperr.FromError(err)
			evt := logger.L().Warn()
			if e.Status >= http.StatusInternalServerError {
				evt = logger.L().Error().Err(e.Err)
			}
			evt.Str("error", e.Name).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", e.Status).
				Msg(e.Message)
			writeError(w, e)
		}
	})
}

func writeError(w http.ResponseWriter, e *httperr.Error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(dto.NewErrorResponse(e))
}
