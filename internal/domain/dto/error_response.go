package dto

import (
	"time"

	"github.com/idxpulse/idxpulse/internal/httperr"
)

// ErrorResponse is the uniform JSON error body:
//
//	{"error": "DuplicateNonceError", "message": "Nonce already used: abc-123"}
//
// Error carries the stable classification name, Message the human text.
// Wrapped causes are logged server-side and never serialized here.
type ErrorResponse struct {
	Error     string    `json:"error" example:"ValidationError"`
	Message   string    `json:"message" example:"symbol is required"`
	Timestamp time.Time `json:"timestamp"`
}

// NewErrorResponse builds the response body for any error, classifying
// unknown errors as InternalServerError.
func NewErrorResponse(err error) ErrorResponse {
	e := httperr.FromError(err)
	return ErrorResponse{
		Error:     e.Name,
		Message:   e.Message,
		Timestamp: time.Now(),
	}
}
