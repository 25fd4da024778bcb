package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/idxpulse/idxpulse/internal/httperr"
)

func TestNewErrorResponse_Typed(t *testing.T) {
	resp := NewErrorResponse(httperr.DuplicateNonce("abc-123"))
	if resp.Error != "DuplicateNonceError" {
		t.Fatalf("error name=%q", resp.Error)
	}
	if resp.Message != "Nonce already used: abc-123" {
		t.Fatalf("message=%q", resp.Message)
	}
	if resp.Timestamp.IsZero() || time.Since(resp.Timestamp) > time.Second {
		t.Fatalf("timestamp not set")
	}
}

func TestNewErrorResponse_Unclassified(t *testing.T) {
	resp := NewErrorResponse(errors.New("connection reset"))
	if resp.Error != "InternalServerError" {
		t.Fatalf("error name=%q", resp.Error)
	}
	// Internal detail must not leak to the client body.
	if resp.Message != "Internal server error" {
		t.Fatalf("message leaked detail: %q", resp.Message)
	}
}
