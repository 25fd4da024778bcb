package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/idxpulse/idxpulse/internal/httperr"
	"github.com/idxpulse/idxpulse/internal/store"
)

// Defaults for NonceGuardConfig zero values.
const (
	DefaultNonceHeader = "X-Nonce"
	DefaultAPIPrefix   = "/api/"
	DefaultHealthPath  = "/health"
)

// NonceRecord is the metadata stored under an accepted nonce. Its
// presence in the store is what marks the nonce as used; once the
// entry's TTL elapses the nonce becomes acceptable again, so the TTL
// bounds the replay window rather than guaranteeing permanent
// uniqueness.
type NonceRecord struct {
	Timestamp time.Time
	Path      string
	Method    string
	IP        string
}

// NonceGuardConfig configures the replay guard. Zero values fall back
// to the package defaults above. The validity window is not configured
// here: it is the DefaultTTL of the store handed to NonceGuard.
type NonceGuardConfig struct {
	Header     string // request header carrying the nonce
	APIPrefix  string // only paths under this prefix are guarded
	HealthPath string // always bypassed
}

// NonceGuard enforces that each client-supplied nonce is accepted at
// most once within the store's TTL window.
//
// Rules, in order:
//   - the health path and non-API paths bypass the guard entirely;
//   - a missing or blank header fails with MissingNonceError before the
//     store is touched;
//   - a nonce with a live entry fails with DuplicateNonceError and the
//     existing entry is not overwritten;
//   - otherwise the nonce is recorded and the request continues.
//
// The check-then-store runs inside a single store lock hold
// (store.GetOrCreate), so two concurrent requests carrying the same
// nonce cannot both pass.
func NonceGuard(nonces *store.Store[string, NonceRecord], cfg NonceGuardConfig) Middleware {
	header := cfg.Header
	if header == "" {
		header = DefaultNonceHeader
	}
	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = DefaultAPIPrefix
	}
	health := cfg.HealthPath
	if health == "" {
		health = DefaultHealthPath
	}

	return func(next Handler) Handler {
		return func(w http.ResponseWriter, r *http.Request) error {
			path := r.URL.Path
			if path == health || !strings.HasPrefix(path, prefix) {
				return next(w, r)
			}

			nonce := strings.TrimSpace(r.Header.Get(header))
			if nonce == "" {
				return httperr.MissingNonce(header)
			}

			_, replayed := nonces.GetOrCreate(nonce, func() NonceRecord {
				return NonceRecord{
					Timestamp: time.Now(),
					Path:      path,
					Method:    r.Method,
					IP:        clientIP(r),
				}
			})
			if replayed {
				return httperr.DuplicateNonce(nonce)
			}

			return next(w, r)
		}
	}
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
