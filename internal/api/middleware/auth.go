package middleware

import (
	"context"
	"crypto/sha256"
	"net/http"

	"github.com/google/uuid"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// ContextKeyAPIKey is the context key for the raw API key
	ContextKeyAPIKey ContextKey = "api_key"
	// ContextKeyAPIKeyID is the context key for the derived caller ID
	ContextKeyAPIKeyID ContextKey = "api_key_id"
)

// apiKeyNamespace scopes derived caller IDs to this service
var apiKeyNamespace = uuid.MustParse("8c1f6e0a-52f3-4f9d-9f43-7a20c3db51b6")

// CallerID derives a stable caller identifier from an API key. The raw
// key is never stored; scans, abuse records, and rate limits all key on
// this UUID.
func CallerID(apiKey string) uuid.UUID {
	sum := sha256.Sum256([]byte(apiKey))
	return uuid.NewSHA1(apiKeyNamespace, sum[:])
}

// APIKeyAuth returns middleware that requires an X-API-Key header and
// attaches the derived caller ID to the request context
func APIKeyAuth() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip auth for OPTIONS requests (CORS preflight)
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"missing API key"}`))
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAPIKey, apiKey)
			ctx = context.WithValue(ctx, ContextKeyAPIKeyID, CallerID(apiKey))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAPIKey returns the raw API key from the context
func GetAPIKey(ctx context.Context) string {
	key, _ := ctx.Value(ContextKeyAPIKey).(string)
	return key
}

// GetAPIKeyID returns the derived caller ID from the context
func GetAPIKeyID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(ContextKeyAPIKeyID).(uuid.UUID)
	return id
}
