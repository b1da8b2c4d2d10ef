package auth

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/fortunecookie-ai/fortune-api/internal/httputil"
	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

// Middleware returns a chi middleware that resolves the caller identity.
// Authentication is optional: requests without an Authorization header get a
// public-tier identity keyed by client IP. A present but invalid key is
// rejected with 401.
func Middleware(store KeyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				id := &Identity{
					Key:  "ip:" + clientIP(r),
					Tier: types.TierPublic,
				}
				next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				httputil.WriteAuthError(w, reqID, "Invalid Authorization format. Use: Authorization: Bearer <api-key>")
				return
			}
			if token == "" {
				httputil.WriteAuthError(w, reqID, "Empty API key")
				return
			}

			keyHash := HashKey(token)
			meta, err := store.Lookup(r.Context(), keyHash)
			if err != nil {
				slog.Error("key lookup failed", "error", err, "key_prefix", safePrefix(token))
				httputil.WriteInternalError(w, reqID, "Internal error during authentication")
				return
			}
			if meta == nil {
				slog.Warn("auth failed: key not found", "key_prefix", safePrefix(token))
				httputil.WriteAuthError(w, reqID, "Invalid API key")
				return
			}

			id := &Identity{
				Key:   "key:" + meta.ID,
				Tier:  meta.Tier,
				KeyID: meta.ID,
			}

			ctx := ContextWithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientIP returns the request's remote address without the port. The chi
// RealIP middleware has already folded X-Forwarded-For into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// safePrefix returns a safe-to-log prefix of an API key (never the full key).
func safePrefix(key string) string {
	if len(key) > 20 {
		return key[:20] + "..."
	}
	return key
}
