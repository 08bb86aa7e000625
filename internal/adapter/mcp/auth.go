package mcp

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const authRealm = `Bearer realm="brain-mcp"`

// AuthMiddleware guards the streamable HTTP transport with a shared key,
// sent as "Authorization: Bearer <key>" or as the bare key. An empty apiKey
// disables the check. A missing header answers 401, a wrong key 403.
func AuthMiddleware(apiKey string, next http.Handler) http.Handler {
	if apiKey == "" {
		return next
	}
	want := []byte(apiKey)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			w.Header().Set("WWW-Authenticate", authRealm)
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}
		token, _ := strings.CutPrefix(header, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), want) != 1 {
			http.Error(w, "invalid credentials", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
