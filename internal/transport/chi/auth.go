package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// RequireAPIKey guards catalog writes with a Bearer API key. Reads (GET,
// HEAD, OPTIONS) stay public so browsing clients need no credentials.
// With no non-empty keys configured the guard is off.
func RequireAPIKey(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			switch {
			case r.Header.Get("Authorization") == "":
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "catalog writes need an api key")
			case !ok:
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "authorization header must use Bearer scheme")
			case !knownKey(keys, token):
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid api key")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// knownKey compares against every key so timing does not reveal a match.
func knownKey(keys [][]byte, token string) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, []byte(token))
	}
	return found == 1
}
