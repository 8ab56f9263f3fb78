package middleware

import (
	"net/http"
	"strings"
)

// CaseInsensitiveMiddleware lowercases the static part of API paths so that
// /API/Carriers and /api/carriers reach the same route. Path variables are
// numeric ids, so lowercasing never changes them.
func CaseInsensitiveMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = strings.ToLower(r.URL.Path)
		if r.URL.RawPath != "" {
			r.URL.RawPath = strings.ToLower(r.URL.RawPath)
		}
		next.ServeHTTP(w, r)
	})
}
