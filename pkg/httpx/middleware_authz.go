package httpx

import (
	"net/http"
	"slices"
	"strings"
)

// RequireAnyScope passes requests whose token holds at least one of required.
// It must run after AuthnMiddleware.
func RequireAnyScope(required ...string) Middleware {
	want := strings.Join(required, " ")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, ok := ClaimsFromContext(r.Context()); ok && c.HasAnyScope(required...) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+want+`"`)
			WriteError(w, http.StatusForbidden, "insufficient_scope", "token requires one of: "+want)
		})
	}
}

// HasAnyScope reports whether the scope claim grants any of scopes.
func (c *Claims) HasAnyScope(scopes ...string) bool {
	return slices.ContainsFunc(c.Scopes(), func(s string) bool {
		return slices.Contains(scopes, s)
	})
}
