package httpx

import (
	"net/http"
	"strings"

	"github.com/charuprabha111/sweet-shop-management/internal/auth"
)

// RequireAuth resolves the bearer access token into an Identity on the request
// context; missing or bad tokens never reach the handlers.
func RequireAuth(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, prefix) {
				writeDetail(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			claims, err := tm.Parse(strings.TrimPrefix(header, prefix), auth.TokenTypeAccess)
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			ctx := auth.WithIdentity(r.Context(), claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
