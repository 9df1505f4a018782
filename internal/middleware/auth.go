package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/yaswanth-m/simply-backend/internal/auth"
)

// AuthMiddlewareHandler gates mutating routes behind a valid bearer
// credential. All reads are public, so GET requests pass through, and
// POST /api/login has to stay open for the login itself.
type AuthMiddlewareHandler struct {
	checker      auth.Checker
	publicRoutes map[string]bool
}

func NewAuthMiddlewareHandler(checker auth.Checker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		checker: checker,
		publicRoutes: map[string]bool{
			"POST /api/login": true,
		},
	}
}

func (h *AuthMiddlewareHandler) routeIsPublic(method, path string) bool {
	if method == http.MethodGet {
		return true
	}
	return h.publicRoutes[method+" "+path]
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// browser preflight requests carry no credentials
			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				return
			}

			if h.routeIsPublic(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if err := h.checker.Validate(token); err != nil {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
