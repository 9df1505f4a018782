package middleware

import (
	"net/http"
	"strings"
)

var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"https://simply-yaswanth.vercel.app",
}

// Cors sets CORS headers for origins from the allow-list, merged from
// the fixed defaults and configuration. Requests from other origins
// (or with no Origin at all, like curl) pass through without CORS
// headers - the browser is the enforcement point.
func Cors(extraOrigins []string) func(next http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool)
	for _, origin := range defaultAllowedOrigins {
		allowedOrigins[origin] = true
	}
	for _, origin := range extraOrigins {
		origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSuffix(r.Header.Get("Origin"), "/")
			if allowedOrigins[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Headers",
					"Accept, Content-Type, Content-Length, Accept-Encoding, Authorization",
				)
				w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			}

			next.ServeHTTP(w, r)
		})
	}
}
