package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaswanth-m/simply-backend/internal/auth"
)

func testAuthHandler(t *testing.T) http.Handler {
	t.Helper()

	checker := auth.NewTestChecker("valid-token")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("reached"))
		require.NoError(t, err)
	})
	return NewAuthMiddlewareHandler(checker).AuthCheck()(next)
}

func TestAuthCheck_publicRoutes(t *testing.T) {
	handler := testAuthHandler(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/api/version"},
		{http.MethodPost, "/api/login"},
		{http.MethodGet, "/api/blogs"},
		{http.MethodGet, "/api/blogs/my-first-post"},
		{http.MethodGet, "/api/profile"},
		{http.MethodGet, "/api/uploads/0a0b0c"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "reached", rr.Body.String())
		})
	}
}

func TestAuthCheck_protectedRoutes(t *testing.T) {
	handler := testAuthHandler(t)

	for _, tc := range []struct {
		name       string
		method     string
		path       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "create post, no token",
			method:     http.MethodPost,
			path:       "/api/blogs",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "create post, invalid token",
			method:     http.MethodPost,
			path:       "/api/blogs",
			authHeader: "Bearer nope",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "create post, token without bearer prefix",
			method:     http.MethodPost,
			path:       "/api/blogs",
			authHeader: "valid-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "create post, valid token",
			method:     http.MethodPost,
			path:       "/api/blogs",
			authHeader: "Bearer valid-token",
			wantStatus: http.StatusOK,
		},
		{
			name:       "delete post, valid token",
			method:     http.MethodDelete,
			path:       "/api/blogs/my-first-post",
			authHeader: "Bearer valid-token",
			wantStatus: http.StatusOK,
		},
		{
			name:       "upsert profile, no token",
			method:     http.MethodPut,
			path:       "/api/profile",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "upload, no token",
			method:     http.MethodPost,
			path:       "/api/uploads",
			wantStatus: http.StatusUnauthorized,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tc.wantStatus, rr.Code)
		})
	}
}

func TestAuthCheck_optionsSkipsAuth(t *testing.T) {
	handler := testAuthHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/blogs", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEqual(t, "reached", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Allow"), "OPTIONS")
}
