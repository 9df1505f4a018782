package misc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaswanth-m/simply-backend/internal/auth"
	"github.com/yaswanth-m/simply-backend/pkg"
)

func testRouter(t *testing.T) (*mux.Router, *auth.TokenService) {
	t.Helper()

	passwordHash, err := pkg.HashPassword("them-pass")
	require.NoError(t, err)

	tokenService := auth.NewTokenService("test-signing-secret", time.Hour)
	handler := NewHandler(
		"dev-version",
		tokenService,
		&auth.Admin{
			Username:     "admin",
			PasswordHash: passwordHash,
		},
	)

	r := mux.NewRouter()
	handler.SetupRoutes(r)
	return r, tokenService
}

func TestHandleRoot(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "I'm OK, thanks ;)", rr.Body.String())
}

func TestHandleGetVersionInfo(t *testing.T) {
	r, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "dev-version", rr.Body.String())
}

func TestHandleLogin(t *testing.T) {
	r, tokenService := testRouter(t)

	req := httptest.NewRequest(
		http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"admin","password":"them-pass"}`),
	)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Token)
	assert.NoError(t, tokenService.Validate(loginResp.Token))
}

func TestHandleLogin_fails(t *testing.T) {
	r, _ := testRouter(t)

	for _, tc := range []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "wrong password",
			body:       `{"username":"admin","password":"nope"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong username",
			body:       `{"username":"superadmin","password":"them-pass"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty credentials",
			body:       `{}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "broken json",
			body:       `{"username": bleh`,
			wantStatus: http.StatusBadRequest,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.NotContains(t, rr.Body.String(), "token")
		})
	}
}
