package misc

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yaswanth-m/simply-backend/internal/auth"
	"github.com/yaswanth-m/simply-backend/internal/telemetry/tracing"
	"github.com/yaswanth-m/simply-backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type tokenIssuer interface {
	Issue() (string, error)
}

type Handler struct {
	versionInfo  string
	tokenService tokenIssuer
	admin        *auth.Admin
}

func NewHandler(
	versionInfo string,
	tokenService tokenIssuer,
	admin *auth.Admin,
) *Handler {
	return &Handler{
		versionInfo:  versionInfo,
		tokenService: tokenService,
		admin:        admin,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/api/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/api/login", handler.handleLogin).Methods("POST", "OPTIONS").Name("login")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.login")
	defer span.End()

	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var loginReq loginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		log.Errorf("login, unmarshal json params: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	// same response for a wrong username and a wrong password, do
	// not leak which part was off
	if !pkg.CheckPasswordHash(loginReq.Password, handler.admin.PasswordHash) {
		log.Tracef("[password] failed login attempt for user: %s", loginReq.Username)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if loginReq.Username != handler.admin.Username {
		log.Tracef("[username] failed login attempt for user: %s", loginReq.Username)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := handler.tokenService.Issue()
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	log.Trace("new login success")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token":"%s"}`, token))
}
