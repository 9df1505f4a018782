package profile

import (
	"context"
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/yaswanth-m/simply-backend/pkg"
)

type profileRequest struct {
	Name              string            `json:"name"`
	AvatarURL         *string           `json:"avatar_url"`
	CoverURL          *string           `json:"cover_url"`
	Summary           *string           `json:"summary"`
	EmploymentHistory []Employment      `json:"employment_history"`
	ContactEmail      *string           `json:"contact_email"`
	Socials           map[string]string `json:"socials"`
}

func (profileReq profileRequest) Validate() error {
	return validation.ValidateStruct(&profileReq,
		validation.Field(&profileReq.Name, validation.Required),
		validation.Field(&profileReq.ContactEmail, is.Email),
	)
}

type profileRepo interface {
	Get(ctx context.Context) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
}

type Handler struct {
	repo profileRepo
}

func NewHandler(repo profileRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/profile", handler.handleGet).Methods("GET").Name("get-profile")
	router.HandleFunc("/api/profile", handler.handleUpsert).Methods("PUT", "OPTIONS").Name("upsert-profile")
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	profile, err := handler.repo.Get(r.Context())
	if err != nil {
		log.Errorf("get profile: %s", err)
		http.Error(w, "get profile error", http.StatusInternalServerError)
		return
	}

	if profile == nil {
		pkg.WriteJSONResponseOK(w, "{}")
		return
	}

	profileJson, err := json.Marshal(ToWire(profile))
	if err != nil {
		log.Errorf("marshal profile: %s", err)
		http.Error(w, "marshal profile error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, profileJson)
}

func (handler *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var profileReq profileRequest
	if err := json.NewDecoder(r.Body).Decode(&profileReq); err != nil {
		log.Errorf("upsert profile, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := profileReq.Validate(); err != nil {
		log.Tracef("upsert profile, invalid request: %s", err)
		http.Error(w, "invalid profile", http.StatusBadRequest)
		return
	}

	profile := &Profile{
		Name:              profileReq.Name,
		AvatarURL:         profileReq.AvatarURL,
		CoverURL:          profileReq.CoverURL,
		Summary:           profileReq.Summary,
		EmploymentHistory: profileReq.EmploymentHistory,
		ContactEmail:      profileReq.ContactEmail,
		Socials:           profileReq.Socials,
	}

	if err := handler.repo.Upsert(r.Context(), profile); err != nil {
		log.Errorf("upsert profile: %s", err)
		http.Error(w, "upsert profile failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"ok":true}`)
}
