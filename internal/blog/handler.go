package blog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/yaswanth-m/simply-backend/pkg"
)

type postRequest struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	ContentMd   string     `json:"content_md"`
	CoverURL    *string    `json:"cover_url"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"published_at"`
}

type createdResponse struct {
	Ok   bool   `json:"ok"`
	Slug string `json:"slug"`
}

type okResponse struct {
	Ok bool `json:"ok"`
}

type postsRepo interface {
	Add(ctx context.Context, post *Post) error
	Update(ctx context.Context, slug string, post *Post) error
	Delete(ctx context.Context, slug string) error
	All(ctx context.Context) ([]*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
}

type Handler struct {
	repo postsRepo
}

func NewHandler(repo postsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/blogs", handler.handleList).Methods("GET").Name("list-posts")
	router.HandleFunc("/api/blogs", handler.handleCreate).Methods("POST", "OPTIONS").Name("new-post")
	router.HandleFunc("/api/blogs/{slug}", handler.handleGet).Methods("GET").Name("get-post")
	router.HandleFunc("/api/blogs/{slug}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-post")
	router.HandleFunc("/api/blogs/{slug}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-post")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	posts, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all posts: %s", err)
		http.Error(w, "get posts error", http.StatusInternalServerError)
		return
	}

	wirePosts := make([]WirePost, 0, len(posts))
	for _, post := range posts {
		wirePosts = append(wirePosts, ToWire(post))
	}

	postsJson, err := json.Marshal(wirePosts)
	if err != nil {
		log.Errorf("marshal posts: %s", err)
		http.Error(w, "marshal posts error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, postsJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	post, err := handler.repo.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		log.Errorf("get post %q: %s", slug, err)
		http.Error(w, "get post error", http.StatusInternalServerError)
		return
	}

	postJson, err := json.Marshal(ToWire(post))
	if err != nil {
		log.Errorf("marshal post %q: %s", slug, err)
		http.Error(w, "marshal post error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, postJson)
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	postReq, ok := decodePostRequest(w, r)
	if !ok {
		return
	}

	newPost := postReq.toPost()
	if err := handler.repo.Add(r.Context(), newPost); err != nil {
		log.Errorf("add new post: %s", err)
		http.Error(w, "add new post failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new post %d: [%s] added", newPost.ID, newPost.Slug)

	writeJSON(w, createdResponse{Ok: true, Slug: newPost.Slug})
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	postReq, ok := decodePostRequest(w, r)
	if !ok {
		return
	}

	if err := handler.repo.Update(r.Context(), slug, postReq.toPost()); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		log.Errorf("update post %q: %s", slug, err)
		http.Error(w, "update post failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, okResponse{Ok: true})
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	if err := handler.repo.Delete(r.Context(), slug); err != nil {
		log.Errorf("delete post %q: %s", slug, err)
		http.Error(w, "delete post failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, okResponse{Ok: true})
}

func (postReq *postRequest) toPost() *Post {
	post := &Post{
		Title:     postReq.Title,
		Slug:      postReq.Slug,
		ContentMd: postReq.ContentMd,
		CoverURL:  postReq.CoverURL,
		Tags:      postReq.Tags,
	}
	if postReq.PublishedAt != nil {
		post.PublishedAt = *postReq.PublishedAt
	}
	return post
}

func decodePostRequest(w http.ResponseWriter, r *http.Request) (*postRequest, bool) {
	var postReq postRequest
	if err := json.NewDecoder(r.Body).Decode(&postReq); err != nil {
		log.Errorf("post request, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return nil, false
	}

	if postReq.Title == "" {
		http.Error(w, "error, title empty", http.StatusBadRequest)
		return nil, false
	}
	if postReq.ContentMd == "" {
		http.Error(w, "error, content empty", http.StatusBadRequest)
		return nil, false
	}

	return &postReq, true
}

func writeJSON(w http.ResponseWriter, resp any) {
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
