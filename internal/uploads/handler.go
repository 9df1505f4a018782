package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/yaswanth-m/simply-backend/internal/telemetry/metrics"
	"github.com/yaswanth-m/simply-backend/pkg"
)

const maxUploadedFileSize = 32 << 20 // 32 MB

type uploadResponse struct {
	FileID     string `json:"file_id"`
	PublicURL  string `json:"public_url"`
	PublicPath string `json:"public_path"`
}

type fileStore interface {
	Save(ctx context.Context, params SaveFileParams) (uuid.UUID, error)
	Open(ctx context.Context, id string) (*File, ChunkIterator, error)
}

type Handler struct {
	store          fileStore
	metricsManager *metrics.Manager
}

func NewHandler(store fileStore, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		store:          store,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/uploads", handler.handleUpload).Methods("POST", "OPTIONS").Name("new-upload")
	router.HandleFunc("/api/uploads/{id}", handler.handleDownload).Methods("GET").Name("get-upload")
}

func (handler *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadedFileSize); err != nil {
		log.Errorf("upload, parse multipart form: %s", err)
		http.Error(w, "invalid upload or file too big", http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		log.Errorf("upload, get form file: %s", err)
		http.Error(w, "invalid upload, missing file", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Errorf("failed to close uploaded file [%s]: %s", fileHeader.Filename, err)
		}
	}()

	// the write path buffers the whole file; acceptable sizes are
	// bounded by maxUploadedFileSize
	data, err := io.ReadAll(file)
	if err != nil {
		log.Errorf("upload, read file [%s]: %s", fileHeader.Filename, err)
		http.Error(w, "failed to read uploaded file", http.StatusInternalServerError)
		return
	}

	id, err := handler.store.Save(r.Context(), SaveFileParams{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidUpload) {
			http.Error(w, "invalid upload", http.StatusBadRequest)
			return
		}
		log.Errorf("upload, save file [%s]: %s", fileHeader.Filename, err)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterUploads.Inc()
	log.Tracef("new file %s: [%s] added", id, fileHeader.Filename)

	publicPath := "/api/uploads/" + id.String()
	resp, err := json.Marshal(uploadResponse{
		FileID:     id.String(),
		PublicURL:  pkg.BaseURL(r) + publicPath,
		PublicPath: publicPath,
	})
	if err != nil {
		log.Errorf("upload, marshal response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	file, chunks, err := handler.store.Open(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		log.Errorf("download file [%s]: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer chunks.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.Filename))
	// uploaded files are immutable, let clients cache for a year
	w.Header().Set("Cache-Control", "public, max-age=31536000")

	for {
		chunk, err := chunks.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			// response already started, nothing to do but drop the connection
			log.Errorf("download file [%s], read chunk: %s", id, err)
			return
		}
		if _, err := w.Write(chunk); err != nil {
			log.Tracef("download file [%s], write chunk: %s", id, err)
			return
		}
	}
}
