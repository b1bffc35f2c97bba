package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/clinassign/clinassign-backend-go/internal/handler/http/response"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/storage"
	"github.com/go-chi/chi/v5"
)

type FileHandler interface {
	Download(w http.ResponseWriter, r *http.Request)
}

type fileHandlerImpl struct {
	storage storage.FileStorage
}

func NewFileHandler(fileStorage storage.FileStorage) FileHandler {
	return &fileHandlerImpl{storage: fileStorage}
}

// Download streams one stored file. Directories are reported as not found.
func (h *fileHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" || key[len(key)-1] == '/' {
		response.NotFound(w, "File not found")
		return
	}

	rc, err := h.storage.Download(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			response.NotFound(w, "File not found")
			return
		}
		response.InternalServerError(w, "Failed to read file", err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("Failed to stream file", "path", key, "error", err)
	}
}
