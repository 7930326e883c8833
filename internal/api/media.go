package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/journal"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

const maxUploadBytes = 50 << 20 // 50 MB

// MediaHandler accepts photo uploads and serves stored files. Uploaded
// bytes are content-addressed: the stored filename is derived from the
// content digest, so re-uploading the same photo reuses the same file.
type MediaHandler struct {
	repo  *journal.Repository
	files storage.Provider
	root  string
}

// NewMediaHandler creates a handler over the media directory.
func NewMediaHandler(repo *journal.Repository, files storage.Provider, root string) *MediaHandler {
	return &MediaHandler{repo: repo, files: files, root: root}
}

// List handles GET /hikes/{id}/media.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	hikeID, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	media, err := h.repo.MediaForHike(hikeID)
	if err != nil {
		writeErr(w, "list media", err)
		return
	}
	if media == nil {
		media = []models.Media{}
	}
	writeJSON(w, http.StatusOK, media)
}

// Upload handles POST /hikes/{id}/media (multipart/form-data, field "file").
// The file is stored in the media directory and a media row referencing
// it is inserted for the hike.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	hikeID, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	mime := header.Header.Get("Content-Type")
	ext, ok := extForUpload(mime, header.Filename)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("unsupported file type (allowed: png, jpg, gif, webp)"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to read upload"))
		return
	}

	name, err := h.files.WriteHashed(data, ext)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to store file"))
		return
	}

	saved, err := h.repo.AddMedia(models.Media{HikeID: hikeID, URI: name, MimeType: mime})
	if err != nil {
		writeErr(w, "add media", err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// Delete handles DELETE /media/{id}: the row goes first, then the file,
// but only when no other row still references it.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	m, err := h.repo.Media(id)
	if err != nil {
		writeErr(w, "delete media", err)
		return
	}
	if err := h.repo.DeleteMedia(id); err != nil {
		writeErr(w, "delete media", err)
		return
	}

	uris, err := h.repo.MediaURIs()
	if err == nil {
		if _, stillUsed := uris[m.URI]; !stillUsed && h.files.Exists(m.URI) {
			_ = h.files.Delete(m.URI)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeFile handles GET /media/files/{filename}.
func (h *MediaHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" || filename != filepath.Base(filename) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid filename"))
		return
	}
	abs := filepath.Join(h.root, filename)
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}
