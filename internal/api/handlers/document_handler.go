package handlers

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/markdave123-py/docdrop/internal/models"
	"github.com/markdave123-py/docdrop/internal/services"
)

type DocumentHandler struct {
	docs        *services.DocumentService
	maxUploadMB int
	logger      *zap.Logger
}

func NewDocumentHandler(docs *services.DocumentService, maxUploadMB int, logger *zap.Logger) *DocumentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentHandler{docs: docs, maxUploadMB: maxUploadMB, logger: logger}
}

type extractionResponse struct {
	SelectionID string            `json:"selection_id"`
	Results     []models.Document `json:"results"`
}

// ExtractSelection handles POST /api/selections/{id}/extract. Per-file failures
// are reported in the results, not as a request error.
func (h *DocumentHandler) ExtractSelection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	docs, err := h.docs.ExtractSelection(r.Context(), id)
	if err != nil {
		h.logger.Warn("selection extraction failed", zap.String("selection_id", id), zap.Error(err))
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, extractionResponse{SelectionID: id, Results: docs})
}

// ListBySelection handles GET /api/selections/{id}/documents.
func (h *DocumentHandler) ListBySelection(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.ListBySelection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// GetDocument handles GET /api/documents/{id}.
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteSelection handles DELETE /api/selections/{id}. Archived originals of
// the selection's documents are removed with it.
func (h *DocumentHandler) DeleteSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.docs.DeleteSelection(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Original handles GET /api/documents/{id}/original and serves the archived upload.
func (h *DocumentHandler) Original(w http.ResponseWriter, r *http.Request) {
	doc, data, err := h.docs.Original(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, nil)
		return
	}
	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ExtractUpload handles POST /api/extract with a single multipart field "file".
// A file that cannot be extracted answers 422 with the stored record.
func (h *DocumentHandler) ExtractUpload(w http.ResponseWriter, r *http.Request) {
	files, err := readUploads(w, r, "file", h.maxUploadMB)
	if err != nil {
		writeError(w, err, map[string]any{"field": "file", "max_mb": h.maxUploadMB})
		return
	}
	if files.Len() != 1 {
		writeError(w, errInvalid("exactly one file is required"), map[string]any{"field": "file", "got": files.Len()})
		return
	}

	doc, err := h.docs.ExtractOne(r.Context(), files.Item(0), "")
	if err != nil {
		writeError(w, err, nil)
		return
	}
	status := http.StatusOK
	if doc.Status == models.StatusFailed {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, doc)
}
