package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/markdave123-py/docdrop/internal/i18n"
	"github.com/markdave123-py/docdrop/internal/models"
	"github.com/markdave123-py/docdrop/internal/services"
	"github.com/markdave123-py/docdrop/internal/ui/fileupload"
)

type SelectionHandler struct {
	selections  *services.SelectionService
	bundle      *i18n.Bundle
	maxUploadMB int
	logger      *zap.Logger
}

func NewSelectionHandler(selections *services.SelectionService, bundle *i18n.Bundle, maxUploadMB int, logger *zap.Logger) *SelectionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionHandler{selections: selections, bundle: bundle, maxUploadMB: maxUploadMB, logger: logger}
}

type createSelectionRequest struct {
	Label    string `json:"label" validate:"required,max=200"`
	Multiple bool   `json:"multiple"`
	Disabled bool   `json:"disabled"`
}

type selectionResponse struct {
	ID         string               `json:"id"`
	Label      string               `json:"label"`
	Multiple   bool                 `json:"multiple"`
	Disabled   bool                 `json:"disabled"`
	Generation int                  `json:"generation"`
	Files      []models.FileSummary `json:"files"`
	View       *fileupload.View     `json:"view,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

func toSelectionResponse(s models.SelectionSession) selectionResponse {
	return selectionResponse{
		ID:         s.ID,
		Label:      s.Label,
		Multiple:   s.Multiple,
		Disabled:   s.Disabled,
		Generation: s.Generation,
		Files:      models.Summarize(s.Files),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// Create handles POST /api/selections.
func (h *SelectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSelectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, nil)
		return
	}
	sess := h.selections.Create(req.Label, req.Multiple, req.Disabled)
	writeJSON(w, http.StatusCreated, toSelectionResponse(sess))
}

// Get handles GET /api/selections/{id}. The view is localized from Accept-Language.
func (h *SelectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctl, err := h.selections.Control(id, nil)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	sess, err := h.selections.Get(id)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	resp := toSelectionResponse(sess)
	view := ctl.View(translatorFor(h.bundle, r))
	resp.View = &view
	writeJSON(w, http.StatusOK, resp)
}

// ReplaceFiles handles PUT /api/selections/{id}/files with multipart field "files".
func (h *SelectionHandler) ReplaceFiles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.selections.Get(id); err != nil {
		writeError(w, err, nil)
		return
	}
	files, err := readUploads(w, r, "files", h.maxUploadMB)
	if err != nil {
		writeError(w, err, map[string]any{"field": "files", "max_mb": h.maxUploadMB})
		return
	}
	sess, err := h.selections.Replace(id, files)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, toSelectionResponse(sess))
}

// ClearFiles handles DELETE /api/selections/{id}/files.
func (h *SelectionHandler) ClearFiles(w http.ResponseWriter, r *http.Request) {
	sess, err := h.selections.Clear(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, toSelectionResponse(sess))
}

func translatorFor(b *i18n.Bundle, r *http.Request) *i18n.Translator {
	return b.Translator(b.Match(r.Header.Get("Accept-Language")))
}
