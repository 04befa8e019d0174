package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/markdave123-py/docdrop/internal/i18n"
	"github.com/markdave123-py/docdrop/internal/models"
	"github.com/markdave123-py/docdrop/internal/services"
	"github.com/markdave123-py/docdrop/internal/ui/fileupload"
)

//go:embed templates/page.html.tmpl
var pageFS embed.FS

var pageTmpl = template.Must(template.ParseFS(pageFS, "templates/page.html.tmpl"))

// PageHandler serves the upload control as a plain HTML form. Every action
// redirects back to the page, so a reload never resubmits files.
type PageHandler struct {
	selections  *services.SelectionService
	docs        *services.DocumentService
	bundle      *i18n.Bundle
	maxUploadMB int
	logger      *zap.Logger
}

func NewPageHandler(selections *services.SelectionService, docs *services.DocumentService, bundle *i18n.Bundle, maxUploadMB int, logger *zap.Logger) *PageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageHandler{selections: selections, docs: docs, bundle: bundle, maxUploadMB: maxUploadMB, logger: logger}
}

type pageData struct {
	Lang          string
	Title         string
	Control       template.HTML
	CanExtract    bool
	ExtractAction string
	ExtractLabel  string
	Results       []models.Document
}

// Show handles GET /selections/{id}.
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, chi.URLParam(r, "id"), nil)
}

// Upload handles POST /selections/{id}/files, the picker's change.
func (h *PageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.selections.Get(id); err != nil {
		h.fail(w, err)
		return
	}
	files, err := readUploads(w, r, "files", h.maxUploadMB)
	if err != nil {
		h.fail(w, err)
		return
	}
	if _, err := h.selections.Replace(id, files); err != nil {
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, selectionPath(id), http.StatusSeeOther)
}

// Clear handles POST /selections/{id}/clear, the clear button.
func (h *PageHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.selections.Clear(id); err != nil {
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, selectionPath(id), http.StatusSeeOther)
}

// Extract handles POST /selections/{id}/extract and renders the results under the control.
func (h *PageHandler) Extract(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	docs, err := h.docs.ExtractSelection(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.render(w, r, id, docs)
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, id string, results []models.Document) {
	sess, err := h.selections.Get(id)
	if err != nil {
		h.fail(w, err)
		return
	}
	ctl, err := h.selections.Control(id, nil)
	if err != nil {
		h.fail(w, err)
		return
	}
	tr := translatorFor(h.bundle, r)

	var control bytes.Buffer
	err = ctl.Render(&control, tr, fileupload.RenderOptions{
		Action:      selectionPath(id) + "/files",
		ClearAction: selectionPath(id) + "/clear",
		Generation:  sess.Generation,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	data := pageData{
		Lang:          tr.Language().String(),
		Title:         tr.T("page.title", nil),
		Control:       template.HTML(control.String()),
		CanExtract:    len(sess.Files) > 0,
		ExtractAction: selectionPath(id) + "/extract",
		ExtractLabel:  tr.T("page.extract", nil),
		Results:       results,
	}

	var page bytes.Buffer
	if err := pageTmpl.Execute(&page, data); err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = page.WriteTo(w)
}

func (h *PageHandler) fail(w http.ResponseWriter, err error) {
	status, _ := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("page request failed", zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}

func selectionPath(id string) string { return "/selections/" + id }
