package fileupload

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"github.com/markdave123-py/docdrop/internal/i18n"
)

// Translator supplies the user-facing strings.
type Translator interface {
	T(key string, params i18n.Params) string
}

const (
	KeyClickToUpload    = "form.file.clickToUpload"
	KeyDragAndDrop      = "form.file.dragAndDrop"
	KeySupportedTypes   = "form.file.supportedTypes"
	KeyMultipleSelected = "form.file.multipleSelected"
	KeyClear            = "form.file.clear"
)

// View is the render state of the control.
type View struct {
	Label     string `json:"label"`
	Disabled  bool   `json:"disabled"`
	Multiple  bool   `json:"multiple"`
	Accept    string `json:"accept"`
	FileCount int    `json:"file_count"`

	// ShowPrompt is true when nothing is selected or the control is disabled.
	ShowPrompt     bool   `json:"show_prompt"`
	ClickToUpload  string `json:"click_to_upload,omitempty"`
	DragAndDrop    string `json:"drag_and_drop,omitempty"`
	SupportedTypes string `json:"supported_types,omitempty"`

	// Summary is the single file name or the localized count message.
	Summary    string `json:"summary,omitempty"`
	ShowClear  bool   `json:"show_clear"`
	ClearLabel string `json:"clear_label,omitempty"`
}

func (c *Control) View(t Translator) View {
	p := c.props
	v := View{
		Label:     p.Label,
		Disabled:  p.Disabled,
		Multiple:  p.Multiple,
		Accept:    AcceptedFormats,
		FileCount: len(p.Files),
	}

	if len(p.Files) == 0 || p.Disabled {
		v.ShowPrompt = true
		v.ClickToUpload = t.T(KeyClickToUpload, nil)
		v.DragAndDrop = t.T(KeyDragAndDrop, nil)
		v.SupportedTypes = t.T(KeySupportedTypes, nil)
		return v
	}

	if len(p.Files) == 1 {
		v.Summary = p.Files[0].Name()
	} else {
		v.Summary = t.T(KeyMultipleSelected, i18n.Params{"count": len(p.Files)})
	}
	v.ShowClear = true
	v.ClearLabel = t.T(KeyClear, nil)
	return v
}

// RenderOptions wires the rendered markup to the host's endpoints.
type RenderOptions struct {
	Action      string // form target receiving the picked files
	ClearAction string // form target of the clear button
	InputName   string // multipart field name, "files" when empty
	Generation  int    // picker generation; a reset picker renders as a new element
}

//go:embed templates/*.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

type renderData struct {
	View
	RenderOptions
	InputID string
}

// Render writes the control's markup.
func (c *Control) Render(w io.Writer, t Translator, opts RenderOptions) error {
	if opts.InputName == "" {
		opts.InputName = "files"
	}
	return tmpl.ExecuteTemplate(w, "fileupload.html.tmpl", renderData{
		View:          c.View(t),
		RenderOptions: opts,
		InputID:       "file-upload-" + strconv.Itoa(opts.Generation),
	})
}
