package extraction_engine

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"

	"github.com/markdave123-py/docdrop/internal/core"
	"github.com/markdave123-py/docdrop/internal/models"
	"github.com/markdave123-py/docdrop/internal/observability"
)

var _ core.DocumentExtractor = (*Extractor)(nil)

// Extractor dispatches on the declared MIME type of a file to the PDF parser,
// the DOCX parser or a plain text read. There is no fallback between branches.
type Extractor struct {
	pdf    core.PDFParser
	docx   core.DOCXParser
	logger *zap.Logger
}

func NewExtractor(pdf core.PDFParser, docx core.DOCXParser, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{pdf: pdf, docx: docx, logger: logger}
}

// ExtractText returns the text content of file. Read and parser errors are
// returned unchanged and no partial text is produced.
//
// ctx is only consulted before the read starts: an extraction that has begun
// always runs to completion.
func (e *Extractor) ExtractText(ctx context.Context, file models.File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ctx = context.WithoutCancel(ctx)

	kind := KindFromMIME(file.Type())
	started := time.Now()

	text, err := e.extract(ctx, kind, file)
	observability.ObserveExtraction(kind.String(), started, err)
	if err != nil {
		e.logger.Warn("extraction failed",
			zap.String("file", file.Name()),
			zap.String("declared_type", file.Type()),
			zap.Stringer("kind", kind),
			zap.Error(err))
		return "", err
	}

	e.logger.Debug("extraction finished",
		zap.String("file", file.Name()),
		zap.Stringer("kind", kind),
		zap.Int("chars", len(text)),
		zap.Duration("took", time.Since(started)))
	return text, nil
}

func (e *Extractor) extract(ctx context.Context, kind DocumentKind, file models.File) (string, error) {
	data, err := readAll(file)
	if err != nil {
		return "", err
	}

	switch kind {
	case KindPDF:
		return e.pdfText(ctx, data)
	case KindDOCX:
		res, err := e.docx.ExtractRawText(ctx, data)
		if err != nil {
			return "", err
		}
		return res.Value, nil
	default:
		return decodeText(data)
	}
}

// pdfText joins the items of each page with a single space and terminates
// every page with a newline, pages in document order.
func (e *Extractor) pdfText(ctx context.Context, data []byte) (string, error) {
	doc, err := e.pdf.Open(ctx, data)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for n := 1; n <= doc.NumPages(); n++ {
		items, err := doc.PageItems(ctx, n)
		if err != nil {
			return "", err
		}
		b.WriteString(strings.Join(items, " "))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func readAll(file models.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// decodeText decodes UTF-8 the way a browser's default text read does:
// a leading BOM is dropped and ill-formed sequences become U+FFFD.
func decodeText(data []byte) (string, error) {
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
