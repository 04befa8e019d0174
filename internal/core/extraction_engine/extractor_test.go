package extraction_engine

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/docdrop/internal/core"
	"github.com/markdave123-py/docdrop/internal/models"
)

type fakePDFDoc struct {
	pages [][]string
	err   error // returned for the last page
}

func (d *fakePDFDoc) NumPages() int { return len(d.pages) }

func (d *fakePDFDoc) PageItems(_ context.Context, n int) ([]string, error) {
	if d.err != nil && n == len(d.pages) {
		return nil, d.err
	}
	return d.pages[n-1], nil
}

type fakePDFParser struct {
	doc     *fakePDFDoc
	err     error
	gotData []byte
	calls   int
}

func (p *fakePDFParser) Open(_ context.Context, data []byte) (core.PDFDocument, error) {
	p.calls++
	p.gotData = data
	if p.err != nil {
		return nil, p.err
	}
	return p.doc, nil
}

type fakeDOCXParser struct {
	value string
	err   error
	calls int
}

func (p *fakeDOCXParser) ExtractRawText(_ context.Context, _ []byte) (core.RawText, error) {
	p.calls++
	if p.err != nil {
		return core.RawText{}, p.err
	}
	return core.RawText{Value: p.value}, nil
}

type brokenFile struct{ err error }

func (f brokenFile) Name() string                 { return "broken.txt" }
func (f brokenFile) Type() string                 { return "text/plain" }
func (f brokenFile) Size() int64                  { return 0 }
func (f brokenFile) Open() (io.ReadCloser, error) { return nil, f.err }

func TestKindFromMIME(t *testing.T) {
	cases := map[string]DocumentKind{
		"application/pdf": KindPDF,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": KindDOCX,
		"text/html":                KindText,
		"text/plain":               KindText,
		"":                         KindText,
		"application/octet-stream": KindText,
		"APPLICATION/PDF":          KindText,
	}
	for mime, want := range cases {
		assert.Equal(t, want, KindFromMIME(mime), mime)
	}
	assert.Equal(t, "pdf", KindPDF.String())
	assert.Equal(t, "docx", KindDOCX.String())
	assert.Equal(t, "text", KindText.String())
}

func TestExtractText_HTMLVerbatim(t *testing.T) {
	pdf, docx := &fakePDFParser{}, &fakeDOCXParser{}
	ex := NewExtractor(pdf, docx, nil)

	text, err := ex.ExtractText(context.Background(), models.NewBlobFile("a.html", "text/html", []byte("<p>hi</p>")))
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", text)
	assert.Zero(t, pdf.calls)
	assert.Zero(t, docx.calls)
}

func TestExtractText_TextDecoding(t *testing.T) {
	ex := NewExtractor(&fakePDFParser{}, &fakeDOCXParser{}, nil)

	text, err := ex.ExtractText(context.Background(), models.NewBlobFile("bom.txt", "text/plain", []byte("\xef\xbb\xbfhello")))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	text, err = ex.ExtractText(context.Background(), models.NewBlobFile("bad.txt", "", []byte("a\xffb")))
	require.NoError(t, err)
	assert.Equal(t, "a�b", text)
}

func TestExtractText_PDFPagesInOrder(t *testing.T) {
	pdf := &fakePDFParser{doc: &fakePDFDoc{pages: [][]string{{"A", "B"}, {"C"}}}}
	ex := NewExtractor(pdf, &fakeDOCXParser{}, nil)

	text, err := ex.ExtractText(context.Background(), models.NewBlobFile("two.pdf", MIMEPDF, []byte("%PDF-raw")))
	require.NoError(t, err)
	assert.Equal(t, "A B\nC\n", text)
	assert.Equal(t, []byte("%PDF-raw"), pdf.gotData)
}

func TestExtractText_PDFEmptyPage(t *testing.T) {
	pdf := &fakePDFParser{doc: &fakePDFDoc{pages: [][]string{nil, {"x"}}}}
	ex := NewExtractor(pdf, &fakeDOCXParser{}, nil)

	text, err := ex.ExtractText(context.Background(), models.NewBlobFile("p.pdf", MIMEPDF, nil))
	require.NoError(t, err)
	assert.Equal(t, "\nx\n", text)
}

func TestExtractText_PDFErrorsUnchanged(t *testing.T) {
	parseErr := errors.New("invalid header")
	ex := NewExtractor(&fakePDFParser{err: parseErr}, &fakeDOCXParser{}, nil)

	text, err := ex.ExtractText(context.Background(), models.NewBlobFile("x.pdf", MIMEPDF, []byte("junk")))
	assert.Same(t, parseErr, err)
	assert.Empty(t, text)

	pageErr := errors.New("bad page")
	ex = NewExtractor(&fakePDFParser{doc: &fakePDFDoc{pages: [][]string{{"A"}, {"B"}}, err: pageErr}}, &fakeDOCXParser{}, nil)
	text, err = ex.ExtractText(context.Background(), models.NewBlobFile("x.pdf", MIMEPDF, []byte("junk")))
	assert.Same(t, pageErr, err)
	assert.Empty(t, text, "no partial text")
}

func TestExtractText_DOCXValueVerbatim(t *testing.T) {
	docx := &fakeDOCXParser{value: "  Title\n\nBody text  \n"}
	ex := NewExtractor(&fakePDFParser{}, docx, nil)

	text, err := ex.ExtractText(context.Background(), models.NewBlobFile("d.docx", MIMEDOCX, []byte("PK")))
	require.NoError(t, err)
	assert.Equal(t, "  Title\n\nBody text  \n", text)
	assert.Equal(t, 1, docx.calls)
}

func TestExtractText_DOCXErrorNoFallback(t *testing.T) {
	docxErr := errors.New("zip: not a valid zip file")
	pdf := &fakePDFParser{}
	ex := NewExtractor(pdf, &fakeDOCXParser{err: docxErr}, nil)

	_, err := ex.ExtractText(context.Background(), models.NewBlobFile("d.docx", MIMEDOCX, []byte("<p>not a docx</p>")))
	assert.Same(t, docxErr, err)
	assert.Zero(t, pdf.calls)
}

func TestExtractText_ReadFailure(t *testing.T) {
	readErr := errors.New("disk gone")
	ex := NewExtractor(&fakePDFParser{}, &fakeDOCXParser{}, nil)

	_, err := ex.ExtractText(context.Background(), brokenFile{err: readErr})
	assert.Same(t, readErr, err)
}

func TestExtractText_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	docx := &fakeDOCXParser{value: "v"}
	ex := NewExtractor(&fakePDFParser{}, docx, nil)

	_, err := ex.ExtractText(ctx, models.NewBlobFile("d.docx", MIMEDOCX, nil))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, docx.calls)
}

func TestExtractText_Idempotent(t *testing.T) {
	pdf := &fakePDFParser{doc: &fakePDFDoc{pages: [][]string{{"one", "two"}}}}
	ex := NewExtractor(pdf, &fakeDOCXParser{}, nil)
	f := models.NewBlobFile("a.pdf", MIMEPDF, []byte("%PDF"))

	first, err := ex.ExtractText(context.Background(), f)
	require.NoError(t, err)
	second, err := ex.ExtractText(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []byte("%PDF"), f.Data)
}
