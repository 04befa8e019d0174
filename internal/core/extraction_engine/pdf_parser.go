package extraction_engine

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/markdave123-py/docdrop/internal/core"
)

var _ core.PDFParser = LedongthucPDFParser{}

// LedongthucPDFParser implements core.PDFParser with github.com/ledongthuc/pdf.
type LedongthucPDFParser struct{}

func NewPDFParser() LedongthucPDFParser { return LedongthucPDFParser{} }

func (LedongthucPDFParser) Open(_ context.Context, data []byte) (doc core.PDFDocument, err error) {
	// the library panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &ledongthucDocument{r: r, pages: r.NumPage()}, nil
}

type ledongthucDocument struct {
	r     *pdf.Reader
	pages int
}

func (d *ledongthucDocument) NumPages() int { return d.pages }

func (d *ledongthucDocument) PageItems(_ context.Context, n int) (items []string, err error) {
	if n < 1 || n > d.pages {
		return nil, fmt.Errorf("page %d out of range [1, %d]", n, d.pages)
	}
	defer func() {
		if r := recover(); r != nil {
			items, err = nil, fmt.Errorf("malformed pdf page %d: %v", n, r)
		}
	}()

	p := d.r.Page(n)
	if p.V.IsNull() {
		return nil, nil
	}
	return textRuns(p.Content().Text), nil
}

// textRuns groups the per-glyph output of the library into text items: a run
// continues while font, size and baseline stay the same and the next glyph
// follows on the right. Gaps wider than a fraction of the font size become a space.
func textRuns(glyphs []pdf.Text) []string {
	var (
		runs []string
		cur  strings.Builder
		prev *pdf.Text
	)
	for i := range glyphs {
		g := &glyphs[i]
		if prev != nil {
			if !sameRun(prev, g) {
				runs = append(runs, cur.String())
				cur.Reset()
			} else if needsSpace(prev, g) {
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(g.S)
		prev = g
	}
	if prev != nil {
		runs = append(runs, cur.String())
	}
	return runs
}

func sameRun(a, b *pdf.Text) bool {
	if a.Font != b.Font || a.FontSize != b.FontSize {
		return false
	}
	if math.Abs(a.Y-b.Y) > 0.5 {
		return false
	}
	gap := b.X - (a.X + a.W)
	return gap > -a.FontSize && gap < a.FontSize*2
}

func needsSpace(a, b *pdf.Text) bool {
	if strings.HasSuffix(a.S, " ") || strings.HasPrefix(b.S, " ") {
		return false
	}
	return b.X-(a.X+a.W) > a.FontSize*0.2
}
