package core

import (
	"context"

	"github.com/markdave123-py/docdrop/internal/models"
)

// DocumentExtractor turns a single file into its plain text.
type DocumentExtractor interface {
	ExtractText(ctx context.Context, file models.File) (string, error)
}

// PDFDocument is an opened PDF. Pages are numbered from 1.
type PDFDocument interface {
	NumPages() int
	// PageItems returns the text items of page n in content order.
	PageItems(ctx context.Context, n int) ([]string, error)
}

// PDFParser opens raw PDF bytes.
type PDFParser interface {
	Open(ctx context.Context, data []byte) (PDFDocument, error)
}

// RawText is the result of a DOCX raw-text extraction.
type RawText struct {
	Value string
}

// DOCXParser extracts raw text from DOCX bytes.
type DOCXParser interface {
	ExtractRawText(ctx context.Context, data []byte) (RawText, error)
}
