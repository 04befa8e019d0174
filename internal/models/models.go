package models

import (
	"bytes"
	"errors"
	"io"
	"time"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

// File is an opaque handle to uploaded content, its name and its declared MIME type.
// Holders only read it; Open returns a fresh reader on every call.
type File interface {
	Name() string
	Type() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// BlobFile is an in-memory File.
type BlobFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

func NewBlobFile(name, contentType string, data []byte) *BlobFile {
	return &BlobFile{FileName: name, ContentType: contentType, Data: data}
}

func (b *BlobFile) Name() string { return b.FileName }
func (b *BlobFile) Type() string { return b.ContentType }
func (b *BlobFile) Size() int64  { return int64(len(b.Data)) }

func (b *BlobFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}

// SelectionSession is the host-owned state behind one upload control.
type SelectionSession struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	Multiple   bool      `json:"multiple"`
	Disabled   bool      `json:"disabled"`
	Files      []File    `json:"-"`
	Generation int       `json:"generation"` // bumped every time the picker value is reset
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FileSummary is the JSON view of a selected file.
type FileSummary struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

func Summarize(files []File) []FileSummary {
	out := make([]FileSummary, 0, len(files))
	for _, f := range files {
		out = append(out, FileSummary{Name: f.Name(), Type: f.Type(), Size: f.Size()})
	}
	return out
}

const (
	StatusExtracted = "extracted"
	StatusFailed    = "failed"
)

// Document records one extraction attempt for an uploaded file.
type Document struct {
	ID           string    `db:"id" json:"id"`
	SelectionID  string    `db:"selection_id" json:"selection_id,omitempty"`
	FileName     string    `db:"file_name" json:"file_name"`
	ContentType  string    `db:"content_type" json:"content_type"`         // declared by the client
	DetectedType string    `db:"detected_type" json:"detected_type"`       // sniffed, informational only
	Kind         string    `db:"kind" json:"kind"`                         // pdf | docx | text
	StorageURL   string    `db:"storage_url" json:"storage_url,omitempty"` // S3 URL when archiving is on
	Status       string    `db:"status" json:"status"`                     // extracted | failed
	Text         string    `db:"text" json:"text,omitempty"`
	Error        string    `db:"error" json:"error,omitempty"`
	Size         int64     `db:"size" json:"size"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
