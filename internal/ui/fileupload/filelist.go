package fileupload

import (
	"io"
	"mime/multipart"

	"github.com/markdave123-py/docdrop/internal/models"
)

// FileList is the platform's list structure handed over on change.
type FileList interface {
	Len() int
	Item(i int) models.File
}

// SliceFileList adapts a slice to FileList.
type SliceFileList []models.File

func (l SliceFileList) Len() int               { return len(l) }
func (l SliceFileList) Item(i int) models.File { return l[i] }

// ToSlice copies list into a new slice in list order. A nil list yields an empty slice.
func ToSlice(list FileList) []models.File {
	if list == nil {
		return []models.File{}
	}
	out := make([]models.File, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		out = append(out, list.Item(i))
	}
	return out
}

// ReadMultipartFiles loads uploaded parts into memory-backed files, keeping the
// declared Content-Type of each part.
func ReadMultipartFiles(headers []*multipart.FileHeader) (SliceFileList, error) {
	out := make(SliceFileList, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, models.NewBlobFile(h.Filename, h.Header.Get("Content-Type"), data))
	}
	return out, nil
}
