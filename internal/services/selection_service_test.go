package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/docdrop/internal/models"
	"github.com/markdave123-py/docdrop/internal/ui/fileupload"
)

func blobs(names ...string) fileupload.SliceFileList {
	out := make(fileupload.SliceFileList, 0, len(names))
	for _, n := range names {
		out = append(out, models.NewBlobFile(n, "text/html", []byte("<p>"+n+"</p>")))
	}
	return out
}

func TestSelectionService_CreateGetDelete(t *testing.T) {
	s := NewSelectionService(nil)
	sess := s.Create("Docs", true, false)

	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Docs", got.Label)
	assert.True(t, got.Multiple)
	assert.Empty(t, got.Files)

	require.NoError(t, s.Delete(sess.ID))
	_, err = s.Get(sess.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, s.Delete(sess.ID), models.ErrNotFound)
}

func TestSelectionService_ReplaceKeepsOrder(t *testing.T) {
	s := NewSelectionService(nil)
	sess := s.Create("Docs", true, false)

	got, err := s.Replace(sess.ID, blobs("b.html", "a.pdf", "c.docx"))
	require.NoError(t, err)
	require.Len(t, got.Files, 3)
	assert.Equal(t, "b.html", got.Files[0].Name())
	assert.Equal(t, "a.pdf", got.Files[1].Name())
	assert.Equal(t, "c.docx", got.Files[2].Name())

	got, err = s.Replace(sess.ID, blobs("z.txt"))
	require.NoError(t, err)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "z.txt", got.Files[0].Name())
}

func TestSelectionService_SingleFileControlRejectsMany(t *testing.T) {
	s := NewSelectionService(nil)
	sess := s.Create("One", false, false)

	_, err := s.Replace(sess.ID, blobs("a.pdf", "b.pdf"))
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	got, err := s.Replace(sess.ID, blobs("a.pdf"))
	require.NoError(t, err)
	assert.Len(t, got.Files, 1)
}

func TestSelectionService_Clear(t *testing.T) {
	s := NewSelectionService(nil)
	sess := s.Create("Docs", true, false)
	_, err := s.Replace(sess.ID, blobs("a.pdf", "b.pdf"))
	require.NoError(t, err)

	got, err := s.Clear(sess.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Files)
	assert.Equal(t, 1, got.Generation)

	// nothing to clear: the clear button is not rendered
	got, err = s.Clear(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Generation)
}

func TestSelectionService_DisabledIgnoresChanges(t *testing.T) {
	s := NewSelectionService(nil)
	sess := s.Create("Locked", true, true)

	got, err := s.Replace(sess.ID, blobs("a.pdf"))
	require.NoError(t, err)
	assert.Empty(t, got.Files)

	got, err = s.Clear(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Generation)
}

func TestSelectionService_GetReturnsCopy(t *testing.T) {
	s := NewSelectionService(nil)
	sess := s.Create("Docs", true, false)
	_, err := s.Replace(sess.ID, blobs("a.pdf"))
	require.NoError(t, err)

	got, _ := s.Get(sess.ID)
	got.Files[0] = nil

	again, _ := s.Get(sess.ID)
	assert.NotNil(t, again.Files[0])
}

func TestSelectionService_ControlWritesBack(t *testing.T) {
	s := NewSelectionService(nil)
	sess := s.Create("Docs", true, false)

	ctl, err := s.Control(sess.ID, nil)
	require.NoError(t, err)
	ctl.Change(blobs("x.html"))

	got, _ := s.Get(sess.ID)
	require.Len(t, got.Files, 1)

	_, err = s.Control("missing", nil)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSelectionService_Concurrent(t *testing.T) {
	s := NewSelectionService(nil)
	sess := s.Create("Docs", true, false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = s.Replace(sess.ID, blobs("a.pdf", "b.pdf"))
			} else {
				_, _ = s.Clear(sess.ID)
			}
			_, _ = s.Get(sess.ID)
		}(i)
	}
	wg.Wait()

	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Contains(t, []int{0, 2}, len(got.Files))
}
