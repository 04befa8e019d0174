package db

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/markdave123-py/docdrop/internal/core"
	"github.com/markdave123-py/docdrop/internal/models"
)

// MemoryClient keeps documents in process. It is used when DATABASE_URL is empty.
type MemoryClient struct {
	mu   sync.RWMutex
	docs map[string]models.Document
}

var _ core.DbClient = (*MemoryClient)(nil)

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{docs: make(map[string]models.Document)}
}

func (m *MemoryClient) CreateDocument(_ context.Context, doc *models.Document) error {
	if doc == nil {
		return errors.New("nil document")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; ok {
		return fmt.Errorf("document %s already exists", doc.ID)
	}
	m.docs[doc.ID] = *doc
	return nil
}

func (m *MemoryClient) GetDocumentByID(_ context.Context, id string) (*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, models.ErrNotFound)
	}
	return &d, nil
}

func (m *MemoryClient) ListDocumentsBySelection(_ context.Context, selectionID string) ([]models.Document, error) {
	m.mu.RLock()
	out := []models.Document{}
	for _, d := range m.docs {
		if d.SelectionID == selectionID {
			out = append(out, d)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryClient) Ping(context.Context) error { return nil }
func (m *MemoryClient) Close() error               { return nil }
