package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/markdave123-py/docdrop/internal/models"
	"github.com/markdave123-py/docdrop/internal/observability"
	"github.com/markdave123-py/docdrop/internal/ui/fileupload"
)

// SelectionService owns the selection state behind every upload control.
// All changes go through a fileupload.Control, so the store only ever sees
// the selections the control reports.
type SelectionService struct {
	mu       sync.RWMutex
	sessions map[string]*models.SelectionSession
	logger   *zap.Logger
	now      func() time.Time
}

func NewSelectionService(logger *zap.Logger) *SelectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionService{
		sessions: make(map[string]*models.SelectionSession),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *SelectionService) Create(label string, multiple, disabled bool) models.SelectionSession {
	now := s.now()
	sess := &models.SelectionSession{
		ID:        uuid.NewString(),
		Label:     label,
		Multiple:  multiple,
		Disabled:  disabled,
		Files:     []models.File{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("selection created", zap.String("selection_id", sess.ID), zap.Bool("multiple", multiple))
	return snapshot(sess)
}

func (s *SelectionService) Get(id string) (models.SelectionSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return models.SelectionSession{}, fmt.Errorf("selection %s: %w", id, models.ErrNotFound)
	}
	return snapshot(sess), nil
}

func (s *SelectionService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("selection %s: %w", id, models.ErrNotFound)
	}
	delete(s.sessions, id)
	return nil
}

// Control builds the upload control for the current state of selection id.
// Selection changes it reports are written back to the store.
func (s *SelectionService) Control(id string, picker fileupload.Picker) (*fileupload.Control, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.control(sess, picker, nil), nil
}

func (s *SelectionService) control(sess models.SelectionSession, picker fileupload.Picker, observe func([]models.File)) *fileupload.Control {
	id := sess.ID
	return fileupload.New(fileupload.Props{
		Label:    sess.Label,
		Files:    sess.Files,
		Disabled: sess.Disabled,
		Multiple: sess.Multiple,
		OnSelectionChange: func(files []models.File) {
			if observe != nil {
				observe(files)
			}
			s.apply(id, files)
		},
	}, picker)
}

// Replace hands list to the control as a picker change. A selection of a
// single-file control may hold at most one file.
func (s *SelectionService) Replace(id string, list fileupload.FileList) (models.SelectionSession, error) {
	sess, err := s.Get(id)
	if err != nil {
		return models.SelectionSession{}, err
	}
	if !sess.Multiple && list != nil && list.Len() > 1 {
		return models.SelectionSession{}, fmt.Errorf("selection %s accepts a single file, got %d: %w", id, list.Len(), models.ErrInvalidArgument)
	}

	s.control(sess, nil, func(files []models.File) {
		for _, f := range files {
			if !fileupload.Accepts(f.Name()) {
				s.logger.Warn("file outside the accepted formats",
					zap.String("selection_id", id),
					zap.String("file", f.Name()),
					zap.String("accept", fileupload.AcceptedFormats))
			}
		}
		observability.SelectionChanged("replace")
		s.logger.Info("selection replaced", zap.String("selection_id", id), zap.Int("files", len(files)))
	}).Change(list)

	return s.Get(id)
}

// Clear presses the control's clear button. The picker reset bumps the
// session generation so the next render gets a fresh input element.
func (s *SelectionService) Clear(id string) (models.SelectionSession, error) {
	sess, err := s.Get(id)
	if err != nil {
		return models.SelectionSession{}, err
	}
	picker := fileupload.PickerHooks{OnReset: func() { s.bumpGeneration(id) }}
	s.control(sess, picker, func([]models.File) {
		observability.SelectionChanged("clear")
		s.logger.Info("selection cleared", zap.String("selection_id", id))
	}).Click(fileupload.TargetClear)

	return s.Get(id)
}

func (s *SelectionService) apply(id string, files []models.File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	sess.Files = append([]models.File{}, files...)
	sess.UpdatedAt = s.now()
}

func (s *SelectionService) bumpGeneration(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.Generation++
	}
}

func snapshot(sess *models.SelectionSession) models.SelectionSession {
	out := *sess
	out.Files = append([]models.File{}, sess.Files...)
	return out
}
