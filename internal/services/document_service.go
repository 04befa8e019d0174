package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/markdave123-py/docdrop/internal/core"
	"github.com/markdave123-py/docdrop/internal/core/extraction_engine"
	objectclient "github.com/markdave123-py/docdrop/internal/core/object-client"
	"github.com/markdave123-py/docdrop/internal/models"
)

type DocumentService struct {
	db          core.DbClient
	storage     core.ObjectClient // nil disables archiving
	bucket      string
	extractor   core.DocumentExtractor
	selections  *SelectionService
	concurrency int
	logger      *zap.Logger
	now         func() time.Time
}

type DocumentServiceDeps struct {
	DB          core.DbClient
	Storage     core.ObjectClient
	Bucket      string
	Extractor   core.DocumentExtractor
	Selections  *SelectionService
	Concurrency int
	Logger      *zap.Logger
}

func NewDocumentService(d DocumentServiceDeps) *DocumentService {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		db:          d.DB,
		storage:     d.Storage,
		bucket:      d.Bucket,
		extractor:   d.Extractor,
		selections:  d.Selections,
		concurrency: d.Concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

// ExtractSelection extracts every file of selection id. Each file is handled
// independently and gets its own record, in selection order; a file that
// fails to extract is recorded as failed with the parser's message.
//
// ctx is only checked before the batch starts. Once started, every file is
// extracted and recorded even if ctx is cancelled.
func (s *DocumentService) ExtractSelection(ctx context.Context, id string) ([]models.Document, error) {
	sess, err := s.selections.Get(id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	outcomes := extraction_engine.ExtractEach(ctx, s.extractor, sess.Files, s.concurrency)

	docs := make([]models.Document, 0, len(outcomes))
	for _, o := range outcomes {
		doc, err := s.record(ctx, id, o)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	s.logger.Info("selection extracted", zap.String("selection_id", id), zap.Int("files", len(docs)))
	return docs, nil
}

// ExtractOne extracts a single file outside any stored selection. The returned
// error covers storage failures only; an extraction failure is reported
// through the record's Status and Error.
func (s *DocumentService) ExtractOne(ctx context.Context, file models.File, selectionID string) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)
	text, err := s.extractor.ExtractText(ctx, file)
	return s.record(ctx, selectionID, extraction_engine.Outcome{File: file, Text: text, Err: err})
}

func (s *DocumentService) Get(ctx context.Context, id string) (*models.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("document id %q: %w", id, models.ErrInvalidArgument)
	}
	return s.db.GetDocumentByID(ctx, id)
}

// Original returns the record of document id and its archived original.
func (s *DocumentService) Original(ctx context.Context, id string) (*models.Document, []byte, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.storage == nil || s.bucket == "" || doc.StorageURL == "" {
		return nil, nil, fmt.Errorf("document %s has no archived original: %w", id, models.ErrNotFound)
	}
	data, err := s.storage.GetFile(ctx, s.bucket, objectclient.ObjectKey(doc.SelectionID, doc.ID, doc.FileName))
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// DeleteSelection drops selection id and removes the archived originals of
// its documents. The records stay; failed object deletions are logged.
func (s *DocumentService) DeleteSelection(ctx context.Context, id string) error {
	if err := s.selections.Delete(id); err != nil {
		return err
	}
	if s.storage == nil || s.bucket == "" {
		return nil
	}

	docs, err := s.db.ListDocumentsBySelection(ctx, id)
	if err != nil {
		return fmt.Errorf("list documents of selection %s: %w", id, err)
	}
	removed := 0
	for _, d := range docs {
		if d.StorageURL == "" {
			continue
		}
		key := objectclient.ObjectKey(d.SelectionID, d.ID, d.FileName)
		if err := s.storage.DeleteFile(ctx, s.bucket, key); err != nil {
			s.logger.Warn("archive delete failed", zap.String("key", key), zap.Error(err))
			continue
		}
		removed++
	}
	s.logger.Info("selection deleted", zap.String("selection_id", id), zap.Int("originals_removed", removed))
	return nil
}

func (s *DocumentService) ListBySelection(ctx context.Context, selectionID string) ([]models.Document, error) {
	return s.db.ListDocumentsBySelection(ctx, selectionID)
}

func (s *DocumentService) record(ctx context.Context, selectionID string, o extraction_engine.Outcome) (*models.Document, error) {
	now := s.now()
	f := o.File
	doc := &models.Document{
		ID:           uuid.NewString(),
		SelectionID:  selectionID,
		FileName:     f.Name(),
		ContentType:  f.Type(),
		DetectedType: detectType(f),
		Kind:         extraction_engine.KindFromMIME(f.Type()).String(),
		Size:         f.Size(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if o.Err != nil {
		doc.Status = models.StatusFailed
		doc.Error = o.Err.Error()
	} else {
		doc.Status = models.StatusExtracted
		doc.Text = o.Text
	}

	doc.StorageURL = s.archive(ctx, doc, f)

	if err := s.db.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("store document %s: %w", f.Name(), err)
	}
	return doc, nil
}

// archive copies the original to object storage. A failed upload is logged
// and leaves the record without a storage URL.
func (s *DocumentService) archive(ctx context.Context, doc *models.Document, f models.File) string {
	if s.storage == nil || s.bucket == "" {
		return ""
	}
	rc, err := f.Open()
	if err != nil {
		s.logger.Warn("archive open failed", zap.String("file", f.Name()), zap.Error(err))
		return ""
	}
	defer rc.Close()

	key := objectclient.ObjectKey(doc.SelectionID, doc.ID, f.Name())
	url, err := s.storage.UploadFile(ctx, s.bucket, key, rc, f.Type())
	if err != nil {
		s.logger.Warn("archive upload failed", zap.String("file", f.Name()), zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}

// detectType sniffs the content. It never influences the extraction branch.
func detectType(f models.File) string {
	rc, err := f.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()
	mt, err := mimetype.DetectReader(rc)
	if err != nil {
		return ""
	}
	return mt.String()
}
