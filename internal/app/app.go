package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/markdave123-py/docdrop/internal/config"
	"github.com/markdave123-py/docdrop/internal/core"
	db "github.com/markdave123-py/docdrop/internal/core/database"
	"github.com/markdave123-py/docdrop/internal/core/extraction_engine"
	objectclient "github.com/markdave123-py/docdrop/internal/core/object-client"
	"github.com/markdave123-py/docdrop/internal/i18n"
	"github.com/markdave123-py/docdrop/internal/services"
)

type App struct {
	DBClient     core.DbClient
	ObjectClient core.ObjectClient
	Selections   *services.SelectionService
	Documents    *services.DocumentService
	Server       *Server
	logger       *zap.Logger
}

// NewApp wires storage, the extractor and the services. Postgres and S3 are
// used when configured; otherwise documents stay in memory and nothing is archived.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	var dbClient core.DbClient
	if cfg.DatabaseURL != "" {
		pg, err := db.NewDatabaseClient(appCtx, cfg)
		if err != nil {
			return nil, err
		}
		dbClient = pg
		logger.Info("database initialized and ready")
	} else {
		dbClient = db.NewMemoryClient()
		logger.Warn("DATABASE_URL is empty, documents are kept in memory")
	}

	var objClient core.ObjectClient
	if cfg.ArchiveEnabled() {
		s3c, err := objectclient.NewS3Client(appCtx, cfg, logger)
		if err != nil {
			_ = dbClient.Close()
			return nil, err
		}
		objClient = s3c
	}

	bundle, err := i18n.NewBundle(cfg.DefaultLocale)
	if err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("load locales: %w", err)
	}
	langs := make([]string, 0, len(bundle.Languages()))
	for _, tag := range bundle.Languages() {
		langs = append(langs, tag.String())
	}
	logger.Info("locales loaded", zap.Strings("languages", langs))

	extractor := extraction_engine.NewExtractor(
		extraction_engine.NewPDFParser(),
		extraction_engine.NewDOCXParser(),
		logger.Named("extractor"),
	)

	selections := services.NewSelectionService(logger.Named("selections"))
	documents := services.NewDocumentService(services.DocumentServiceDeps{
		DB:          dbClient,
		Storage:     objClient,
		Bucket:      cfg.BucketName,
		Extractor:   extractor,
		Selections:  selections,
		Concurrency: cfg.ExtractConcurrency,
		Logger:      logger.Named("documents"),
	})

	server := NewServer(cfg, logger, Deps{
		DB:         dbClient,
		Selections: selections,
		Documents:  documents,
		Bundle:     bundle,
	})

	return &App{
		DBClient:     dbClient,
		ObjectClient: objClient,
		Selections:   selections,
		Documents:    documents,
		Server:       server,
		logger:       logger,
	}, nil
}

func (a *App) Close() {
	if a.DBClient != nil {
		if err := a.DBClient.Close(); err != nil {
			a.logger.Warn("closing database", zap.Error(err))
		}
	}
}
