// Package bootstrap opens the record store and builds everything the CLI and the web UI share.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"StampVault/internal/assets"
	"StampVault/internal/autofill"
	"StampVault/internal/catalog"
	"StampVault/internal/config"
	"StampVault/internal/impexp"
	"StampVault/internal/repo"
	fsrepo "StampVault/internal/repo/fs"
	"StampVault/internal/service"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// refTimeout ограничивает загрузку внешних справочников при старте.
const refTimeout = 5 * time.Second

// App — зависимости, общие для команд CLI и обработчиков web UI.
type App struct {
	Config   *config.Config
	Logger   *zap.SugaredLogger
	DB       *gorm.DB
	Stamps   repo.StampRepository
	Images   repo.ImageRepository
	Service  *service.StampService
	Exchange *impexp.Exchanger
	Catalog  *catalog.Lookup
	Refs     *catalog.ImageRefs
	Autofill autofill.Policy
	Prefs    repo.ThemeStore
}

// NewLogger возвращает development‑логгер при debug, иначе no-op.
func NewLogger(debug bool) (*zap.SugaredLogger, error) {
	if !debug {
		return zap.NewNop().Sugar(), nil
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// Open открывает хранилище, выполняет миграции, загружает справочники и возвращает (app, cleanup, error).
// cleanup необходимо вызвать после окончания работы, чтобы закрыть соединение с БД.
func Open(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*App, func() error, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	db, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	closed := false
	cleanup := func() error {
		if closed {
			return nil
		}
		closed = true
		return repo.Close(db)
	}

	stamps := repo.NewStampRepository(db)
	images := repo.NewImageRepository(db)

	src := catalog.Source{Client: &http.Client{Timeout: refTimeout}, Assets: assets.Static()}
	refCtx, cancel := context.WithTimeout(ctx, refTimeout)
	defer cancel()
	lookup := catalog.Load(refCtx, src, cfg.CatalogURL, logger)
	refs := catalog.LoadImageRefs(refCtx, src, cfg.ImagesRefURL, logger)

	app := &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Stamps:   stamps,
		Images:   images,
		Service:  service.NewStampService(stamps, images, logger, cfg.ImageMaxBytes()),
		Exchange: impexp.NewExchanger(stamps, logger),
		Catalog:  lookup,
		Refs:     refs,
		Autofill: autofill.Policy{Catalog: lookup, Enabled: cfg.Autofill},
		Prefs:    fsrepo.PrefsFSStore{Dir: cfg.DataDir},
	}
	logger.Debugw("bootstrap: ready", "dsn", cfg.DatabaseDSN, "catalog_years", lookup.Len(), "image_refs", refs.Len())
	return app, cleanup, nil
}
