package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/common"
	"github.com/ternarybob/quotedoc/internal/handlers"
	"github.com/ternarybob/quotedoc/internal/interfaces"
	"github.com/ternarybob/quotedoc/internal/services/browser"
	"github.com/ternarybob/quotedoc/internal/services/composer"
	"github.com/ternarybob/quotedoc/internal/services/export"
	"github.com/ternarybob/quotedoc/internal/services/pdf"
	"github.com/ternarybob/quotedoc/internal/services/status"
	"github.com/ternarybob/quotedoc/internal/storage"
	"github.com/ternarybob/quotedoc/internal/storage/filesystem"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Rendering pipeline
	BrowserPool   *browser.Pool
	Composer      *composer.Service
	Assembler     *pdf.Assembler
	Inspector     *pdf.Inspector
	Saver         *filesystem.Saver
	ExportService *export.Service
	StatusService *status.Service

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	QuotationHandler *handlers.QuotationHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize database
	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Int("browsers", cfg.Browser.MaxInstances).
		Str("output_dir", app.Saver.Dir()).
		Bool("browser_pool", app.BrowserPool.IsInitialized()).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger) and loads seed files
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	// Seed files are optional; a bad file must not stop the server
	if err := a.StorageManager.LoadSeedFiles(context.Background(), a.Config.Storage.Seed.Dir); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to load seed files")
	}

	return nil
}

// initServices builds the rendering pipeline in dependency order
func (a *App) initServices() error {
	var err error

	a.Composer = composer.NewService(composer.Options{
		Layout:   composer.DefaultLayout(),
		Location: a.Config.Export.Location(),
	}, a.Logger)

	a.Assembler = pdf.NewAssembler(a.Config.Export.PageMarginMM, a.Logger)
	a.Inspector = pdf.NewInspector(a.Logger)

	a.Saver, err = filesystem.NewSaver(a.Config.Storage.Output.Dir, a.Logger)
	if err != nil {
		return err
	}

	poolConfig := browser.PoolConfig{
		MaxInstances:   a.Config.Browser.MaxInstances,
		UserAgent:      a.Config.Browser.UserAgent,
		Headless:       a.Config.Browser.Headless,
		DisableGPU:     a.Config.Browser.DisableGPU,
		NoSandbox:      a.Config.Browser.NoSandbox,
		RequestTimeout: a.Config.Browser.RequestTimeoutDuration(),
	}
	a.BrowserPool = browser.NewPool(poolConfig, a.Logger)

	// Without Chrome the server still serves HTML; PDF exports fail with no render target
	if err := a.BrowserPool.InitBrowserPool(poolConfig); err != nil {
		a.Logger.Warn().Err(err).Msg("Browser pool unavailable, PDF export disabled")
	}

	options := export.DefaultOptions()
	options.Scale = a.Config.Export.Scale
	options.JPEGQuality = a.Config.Export.JPEGQuality
	options.FailOnImageError = a.Config.Export.FailOnImageError
	if timeout := a.Config.Export.RenderTimeoutDuration(); timeout > 0 {
		options.RenderTimeout = timeout
	}
	options.Creator = fmt.Sprintf("%s %s", common.AppName, common.GetVersion())

	a.ExportService = export.NewService(
		a.Composer,
		a.BrowserPool,
		a.Assembler,
		a.Inspector,
		a.Saver,
		options,
		a.Logger,
	)

	a.StatusService = status.NewService(
		a.ExportService.Registry(),
		a.BrowserPool,
		a.StorageManager.QuotationStorage(),
		a.Logger,
	)

	return nil
}

// initHandlers creates the HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.StatusService, a.Logger)
	a.QuotationHandler = handlers.NewQuotationHandler(
		a.StorageManager.QuotationStorage(),
		a.Composer,
		a.ExportService,
		a.Logger,
	)
}

// Close closes all application resources
func (a *App) Close() error {
	if a.BrowserPool != nil {
		if err := a.BrowserPool.ShutdownBrowserPool(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to shut down browser pool")
		}
	}

	// Close storage
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
