package api

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/catalog"
	capturehandler "github.com/FACorreiaa/echo-capture/internal/domain/capture/handler"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/parser"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/repository"
	captureservice "github.com/FACorreiaa/echo-capture/internal/domain/capture/service"

	"github.com/FACorreiaa/echo-capture/pkg/config"
	"github.com/FACorreiaa/echo-capture/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Bolt store, set instead of DB when CAPTURE_STORE=bolt
	Bolt *repository.BoltTransactionRepository

	Catalog *catalog.Catalog

	// Repositories
	TransactionRepo repository.TransactionRepository

	// Services
	CaptureService *captureservice.CaptureServiceImpl

	// Handlers
	CaptureHandler *capturehandler.CaptureHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Initialize storage
	if err := deps.initStorage(); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	// Initialize catalog
	if err := deps.initCatalog(); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to init catalog: %w", err)
	}

	deps.initServices()
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

func (d *Dependencies) initStorage() error {
	if d.Config.Capture.Store == config.StoreBolt {
		store, err := repository.OpenBoltTransactionRepository(d.Config.Capture.BoltPath)
		if err != nil {
			return err
		}
		d.Bolt = store
		d.TransactionRepo = store
		d.Logger.Info("bolt store opened", slog.String("path", d.Config.Capture.BoltPath))
		return nil
	}

	if err := d.initDatabase(); err != nil {
		return err
	}
	d.TransactionRepo = repository.NewPostgresTransactionRepository(d.DB.Pool)
	return nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	// Run migrations
	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

func (d *Dependencies) initCatalog() error {
	path := d.Config.Capture.CatalogPath
	if path == "" {
		d.Catalog = catalog.Default()
		d.Logger.Info("using built-in category catalog", slog.Int("categories", len(d.Catalog.Categories)))
		return nil
	}

	cat, err := catalog.Load(path)
	if err != nil {
		return err
	}
	d.Catalog = cat
	d.Logger.Info("category catalog loaded", slog.String("path", path), slog.Int("categories", len(cat.Categories)))
	return nil
}

func (d *Dependencies) initServices() {
	d.CaptureService = captureservice.NewCaptureService(d.TransactionRepo, d.Catalog, parser.NewParser(), d.Logger)
	d.Logger.Info("services initialized")
}

func (d *Dependencies) initHandlers() {
	d.CaptureHandler = capturehandler.NewCaptureHandler(d.CaptureService, d.Logger)
	d.Logger.Info("handlers initialized")
}

// Health reports whether the transaction store is reachable.
func (d *Dependencies) Health() error {
	if d.DB != nil {
		return d.DB.Health()
	}
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	if d.Bolt != nil {
		if err := d.Bolt.Close(); err != nil {
			d.Logger.Error("failed to close bolt store", slog.Any("error", err))
		}
	}
	d.Logger.Info("cleanup completed")
}
