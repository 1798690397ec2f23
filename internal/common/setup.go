package common

import (
	"context"
	"log"
	"strings"

	"country-pulse-go/internal/api"
	"country-pulse-go/internal/database"
	"country-pulse-go/internal/models"
	"country-pulse-go/internal/refresh"
	"country-pulse-go/internal/render"
	"country-pulse-go/internal/upstream"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		// Only log if the file exists but couldn't be read
		// (godotenv returns an error if .env doesn't exist)
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService       *database.Service
	UpstreamService *upstream.Service
	Renderer        *render.ImageRenderer
	Orchestrator    *refresh.Orchestrator
	CountryService  *api.CountryService
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	upstreamService, err := upstream.NewService(cfg.Upstream)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	renderer, err := render.NewImageRenderer(cfg.Render)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	orchestrator, err := refresh.NewOrchestrator(dbService, upstreamService, renderer, cfg.Refresh)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	zap.L().Info("Services initialized",
		zap.String("countries_url", cfg.Upstream.CountriesUrl),
		zap.String("rates_url", cfg.Upstream.RatesUrl),
		zap.Int64("full_dataset_threshold", cfg.Refresh.FullDatasetThreshold))

	return &Services{
		DbService:       dbService,
		UpstreamService: upstreamService,
		Renderer:        renderer,
		Orchestrator:    orchestrator,
		CountryService:  api.NewCountryService(dbService),
	}, nil
}

// InitializeDatabaseOnly initializes just the database service without the
// upstream clients. Useful for read-only operations like status queries.
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return dbService, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
