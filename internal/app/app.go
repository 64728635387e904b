// Package app wires configuration into the services shared by the server
// and the command line client.
package app

import (
	"context"
	"fmt"

	"github.com/consumewise/backend/config"
	"github.com/consumewise/backend/internal/domain"
	"github.com/consumewise/backend/internal/infrastructure/store"
	"github.com/consumewise/backend/internal/infrastructure/vision"
	"github.com/consumewise/backend/internal/schema"
	"github.com/consumewise/backend/internal/usecase"
	"github.com/rs/zerolog"
)

// App holds the wired services
type App struct {
	Catalog    *usecase.CatalogService
	Extraction *usecase.ExtractionService
	Store      domain.ProductRepository

	closeStore func()
}

// New builds the vision client, the store and the services from cfg
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	decoder, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to compile label schema: %w", err)
	}

	visionClient, err := vision.NewClient(vision.Config{
		APIKey:            cfg.Extraction.APIKey,
		BaseURL:           cfg.Extraction.BaseURL,
		Model:             cfg.Extraction.Model,
		Timeout:           cfg.Extraction.Timeout,
		RequestsPerMinute: cfg.Extraction.RequestsPerMinute,
		SchemaName:        schema.Name,
		Schema:            schema.Document(),
	}, logger)
	if err != nil {
		return nil, err
	}

	return build(ctx, cfg, visionClient, decoder, logger)
}

func build(
	ctx context.Context,
	cfg *config.Config,
	visionExtractor domain.VisionExtractor,
	decoder *schema.Validator,
	logger zerolog.Logger,
) (*App, error) {
	extraction, err := usecase.NewExtractionService(
		visionExtractor,
		decoder,
		usecase.ExtractionConfig{Prompt: cfg.Extraction.Prompt},
		logger,
	)
	if err != nil {
		return nil, err
	}

	repo, closeStore, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}

	catalog := usecase.NewCatalogService(
		extraction,
		repo,
		decoder,
		usecase.CatalogServiceConfig{SearchParallelism: cfg.Search.Parallelism},
		logger,
	)

	return &App{
		Catalog:    catalog,
		Extraction: extraction,
		Store:      repo,
		closeStore: closeStore,
	}, nil
}

// Close releases store connections
func (a *App) Close() {
	if a.closeStore != nil {
		a.closeStore()
	}
}
