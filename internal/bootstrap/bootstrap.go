package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"imagegenie/internal/adapter/repo"
	"imagegenie/internal/adapter/sqlite"
	"imagegenie/internal/domain"
	"imagegenie/internal/imagegen"
	"imagegenie/internal/infra"
	"imagegenie/internal/middleware"
	"imagegenie/internal/service"
	"imagegenie/internal/storage"
)

// Stores bundles the two persistence contracts with their cleanup.
type Stores struct {
	Events  domain.EventLog
	Catalog domain.OptionCatalog
	Backend string
	close   func() error
}

// Close releases the database handle.
func (s *Stores) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStores picks Postgres when DATABASE_URL is set and the local SQLite
// file otherwise.
func OpenStores(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (*Stores, error) {
	if cfg.UsePostgres() {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		runner := infra.NewSQLRunner(pool, logger.With().Str("component", "sql").Logger())
		return &Stores{
			Events:  repo.NewEventLog(runner),
			Catalog: repo.NewOptionCatalog(runner),
			Backend: "postgres",
			close:   func() error { pool.Close(); return nil },
		}, nil
	}

	store, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	return &Stores{Events: store, Catalog: store, Backend: "sqlite", close: store.Close}, nil
}

// App is the fully wired command surface.
type App struct {
	Config  *infra.Config
	Service *service.Service
	Images  *storage.FileStore
	Stores  *Stores
}

// Close releases everything App opened.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.Stores.Close()
}

// New wires stores, the image directory, the provider client, the pipeline
// and the service from cfg. locale may be nil.
func New(ctx context.Context, cfg *infra.Config, logger zerolog.Logger, locale func(context.Context) string) (*App, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: config is required")
	}
	stores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open stores: %w", err)
	}
	images, err := storage.NewFileStore(cfg.ImagesDir)
	if err != nil {
		_ = stores.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		logger.Warn().Msg("OPENAI_API_KEY is not set; image generation will fail")
	}

	client := imagegen.NewOpenAIClient(imagegen.OpenAIOptions{
		BaseURL:    cfg.OpenAIBaseURL,
		APIKey:     cfg.OpenAIAPIKey,
		Model:      cfg.OpenAIImageModel,
		HTTPClient: &http.Client{Timeout: cfg.OpenAIHTTPTimeout},
	})
	pipelineLogger := logger.With().Str("component", "pipeline").Str("model", client.Model()).Logger()
	pipeline := imagegen.NewPipeline(imagegen.PipelineOptions{
		Creator:   client,
		Events:    stores.Events,
		Images:    images,
		Logger:    &pipelineLogger,
		RequestID: middleware.RequestIDFromContext,
	})
	serviceLogger := logger.With().Str("component", "service").Logger()
	svc := service.New(service.Options{
		Catalog:   stores.Catalog,
		Events:    stores.Events,
		Generator: pipeline,
		Images:    images,
		Logger:    &serviceLogger,
		Locale:    locale,
	})

	logger.Info().
		Str("store", stores.Backend).
		Str("images_dir", images.BasePath()).
		Msg("application wired")
	return &App{Config: cfg, Service: svc, Images: images, Stores: stores}, nil
}
