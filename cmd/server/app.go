package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/focus-api/internal/api"
	"github.com/phrazzld/focus-api/internal/config"
	"github.com/phrazzld/focus-api/internal/extraction"
	"github.com/phrazzld/focus-api/internal/platform/chat"
	"github.com/phrazzld/focus-api/internal/platform/gemini"
	"github.com/phrazzld/focus-api/internal/platform/postgres"
	"github.com/phrazzld/focus-api/internal/service"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskService service.TaskService
	extractor   api.TaskExtractor
}

// newApplication wires stores, services and the extractor around an open
// database connection.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	taskStore := postgres.NewPostgresTaskStore(db, logger)

	var err error
	app.taskService, err = service.NewTaskService(service.NewTaskRepositoryAdapter(taskStore, db), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.extractor, err = newExtractor(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// newExtractor builds the brain dump extractor. No completer is created in
// fallback mode, so no credentials or network are needed.
func newExtractor(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*extraction.Extractor, error) {
	var completer extraction.Completer
	if !cfg.FallbackMode() {
		var err error
		completer, err = newCompleter(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	extractor, err := extraction.New(extraction.ConfigFromLLM(cfg), completer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	logger.Info("Extractor initialized",
		"mode", extractor.Mode(),
		"provider", cfg.Provider,
		"strict_schema", cfg.StrictSchema)
	return extractor, nil
}

// newCompleter selects the completion backend named by cfg.Provider.
func newCompleter(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (extraction.Completer, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		completer, err := gemini.NewCompleter(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini completer: %w", err)
		}
		return completer, nil
	case config.ProviderOpenAI:
		client, err := chat.NewClient(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize chat client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// Run serves HTTP until ctx is cancelled or the process is signalled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
