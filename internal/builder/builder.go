package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/edurag/knowledge-backend/internal/api"
	chatapi "github.com/edurag/knowledge-backend/internal/api/chat"
	"github.com/edurag/knowledge-backend/internal/config"
	"github.com/edurag/knowledge-backend/internal/integration/gemini"
	"github.com/edurag/knowledge-backend/internal/integration/sheets"
	"github.com/edurag/knowledge-backend/internal/pkg/formatter"
	"github.com/edurag/knowledge-backend/internal/pkg/validator"
	"github.com/edurag/knowledge-backend/internal/repository"
	"github.com/edurag/knowledge-backend/internal/telegram"
	"github.com/edurag/knowledge-backend/internal/usecase/chat"
	"github.com/edurag/knowledge-backend/internal/usecase/ingest"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// geminiStack bundles the embedding, generation and model catalog
// implementations, real or mock.
type geminiStack struct {
	embedder interface {
		chat.Embedder
		ingest.Embedder
	}
	generator chat.Generator
	catalog   chat.ModelCatalog
}

func buildGeminiStack(cfg *config.Config, logger *zap.Logger) geminiStack {
	if cfg.EnableMocks {
		logger.Info("Using mock Gemini connector")
		mock := gemini.NewMockConnector(logger)
		return geminiStack{
			embedder:  mock,
			generator: mock,
			catalog:   &gemini.MockCatalog{Model: cfg.GeminiCfg.DefaultModel},
		}
	}

	connector := gemini.NewConnector(cfg.GeminiCfg, logger)
	return geminiStack{
		embedder:  connector,
		generator: connector,
		catalog:   connector.Catalog(),
	}
}

func buildSheetSource(cfg *config.Config, logger *zap.Logger) ingest.SheetSource {
	if cfg.EnableMocks {
		return sheets.NewMockConnector(logger)
	}
	return sheets.NewConnector(cfg.SheetsCfg, logger)
}

// Build assembles the HTTP API application.
func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	knowledgeRepo := repository.NewKnowledgePostgres(db)
	logger.Info("Repositories initialized")

	// Initialize external service connectors (with mock support)
	stack := buildGeminiStack(cfg, logger)

	// Initialize use cases
	chatUC := chat.NewUsecase(
		cfg.ChatCfg,
		stack.embedder,
		stack.generator,
		stack.catalog,
		knowledgeRepo,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	chatHandler := chatapi.NewHandler(chatUC, formatter.NewFactory(), validator.New())
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(chatHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// BuildIngest assembles the ingestion pipeline for the CLI.
func BuildIngest() (*ingest.IngestUsecase, *pgxpool.Pool, *zap.Logger, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building ingestion pipeline",
		zap.String("environment", cfg.Environment),
		zap.String("category", cfg.IngestCfg.Category),
	)

	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	knowledgeRepo := repository.NewKnowledgePostgres(db)
	stack := buildGeminiStack(cfg, logger)
	sheetSource := buildSheetSource(cfg, logger)

	ingestUC := ingest.NewUsecase(
		cfg.IngestCfg,
		sheetSource,
		stack.embedder,
		knowledgeRepo,
		logger,
	)

	logger.Info("Ingestion pipeline built successfully")

	return ingestUC, db, logger, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, *zap.Logger, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	if cfg.TelegramCfg.BotToken == "" {
		return nil, nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required for the telegram bot")
	}

	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	knowledgeRepo := repository.NewKnowledgePostgres(db)
	stack := buildGeminiStack(cfg, logger)

	chatUC := chat.NewUsecase(
		cfg.ChatCfg,
		stack.embedder,
		stack.generator,
		stack.catalog,
		knowledgeRepo,
		logger,
	)

	bot, err := telegram.NewBot(&cfg.TelegramCfg, chatUC, logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}
