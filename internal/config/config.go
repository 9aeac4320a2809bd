package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/edurag/knowledge-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	GeminiCfg GeminiConfig `envPrefix:"GEMINI_"`
	SheetsCfg SheetsConfig `envPrefix:"SHEETS_"`

	// Pipeline configuration
	IngestCfg IngestConfig `envPrefix:"INGEST_"`
	ChatCfg   ChatConfig   `envPrefix:"CHAT_"`

	// Telegram bot configuration (only required by the telegram binary)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// GeminiConfig holds the Gemini API client configuration.
type GeminiConfig struct {
	HTTPClientConfig
	APIKey         string               `env:"API_KEY,notEmpty"`
	EmbeddingModel string               `env:"EMBEDDING_MODEL" envDefault:"text-embedding-004"`
	DefaultModel   string               `env:"DEFAULT_MODEL" envDefault:"gemini-2.0-flash"`
	BatchSize      int                  `env:"BATCH_SIZE" envDefault:"100"`
	BatchDelay     time.Duration        `env:"BATCH_DELAY" envDefault:"1s"`
	ItemDelay      time.Duration        `env:"ITEM_DELAY" envDefault:"200ms"`
	ModelCacheTTL  time.Duration        `env:"MODEL_CACHE_TTL" envDefault:"24h"`
	Retry          pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// SheetsConfig holds the Google Sheets API client configuration.
type SheetsConfig struct {
	HTTPClientConfig
	APIKey        string               `env:"API_KEY,notEmpty"`
	SpreadsheetID string               `env:"SPREADSHEET_ID,notEmpty"`
	RequestDelay  time.Duration        `env:"REQUEST_DELAY" envDefault:"100ms"`
	Retry         pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// IngestConfig tunes the chunking pipeline. Category is deliberately not
// defaulted: the corpus a run writes into must be stated explicitly.
type IngestConfig struct {
	Category    string `env:"CATEGORY"`
	MaxTokens   int    `env:"MAX_TOKENS" envDefault:"500"`
	ContextSize int    `env:"CONTEXT_SIZE" envDefault:"1"`
}

// ChatConfig tunes retrieval at question time.
type ChatConfig struct {
	MatchThreshold float64 `env:"MATCH_THRESHOLD" envDefault:"0.5"`
	MaxResults     int     `env:"MAX_RESULTS" envDefault:"5"`
	// CandidateFactor over-fetches raw matches before re-ranking.
	CandidateFactor int `env:"CANDIDATE_FACTOR" envDefault:"3"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken      string `env:"BOT_TOKEN"`
	UpdateTimeout int    `env:"UPDATE_TIMEOUT" envDefault:"30"`
}

type HTTPClientConfig struct {
	BaseURL               string        `env:"BASE_URL"`
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
}

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultSheetsBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"
)

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if cfg.GeminiCfg.BaseURL == "" {
		cfg.GeminiCfg.BaseURL = defaultGeminiBaseURL
	}
	if cfg.SheetsCfg.BaseURL == "" {
		cfg.SheetsCfg.BaseURL = defaultSheetsBaseURL
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns)
	}
	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns)
	}

	if cfg.GeminiCfg.BatchSize < 1 || cfg.GeminiCfg.BatchSize > 100 {
		return fmt.Errorf("GEMINI_BATCH_SIZE must be between 1 and 100, got %d", cfg.GeminiCfg.BatchSize)
	}

	if cfg.IngestCfg.MaxTokens < 50 {
		return fmt.Errorf("INGEST_MAX_TOKENS must be at least 50, got %d", cfg.IngestCfg.MaxTokens)
	}
	if cfg.IngestCfg.ContextSize < 0 || cfg.IngestCfg.ContextSize > 5 {
		return fmt.Errorf("INGEST_CONTEXT_SIZE must be between 0 and 5, got %d", cfg.IngestCfg.ContextSize)
	}

	if cfg.ChatCfg.MatchThreshold < 0 || cfg.ChatCfg.MatchThreshold > 1 {
		return fmt.Errorf("CHAT_MATCH_THRESHOLD must be between 0 and 1, got %g", cfg.ChatCfg.MatchThreshold)
	}
	if cfg.ChatCfg.MaxResults < 1 || cfg.ChatCfg.MaxResults > 20 {
		return fmt.Errorf("CHAT_MAX_RESULTS must be between 1 and 20, got %d", cfg.ChatCfg.MaxResults)
	}
	if cfg.ChatCfg.CandidateFactor < 1 || cfg.ChatCfg.CandidateFactor > 10 {
		return fmt.Errorf("CHAT_CANDIDATE_FACTOR must be between 1 and 10, got %d", cfg.ChatCfg.CandidateFactor)
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
