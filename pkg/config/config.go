package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Extraction   ExtractionConfig
	Verification VerificationConfig
	Import       ImportConfig
	Logging      LoggingConfig
	Metrics      MetricsConfig
}

type ExtractionConfig struct {
	MinLineLength  int
	BoundaryRun    int
	Workers        int
	VocabularyFile string
	OutputDir      string
}

type VerificationConfig struct {
	SampleSize int
	Window     int
	Seed       uint64
}

type ImportConfig struct {
	BaseURL        string
	BatchSize      int
	BatchPause     time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	RequestTimeout time.Duration
	RateLimit      float64
	Currency       string
}

type LoggingConfig struct {
	Level string
}

type MetricsConfig struct {
	Textfile string
}

// Load reads configuration from environment variables, after loading a
// .env file from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Extraction: ExtractionConfig{
			MinLineLength:  getEnvAsInt("RECON_MIN_LINE_LENGTH", 10),
			BoundaryRun:    getEnvAsInt("RECON_BOUNDARY_RUN", 2),
			Workers:        getEnvAsInt("RECON_WORKERS", 1),
			VocabularyFile: getEnv("RECON_VOCABULARY_FILE", ""),
			OutputDir:      getEnv("RECON_OUTPUT_DIR", "./out"),
		},
		Verification: VerificationConfig{
			SampleSize: getEnvAsInt("RECON_VERIFY_SAMPLE", 50),
			Window:     getEnvAsInt("RECON_VERIFY_WINDOW", 500),
			Seed:       uint64(getEnvAsInt("RECON_VERIFY_SEED", 1)),
		},
		Import: ImportConfig{
			BaseURL:        strings.TrimRight(getEnv("IMPORT_BASE_URL", "http://localhost:3001/api"), "/"),
			BatchSize:      getEnvAsInt("IMPORT_BATCH_SIZE", 100),
			BatchPause:     getEnvAsDuration("IMPORT_BATCH_PAUSE", 500*time.Millisecond),
			MaxAttempts:    getEnvAsInt("IMPORT_MAX_ATTEMPTS", 3),
			InitialBackoff: getEnvAsDuration("IMPORT_INITIAL_BACKOFF", 200*time.Millisecond),
			MaxBackoff:     getEnvAsDuration("IMPORT_MAX_BACKOFF", 5*time.Second),
			RequestTimeout: getEnvAsDuration("IMPORT_REQUEST_TIMEOUT", 15*time.Second),
			RateLimit:      getEnvAsFloat("IMPORT_RATE_LIMIT", 0),
			Currency:       getEnv("IMPORT_CURRENCY", "PKR"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Textfile: getEnv("METRICS_TEXTFILE", ""),
		},
	}

	if cfg.Import.BatchSize < 1 {
		return nil, errors.New("IMPORT_BATCH_SIZE must be at least 1")
	}
	if cfg.Import.MaxAttempts < 1 {
		return nil, errors.New("IMPORT_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.Extraction.Workers < 1 {
		return nil, errors.New("RECON_WORKERS must be at least 1")
	}

	return cfg, nil
}

// SlogLevel maps the configured level name to a slog level.
func (c LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
