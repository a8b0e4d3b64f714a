package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 10, cfg.Extraction.MinLineLength)
		assert.Equal(t, 50, cfg.Verification.SampleSize)
		assert.Equal(t, "http://localhost:3001/api", cfg.Import.BaseURL)
		assert.Equal(t, 500*time.Millisecond, cfg.Import.BatchPause)
		assert.Equal(t, "PKR", cfg.Import.Currency)
		assert.Equal(t, slog.LevelInfo, cfg.Logging.SlogLevel())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("IMPORT_BASE_URL", "http://parts.test/api/")
		t.Setenv("IMPORT_BATCH_PAUSE", "2s")
		t.Setenv("IMPORT_RATE_LIMIT", "12.5")
		t.Setenv("RECON_WORKERS", "4")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "http://parts.test/api", cfg.Import.BaseURL)
		assert.Equal(t, 2*time.Second, cfg.Import.BatchPause)
		assert.Equal(t, 12.5, cfg.Import.RateLimit)
		assert.Equal(t, 4, cfg.Extraction.Workers)
		assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())
	})

	t.Run("dotenv file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("IMPORT_CURRENCY=USD\n"), 0o644))
		t.Cleanup(func() { os.Unsetenv("IMPORT_CURRENCY") })

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "USD", cfg.Import.Currency)
	})

	t.Run("invalid batch size", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("IMPORT_BATCH_SIZE", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoadRules(t *testing.T) {
	t.Run("defaults without file", func(t *testing.T) {
		rules, err := LoadRules("", ExtractionConfig{MinLineLength: 4})
		require.NoError(t, err)
		assert.Equal(t, 4, rules.MinLineLength)
		assert.Equal(t, "Part No.", rules.PrimaryAnchor.Literal)
	})

	t.Run("yaml overlay", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
technical_terms: [WIDGET, SPROCKET]
origin_codes: [ZZ]
primary_anchor:
  field: Master Part No
  literal: "Item #"
numeric_ranges:
  Cost: {min: 1, max: 10}
`), 0o644))

		rules, err := LoadRules(path, ExtractionConfig{})
		require.NoError(t, err)
		assert.Equal(t, []string{"WIDGET", "SPROCKET"}, rules.TechnicalTerms)
		assert.Equal(t, []string{"ZZ"}, rules.OriginCodes)
		assert.Equal(t, "Item #", rules.PrimaryAnchor.Literal)
		assert.Equal(t, model.Range{Min: 1, Max: 10}, rules.NumericRanges[model.FieldCost])
		assert.Equal(t, model.DefaultRules().BrandCodes, rules.BrandCodes)
	})

	t.Run("invalid overlay", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		require.NoError(t, os.WriteFile(path, []byte("numeric_order: [Description]\n"), 0o644))

		_, err := LoadRules(path, ExtractionConfig{})
		assert.ErrorIs(t, err, ErrInvalidVocabulary)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"), ExtractionConfig{})
		assert.Error(t, err)
	})
}
