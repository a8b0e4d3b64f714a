package main

import (
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/importer"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/pipeline"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/verifier"
	"github.com/FACorreiaa/parts-catalog-recon/pkg/config"
	"github.com/FACorreiaa/parts-catalog-recon/pkg/metrics"
	"github.com/FACorreiaa/parts-catalog-recon/pkg/storage"
)

// Dependencies holds everything the commands share
type Dependencies struct {
	Config  *config.Config
	Logger  *slog.Logger
	Rules   model.Rules
	Metrics *metrics.Collector
	Storage storage.Storage

	Pipeline *pipeline.Pipeline
	Verifier *verifier.Verifier
	Importer *importer.Client
}

// InitDependencies builds the rules, stores and services from cfg
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	if err := deps.initRules(); err != nil {
		return nil, fmt.Errorf("failed to init rules: %w", err)
	}

	if err := deps.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	deps.initServices()

	logger.Debug("dependencies initialized",
		slog.String("vocabulary_file", cfg.Extraction.VocabularyFile),
		slog.String("output_dir", cfg.Extraction.OutputDir),
		slog.Int("workers", cfg.Extraction.Workers),
	)
	return deps, nil
}

func (d *Dependencies) initRules() error {
	rules, err := config.LoadRules(d.Config.Extraction.VocabularyFile, d.Config.Extraction)
	if err != nil {
		return err
	}
	d.Rules = rules
	return nil
}

func (d *Dependencies) initStorage() error {
	store, err := storage.New(&storage.Config{LocalPath: d.Config.Extraction.OutputDir})
	if err != nil {
		return err
	}
	d.Storage = store
	return nil
}

func (d *Dependencies) initServices() {
	d.Pipeline = pipeline.New(d.Rules, d.Logger).
		WithWorkers(d.Config.Extraction.Workers).
		WithMetrics(d.Metrics)

	d.Verifier = verifier.New(verifier.Config{
		SampleSize: d.Config.Verification.SampleSize,
		Window:     d.Config.Verification.Window,
		Seed:       d.Config.Verification.Seed,
	}, d.Logger).WithMetrics(d.Metrics)

	d.Importer = importer.NewClient(importerConfig(d.Config.Import), d.Logger).WithMetrics(d.Metrics)
}

func importerConfig(c config.ImportConfig) importer.Config {
	return importer.Config{
		BaseURL:        c.BaseURL,
		BatchSize:      c.BatchSize,
		BatchPause:     c.BatchPause,
		MaxAttempts:    uint(c.MaxAttempts),
		InitialBackoff: c.InitialBackoff,
		MaxBackoff:     c.MaxBackoff,
		RequestTimeout: c.RequestTimeout,
		RateLimit:      c.RateLimit,
		Currency:       c.Currency,
	}
}
