package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/FACorreiaa/parts-catalog-recon/pkg/config"
)

var (
	logLevel       string
	vocabularyFile string
	metricsFile    string

	deps *Dependencies
)

var rootCmd = &cobra.Command{
	Use:   "partsrecon",
	Short: "Rebuild parts-catalog rows from column-scrambled text extractions",
	Long: `partsrecon reconstructs structured part records from the text layer of a
multi-column parts catalog, where an extractor has emitted each column's values
as separate runs instead of row by row.

The pipeline:
  - Splits the document into table sections
  - Detects how many parts each section lists side by side
  - Extracts a value series per field and zips them back into rows
  - Spot-checks the result against the source text`,
	Version:       gitRelease,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		deps = nil
		if cmd == versionCmd {
			return nil
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Logging.Level = logLevel
		}
		if cmd.Flags().Changed("vocabulary") {
			cfg.Extraction.VocabularyFile = vocabularyFile
		}
		if cmd.Flags().Changed("metrics-textfile") {
			cfg.Metrics.Textfile = metricsFile
		}
		if err := applyFlagOverrides(cmd, cfg); err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: cfg.Logging.SlogLevel(),
		}))

		d, err := InitDependencies(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to init dependencies: %w", err)
		}
		deps = d
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if deps == nil {
			return nil
		}
		return deps.Metrics.WriteTextfile(deps.Config.Metrics.Textfile)
	},
}

// applyFlagOverrides copies subcommand flags that shadow env settings.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	set := func(name string, apply func(f *pflag.Flag) error) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed && err == nil {
			err = apply(f)
		}
	}

	set("out", func(f *pflag.Flag) error {
		cfg.Extraction.OutputDir = f.Value.String()
		return nil
	})
	set("workers", func(f *pflag.Flag) error {
		n, perr := cmd.Flags().GetInt("workers")
		if perr == nil && n < 1 {
			perr = fmt.Errorf("--workers must be at least 1")
		}
		cfg.Extraction.Workers = n
		return perr
	})
	set("sample", func(f *pflag.Flag) error {
		n, perr := cmd.Flags().GetInt("sample")
		cfg.Verification.SampleSize = n
		return perr
	})
	set("base-url", func(f *pflag.Flag) error {
		cfg.Import.BaseURL = strings.TrimRight(f.Value.String(), "/")
		return nil
	})
	set("batch-size", func(f *pflag.Flag) error {
		n, perr := cmd.Flags().GetInt("batch-size")
		if perr == nil && n < 1 {
			perr = fmt.Errorf("--batch-size must be at least 1")
		}
		cfg.Import.BatchSize = n
		return perr
	})
	set("rate-limit", func(f *pflag.Flag) error {
		r, perr := cmd.Flags().GetFloat64("rate-limit")
		cfg.Import.RateLimit = r
		return perr
	})
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn or error (env LOG_LEVEL)",
	)
	rootCmd.PersistentFlags().StringVar(
		&vocabularyFile, "vocabulary", "", "YAML file overriding the built-in vocabularies (env RECON_VOCABULARY_FILE)",
	)
	rootCmd.PersistentFlags().StringVar(
		&metricsFile, "metrics-textfile", "", "write prometheus metrics to this file on exit (env METRICS_TEXTFILE)",
	)

	rootCmd.SetErr(os.Stderr)
	rootCmd.AddCommand(extractCmd, verifyCmd, importCmd, runsCmd, versionCmd)
}
