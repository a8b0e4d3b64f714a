package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/export"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/segmenter"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/verifier"
)

var (
	verifyWorst int
	verifyJSON  bool
	verifyRun   string
)

var verifyCmd = &cobra.Command{
	Use:   "verify [<records.json|records.csv> <source.txt|source.pdf>]",
	Short: "Spot-check stored records against their source text",
	Long: `Spot-checks records against the text they were reconstructed from. Pass the two
files explicitly, or --run <id> to read records and source text back from a
stored extract run.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if verifyRun != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			records []model.Record
			raw     string
			err     error
		)
		if verifyRun != "" {
			records, raw, err = loadRun(cmd, verifyRun)
		} else {
			records, raw, err = loadFiles(args[0], args[1])
		}
		if err != nil {
			return err
		}

		report := deps.Verifier.Verify(records, segmenter.Canonical(raw))

		out := cmd.OutOrStdout()
		if verifyJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}
			return nil
		}
		return report.Render(out, verifyWorst)
	},
}

func loadFiles(recordsPath, sourcePath string) ([]model.Record, string, error) {
	records, err := readRecords(recordsPath)
	if err != nil {
		return nil, "", err
	}
	raw, err := readDocument(sourcePath)
	if err != nil {
		return nil, "", err
	}
	return records, raw, nil
}

// loadRun reads the records and the canonical source text of a stored run.
// JSON records are preferred over CSV when a run wrote both.
func loadRun(cmd *cobra.Command, id string) ([]model.Record, string, error) {
	runID, err := parseRunID(id)
	if err != nil {
		return nil, "", err
	}
	ctx := cmd.Context()

	records, err := readRunRecords(cmd, runID)
	if err != nil {
		return nil, "", err
	}

	rc, _, err := deps.Storage.Open(ctx, runID, sourceName)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read source of run %s: %w", runID, err)
	}
	return records, string(data), nil
}

func readRunRecords(cmd *cobra.Command, runID uuid.UUID) ([]model.Record, error) {
	var errs []error
	for _, f := range []export.Format{export.FormatJSON, export.FormatCSV} {
		rc, _, err := deps.Storage.Open(cmd.Context(), runID, "records."+string(f))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		defer rc.Close()

		if f == export.FormatCSV {
			records, err := export.ReadCSV(rc)
			if err != nil {
				return nil, fmt.Errorf("failed to read records of run %s: %w", runID, err)
			}
			return records, nil
		}
		doc, err := export.ReadJSON(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read records of run %s: %w", runID, err)
		}
		return doc.Items, nil
	}
	return nil, fmt.Errorf("run %s has no stored records: %w", runID, errors.Join(errs...))
}

func init() {
	verifyCmd.Flags().StringVar(&verifyRun, "run", "", "verify a stored extract run by id")
	verifyCmd.Flags().String("out", "./out", "artifact root directory (env RECON_OUTPUT_DIR)")
	verifyCmd.Flags().Int("sample", verifier.DefaultConfig().SampleSize, "records to verify, 0 for all (env RECON_VERIFY_SAMPLE)")
	verifyCmd.Flags().IntVar(&verifyWorst, "worst", 10, "weakest records listed")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "print the full report as JSON")
}
