package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/export"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/pipeline"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/verifier"
	"github.com/FACorreiaa/parts-catalog-recon/pkg/storage"
)

const (
	manifestName     = "manifest.json"
	sourceName       = "source.txt"
	verificationName = "verification.json"
)

var (
	extractFormats  []string
	extractNoVerify bool
	extractWorst    int
)

// Manifest lists what one extract run produced.
type Manifest struct {
	RunID           uuid.UUID                 `json:"run_id"`
	Source          string                    `json:"source"`
	Records         int                       `json:"records"`
	SkippedSections int                       `json:"skipped_sections"`
	Duplicates      int                       `json:"duplicates"`
	Fallbacks       int                       `json:"fallbacks"`
	Duration        string                    `json:"duration"`
	Sections        []pipeline.SectionSummary `json:"sections"`
	Verification    *VerificationSummary      `json:"verification,omitempty"`
	Files           []*storage.FileInfo       `json:"files"`
}

// VerificationSummary is the headline of a verification report.
type VerificationSummary struct {
	Sampled         int     `json:"sampled"`
	Found           int     `json:"found"`
	FoundRate       float64 `json:"found_rate"`
	AverageAccuracy float64 `json:"average_accuracy"`
}

var extractCmd = &cobra.Command{
	Use:   "extract <input.txt|input.pdf>",
	Short: "Reconstruct records from a catalog text extraction",
	Long: `Runs the reconstruction pipeline over a text extraction (or the text layer of
a PDF) and stores the records, the canonical source text, a verification report
and a manifest under <out>/<run-id>/.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringSliceVarP(&extractFormats, "format", "f", []string{"json"}, "output formats: json, csv, xlsx")
	extractCmd.Flags().String("out", "./out", "artifact root directory (env RECON_OUTPUT_DIR)")
	extractCmd.Flags().Int("workers", 1, "sections processed in parallel (env RECON_WORKERS)")
	extractCmd.Flags().Int("sample", verifier.DefaultConfig().SampleSize, "records to verify, 0 for all (env RECON_VERIFY_SAMPLE)")
	extractCmd.Flags().BoolVar(&extractNoVerify, "no-verify", false, "skip the verification pass")
	extractCmd.Flags().IntVar(&extractWorst, "worst", 10, "weakest records listed in the verification report")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	input := args[0]

	formats := make([]export.Format, 0, len(extractFormats))
	for _, name := range extractFormats {
		f, err := export.ParseFormat(name)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	raw, err := readDocument(input)
	if err != nil {
		return err
	}

	res, err := deps.Pipeline.Run(ctx, raw)
	if err != nil {
		return err
	}

	manifest := Manifest{
		RunID:           res.RunID,
		Source:          filepath.Base(input),
		Records:         len(res.Records),
		SkippedSections: res.Skipped,
		Duplicates:      res.Duplicates,
		Fallbacks:       res.Fallbacks,
		Duration:        res.Duration.Round(time.Millisecond).String(),
		Sections:        res.Sections,
	}

	save := func(name, contentType string, data []byte) error {
		info, err := deps.Storage.Save(ctx, res.RunID, name, contentType, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to store %s: %w", name, err)
		}
		manifest.Files = append(manifest.Files, info)
		return nil
	}

	doc := export.NewDocument(manifest.Source, res.RunID.String(), res.Records)
	for _, f := range formats {
		var buf bytes.Buffer
		if err := export.Write(&buf, f, doc); err != nil {
			return fmt.Errorf("failed to encode %s: %w", f, err)
		}
		if err := save("records."+string(f), f.ContentType(), buf.Bytes()); err != nil {
			return err
		}
	}

	if err := save(sourceName, "text/plain; charset=utf-8", []byte(res.Document)); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !extractNoVerify {
		report := deps.Verifier.Verify(res.Records, res.Document)
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode verification report: %w", err)
		}
		if err := save(verificationName, "application/json", data); err != nil {
			return err
		}
		manifest.Verification = &VerificationSummary{
			Sampled:         report.Sampled,
			Found:           report.Found,
			FoundRate:       report.FoundRate,
			AverageAccuracy: report.AverageAccuracy,
		}
		if err := report.Render(out, extractWorst); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if _, err := deps.Storage.Save(ctx, res.RunID, manifestName, "application/json", bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to store manifest: %w", err)
	}

	names := make([]string, len(manifest.Files))
	for i, f := range manifest.Files {
		names[i] = f.Name
	}
	deps.Logger.Info("run stored",
		slog.String("run_id", res.RunID.String()),
		slog.String("dir", filepath.Join(deps.Config.Extraction.OutputDir, res.RunID.String())),
		slog.String("files", strings.Join(names, ",")),
	)
	fmt.Fprintf(out, "%s: %d records from %d sections (%d skipped, %d duplicates)\n",
		res.RunID, len(res.Records), len(res.Sections), res.Skipped, res.Duplicates)
	return nil
}
