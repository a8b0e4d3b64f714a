// Package pipeline wires the reconstruction stages together: segment the
// document, detect columns, extract field series, assemble records and
// deduplicate them across sections.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/assembler"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/columns"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/extractor"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/segmenter"
	"github.com/FACorreiaa/parts-catalog-recon/pkg/metrics"
)

const tracerName = "github.com/FACorreiaa/parts-catalog-recon/pipeline"

// SectionSummary describes what one section contributed.
type SectionSummary struct {
	Index     int  `json:"index"`
	FirstLine int  `json:"first_line"`
	Lines     int  `json:"lines"`
	Columns   int  `json:"columns"`
	Skipped   bool `json:"skipped"`
	Records   int  `json:"records"`
	Dropped   int  `json:"dropped"`
	Fallbacks int  `json:"fallbacks"`
}

// Result is the output of one run.
type Result struct {
	RunID      uuid.UUID        `json:"run_id"`
	Document   string           `json:"-"` // canonical text every offset refers to
	Records    []model.Record   `json:"-"`
	Sections   []SectionSummary `json:"sections"`
	Skipped    int              `json:"skipped_sections"`
	Duplicates int              `json:"duplicates"`
	Fallbacks  int              `json:"fallbacks"`
	Duration   time.Duration    `json:"duration"`
}

// Pipeline runs the reconstruction stages with one set of rules.
type Pipeline struct {
	segmenter *segmenter.Segmenter
	detector  *columns.Detector
	extractor *extractor.Extractor
	assembler *assembler.Assembler
	logger    *slog.Logger
	metrics   *metrics.Collector
	tracer    trace.Tracer
	workers   int
}

// New creates a pipeline.
func New(rules model.Rules, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		segmenter: segmenter.New(rules, logger),
		detector:  columns.NewDetector(rules.PrimaryAnchor, logger),
		extractor: extractor.New(rules, logger),
		assembler: assembler.New(logger),
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		workers:   1,
	}
}

// WithWorkers sets how many sections are processed concurrently.
func (p *Pipeline) WithWorkers(n int) *Pipeline {
	if n > 0 {
		p.workers = n
	}
	return p
}

// WithMetrics attaches a metrics collector.
func (p *Pipeline) WithMetrics(c *metrics.Collector) *Pipeline {
	p.metrics = c
	return p
}

// Extractor exposes the strategy registry for callers that swap strategies.
func (p *Pipeline) Extractor() *extractor.Extractor {
	return p.extractor
}

type sectionOutput struct {
	records []model.Record
	summary SectionSummary
}

// Run reconstructs every record in raw. Malformed text never fails a run;
// the only error is cancellation of ctx. Output is identical across runs
// regardless of the worker count.
func (p *Pipeline) Run(ctx context.Context, raw string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled: %w", err)
	}

	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "pipeline.Run")
	defer span.End()

	doc := segmenter.Canonical(raw)
	sections := p.segmenter.Segment(doc)
	span.SetAttributes(attribute.Int("sections", len(sections)))

	outputs := make([]sectionOutput, len(sections))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, sec := range sections {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outputs[i] = p.processSection(gctx, sec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled: %w", err)
	}

	result := &Result{RunID: uuid.New(), Document: doc}
	dedup := assembler.NewDeduplicator()
	for _, out := range outputs {
		result.Sections = append(result.Sections, out.summary)
		if out.summary.Skipped {
			result.Skipped++
		}
		result.Fallbacks += out.summary.Fallbacks
		for _, rec := range out.records {
			if dedup.Keep(rec) {
				result.Records = append(result.Records, rec)
			} else {
				result.Duplicates++
			}
		}
	}
	result.Duration = time.Since(start)

	p.metrics.RecordsEmitted(len(result.Records))
	p.metrics.DuplicatesDropped(result.Duplicates)
	p.metrics.FallbackValues(result.Fallbacks)
	span.SetAttributes(
		attribute.Int("records", len(result.Records)),
		attribute.Int("duplicates", result.Duplicates),
	)

	p.logger.Info("reconstruction finished",
		slog.String("run_id", result.RunID.String()),
		slog.Int("sections", len(sections)),
		slog.Int("skipped_sections", result.Skipped),
		slog.Int("records", len(result.Records)),
		slog.Int("duplicates", result.Duplicates),
		slog.Int("fallbacks", result.Fallbacks),
		slog.Duration("duration", result.Duration),
	)
	return result, nil
}

func (p *Pipeline) processSection(ctx context.Context, sec model.Section) sectionOutput {
	_, span := p.tracer.Start(ctx, "pipeline.section",
		trace.WithAttributes(attribute.Int("section", sec.Index)))
	defer span.End()

	summary := SectionSummary{Index: sec.Index, Lines: len(sec.Lines)}
	if len(sec.Lines) > 0 {
		summary.FirstLine = sec.Lines[0].Index
	}

	n := p.detector.Detect(sec)
	summary.Columns = n
	span.SetAttributes(attribute.Int("columns", n))
	if n == 0 {
		summary.Skipped = true
		p.metrics.SectionProcessed(true)
		return sectionOutput{summary: summary}
	}

	series := p.extractor.ExtractAll(sec, n)
	records, stats := p.assembler.Assemble(sec, n, series)
	summary.Records = stats.Emitted
	summary.Dropped = stats.Dropped
	summary.Fallbacks = stats.Fallbacks

	p.metrics.SectionProcessed(false)
	return sectionOutput{records: records, summary: summary}
}
