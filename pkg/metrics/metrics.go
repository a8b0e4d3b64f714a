// Package metrics exposes prometheus collectors for extraction and import runs.
// A nil *Collector is valid and records nothing.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "partsrecon"

// Import outcomes.
const (
	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeSkipped  = "skipped"
)

// Collector groups the run counters on a private registry.
type Collector struct {
	registry *prometheus.Registry

	sections   *prometheus.CounterVec
	records    prometheus.Counter
	duplicates prometheus.Counter
	fallbacks  prometheus.Counter
	imports    *prometheus.CounterVec
	retries    prometheus.Counter
	accuracy   prometheus.Histogram
}

// New creates a collector with all metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		sections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sections_total",
			Help:      "Sections seen by the pipeline, by result.",
		}, []string{"result"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_emitted_total",
			Help:      "Reconstructed records emitted after deduplication.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_duplicate_total",
			Help:      "Records dropped because their primary identifier was already seen.",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_values_total",
			Help:      "Field values assigned through the modulo fallback.",
		}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_records_total",
			Help:      "Bulk import outcomes per record.",
		}, []string{"outcome"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_retries_total",
			Help:      "Create calls retried after a transient failure.",
		}),
		accuracy: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "verification_accuracy_percent",
			Help:      "Per-record verification accuracy of found records.",
			Buckets:   []float64{50, 70, 80, 90, 100},
		}),
	}

	c.registry.MustRegister(c.sections, c.records, c.duplicates, c.fallbacks, c.imports, c.retries, c.accuracy)
	return c
}

// Registry returns the registry holding every collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// SectionProcessed counts one section.
func (c *Collector) SectionProcessed(skipped bool) {
	if c == nil {
		return
	}
	result := "processed"
	if skipped {
		result = "skipped"
	}
	c.sections.WithLabelValues(result).Inc()
}

// RecordsEmitted adds n emitted records.
func (c *Collector) RecordsEmitted(n int) {
	if c == nil {
		return
	}
	c.records.Add(float64(n))
}

// DuplicatesDropped adds n dropped duplicates.
func (c *Collector) DuplicatesDropped(n int) {
	if c == nil {
		return
	}
	c.duplicates.Add(float64(n))
}

// FallbackValues adds n fallback assignments.
func (c *Collector) FallbackValues(n int) {
	if c == nil {
		return
	}
	c.fallbacks.Add(float64(n))
}

// ImportOutcome counts one record import.
func (c *Collector) ImportOutcome(outcome string) {
	if c == nil {
		return
	}
	c.imports.WithLabelValues(outcome).Inc()
}

// ImportRetry counts one retried create call.
func (c *Collector) ImportRetry() {
	if c == nil {
		return
	}
	c.retries.Inc()
}

// ObserveAccuracy records one verification accuracy.
func (c *Collector) ObserveAccuracy(pct float64) {
	if c == nil {
		return
	}
	c.accuracy.Observe(pct)
}

// WriteTextfile writes every metric in the node-exporter textfile format.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
