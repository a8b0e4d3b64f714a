// Package verifier samples reconstructed records, relocates each one in the
// source text and scores how many of its fields appear near its identifier.
package verifier

import (
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
	"github.com/FACorreiaa/parts-catalog-recon/pkg/metrics"
)

// Status is the verification outcome of one field.
type Status string

const (
	StatusVerified Status = "verified"
	StatusNotFound Status = "not_found"
	StatusEmpty    Status = "empty"
)

// Config controls sampling and the search window.
type Config struct {
	SampleSize int    // records to check; 0 or less checks everything
	Window     int    // characters on each side of the identifier
	Seed       uint64 // sampling seed, fixed for reproducible reports
}

// DefaultConfig returns the settings used by the CLI.
func DefaultConfig() Config {
	return Config{SampleSize: 50, Window: 500, Seed: 1}
}

// FieldResult is the outcome for one field of a sampled record.
type FieldResult struct {
	Field  model.Field `json:"field"`
	Value  string      `json:"value"`
	Status Status      `json:"status"`
	// Hint is the closest word in the window when the value was not found.
	Hint string `json:"hint,omitempty"`
}

// RecordResult is the outcome for one sampled record.
type RecordResult struct {
	Identifier string        `json:"identifier"`
	Found      bool          `json:"found"`
	Offset     int           `json:"offset"`
	Fields     []FieldResult `json:"fields,omitempty"`
	Verified   int           `json:"verified"`
	Total      int           `json:"total"`
	Accuracy   float64       `json:"accuracy"`
}

// Verifier checks records against the document they were extracted from.
type Verifier struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Collector
}

// New creates a verifier.
func New(cfg Config, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig().Window
	}
	return &Verifier{cfg: cfg, logger: logger}
}

// WithMetrics attaches a collector that observes the accuracy of found records.
func (v *Verifier) WithMetrics(m *metrics.Collector) *Verifier {
	v.metrics = m
	return v
}

// Sample picks up to SampleSize records deterministically and returns them in
// their original order.
func (v *Verifier) Sample(records []model.Record) []model.Record {
	if v.cfg.SampleSize <= 0 || len(records) <= v.cfg.SampleSize {
		return slices.Clone(records)
	}

	rng := rand.New(rand.NewPCG(v.cfg.Seed, v.cfg.Seed^0x9e3779b97f4a7c15))
	picked := rng.Perm(len(records))[:v.cfg.SampleSize]
	slices.Sort(picked)

	out := make([]model.Record, len(picked))
	for i, idx := range picked {
		out[i] = records[idx]
	}
	return out
}

// Verify samples records and checks each against doc.
func (v *Verifier) Verify(records []model.Record, doc string) Report {
	sample := v.Sample(records)
	results := make([]RecordResult, len(sample))
	for i, rec := range sample {
		results[i] = v.VerifyRecord(rec, doc)
		if results[i].Found {
			v.metrics.ObserveAccuracy(results[i].Accuracy)
		}
	}

	report := Summarize(results)
	report.TotalRecords = len(records)

	v.logger.Info("verification finished",
		slog.Int("records", len(records)),
		slog.Int("sampled", report.Sampled),
		slog.Int("found", report.Found),
		slog.Float64("average_accuracy", report.AverageAccuracy),
	)
	return report
}

// VerifyRecord relocates rec by its primary, then secondary, identifier and
// scores every declared field inside the surrounding window.
func (v *Verifier) VerifyRecord(rec model.Record, doc string) RecordResult {
	res := RecordResult{Identifier: rec.MasterPartNo, Offset: -1}

	id := rec.MasterPartNo
	offset := -1
	if id != "" {
		offset = strings.Index(doc, id)
	}
	if offset < 0 && rec.PartNo != "" {
		id = rec.PartNo
		offset = strings.Index(doc, id)
	}
	if offset < 0 {
		return res
	}

	res.Found = true
	res.Offset = offset
	window := v.window(doc, offset, len(id))

	for _, f := range model.Schema {
		value := rec.Get(f)
		fr := FieldResult{Field: f, Value: value}

		switch {
		case value == "" && f.Required():
			fr.Status = StatusNotFound
		case value == "":
			fr.Status = StatusEmpty
		case f.Required() && id == value:
			fr.Status = StatusVerified
		case matches(f, value, window):
			fr.Status = StatusVerified
		default:
			fr.Status = StatusNotFound
			fr.Hint = hint(value, window)
		}

		if fr.Status != StatusEmpty {
			res.Total++
			if fr.Status == StatusVerified {
				res.Verified++
			}
		}
		res.Fields = append(res.Fields, fr)
	}

	if res.Total > 0 {
		res.Accuracy = 100 * float64(res.Verified) / float64(res.Total)
	}
	return res
}

// window returns the identifier at doc[offset:offset+length] with up to
// Window characters on each side.
func (v *Verifier) window(doc string, offset, length int) string {
	start := offset
	for n := 0; n < v.cfg.Window && start > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(doc[:start])
		start -= size
	}
	end := offset + length
	for n := 0; n < v.cfg.Window && end < len(doc); n++ {
		_, size := utf8.DecodeRuneInString(doc[end:])
		end += size
	}
	return doc[start:end]
}

// matches applies the per-kind comparison: exact for identifiers, exact or
// separator-free for numbers, case-insensitive for codes, and any word longer
// than three letters for free text.
func matches(f model.Field, value, window string) bool {
	switch f.Kind() {
	case model.KindIdentifier:
		return strings.Contains(window, value)
	case model.KindNumeric:
		return strings.Contains(window, value) ||
			strings.Contains(window, strings.ReplaceAll(value, ",", ""))
	case model.KindCoded:
		return strings.Contains(strings.ToUpper(window), strings.ToUpper(value))
	default:
		upper := strings.ToUpper(window)
		words := significantWords(value)
		if len(words) == 0 {
			return strings.Contains(upper, strings.ToUpper(value))
		}
		for _, w := range words {
			if strings.Contains(upper, w) {
				return true
			}
		}
		return false
	}
}

func significantWords(value string) []string {
	var out []string
	for _, w := range strings.Fields(value) {
		w = strings.ToUpper(model.Word(w))
		if utf8.RuneCountInString(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}

// hint returns the window word closest to value, if any resembles it.
func hint(value, window string) string {
	targets := strings.Fields(window)
	if len(targets) == 0 || value == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(value, targets)
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best.Target
}
