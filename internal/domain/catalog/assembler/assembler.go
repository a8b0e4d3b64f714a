// Package assembler zips per-field series into reconstructed records by
// relative column index and removes duplicates across sections.
package assembler

import (
	"log/slog"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

// Stats counts what happened while assembling one section.
type Stats struct {
	Columns   int
	Emitted   int
	Dropped   int // candidate rows without a primary identifier
	Fallbacks int // values taken through the modulo fallback
}

// Assembler builds records from extracted series.
type Assembler struct {
	logger *slog.Logger
}

// New creates an assembler.
func New(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logger}
}

// RelativeIndex maps an absolute identifier occurrence index in [0, 2n) to
// its column within its own sub-table. It returns -1 when n is not positive.
func RelativeIndex(idx, n int) int {
	if n <= 0 || idx < 0 {
		return -1
	}
	return idx % n
}

// Locate finds value among the identifier occurrences of a section, primary
// sub-table first, and returns its relative column.
func Locate(ids []model.CandidateValue, value string, n int) (int, bool) {
	for idx, id := range ids {
		if id.Value == value {
			return RelativeIndex(idx, n), true
		}
	}
	return -1, false
}

// Assemble builds one record per relative column of sec. Identifiers are
// taken only by direct index. Every other field uses series[r], falling back
// to series[r mod L] when the series is shorter than n; the fallback is an
// approximation the verifier is expected to catch.
func (a *Assembler) Assemble(sec model.Section, n int, series map[model.Field]model.FieldSeries) ([]model.Record, Stats) {
	stats := Stats{Columns: n}
	if n <= 0 {
		return nil, stats
	}

	records := make([]model.Record, 0, n)
	for r := 0; r < n; r++ {
		rec := model.Record{Section: sec.Index}
		for _, f := range model.Schema {
			fs := series[f]
			if v, ok := fs.At(r); ok {
				rec.Set(f, v)
				continue
			}
			if f.Kind() == model.KindIdentifier || fs.Len() == 0 {
				continue
			}
			v, _ := fs.At(r % fs.Len())
			rec.Set(f, v)
			stats.Fallbacks++
		}

		if rec.MasterPartNo == "" {
			stats.Dropped++
			continue
		}
		records = append(records, rec)
	}
	stats.Emitted = len(records)

	if stats.Fallbacks > 0 {
		a.logger.Debug("column mismatch resolved by fallback",
			slog.Int("section", sec.Index),
			slog.Int("columns", n),
			slog.Int("fallbacks", stats.Fallbacks),
		)
	}
	return records, stats
}

// Deduplicator keeps the first record seen for each primary identifier.
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator returns an empty deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Keep reports whether rec is the first with its primary identifier.
func (d *Deduplicator) Keep(rec model.Record) bool {
	if _, ok := d.seen[rec.MasterPartNo]; ok {
		return false
	}
	d.seen[rec.MasterPartNo] = struct{}{}
	return true
}

// Dedup filters records in order and returns the survivors and the number dropped.
func Dedup(records []model.Record) ([]model.Record, int) {
	d := NewDeduplicator()
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if d.Keep(rec) {
			out = append(out, rec)
		}
	}
	return out, len(records) - len(out)
}
