// Package columns infers how many logical table columns were flattened into a
// section by counting repeats of the primary identifier header.
package columns

import (
	"log/slog"
	"strings"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

// Detector counts primary anchor headers per section.
type Detector struct {
	anchor model.AnchorHeader
	logger *slog.Logger
}

// NewDetector creates a detector for anchor.
func NewDetector(anchor model.AnchorHeader, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{anchor: anchor, logger: logger}
}

// Detect returns the column count N of sec. Zero means the section is not a
// table fragment; that is logged and left to the caller to skip.
func (d *Detector) Detect(sec model.Section) int {
	n := Count(sec.Text(), d.anchor)
	if n == 0 {
		d.logger.Warn("section has no anchor headers, skipping",
			slog.Int("section", sec.Index),
			slog.Int("lines", len(sec.Lines)),
		)
	}
	return n
}

// Count returns the number of non-overlapping, case-insensitive occurrences of
// anchor.Literal in text, ignoring those preceded by an excluded prefix word.
func Count(text string, anchor model.AnchorHeader) int {
	if anchor.Literal == "" {
		return 0
	}

	lower := strings.ToLower(text)
	literal := strings.ToLower(anchor.Literal)

	count := 0
	for pos := 0; pos < len(lower); {
		idx := strings.Index(lower[pos:], literal)
		if idx < 0 {
			break
		}
		at := pos + idx
		if !excluded(lower[:at], anchor.ExcludePrefixes) {
			count++
		}
		pos = at + len(literal)
	}
	return count
}

// excluded reports whether before ends with one of prefixes as a whole word.
func excluded(before string, prefixes []string) bool {
	trimmed := strings.TrimRight(before, " \t\n")
	for _, p := range prefixes {
		p = strings.ToLower(p)
		if p == "" || !strings.HasSuffix(trimmed, p) {
			continue
		}
		rest := trimmed[:len(trimmed)-len(p)]
		if rest == "" || strings.HasSuffix(rest, " ") || strings.HasSuffix(rest, "\n") || strings.HasSuffix(rest, "\t") {
			return true
		}
	}
	return false
}
