// Package segmenter turns a raw linearized PDF text blob into cleaned lines and
// groups them into sections, one per flattened table fragment.
package segmenter

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

// pageMarker matches page numbers and "Page X of Y" footers.
var pageMarker = regexp.MustCompile(`(?i)^(page\s*\d+(\s*(of|/)\s*\d+)?|\d{1,4}|-\s*\d+\s*-|\d+\s*/\s*\d+)$`)

// Canonical normalizes a raw document so that offsets computed by the pipeline
// and by the verifier refer to the same text: NFKC folding and '\n' line breaks.
func Canonical(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return norm.NFKC.String(s)
}

// Segmenter splits documents into sections.
type Segmenter struct {
	rules   model.Rules
	anchors []string
	primary string
	logger  *slog.Logger
}

// New creates a segmenter driven by rules.
func New(rules model.Rules, logger *slog.Logger) *Segmenter {
	if logger == nil {
		logger = slog.Default()
	}

	anchors := make([]string, 0, len(rules.Headers)+1)
	if rules.PrimaryAnchor.Literal != "" {
		anchors = append(anchors, strings.ToLower(rules.PrimaryAnchor.Literal))
	}
	for _, h := range rules.Headers {
		if h.Literal != "" {
			anchors = append(anchors, strings.ToLower(h.Literal))
		}
	}

	return &Segmenter{
		rules:   rules,
		anchors: anchors,
		primary: strings.ToLower(rules.PrimaryAnchor.Literal),
		logger:  logger,
	}
}

// rawLine is a trimmed line before noise filtering.
type rawLine struct {
	model.Line
	noise bool
}

func (s *Segmenter) split(doc string) []rawLine {
	var out []rawLine
	offset := 0
	for i, text := range strings.Split(doc, "\n") {
		lead := len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace))
		trimmed := strings.TrimSpace(text)
		out = append(out, rawLine{
			Line: model.Line{
				Index:  i,
				Offset: offset + lead,
				Text:   trimmed,
			},
			noise: s.isNoise(trimmed),
		})
		offset += len(text) + 1
	}
	return out
}

// isNoise reports whether a line is blank, a page marker, or too short to be
// table data. Header lines are never too short: a one-column table prints a
// lone "Part No.".
func (s *Segmenter) isNoise(text string) bool {
	if text == "" || pageMarker.MatchString(text) {
		return true
	}
	if s.hasAnchor(text, false) {
		return false
	}
	return utf8.RuneCountInString(text) < s.rules.MinLineLength
}

// Normalize splits doc into trimmed lines, dropping blank lines, page markers
// and lines shorter than the configured minimum that carry no header. doc should already be Canonical.
func (s *Segmenter) Normalize(doc string) []model.Line {
	var lines []model.Line
	for _, l := range s.split(doc) {
		if !l.noise {
			lines = append(lines, l.Line)
		}
	}
	return lines
}

// Segment groups table-like lines into sections. A section ends after a run of
// BoundaryRun noise or non-table lines, or when a primary header line follows
// data lines. An empty document yields no sections.
func (s *Segmenter) Segment(doc string) []model.Section {
	var (
		sections []model.Section
		current  []model.Line
		hasData  bool
		run      int
	)

	boundary := s.rules.BoundaryRun
	if boundary < 1 {
		boundary = 1
	}

	flush := func() {
		if len(current) > 0 {
			sections = append(sections, model.NewSection(len(sections), current))
		}
		current = nil
		hasData = false
	}

	dropped := 0
	for _, l := range s.split(doc) {
		if l.noise {
			run++
			if run >= boundary {
				flush()
			}
			continue
		}

		header := s.hasAnchor(l.Text, true)
		ids := hasIdentifier(l.Text)
		if !header && !ids && !s.hasAnchor(l.Text, false) {
			dropped++
			run++
			if run >= boundary {
				flush()
			}
			continue
		}

		run = 0
		if header && hasData {
			flush()
		}
		current = append(current, l.Line)
		if ids && !header {
			hasData = true
		}
	}
	flush()

	s.logger.Debug("document segmented",
		slog.Int("sections", len(sections)),
		slog.Int("non_table_lines", dropped),
	)

	return sections
}

// hasAnchor reports whether text contains a header literal. With primaryOnly
// set, only the primary identifier header is considered.
func (s *Segmenter) hasAnchor(text string, primaryOnly bool) bool {
	lower := strings.ToLower(text)
	if primaryOnly {
		return s.primary != "" && strings.Contains(lower, s.primary)
	}
	for _, a := range s.anchors {
		if strings.Contains(lower, a) {
			return true
		}
	}
	return false
}

func hasIdentifier(text string) bool {
	for _, tok := range model.Tokenize(text) {
		if model.IsIdentifierToken(tok.Text) {
			return true
		}
	}
	return false
}
