// Package model holds the data types shared by every stage of the catalog
// reconstruction pipeline: lines, sections, candidate values, field series
// and the reconstructed records themselves.
package model

import (
	"sort"
	"strings"
)

// Confidence describes how much an extraction heuristic trusts a value.
type Confidence int

const (
	ConfidenceHigh Confidence = iota
	ConfidenceMedium
	ConfidenceLow
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "unknown"
	}
}

// MarshalText renders the confidence as its lowercase name.
func (c Confidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Line is a trimmed, non-empty line of the source document.
type Line struct {
	Index  int    // zero-based line number in the document
	Offset int    // byte offset of the first character of Text in the document
	Text   string // trimmed content
}

// Section is a contiguous run of lines that encodes one flattened table
// fragment. Text joins the lines with '\n' and is what extractors scan.
type Section struct {
	Index int
	Lines []Line

	text   string
	starts []int // start of each line inside text
}

// NewSection builds a section over lines. The slice is kept, not copied.
func NewSection(index int, lines []Line) Section {
	s := Section{Index: index, Lines: lines}
	var b strings.Builder
	s.starts = make([]int, len(lines))
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		s.starts[i] = b.Len()
		b.WriteString(l.Text)
	}
	s.text = b.String()
	return s
}

// Text returns the section content as one string.
func (s Section) Text() string {
	return s.text
}

// DocOffset maps a byte position inside Text back to the document.
// Positions that fall on the joining newline map to the end of the previous line.
func (s Section) DocOffset(pos int) int {
	if len(s.Lines) == 0 {
		return pos
	}
	i := sort.Search(len(s.starts), func(i int) bool { return s.starts[i] > pos }) - 1
	if i < 0 {
		i = 0
	}
	return s.Lines[i].Offset + (pos - s.starts[i])
}

// CandidateValue is one extracted value that has not yet been assigned to a record.
type CandidateValue struct {
	Value        string     `json:"value"`
	SourceOffset int        `json:"source_offset"`
	Confidence   Confidence `json:"confidence"`
}

// FieldSeries is the ordered list of candidates a strategy found for one field.
type FieldSeries struct {
	Field  Field
	Values []CandidateValue
}

// Len returns the number of candidates.
func (fs FieldSeries) Len() int {
	return len(fs.Values)
}

// At returns the value at position r.
func (fs FieldSeries) At(r int) (string, bool) {
	if r < 0 || r >= len(fs.Values) {
		return "", false
	}
	return fs.Values[r].Value, true
}

// Strings returns the bare values in order.
func (fs FieldSeries) Strings() []string {
	out := make([]string, len(fs.Values))
	for i, v := range fs.Values {
		out[i] = v.Value
	}
	return out
}
