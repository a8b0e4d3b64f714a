// Package export writes reconstructed records as JSON, CSV or Excel, always
// with the column order of model.Schema.
package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown export format")

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts a format name or a file name with a known extension.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimPrefix(ext, ".")
	}
	switch Format(name) {
	case FormatJSON, FormatCSV, FormatXLSX:
		return Format(name), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Metadata describes where a record set came from.
type Metadata struct {
	Source      string    `json:"source"`
	RunID       string    `json:"runId,omitempty"`
	TotalItems  int       `json:"totalItems"`
	ExtractedAt time.Time `json:"extractedAt"`
	Columns     []string  `json:"columns"`
}

// Document is the JSON envelope: records live under "items".
type Document struct {
	Metadata Metadata       `json:"metadata"`
	Items    []model.Record `json:"items"`
}

// NewDocument wraps records with metadata.
func NewDocument(source, runID string, records []model.Record) Document {
	if records == nil {
		records = []model.Record{}
	}
	return Document{
		Metadata: Metadata{
			Source:      source,
			RunID:       runID,
			TotalItems:  len(records),
			ExtractedAt: time.Now().UTC(),
			Columns:     model.Header(),
		},
		Items: records,
	}
}

// Write encodes doc in format f.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, doc)
	case FormatCSV:
		return WriteCSV(w, doc.Items)
	case FormatXLSX:
		return WriteXLSX(w, doc.Items)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteJSON writes the indented JSON envelope.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// ReadJSON decodes an envelope written by WriteJSON. A bare array of
// records is accepted too.
func ReadJSON(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read json: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []model.Record
		if err := json.Unmarshal(data, &items); err != nil {
			return Document{}, fmt.Errorf("failed to decode records: %w", err)
		}
		return NewDocument("", "", items), nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to decode json: %w", err)
	}
	return doc, nil
}

// WriteCSV writes a header row and one row per record. Every value is
// quoted, with inner quotes doubled.
func WriteCSV(w io.Writer, records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}
	out := newQuotingWriter(w)
	if len(records) == 0 {
		// gocsv emits nothing for an empty slice; keep the header.
		if err := out.Write(model.Header()); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
		out.Flush()
		return out.Error()
	}
	if err := gocsv.MarshalCSV(&records, out); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// quotingWriter is a gocsv.CSVWriter that quotes every field, where
// encoding/csv only quotes fields that need it.
type quotingWriter struct {
	w   *bufio.Writer
	err error
}

func newQuotingWriter(w io.Writer) *quotingWriter {
	return &quotingWriter{w: bufio.NewWriter(w)}
}

func (q *quotingWriter) Write(row []string) error {
	if q.err != nil {
		return q.err
	}
	for i, field := range row {
		if i > 0 {
			q.w.WriteByte(',')
		}
		q.w.WriteByte('"')
		q.w.WriteString(strings.ReplaceAll(field, `"`, `""`))
		q.w.WriteByte('"')
	}
	_, q.err = q.w.WriteString("\n")
	return q.err
}

func (q *quotingWriter) Flush() {
	if err := q.w.Flush(); err != nil && q.err == nil {
		q.err = err
	}
}

func (q *quotingWriter) Error() error {
	return q.err
}

// ReadCSV parses a file written by WriteCSV.
func ReadCSV(r io.Reader) ([]model.Record, error) {
	var records []model.Record
	if err := gocsv.Unmarshal(r, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return records, nil
}

const sheetName = "Parts"

// WriteXLSX writes a single-sheet workbook with a bold, frozen header row.
func WriteXLSX(w io.Writer, records []model.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(model.Schema))
	for i, name := range model.Header() {
		header[i] = name
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, _ := excelize.ColumnNumberToName(len(model.Schema))
	if err := f.SetCellStyle(sheetName, "A1", last+"1", style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	for i, rec := range records {
		values := rec.Values()
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
