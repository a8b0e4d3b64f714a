package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/export"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/pdftext"
)

// readDocument returns the raw text of a .txt extraction or the text layer of a .pdf.
func readDocument(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pdftext.ExtractFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// readRecords loads records written by extract, as JSON or CSV.
func readRecords(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		records, err := export.ReadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return records, nil
	}

	doc, err := export.ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return doc.Items, nil
}
