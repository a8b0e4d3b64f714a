package extractor

import (
	"strings"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

func sectionOf(text string) model.Section {
	var lines []model.Line
	offset := 0
	for i, l := range strings.Split(text, "\n") {
		lines = append(lines, model.Line{Index: i, Offset: offset, Text: l})
		offset += len(l) + 1
	}
	return model.NewSection(0, lines)
}
