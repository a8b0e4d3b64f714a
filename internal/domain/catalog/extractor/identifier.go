package extractor

import "github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"

// Identifiers splits the identifier occurrences of a section into its two
// sub-tables: the first N are primary part numbers, the next N secondary.
type Identifiers struct{}

func (Identifiers) Extract(scan *Scan, field model.Field) model.FieldSeries {
	all := scan.Identifiers()
	fs := model.FieldSeries{Field: field}

	switch field {
	case model.FieldMasterPartNo:
		fs.Values = all[:min(scan.N, len(all))]
	case model.FieldPartNo:
		if len(all) > scan.N {
			fs.Values = all[scan.N:]
		}
	}
	return fs
}
