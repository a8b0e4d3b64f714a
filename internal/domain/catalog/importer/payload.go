package importer

import (
	"strconv"
	"strings"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
	"github.com/FACorreiaa/parts-catalog-recon/pkg/money"
)

// Payload is the JSON body of one create-part call. Empty values are omitted.
type Payload struct {
	MasterPartNo  string   `json:"master_part_no"`
	PartNo        string   `json:"part_no"`
	BrandName     string   `json:"brand_name,omitempty"`
	Description   string   `json:"description,omitempty"`
	CategoryID    string   `json:"category_id,omitempty"`
	SubcategoryID string   `json:"subcategory_id,omitempty"`
	ApplicationID string   `json:"application_id,omitempty"`
	Origin        string   `json:"origin,omitempty"`
	Grade         string   `json:"grade,omitempty"`
	Size          string   `json:"size,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	ReorderLevel  *int     `json:"reorder_level,omitempty"`
	Cost          *float64 `json:"cost,omitempty"`
	PriceA        *float64 `json:"price_a,omitempty"`
	PriceB        *float64 `json:"price_b,omitempty"`
	UOM           string   `json:"uom"`
	Status        string   `json:"status"`
}

// origins maps catalog country codes to the values the parts API accepts.
var origins = map[string]string{
	"LOCAL":  "local",
	"IMPORT": "import",
	"CHN":    "china",
	"PRC":    "china",
	"CHINA":  "china",
	"JAP":    "japan",
	"JPN":    "japan",
	"JAPAN":  "japan",
	"GER":    "germany",
	"USA":    "usa",
	"PPR":    "ppr",
}

// NormalizeOrigin maps an origin code to the API vocabulary; unknown codes
// are passed through lower-cased.
func NormalizeOrigin(code string) string {
	code = strings.TrimSpace(code)
	if v, ok := origins[strings.ToUpper(code)]; ok {
		return v
	}
	return strings.ToLower(code)
}

// BuildPayload converts a record. Amounts are rounded to currency's minor
// unit; unparseable numbers are left out rather than sent as zero.
func BuildPayload(rec model.Record, currency string) Payload {
	p := Payload{
		MasterPartNo:  strings.TrimSpace(rec.MasterPartNo),
		PartNo:        strings.TrimSpace(rec.PartNo),
		BrandName:     strings.TrimSpace(rec.Brand),
		Description:   strings.TrimSpace(rec.Description),
		CategoryID:    strings.TrimSpace(rec.MainCategory),
		SubcategoryID: strings.TrimSpace(rec.SubCategory),
		ApplicationID: strings.TrimSpace(rec.Application),
		Origin:        NormalizeOrigin(rec.Origin),
		Grade:         strings.ToUpper(strings.TrimSpace(rec.Grade)),
		Size:          strings.TrimSpace(rec.Size),
		UOM:           "pcs",
		Status:        "active",
	}
	if p.PartNo == "" {
		p.PartNo = p.MasterPartNo
	}

	p.Cost = amount(rec.Cost, currency)
	p.PriceA = amount(rec.PriceA, currency)
	p.PriceB = amount(rec.PriceB, currency)

	if d, err := money.ParseDecimal(rec.Weight); err == nil {
		w, _ := d.Float64()
		p.Weight = &w
	}
	if lvl, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(rec.OrderLevel), ",", "")); err == nil {
		p.ReorderLevel = &lvl
	}
	return p
}

func amount(raw, currency string) *float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	m, err := money.Parse(raw, currency)
	if err != nil || m.IsNegative() {
		return nil
	}
	f := m.ToFloat64()
	return &f
}
