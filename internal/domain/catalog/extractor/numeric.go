package extractor

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

var (
	groupedNumber = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)
	plainNumber   = regexp.MustCompile(`^\d+(\.\d+)?$`)
	bareLong      = regexp.MustCompile(`^\d{4,}$`)
)

// Numeric extracts cost, price, weight and order level values. Numeric
// tokens after the identifier region are cut into consecutive runs of N, one
// run per field in header order, then filtered by each field's range.
type Numeric struct {
	ranges map[model.Field]model.Range
}

// NewNumeric creates the numeric strategy.
func NewNumeric(rules model.Rules) *Numeric {
	return &Numeric{ranges: rules.NumericRanges}
}

func (n *Numeric) Extract(scan *Scan, field model.Field) model.FieldSeries {
	fs := model.FieldSeries{Field: field}

	k := position(scan.numericOrder, field)
	if k < 0 {
		return fs
	}

	var candidates []int
	for i := scan.tail; i < len(scan.Tokens); i++ {
		if _, ok := ParseNumber(model.Word(scan.Tokens[i].Text)); ok {
			candidates = append(candidates, i)
		}
	}

	lo := k * scan.N
	if lo >= len(candidates) {
		return fs
	}
	hi := min(lo+scan.N, len(candidates))

	for _, idx := range candidates[lo:hi] {
		raw := model.Word(scan.Tokens[idx].Text)
		if !n.Plausible(field, raw) {
			continue
		}
		fs.Values = append(fs.Values, scan.candidate(idx, raw, model.ConfidenceHigh))
	}
	return fs
}

// Plausible reports whether raw parses and lies in field's range.
func (n *Numeric) Plausible(field model.Field, raw string) bool {
	d, ok := ParseNumber(raw)
	if !ok {
		return false
	}
	r, bounded := n.ranges[field]
	if !bounded {
		return true
	}
	if r.Integer && !d.IsInteger() {
		return false
	}
	v, _ := d.Float64()
	return r.Contains(v)
}

// ParseNumber parses a catalog number such as "1,250.00" or "0.45". Bare
// integers of four or more digits are rejected since those are part numbers.
func ParseNumber(raw string) (decimal.Decimal, bool) {
	switch {
	case groupedNumber.MatchString(raw):
		raw = strings.ReplaceAll(raw, ",", "")
	case plainNumber.MatchString(raw):
		if bareLong.MatchString(raw) {
			return decimal.Decimal{}, false
		}
	default:
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
