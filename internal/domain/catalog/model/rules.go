package model

// AnchorHeader binds a field to the literal header text printed above its column.
// Matching is case-insensitive. Occurrences directly preceded by one of
// ExcludePrefixes (as a separate word) are not counted.
type AnchorHeader struct {
	Field           Field    `yaml:"field"`
	Literal         string   `yaml:"literal"`
	ExcludePrefixes []string `yaml:"exclude_prefixes"`
}

// Range bounds a numeric field. Integer fields reject decimal values.
type Range struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Integer bool    `yaml:"integer"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Rules is the full extraction configuration. Every vocabulary and pattern the
// pipeline relies on lives here so tests can substitute synthetic ones.
type Rules struct {
	MinLineLength int `yaml:"min_line_length"`
	BoundaryRun   int `yaml:"boundary_run"`

	PrimaryAnchor AnchorHeader   `yaml:"primary_anchor"`
	Headers       []AnchorHeader `yaml:"headers"`

	NumericOrder  []Field         `yaml:"numeric_order"`
	FreeTextOrder []Field         `yaml:"free_text_order"`
	NumericRanges map[Field]Range `yaml:"numeric_ranges"`

	TechnicalTerms    []string `yaml:"technical_terms"`
	ApplicationTerms  []string `yaml:"application_terms"`
	MainCategoryTerms []string `yaml:"main_category_terms"`
	SubCategoryTerms  []string `yaml:"sub_category_terms"`
	OriginCodes       []string `yaml:"origin_codes"`
	BrandCodes        []string `yaml:"brand_codes"`
	ExcludedWords     []string `yaml:"excluded_words"`

	// FreeTextWindow is the number of tokens per column a free-text walk may
	// visit before it gives up.
	FreeTextWindow int `yaml:"free_text_window"`
	// MaxRunWords caps the plain multi-word shape.
	MaxRunWords int `yaml:"max_run_words"`
	// MaxTextLength caps a cleaned free-text value, in runes.
	MaxTextLength int `yaml:"max_text_length"`
}

// Terms returns the vocabulary that marks values of a free-text field.
func (r Rules) Terms(f Field) []string {
	switch f {
	case FieldDescription:
		return r.TechnicalTerms
	case FieldApplication:
		return r.ApplicationTerms
	case FieldMainCategory:
		return r.MainCategoryTerms
	case FieldSubCategory:
		return r.SubCategoryTerms
	case FieldOrigin:
		return r.OriginCodes
	case FieldBrand:
		return r.BrandCodes
	}
	return nil
}

// HeadersFor returns the anchor headers declared for f.
func (r Rules) HeadersFor(f Field) []AnchorHeader {
	var out []AnchorHeader
	for _, h := range r.Headers {
		if h.Field == f {
			out = append(out, h)
		}
	}
	return out
}

// DefaultRules returns the vocabulary tuned for the auto-parts price catalog.
func DefaultRules() Rules {
	return Rules{
		MinLineLength: 10,
		BoundaryRun:   2,
		PrimaryAnchor: AnchorHeader{
			Field:           FieldMasterPartNo,
			Literal:         "Part No.",
			ExcludePrefixes: []string{"SS"},
		},
		Headers: []AnchorHeader{
			{Field: FieldDescription, Literal: "Description"},
			{Field: FieldApplication, Literal: "Application"},
			{Field: FieldMainCategory, Literal: "Main Category"},
			{Field: FieldSubCategory, Literal: "Sub Category"},
			{Field: FieldCost, Literal: "Cost"},
			{Field: FieldPriceA, Literal: "Price A"},
			{Field: FieldPriceB, Literal: "Price B"},
			{Field: FieldOrderLevel, Literal: "Order Level"},
			{Field: FieldWeight, Literal: "Weight"},
		},
		NumericOrder:  []Field{FieldCost, FieldPriceA, FieldPriceB, FieldOrderLevel, FieldWeight},
		FreeTextOrder: []Field{FieldDescription, FieldApplication, FieldMainCategory, FieldSubCategory},
		NumericRanges: map[Field]Range{
			FieldCost:       {Min: 0.01, Max: 10_000_000},
			FieldPriceA:     {Min: 0.01, Max: 10_000_000},
			FieldPriceB:     {Min: 0.01, Max: 10_000_000},
			FieldWeight:     {Min: 0.01, Max: 10_000},
			FieldOrderLevel: {Min: 0, Max: 999, Integer: true},
		},
		TechnicalTerms: []string{
			"SEAL", "RING", "BEARING", "GASKET", "FILTER", "PUMP", "CYLINDER",
			"GEAR", "SHAFT", "BOLT", "NUT", "WASHER", "PIN", "LINER", "VALVE",
			"PISTON", "BLOCK", "METAL", "RETAINING", "LOCK", "DOWEL", "SNAP",
			"BALL", "OIL", "AIR", "FUEL", "HYDRAULIC", "TRANSMISSION", "ENGINE",
			"CONVERTER", "CONVERTOR",
		},
		ApplicationTerms: []string{
			"CATERPILLER", "CATERPILLAR", "KOMATSU", "CUMMINS", "SEAL-CAT", "SEAL-KOM",
			"HYUNDAI", "KOBELCO", "HITACHI", "VOLVO", "JCB", "CASE", "DEERE",
		},
		MainCategoryTerms: []string{
			"ENGINE PARTS", "TRANSMISSION PARTS", "VEHICLE PARTS", "GASKET KIT",
			"PUMPS", "UNDER CARRIAGE", "G.E.T", "HYDRAULIC FILTER", "BEARINGS",
		},
		SubCategoryTerms: []string{
			"SEAL ASSLY", "SEAL OIL", "SEAL O RING", "SEAL KIT", "BACKUP RING",
			"DUST SEAL", "BUSHING", "O RING",
		},
		OriginCodes: []string{
			"PRC", "USA", "ITAL", "TURK", "IND", "KOR", "UK", "CHN", "AFR",
			"TAIW", "JAP", "GER", "SAM", "JPN",
		},
		BrandCodes: []string{
			"CTC", "NTN", "FAG", "TIMKEN", "SKF", "ITR", "WG", "CAT", "DP", "ASP",
			"CGR", "HG", "FP", "BOW", "KMP", "CLV", "KZ", "SSP", "MAH", "NOK",
			"TIM", "DSG",
		},
		ExcludedWords: []string{
			"PART", "NO", "NO.", "SS", "MASTER", "DESCRIPTION", "APPLICATION",
			"ORIGIN", "GRADE", "ORDER", "LEVEL", "WEIGHT", "MAIN", "SUB",
			"CATEGORY", "SIZE", "BRAND", "COST", "PRICE", "PAGE",
		},
		FreeTextWindow: 8,
		MaxRunWords:    3,
		MaxTextLength:  200,
	}
}
