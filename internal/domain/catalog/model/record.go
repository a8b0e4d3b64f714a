package model

// Field names one column of the output record schema.
type Field string

const (
	FieldMasterPartNo Field = "Master Part No"
	FieldPartNo       Field = "Part No"
	FieldOrigin       Field = "Origin"
	FieldDescription  Field = "Description"
	FieldApplication  Field = "Application"
	FieldGrade        Field = "Grade"
	FieldOrderLevel   Field = "Order Level"
	FieldWeight       Field = "Weight"
	FieldMainCategory Field = "Main Category"
	FieldSubCategory  Field = "Sub Category"
	FieldSize         Field = "Size"
	FieldBrand        Field = "Brand"
	FieldCost         Field = "Cost"
	FieldPriceA       Field = "Price A"
	FieldPriceB       Field = "Price B"
)

// Schema is the output column order used by every writer.
var Schema = []Field{
	FieldMasterPartNo,
	FieldPartNo,
	FieldOrigin,
	FieldDescription,
	FieldApplication,
	FieldGrade,
	FieldOrderLevel,
	FieldWeight,
	FieldMainCategory,
	FieldSubCategory,
	FieldSize,
	FieldBrand,
	FieldCost,
	FieldPriceA,
	FieldPriceB,
}

// Kind groups fields that share one extraction strategy.
type Kind int

const (
	KindIdentifier Kind = iota
	KindNumeric
	KindCoded
	KindFreeText
)

func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindNumeric:
		return "numeric"
	case KindCoded:
		return "coded"
	case KindFreeText:
		return "free-text"
	default:
		return "unknown"
	}
}

// Kind classifies the field.
func (f Field) Kind() Kind {
	switch f {
	case FieldMasterPartNo, FieldPartNo:
		return KindIdentifier
	case FieldOrderLevel, FieldWeight, FieldCost, FieldPriceA, FieldPriceB:
		return KindNumeric
	case FieldOrigin, FieldGrade, FieldSize, FieldBrand:
		return KindCoded
	default:
		return KindFreeText
	}
}

// Confidence is the extraction confidence attached to every value of this field.
func (f Field) Confidence() Confidence {
	switch f.Kind() {
	case KindIdentifier, KindNumeric:
		return ConfidenceHigh
	case KindCoded:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Required reports whether a record is invalid without this field.
func (f Field) Required() bool {
	return f == FieldMasterPartNo
}

// Record is one reconstructed catalog row. Struct field order matches Schema.
type Record struct {
	MasterPartNo string `json:"Master Part No" csv:"Master Part No"`
	PartNo       string `json:"Part No" csv:"Part No"`
	Origin       string `json:"Origin" csv:"Origin"`
	Description  string `json:"Description" csv:"Description"`
	Application  string `json:"Application" csv:"Application"`
	Grade        string `json:"Grade" csv:"Grade"`
	OrderLevel   string `json:"Order Level" csv:"Order Level"`
	Weight       string `json:"Weight" csv:"Weight"`
	MainCategory string `json:"Main Category" csv:"Main Category"`
	SubCategory  string `json:"Sub Category" csv:"Sub Category"`
	Size         string `json:"Size" csv:"Size"`
	Brand        string `json:"Brand" csv:"Brand"`
	Cost         string `json:"Cost" csv:"Cost"`
	PriceA       string `json:"Price A" csv:"Price A"`
	PriceB       string `json:"Price B" csv:"Price B"`

	Section int `json:"-" csv:"-"`
}

func (r *Record) ref(f Field) *string {
	switch f {
	case FieldMasterPartNo:
		return &r.MasterPartNo
	case FieldPartNo:
		return &r.PartNo
	case FieldOrigin:
		return &r.Origin
	case FieldDescription:
		return &r.Description
	case FieldApplication:
		return &r.Application
	case FieldGrade:
		return &r.Grade
	case FieldOrderLevel:
		return &r.OrderLevel
	case FieldWeight:
		return &r.Weight
	case FieldMainCategory:
		return &r.MainCategory
	case FieldSubCategory:
		return &r.SubCategory
	case FieldSize:
		return &r.Size
	case FieldBrand:
		return &r.Brand
	case FieldCost:
		return &r.Cost
	case FieldPriceA:
		return &r.PriceA
	case FieldPriceB:
		return &r.PriceB
	}
	return nil
}

// Get returns the value of f, or "" for an unknown field.
func (r Record) Get(f Field) string {
	if p := r.ref(f); p != nil {
		return *p
	}
	return ""
}

// Set assigns v to f. Unknown fields are ignored.
func (r *Record) Set(f Field, v string) {
	if p := r.ref(f); p != nil {
		*p = v
	}
}

// Values returns the record values in Schema order.
func (r Record) Values() []string {
	out := make([]string, len(Schema))
	for i, f := range Schema {
		out[i] = r.Get(f)
	}
	return out
}

// Header returns the Schema names as strings.
func Header() []string {
	out := make([]string, len(Schema))
	for i, f := range Schema {
		out[i] = string(f)
	}
	return out
}
