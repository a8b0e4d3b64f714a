package extractor

import (
	"sort"
	"strings"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

// Scan is the per-section state shared by all strategies: tokens, the
// identifier region and the order in which value fields appear.
type Scan struct {
	Section model.Section
	N       int
	Tokens  []model.Token

	ids  []int // token indexes of identifier occurrences, at most 2N
	head int   // first identifier token
	tail int   // first token after the identifier region

	numericOrder  []model.Field
	freeTextOrder []model.Field
	freeText      map[model.Field]model.FieldSeries
}

// Prepare tokenizes sec and locates its identifier region.
func (e *Extractor) Prepare(sec model.Section, n int) *Scan {
	scan := &Scan{
		Section: sec,
		N:       n,
		Tokens:  model.Tokenize(sec.Text()),
	}
	if n <= 0 {
		return scan
	}

	for i, tok := range scan.Tokens {
		if len(scan.ids) == 2*n {
			break
		}
		if model.IsIdentifierToken(tok.Text) {
			if len(scan.ids) == 0 {
				scan.head = i
			}
			scan.ids = append(scan.ids, i)
			scan.tail = i + 1
		}
	}

	text := sec.Text()
	scan.numericOrder = headerOrder(text, e.rules, e.rules.NumericOrder)
	scan.freeTextOrder = headerOrder(text, e.rules, e.rules.FreeTextOrder)
	return scan
}

// Identifiers returns every identifier occurrence, primary sub-table first.
func (s *Scan) Identifiers() []model.CandidateValue {
	out := make([]model.CandidateValue, len(s.ids))
	for i, idx := range s.ids {
		out[i] = s.candidate(idx, s.Tokens[idx].Text, model.ConfidenceHigh)
	}
	return out
}

// anchor returns the token index of the identifier for relative column r,
// preferring the primary sub-table.
func (s *Scan) anchor(r int) (int, bool) {
	primary := min(s.N, len(s.ids))
	if r < primary {
		return s.ids[r], true
	}
	if s.N+r < len(s.ids) {
		return s.ids[s.N+r], true
	}
	return 0, false
}

func (s *Scan) candidate(tokenIdx int, value string, c model.Confidence) model.CandidateValue {
	return model.CandidateValue{
		Value:        value,
		SourceOffset: s.Section.DocOffset(s.Tokens[tokenIdx].Start),
		Confidence:   c,
	}
}

// headerOrder ranks fields by the first position of their header in text.
// Fields without a header are dropped, unless no field has one, in which case
// defaults is returned unchanged.
func headerOrder(text string, rules model.Rules, defaults []model.Field) []model.Field {
	lower := strings.ToLower(text)

	type ranked struct {
		field model.Field
		pos   int
	}
	var found []ranked
	for _, f := range defaults {
		pos := -1
		for _, h := range rules.HeadersFor(f) {
			if h.Literal == "" {
				continue
			}
			if idx := strings.Index(lower, strings.ToLower(h.Literal)); idx >= 0 && (pos < 0 || idx < pos) {
				pos = idx
			}
		}
		if pos >= 0 {
			found = append(found, ranked{field: f, pos: pos})
		}
	}
	if len(found) == 0 {
		return defaults
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })
	out := make([]model.Field, len(found))
	for i, r := range found {
		out[i] = r.field
	}
	return out
}

func position(order []model.Field, f model.Field) int {
	for i, o := range order {
		if o == f {
			return i
		}
	}
	return -1
}
