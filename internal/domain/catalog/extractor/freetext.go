package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

var (
	hyphenCompound = regexp.MustCompile(`^[A-Z][A-Za-z]+(?:-[A-Z][A-Za-z]*)+$`)
	plainWord      = regexp.MustCompile(`^[A-Za-z][A-Za-z.&/']*$`)
)

// FreeText extracts description, application and category values. Fields are
// walked in header order; each walk starts where the previous one stopped and
// at every token tries, in order, a hyphenated compound ("SEAL-O-RING"), a
// comma compound ("RING METAL, RETAINING") and a plain run of words holding a
// vocabulary term.
type FreeText struct {
	rules    model.Rules
	vocab    map[model.Field]*Vocabulary
	excluded *Vocabulary
}

// NewFreeText creates the free-text strategy.
func NewFreeText(rules model.Rules) *FreeText {
	ft := &FreeText{
		rules: rules,
		vocab: make(map[model.Field]*Vocabulary, len(rules.FreeTextOrder)),
	}
	for _, f := range []model.Field{model.FieldDescription, model.FieldApplication, model.FieldMainCategory, model.FieldSubCategory} {
		ft.vocab[f] = NewVocabulary(rules.Terms(f))
	}

	stop := append([]string{}, rules.ExcludedWords...)
	stop = append(stop, rules.OriginCodes...)
	stop = append(stop, rules.BrandCodes...)
	ft.excluded = NewVocabulary(stop)
	return ft
}

func (ft *FreeText) Extract(scan *Scan, field model.Field) model.FieldSeries {
	if scan.freeText == nil {
		scan.freeText = ft.walkAll(scan)
	}
	fs := scan.freeText[field]
	fs.Field = field
	return fs
}

func (ft *FreeText) walkAll(scan *Scan) map[model.Field]model.FieldSeries {
	out := make(map[model.Field]model.FieldSeries, len(scan.freeTextOrder))

	window := ft.rules.FreeTextWindow
	if window < 1 {
		window = 1
	}

	cursor := scan.tail
	for _, field := range scan.freeTextOrder {
		fs := model.FieldSeries{Field: field}
		limit := len(scan.Tokens)
		started := false

		i := cursor
		for i < limit && len(fs.Values) < scan.N {
			value, next, ok := ft.shapeAt(scan.Tokens, i, field)
			if !ok {
				i++
				continue
			}
			if !started {
				started = true
				limit = min(len(scan.Tokens), i+window*scan.N)
			}
			fs.Values = append(fs.Values, scan.candidate(i, ft.clean(value), model.ConfidenceLow))
			i = next
		}

		if started {
			cursor = i
		}
		out[field] = fs
	}
	return out
}

// word splits a token into its bare word and whether a comma trailed it.
func word(tok string) (string, bool, bool) {
	tok = strings.TrimRight(tok, ";:")
	comma := strings.HasSuffix(tok, ",")
	w := model.Word(tok)
	return w, comma, plainWord.MatchString(w)
}

// blocked reports whether w may not start or extend a value of field: it is a
// header word or code, or it is exactly a term of another free-text field that
// field's own vocabulary never mentions.
func (ft *FreeText) blocked(w string, field model.Field) bool {
	if ft.excluded.Has(w) {
		return true
	}
	if ft.vocab[field].Mentions(w) {
		return false
	}
	for f, v := range ft.vocab {
		if f != field && v.Has(w) {
			return true
		}
	}
	return false
}

// shapeAt tries each value shape at token i and returns the value and the
// index of the first token after it.
func (ft *FreeText) shapeAt(tokens []model.Token, i int, field model.Field) (string, int, bool) {
	vocab := ft.vocab[field]
	if vocab.Len() == 0 {
		return "", 0, false
	}

	tok := model.Word(tokens[i].Text)
	if hyphenCompound.MatchString(tok) {
		if !ft.blocked(tok, field) && vocab.Contains(tok) {
			return tok, i + 1, true
		}
		return "", 0, false
	}

	first, _, ok := word(tokens[i].Text)
	if !ok || ft.blocked(first, field) {
		return "", 0, false
	}

	if v, next, ok := ft.commaCompound(tokens, i, field); ok {
		return v, next, true
	}
	return ft.plainRun(tokens, i, field)
}

// commaCompound matches one to three words, the last ending in a comma,
// followed by one more word: "RING METAL, RETAINING".
func (ft *FreeText) commaCompound(tokens []model.Token, i int, field model.Field) (string, int, bool) {
	parts := make([]string, 0, 4)
	for j := i; j < len(tokens) && j < i+3; j++ {
		w, comma, ok := word(tokens[j].Text)
		if !ok || (j > i && ft.blocked(w, field)) {
			return "", 0, false
		}
		if !comma {
			parts = append(parts, w)
			continue
		}

		parts = append(parts, w+",")
		if j+1 >= len(tokens) {
			return "", 0, false
		}
		last, lastComma, ok := word(tokens[j+1].Text)
		if !ok || lastComma || ft.blocked(last, field) {
			return "", 0, false
		}
		parts = append(parts, last)
		value := strings.Join(parts, " ")
		if !ft.vocab[field].Contains(value) {
			return "", 0, false
		}
		return value, j + 2, true
	}
	return "", 0, false
}

// plainRun matches the longest run of up to MaxRunWords words that holds a
// vocabulary term. Once the run holds a term, it is not extended by a word
// that holds one itself or repeats the previous word, since that marks the
// next column's value.
func (ft *FreeText) plainRun(tokens []model.Token, i int, field model.Field) (string, int, bool) {
	vocab := ft.vocab[field]
	maxWords := max(ft.rules.MaxRunWords, 1)

	var (
		run     []string
		best    string
		next    int
		hasTerm bool
	)
	for j := i; j < len(tokens) && len(run) < maxWords; j++ {
		w, comma, ok := word(tokens[j].Text)
		if !ok || hyphenCompound.MatchString(w) {
			break
		}
		if j > i {
			if ft.blocked(w, field) || strings.EqualFold(w, run[len(run)-1]) {
				break
			}
			if hasTerm && vocab.Contains(w) {
				break
			}
		}

		run = append(run, w)
		candidate := strings.Join(run, " ")
		if vocab.Contains(candidate) {
			best, next, hasTerm = candidate, j+1, true
		}
		if comma {
			break
		}
	}

	if best == "" {
		return "", 0, false
	}
	return best, next, true
}

// clean collapses whitespace and repeated adjacent words, then caps the length.
func (ft *FreeText) clean(value string) string {
	words := strings.Fields(value)
	out := words[:0]
	for _, w := range words {
		if len(out) > 0 && strings.EqualFold(out[len(out)-1], w) {
			continue
		}
		out = append(out, w)
	}
	s := strings.Join(out, " ")

	if limit := ft.rules.MaxTextLength; limit > 0 && utf8.RuneCountInString(s) > limit {
		s = strings.TrimSpace(string([]rune(s)[:limit]))
	}
	return s
}
