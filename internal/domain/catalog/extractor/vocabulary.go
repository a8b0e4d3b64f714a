package extractor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
)

// Vocabulary is a closed list of upper-case terms with two lookups: exact
// whole-word membership and multi-pattern containment backed by Aho-Corasick,
// so a value can be checked against every term in one pass. One vocabulary
// is shared by all workers of a parallel run.
type Vocabulary struct {
	terms   []string
	set     map[string]struct{}
	words   map[string]struct{}
	matcher *ahocorasick.Matcher
}

// NewVocabulary builds a vocabulary. Terms are upper-cased and deduplicated.
func NewVocabulary(terms []string) *Vocabulary {
	v := &Vocabulary{
		set:   make(map[string]struct{}, len(terms)),
		words: make(map[string]struct{}, len(terms)),
	}
	for _, t := range terms {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := v.set[t]; dup {
			continue
		}
		v.set[t] = struct{}{}
		v.terms = append(v.terms, t)
		for _, w := range strings.Fields(t) {
			v.words[w] = struct{}{}
		}
	}

	if len(v.terms) > 0 {
		patterns := make([][]byte, len(v.terms))
		for i, t := range v.terms {
			patterns[i] = []byte(t)
		}
		v.matcher = ahocorasick.NewMatcher(patterns)
	}
	return v
}

// Len returns the number of distinct terms.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.terms)
}

// Has reports whether word is exactly one of the terms, ignoring case.
func (v *Vocabulary) Has(word string) bool {
	if v == nil {
		return false
	}
	_, ok := v.set[strings.ToUpper(word)]
	return ok
}

// Mentions reports whether word is a term or one of the words of a multi-word term.
func (v *Vocabulary) Mentions(word string) bool {
	if v == nil {
		return false
	}
	_, ok := v.words[strings.ToUpper(word)]
	return ok
}

// Contains reports whether any term occurs inside text as whole words,
// ignoring case. A term embedded in a longer word ("AIR" in "REPAIR") does
// not count; hyphens, commas and spaces all bound a term. Safe for
// concurrent use.
func (v *Vocabulary) Contains(text string) bool {
	if v == nil || v.matcher == nil {
		return false
	}
	upper := strings.ToUpper(text)
	for _, idx := range v.matcher.MatchThreadSafe([]byte(upper)) {
		if idx >= 0 && idx < len(v.terms) && bounded(upper, v.terms[idx]) {
			return true
		}
	}
	return false
}

// bounded reports whether term occurs in text with a non-letter or the text
// edge on both sides.
func bounded(text, term string) bool {
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], term)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(term)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !unicode.IsLetter(before)) && (end == len(text) || !unicode.IsLetter(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return false
}
