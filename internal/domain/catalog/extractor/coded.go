package extractor

import (
	"regexp"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

var gradeLetter = regexp.MustCompile(`^[A-D]$`)

// Coded extracts short closed-vocabulary values (origin, brand) and
// pattern-shaped codes (grade letter, size). Codes are searched from the first
// identifier onwards and each column takes the unused occurrence closest to
// its identifier.
type Coded struct {
	origins *Vocabulary
	brands  *Vocabulary
}

// NewCoded creates the coded strategy.
func NewCoded(rules model.Rules) *Coded {
	return &Coded{
		origins: NewVocabulary(rules.OriginCodes),
		brands:  NewVocabulary(rules.BrandCodes),
	}
}

func (c *Coded) matches(field model.Field, word string) bool {
	switch field {
	case model.FieldOrigin:
		return c.origins.Has(word)
	case model.FieldBrand:
		return c.brands.Has(word)
	case model.FieldGrade:
		return gradeLetter.MatchString(word)
	case model.FieldSize:
		return model.IsSizeToken(word)
	}
	return false
}

func (c *Coded) Extract(scan *Scan, field model.Field) model.FieldSeries {
	fs := model.FieldSeries{Field: field}

	var occurrences []int
	for i := scan.head; i < len(scan.Tokens); i++ {
		if c.matches(field, model.Word(scan.Tokens[i].Text)) {
			occurrences = append(occurrences, i)
		}
	}
	if len(occurrences) == 0 {
		return fs
	}

	used := make([]bool, len(occurrences))
	for r := 0; r < scan.N; r++ {
		anchor, ok := scan.anchor(r)
		if !ok {
			break
		}
		best := nearest(scan.Tokens, occurrences, used, scan.Tokens[anchor].Start)
		if best < 0 {
			break
		}
		used[best] = true
		idx := occurrences[best]
		fs.Values = append(fs.Values, scan.candidate(idx, model.Word(scan.Tokens[idx].Text), model.ConfidenceMedium))
	}
	return fs
}

// nearest picks the unused occurrence closest to at by character distance.
// Ties go to the occurrence after at, then to the earlier one.
func nearest(tokens []model.Token, occurrences []int, used []bool, at int) int {
	best, bestDist, bestAfter := -1, 0, false
	for i, idx := range occurrences {
		if used[i] {
			continue
		}
		start := tokens[idx].Start
		dist := start - at
		after := dist > 0
		if dist < 0 {
			dist = -dist
		}
		if best < 0 || dist < bestDist || (dist == bestDist && after && !bestAfter) {
			best, bestDist, bestAfter = i, dist, after
		}
	}
	return best
}
