package model

import (
	"regexp"
	"strings"
	"unicode"
)

// Token is a whitespace-delimited word with its byte span in the scanned text.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokenize splits text on whitespace, keeping positions.
func Tokenize(text string) []Token {
	var tokens []Token
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, Token{Text: text[start:i], Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Text: text[start:], Start: start, End: len(text)})
	}
	return tokens
}

var (
	identifierShape = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9/-]{3,19}$`)
	shortNumber     = regexp.MustCompile(`^[0-9]{1,3}$`)
	sizeShape       = regexp.MustCompile(`^(?i)\d+X\d+(X\d+)?(MM?)?$`)
)

// IsIdentifierToken reports whether tok looks like a part number: 4-20
// alphanumeric characters (hyphen and slash allowed inside), at least one digit,
// no decimal point, not a bare 1-3 digit number and not a dimension.
func IsIdentifierToken(tok string) bool {
	if !identifierShape.MatchString(tok) {
		return false
	}
	if strings.HasSuffix(tok, "-") || strings.HasSuffix(tok, "/") {
		return false
	}
	if shortNumber.MatchString(tok) || IsSizeToken(tok) {
		return false
	}
	return strings.IndexFunc(tok, unicode.IsDigit) >= 0
}

// IsSizeToken reports whether tok is a dimension such as 20X30X5 or 40X60MM.
func IsSizeToken(tok string) bool {
	return sizeShape.MatchString(tok)
}

// Word strips surrounding punctuation that PDF text tends to glue to words.
func Word(tok string) string {
	return strings.Trim(tok, ",;:()[]\"'")
}
