package textfeat

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// minTokenRunes is the shortest token kept; single characters are noise.
const minTokenRunes = 2

// Tokenizer splits text into lowercase word tokens.
type Tokenizer struct {
	lower cases.Caser
}

// NewTokenizer creates a tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{lower: cases.Lower(language.Und)}
}

// Tokens returns the word tokens of text in order. Text is NFC-normalized
// and lowercased, segmented on Unicode word boundaries, and every segment is
// split on characters that are not letters, digits, marks or underscores.
func (t *Tokenizer) Tokens(text string) []string {
	text = t.lower.String(norm.NFC.String(text))

	var tokens []string

	segments := words.FromString(text)
	for segments.Next() {
		for _, part := range strings.FieldsFunc(segments.Value(), isSeparator) {
			if utf8.RuneCountInString(part) >= minTokenRunes {
				tokens = append(tokens, part)
			}
		}
	}

	return tokens
}

func isSeparator(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_')
}

// NGrams joins consecutive tokens into n-grams for every n in [lo, hi].
func NGrams(tokens []string, lo, hi int) []string {
	var out []string

	for n := lo; n <= hi; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}

	return out
}
