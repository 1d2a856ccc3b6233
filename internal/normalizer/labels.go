package normalizer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"desinfo/internal/models"
)

// missingLabel is how an absent label reads after cleaning.
const missingLabel = "nan"

// synonyms maps cleaned label spellings to the canonical classes.
var synonyms = map[string]models.LabelClass{
	"verdadera":     models.LabelTrue,
	"real":          models.LabelTrue,
	"true":          models.LabelTrue,
	"falsa":         models.LabelFalse,
	"noticia falsa": models.LabelFalse,
	"false":         models.LabelFalse,
}

// LabelNormalizer canonicalizes raw label spellings.
type LabelNormalizer struct {
	lower cases.Caser
}

// NewLabelNormalizer creates a label normalizer.
func NewLabelNormalizer() *LabelNormalizer {
	return &LabelNormalizer{lower: cases.Lower(language.Und)}
}

// Clean trims surrounding whitespace and lowercases raw.
func (n *LabelNormalizer) Clean(raw string) string {
	return n.lower.String(strings.TrimSpace(raw))
}

// Normalize maps raw onto a canonical class. Spellings outside the synonym
// table come back as LabelUnrecognized carrying the cleaned text.
func (n *LabelNormalizer) Normalize(raw string) models.Label {
	cleaned := n.Clean(raw)

	if class, ok := synonyms[cleaned]; ok {
		return models.Label{Name: class.String(), Class: class}
	}

	return models.Label{Name: cleaned, Class: models.LabelUnrecognized}
}

// IsEmpty reports whether a cleaned label carries no class at all.
func IsEmpty(cleaned string) bool {
	return cleaned == "" || cleaned == missingLabel
}
