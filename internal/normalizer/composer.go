package normalizer

import "desinfo/internal/models"

// SourceMarker precedes the source name in composed text.
const SourceMarker = "Fuente: "

// Composer builds the classifier input text for a record.
type Composer struct{}

// NewComposer creates a new composer instance.
func NewComposer() *Composer {
	return &Composer{}
}

// Compose returns title + " " + body + " Fuente: " + source. Nil fields
// compose as empty strings and the source marker is always present.
func (c *Composer) Compose(rec models.Record) string {
	return deref(rec.Title) + " " + deref(rec.Body) + " " + SourceMarker + deref(rec.Source)
}

// Examples composes every labeled record into a training example.
func (c *Composer) Examples(records []Labeled) []models.Example {
	out := make([]models.Example, len(records))
	for i, r := range records {
		out[i] = models.Example{Text: c.Compose(r.Record), Label: r.Label.Name}
	}

	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
