// Package normalizer turns raw dataset records into labeled training examples.
package normalizer

import (
	"errors"
	"fmt"

	"desinfo/internal/models"
)

// Policy decides what happens to labels outside the synonym table.
type Policy string

// Unrecognized label policies.
const (
	// PolicyPassthrough keeps the cleaned text as its own class.
	PolicyPassthrough Policy = "passthrough"
	// PolicyDrop removes records with unrecognized labels.
	PolicyDrop Policy = "drop"
	// PolicyFail aborts on the first unrecognized label.
	PolicyFail Policy = "fail"
)

// ErrUnrecognizedLabel is returned under PolicyFail.
var ErrUnrecognizedLabel = errors.New("unrecognized label")

// ErrUnknownPolicy is returned for a policy outside the known set.
var ErrUnknownPolicy = errors.New("unknown unrecognized-label policy")

// ErrInvalidMinClassSize is returned for a minimum class size below two.
var ErrInvalidMinClassSize = errors.New("minimum class size must be at least 2")

// DefaultMinClassSize is used when Options.MinClassSize is zero.
const DefaultMinClassSize = 2

// Valid reports whether p is one of the known policies.
func (p Policy) Valid() bool {
	switch p {
	case PolicyPassthrough, PolicyDrop, PolicyFail:
		return true
	}

	return false
}

// Labeled pairs a record with its normalized label.
type Labeled struct {
	Record models.Record
	Label  models.Label
}

// Options configures a Processor.
type Options struct {
	Policy       Policy
	MinClassSize int
}

// Result is everything a processing pass produced.
type Result struct {
	Examples []models.Example
	// Before and After are the class distributions around the size filter.
	Before models.Distribution
	After  models.Distribution
	// Unrecognized counts labels outside the synonym table by cleaned text.
	Unrecognized models.Distribution
	// EmptyLabels counts records dropped for an empty, "nan" or absent label.
	EmptyLabels int
}

// Processor runs label normalization, class filtering and text composition.
type Processor struct {
	labels   *LabelNormalizer
	filter   *ClassFilter
	composer *Composer
	policy   Policy
}

// NewProcessor creates a new processor instance. Zero values select the
// passthrough policy and a minimum class size of two.
func NewProcessor(opts Options) (*Processor, error) {
	if opts.Policy == "" {
		opts.Policy = PolicyPassthrough
	}

	if !opts.Policy.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, opts.Policy)
	}

	if opts.MinClassSize == 0 {
		opts.MinClassSize = DefaultMinClassSize
	}

	if opts.MinClassSize < DefaultMinClassSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMinClassSize, opts.MinClassSize)
	}

	return &Processor{
		labels:   NewLabelNormalizer(),
		filter:   NewClassFilter(opts.MinClassSize),
		composer: NewComposer(),
		policy:   opts.Policy,
	}, nil
}

// Process transforms a raw dataset into composed examples. On an
// *InsufficientClassesError the returned Result still carries both
// distributions.
func (p *Processor) Process(ds models.Dataset) (*Result, error) {
	// 1. Normalize labels, dropping empty ones
	labeled, result, err := p.normalize(ds)
	if err != nil {
		return nil, err
	}

	// 2. Enforce the minimum class size
	filtered, err := p.filter.Filter(labeled)
	result.Before = filtered.Before
	result.After = filtered.After

	if err != nil {
		return result, fmt.Errorf("class filtering failed: %w", err)
	}

	// 3. Compose classifier input text
	result.Examples = p.composer.Examples(filtered.Kept)

	return result, nil
}

func (p *Processor) normalize(ds models.Dataset) ([]Labeled, *Result, error) {
	result := &Result{Unrecognized: make(models.Distribution)}
	labeled := make([]Labeled, 0, len(ds))

	for i, rec := range ds {
		if !rec.HasLabel {
			result.EmptyLabels++
			continue
		}

		label := p.labels.Normalize(rec.Label)
		if IsEmpty(label.Name) {
			result.EmptyLabels++
			continue
		}

		if !label.IsCanonical() {
			result.Unrecognized[label.Name]++

			switch p.policy {
			case PolicyFail:
				return nil, nil, fmt.Errorf("%w %q at record %d", ErrUnrecognizedLabel, label.Name, i)
			case PolicyDrop:
				continue
			}
		}

		labeled = append(labeled, Labeled{Record: rec, Label: label})
	}

	return labeled, result, nil
}
