package normalizer

import (
	"errors"
	"fmt"

	"desinfo/internal/models"
)

// ErrInsufficientClasses matches every *InsufficientClassesError.
var ErrInsufficientClasses = errors.New("insufficient classes to train")

// InsufficientClassesError reports that fewer than two labels survived the
// minimum class size filter.
type InsufficientClassesError struct {
	Before   models.Distribution
	After    models.Distribution
	MinCount int
}

func (e *InsufficientClassesError) Error() string {
	return fmt.Sprintf("%v: only %d class(es) with at least %d examples remain %s (before filtering: %s); at least two are required",
		ErrInsufficientClasses, len(e.After), e.MinCount, e.After, e.Before)
}

// Is lets errors.Is match ErrInsufficientClasses.
func (e *InsufficientClassesError) Is(target error) bool {
	return target == ErrInsufficientClasses
}

// ClassFilter removes labels with too few examples.
type ClassFilter struct {
	minCount int
}

// NewClassFilter creates a filter keeping labels with at least minCount members.
func NewClassFilter(minCount int) *ClassFilter {
	return &ClassFilter{minCount: minCount}
}

// FilterResult is the outcome of a filter pass.
type FilterResult struct {
	Kept   []Labeled
	Before models.Distribution
	After  models.Distribution
}

// Filter keeps the records whose label has at least minCount members,
// preserving order. Fewer than two surviving labels is an
// *InsufficientClassesError.
func (f *ClassFilter) Filter(records []Labeled) (*FilterResult, error) {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Label.Name
	}

	before := models.CountLabels(names)

	kept := make([]Labeled, 0, len(records))
	after := make(models.Distribution)

	for _, r := range records {
		if before[r.Label.Name] < f.minCount {
			continue
		}

		kept = append(kept, r)
		after[r.Label.Name]++
	}

	result := &FilterResult{Kept: kept, Before: before, After: after}

	if len(after) < 2 {
		return result, &InsufficientClassesError{Before: before, After: after, MinCount: f.minCount}
	}

	return result, nil
}
