// Package models defines data structures shared by the training stages.
package models

import (
	"fmt"
	"sort"
	"strings"
)

// Record is one labeled news item as read from the dataset.
type Record struct {
	Source *string
	Title  *string
	Body   *string
	// Label is the raw label text; it is meaningful only when HasLabel is set.
	Label    string
	HasLabel bool
}

// Dataset is an ordered collection of records sharing one schema.
type Dataset []Record

// Example is a composed training input: one text and its class name.
type Example struct {
	Text  string
	Label string
}

// Texts returns the example texts in order.
func Texts(examples []Example) []string {
	out := make([]string, len(examples))
	for i, ex := range examples {
		out[i] = ex.Text
	}

	return out
}

// Labels returns the example labels in order.
func Labels(examples []Example) []string {
	out := make([]string, len(examples))
	for i, ex := range examples {
		out[i] = ex.Label
	}

	return out
}

// Distribution counts records per label.
type Distribution map[string]int

// CountLabels builds the distribution of labels.
func CountLabels(labels []string) Distribution {
	d := make(Distribution, 2)
	for _, l := range labels {
		d[l]++
	}

	return d
}

// Sorted returns the labels in lexical order.
func (d Distribution) Sorted() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Total returns the sum of all counts.
func (d Distribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}

	return total
}

// String renders the distribution as {a: 1, b: 2} in label order.
func (d Distribution) String() string {
	parts := make([]string, 0, len(d))
	for _, k := range d.Sorted() {
		parts = append(parts, fmt.Sprintf("%q: %d", k, d[k]))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
