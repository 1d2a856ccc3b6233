// Package sparse provides the sparse feature vectors passed between the
// vectorizer and the classifier.
package sparse

import (
	"math"
	"sort"
)

// Vector is a sparse vector with strictly increasing indices.
type Vector struct {
	Indices []int
	Values  []float64
}

// FromMap builds a vector from index/value pairs, dropping zeros.
func FromMap(m map[int]float64) Vector {
	idx := make([]int, 0, len(m))
	for i, v := range m {
		if v != 0 {
			idx = append(idx, i)
		}
	}

	sort.Ints(idx)

	vals := make([]float64, len(idx))
	for k, i := range idx {
		vals[k] = m[i]
	}

	return Vector{Indices: idx, Values: vals}
}

// Len returns the number of stored entries.
func (v Vector) Len() int {
	return len(v.Indices)
}

// Dot returns the inner product with a dense vector.
func (v Vector) Dot(dense []float64) float64 {
	var sum float64
	for k, i := range v.Indices {
		sum += v.Values[k] * dense[i]
	}

	return sum
}

// AddScaledTo adds alpha*v into dst.
func (v Vector) AddScaledTo(dst []float64, alpha float64) {
	for k, i := range v.Indices {
		dst[i] += alpha * v.Values[k]
	}
}

// Norm returns the Euclidean norm.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}

	return math.Sqrt(sum)
}

// Scale multiplies every stored value by alpha in place.
func (v Vector) Scale(alpha float64) {
	for k := range v.Values {
		v.Values[k] *= alpha
	}
}

// Dense expands the vector to length n.
func (v Vector) Dense(n int) []float64 {
	out := make([]float64, n)
	for k, i := range v.Indices {
		out[i] = v.Values[k]
	}

	return out
}
