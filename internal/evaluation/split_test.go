package evaluation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeat(label string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = label
	}

	return out
}

func TestStratifiedSplit_TenRecords(t *testing.T) {
	labels := append(repeat("verdadera", 6), repeat("falsa", 4)...)

	split, err := StratifiedSplit(labels, 0.2, 42)
	require.NoError(t, err)

	assert.Len(t, split.Train, 8)
	assert.Len(t, split.Test, 2)

	testLabels := map[string]int{}
	for _, i := range split.Test {
		testLabels[labels[i]]++
	}

	assert.Equal(t, map[string]int{"verdadera": 1, "falsa": 1}, testLabels)
}

func TestStratifiedSplit_Deterministic(t *testing.T) {
	labels := append(repeat("verdadera", 30), repeat("falsa", 17)...)

	first, err := StratifiedSplit(labels, 0.2, 42)
	require.NoError(t, err)

	for range 5 {
		again, err := StratifiedSplit(labels, 0.2, 42)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	other, err := StratifiedSplit(labels, 0.2, 7)
	require.NoError(t, err)
	assert.NotEqual(t, first.Test, other.Test, "a different seed should pick different indices")
}

func TestStratifiedSplit_PartitionsAllIndices(t *testing.T) {
	labels := append(append(repeat("a", 13), repeat("b", 7)...), repeat("c", 5)...)

	split, err := StratifiedSplit(labels, 0.3, 42)
	require.NoError(t, err)

	seen := make(map[int]int)
	for _, i := range append(append([]int{}, split.Train...), split.Test...) {
		seen[i]++
	}

	assert.Len(t, seen, len(labels))

	for i, n := range seen {
		assert.Equal(t, 1, n, "index %d", i)
	}

	// ceil(0.3 * 25) = 8
	assert.Len(t, split.Test, 8)
	assert.IsIncreasing(t, split.Train)
	assert.IsIncreasing(t, split.Test)
}

func TestStratifiedSplit_ProportionsPreserved(t *testing.T) {
	labels := append(repeat("verdadera", 80), repeat("falsa", 20)...)

	split, err := StratifiedSplit(labels, 0.2, 42)
	require.NoError(t, err)

	counts := map[string]int{}
	for _, i := range split.Test {
		counts[labels[i]]++
	}

	assert.Equal(t, map[string]int{"verdadera": 16, "falsa": 4}, counts)
}

func TestStratifiedSplit_EveryClassOnBothSides(t *testing.T) {
	labels := append(repeat("verdadera", 20), repeat("falsa", 2)...)

	split, err := StratifiedSplit(labels, 0.2, 42)
	require.NoError(t, err)

	for _, part := range [][]int{split.Train, split.Test} {
		classes := map[string]bool{}
		for _, i := range part {
			classes[labels[i]] = true
		}

		assert.Len(t, classes, 2)
	}
}

func TestStratifiedSplit_Errors(t *testing.T) {
	_, err := StratifiedSplit([]string{"a", "a", "b", "b"}, 0.2, 42)
	assert.True(t, errors.Is(err, ErrSplitTooSmall), "one test slot cannot hold two classes")

	_, err = StratifiedSplit([]string{"a", "b"}, 0.5, 42)
	assert.True(t, errors.Is(err, ErrSplitTooSmall))

	_, err = StratifiedSplit([]string{"a", "b"}, 0, 42)
	assert.True(t, errors.Is(err, ErrInvalidTestSize))

	_, err = StratifiedSplit([]string{"a", "b"}, 1, 42)
	assert.True(t, errors.Is(err, ErrInvalidTestSize))
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		total  int
		want   []int
	}{
		{"largest remainder", []int{4, 6}, 2, []int{1, 1}},
		{"exact", []int{20, 80}, 20, []int{4, 16}},
		{"minimum one each", []int{2, 20}, 5, []int{1, 4}},
		{"three classes", []int{5, 7, 13}, 8, []int{2, 2, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := allocate(tt.counts, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
