// Package evaluation splits labeled examples and scores predictions.
package evaluation

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// ErrSplitTooSmall is returned when a partition cannot hold one example of
// every class.
var ErrSplitTooSmall = errors.New("dataset too small for a stratified split")

// ErrInvalidTestSize is returned for a test fraction outside (0, 1).
var ErrInvalidTestSize = errors.New("test size must be between 0 and 1")

// Split holds train and test indices in ascending order.
type Split struct {
	Train []int
	Test  []int
}

// StratifiedSplit partitions indices of labels into train and test so that
// each class keeps its proportion in both parts. The test part holds
// ceil(testSize*n) examples; per-class shares are rounded by largest
// remainder. The same seed always yields the same split.
func StratifiedSplit(labels []string, testSize float64, seed uint64) (*Split, error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTestSize, testSize)
	}

	byClass := make(map[string][]int)
	for i, l := range labels {
		byClass[l] = append(byClass[l], i)
	}

	classes := make([]string, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}

	sort.Strings(classes)

	n := len(labels)
	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest

	if nTest < len(classes) || nTrain < len(classes) {
		return nil, fmt.Errorf("%w: %d examples, %d classes, test=%d train=%d",
			ErrSplitTooSmall, n, len(classes), nTest, nTrain)
	}

	counts := make([]int, len(classes))
	for i, c := range classes {
		counts[i] = len(byClass[c])
	}

	alloc, err := allocate(counts, nTest)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	split := &Split{
		Train: make([]int, 0, nTrain),
		Test:  make([]int, 0, nTest),
	}

	for i, c := range classes {
		idx := append([]int(nil), byClass[c]...)
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })

		split.Test = append(split.Test, idx[:alloc[i]]...)
		split.Train = append(split.Train, idx[alloc[i]:]...)
	}

	sort.Ints(split.Train)
	sort.Ints(split.Test)

	return split, nil
}

// allocate distributes total test slots across classes proportionally to
// counts, keeping at least one member of every class on each side.
func allocate(counts []int, total int) ([]int, error) {
	n := 0
	for _, c := range counts {
		n += c
	}

	alloc := make([]int, len(counts))
	remainders := make([]float64, len(counts))
	assigned := 0

	for i, c := range counts {
		exact := float64(total) * float64(c) / float64(n)
		alloc[i] = int(math.Floor(exact))
		remainders[i] = exact - float64(alloc[i])
		assigned += alloc[i]
	}

	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}

	// largest remainder first, then the larger class, then label order
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if remainders[ia] != remainders[ib] {
			return remainders[ia] > remainders[ib]
		}

		return counts[ia] > counts[ib]
	})

	for k := 0; assigned < total; k = (k + 1) % len(order) {
		if i := order[k]; alloc[i] < counts[i]-1 {
			alloc[i]++
			assigned++
		}
	}

	// every class needs a test member and a train member
	for i := range alloc {
		for alloc[i] < 1 {
			donor := largestDonor(alloc)
			if donor < 0 {
				return nil, ErrSplitTooSmall
			}

			alloc[donor]--
			alloc[i]++
		}

		for alloc[i] > counts[i]-1 {
			taker := -1
			for j := range alloc {
				if j != i && alloc[j] < counts[j]-1 {
					taker = j
					break
				}
			}

			if taker < 0 {
				return nil, ErrSplitTooSmall
			}

			alloc[i]--
			alloc[taker]++
		}
	}

	return alloc, nil
}

func largestDonor(alloc []int) int {
	donor := -1
	for j, a := range alloc {
		if a > 1 && (donor < 0 || a > alloc[donor]) {
			donor = j
		}
	}

	return donor
}
