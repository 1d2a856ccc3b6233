package evaluation

import (
	"errors"
	"fmt"
	"sort"
)

// ErrLengthMismatch is returned when truth and predictions differ in length.
var ErrLengthMismatch = errors.New("true and predicted labels differ in length")

// ClassMetrics are the scores of one class.
type ClassMetrics struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is a classification report over a labeled test set.
type Report struct {
	Classes     []ClassMetrics
	Accuracy    float64
	MacroAvg    ClassMetrics
	WeightedAvg ClassMetrics
	Total       int
}

// Evaluate scores predictions against the true labels. Classes are the
// sorted union of both label sets; a zero denominator scores 0.
func Evaluate(yTrue, yPred []string) (*Report, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(yTrue), len(yPred))
	}

	labels := unionSorted(yTrue, yPred)
	truePos := make(map[string]int)
	predicted := make(map[string]int)
	support := make(map[string]int)
	correct := 0

	for i := range yTrue {
		support[yTrue[i]]++
		predicted[yPred[i]]++

		if yTrue[i] == yPred[i] {
			truePos[yTrue[i]]++
			correct++
		}
	}

	report := &Report{
		Classes:  make([]ClassMetrics, 0, len(labels)),
		Total:    len(yTrue),
		MacroAvg: ClassMetrics{Label: "macro avg", Support: len(yTrue)},
		WeightedAvg: ClassMetrics{
			Label:   "weighted avg",
			Support: len(yTrue),
		},
	}

	if len(yTrue) > 0 {
		report.Accuracy = float64(correct) / float64(len(yTrue))
	}

	for _, l := range labels {
		m := ClassMetrics{
			Label:     l,
			Precision: ratio(truePos[l], predicted[l]),
			Recall:    ratio(truePos[l], support[l]),
			Support:   support[l],
		}
		m.F1 = harmonic(m.Precision, m.Recall)

		report.Classes = append(report.Classes, m)
	}

	if k := float64(len(labels)); k > 0 {
		for _, m := range report.Classes {
			report.MacroAvg.Precision += m.Precision / k
			report.MacroAvg.Recall += m.Recall / k
			report.MacroAvg.F1 += m.F1 / k
		}
	}

	if n := float64(len(yTrue)); n > 0 {
		for _, m := range report.Classes {
			w := float64(m.Support) / n
			report.WeightedAvg.Precision += m.Precision * w
			report.WeightedAvg.Recall += m.Recall * w
			report.WeightedAvg.F1 += m.F1 * w
		}
	}

	return report, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}

	return float64(num) / float64(den)
}

func harmonic(p, r float64) float64 {
	if p+r == 0 {
		return 0
	}

	return 2 * p * r / (p + r)
}

func unionSorted(a, b []string) []string {
	seen := make(map[string]bool)

	var out []string

	for _, list := range [][]string{a, b} {
		for _, l := range list {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}

	sort.Strings(out)

	return out
}
