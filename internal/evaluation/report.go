package evaluation

import (
	"fmt"
	"strconv"

	"desinfo/internal/formatter"
)

var reportHeader = []string{"", "precision", "recall", "f1-score", "support"}

// Table lays the report out as rows: one per class, then accuracy and the
// two averages.
func (r *Report) Table() *formatter.Table {
	t := formatter.NewTable(reportHeader...)
	t.AlignRight(1, 2, 3, 4)

	for _, m := range r.Classes {
		t.AddRow(metricsRow(m)...)
	}

	t.AddRow("accuracy", "", "", score(r.Accuracy), strconv.Itoa(r.Total))
	t.AddRow(metricsRow(r.MacroAvg)...)
	t.AddRow(metricsRow(r.WeightedAvg)...)

	return t
}

// String renders the report as an aligned table.
func (r *Report) String() string {
	return r.Table().String()
}

func metricsRow(m ClassMetrics) []string {
	return []string{m.Label, score(m.Precision), score(m.Recall), score(m.F1), strconv.Itoa(m.Support)}
}

func score(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
