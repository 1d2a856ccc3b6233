package linear

import (
	"errors"

	"desinfo/internal/sparse"
)

// ErrMalformedModel is returned when a decoded model is inconsistent.
var ErrMalformedModel = errors.New("malformed linear model")

// Binary is one fitted decision function w·x + b.
type Binary struct {
	Weights    []float64 `json:"weights"`
	Intercept  float64   `json:"intercept"`
	Iterations int       `json:"iterations"`
	Status     string    `json:"status"`
}

// Decision returns w·x + b.
func (b Binary) Decision(x sparse.Vector) float64 {
	return x.Dot(b.Weights) + b.Intercept
}

// Model is a fitted classifier. With two classes it holds one estimator
// voting for Classes[1]; otherwise one estimator per class.
type Model struct {
	Classes    []string `json:"classes"`
	Estimators []Binary `json:"estimators"`
	Dim        int      `json:"dim"`
}

// Validate checks the shape of a decoded model.
func (m *Model) Validate() error {
	want := len(m.Classes)
	if want == 2 {
		want = 1
	}

	if len(m.Classes) < 2 || len(m.Estimators) != want {
		return ErrMalformedModel
	}

	for _, e := range m.Estimators {
		if len(e.Weights) != m.Dim {
			return ErrMalformedModel
		}
	}

	return nil
}

// Predict returns the class of x.
func (m *Model) Predict(x sparse.Vector) string {
	if len(m.Estimators) == 1 {
		if m.Estimators[0].Decision(x) > 0 {
			return m.Classes[1]
		}

		return m.Classes[0]
	}

	best, bestScore := 0, m.Estimators[0].Decision(x)

	for i := 1; i < len(m.Estimators); i++ {
		if s := m.Estimators[i].Decision(x); s > bestScore {
			best, bestScore = i, s
		}
	}

	return m.Classes[best]
}
