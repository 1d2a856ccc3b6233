// Package linear fits class-balanced, L2-regularized logistic regression
// on sparse features.
package linear

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"desinfo/internal/sparse"
)

// Classifier errors.
var (
	ErrTooFewClasses   = errors.New("at least two classes are required")
	ErrLengthMismatch  = errors.New("features and labels differ in length")
	ErrInvalidOptions  = errors.New("invalid classifier options")
	ErrOptimizerFailed = errors.New("optimizer failed")
)

// Options configures the fit.
type Options struct {
	// C is the inverse regularization strength.
	C             float64
	MaxIterations int
	// Tolerance stops the optimizer once the gradient norm falls below it.
	Tolerance float64
}

// LogisticRegression fits a linear classifier with balanced class weights.
type LogisticRegression struct {
	opts Options
}

// NewLogisticRegression creates a classifier trainer.
func NewLogisticRegression(opts Options) (*LogisticRegression, error) {
	if opts.C <= 0 || opts.MaxIterations < 1 || opts.Tolerance <= 0 {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidOptions, opts)
	}

	return &LogisticRegression{opts: opts}, nil
}

// Fit learns weights for dim features. Two classes train a single binary
// model whose positive class is the second in sorted order; more classes
// train one model per class against the rest.
func (lr *LogisticRegression) Fit(x []sparse.Vector, y []string, dim int) (*Model, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}

	classes := uniqueSorted(y)
	if len(classes) < 2 {
		return nil, fmt.Errorf("%w: got %v", ErrTooFewClasses, classes)
	}

	weights := BalancedWeights(y)

	sampleWeight := make([]float64, len(y))
	for i, label := range y {
		sampleWeight[i] = weights[label]
	}

	positives := classes[1:]
	if len(classes) > 2 {
		positives = classes
	}

	m := &Model{Classes: classes, Dim: dim}

	for _, positive := range positives {
		target := make([]float64, len(y))
		for i, label := range y {
			target[i] = -1
			if label == positive {
				target[i] = 1
			}
		}

		b, err := lr.fitBinary(x, target, sampleWeight, dim)
		if err != nil {
			return nil, fmt.Errorf("fitting %q: %w", positive, err)
		}

		m.Estimators = append(m.Estimators, b)
	}

	return m, nil
}

// BalancedWeights returns n / (k * n_c) for every class c.
func BalancedWeights(y []string) map[string]float64 {
	counts := make(map[string]int)
	for _, label := range y {
		counts[label]++
	}

	n := float64(len(y))
	k := float64(len(counts))

	out := make(map[string]float64, len(counts))
	for label, c := range counts {
		out[label] = n / (k * float64(c))
	}

	return out
}

func (lr *LogisticRegression) fitBinary(x []sparse.Vector, target, sampleWeight []float64, dim int) (Binary, error) {
	alpha := 1 / lr.opts.C

	// params[:dim] are feature weights, params[dim] is the unpenalized intercept
	loss := func(params, grad []float64) float64 {
		w, b := params[:dim], params[dim]

		var f float64
		if grad != nil {
			for i := range grad {
				grad[i] = 0
			}
		}

		for i, xi := range x {
			yz := target[i] * (xi.Dot(w) + b)
			f += sampleWeight[i] * logOnePlusExp(-yz)

			if grad != nil {
				g := sampleWeight[i] * (sigmoid(yz) - 1) * target[i]
				xi.AddScaledTo(grad[:dim], g)
				grad[dim] += g
			}
		}

		f += 0.5 * alpha * floats.Dot(w, w)

		if grad != nil {
			floats.AddScaled(grad[:dim], alpha, w)
		}

		return f
	}

	problem := optimize.Problem{
		Func: func(params []float64) float64 { return loss(params, nil) },
		Grad: func(grad, params []float64) { loss(params, grad) },
	}

	settings := &optimize.Settings{
		GradientThreshold: lr.opts.Tolerance,
		MajorIterations:   lr.opts.MaxIterations,
	}

	result, err := optimize.Minimize(problem, make([]float64, dim+1), settings, &optimize.LBFGS{})
	if result == nil || !finite(result.X) {
		return Binary{}, fmt.Errorf("%w: %v", ErrOptimizerFailed, err)
	}

	status := result.Status.String()
	if err != nil {
		// a line search that stalls near the optimum still leaves a usable point
		status = err.Error()
	}

	return Binary{
		Weights:    append([]float64(nil), result.X[:dim]...),
		Intercept:  result.X[dim],
		Iterations: result.Stats.MajorIterations,
		Status:     status,
	}, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}

	e := math.Exp(z)

	return e / (1 + e)
}

// logOnePlusExp computes log(1 + e^t) without overflow.
func logOnePlusExp(t float64) float64 {
	if t > 0 {
		return t + math.Log1p(math.Exp(-t))
	}

	return math.Log1p(math.Exp(t))
}

func finite(xs []float64) bool {
	if len(xs) == 0 {
		return false
	}

	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}

func uniqueSorted(y []string) []string {
	seen := make(map[string]bool)

	var out []string

	for _, label := range y {
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}

	sort.Strings(out)

	return out
}
