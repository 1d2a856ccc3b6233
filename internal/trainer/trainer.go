// Package trainer runs the end-to-end training job: load, normalize, split,
// fit, evaluate and persist.
package trainer

import (
	"fmt"
	"io"
	"time"

	"desinfo/internal/config"
	"desinfo/internal/dataset"
	"desinfo/internal/evaluation"
	"desinfo/internal/linear"
	"desinfo/internal/logger"
	"desinfo/internal/model"
	"desinfo/internal/models"
	"desinfo/internal/normalizer"
	"desinfo/internal/textfeat"
)

// Summary describes a finished run.
type Summary struct {
	Records   int
	Before    models.Distribution
	After     models.Distribution
	TrainSize int
	TestSize  int
	Report    *evaluation.Report
	ModelPath string
	Duration  time.Duration
}

// Trainer holds the resolved configuration for one run.
type Trainer struct {
	cfg *config.Config
	log *logger.Logger
	out io.Writer
}

// New creates a trainer. Class distributions, split sizes, the report and
// the final confirmation are written to out; diagnostics go to log.
func New(cfg *config.Config, log *logger.Logger, out io.Writer) *Trainer {
	return &Trainer{cfg: cfg, log: log, out: out}
}

// Run executes the job once. Nothing is written to the model path unless
// every earlier step succeeded.
func (t *Trainer) Run() (*Summary, error) {
	start := time.Now()
	summary := &Summary{ModelPath: t.cfg.Paths.Model}

	// 1. Load
	loader := dataset.NewLoader(t.cfg.Paths.Dataset)

	records, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	summary.Records = len(records)
	t.log.Info("Dataset loaded", "path", loader.Path(), "records", len(records))

	// 2. Normalize, filter and compose
	examples, err := t.prepare(records, summary)
	if err != nil {
		return nil, err
	}

	// 3. Stratified split
	labels := models.Labels(examples)

	split, err := evaluation.StratifiedSplit(labels, t.cfg.Split.TestSize, t.cfg.Split.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to split dataset: %w", err)
	}

	summary.TrainSize = len(split.Train)
	summary.TestSize = len(split.Test)
	fmt.Fprintf(t.out, "Train size: %d, test size: %d\n", len(split.Train), len(split.Test))
	t.log.Debug("Split dataset", "train", len(split.Train), "test", len(split.Test))

	train := pick(examples, split.Train)
	test := pick(examples, split.Test)
	trainTexts, trainLabels := models.Texts(train), models.Labels(train)
	testTexts, testLabels := models.Texts(test), models.Labels(test)

	// 4. Fit on the training partition only
	pipeline, err := model.NewPipeline(t.pipelineOptions())
	if err != nil {
		return nil, fmt.Errorf("invalid pipeline options: %w", err)
	}

	fitted, err := pipeline.Fit(trainTexts, trainLabels)
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}

	t.log.Debug("Model fitted", "features", fitted.Features(), "iterations", fitted.Iterations())

	// 5. Evaluate
	report, err := evaluation.Evaluate(testLabels, fitted.PredictBatch(testTexts))
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	summary.Report = report

	fmt.Fprintln(t.out, "\n=== Classification report ===")
	fmt.Fprint(t.out, report.String())

	// 6. Persist
	if err := model.Save(t.cfg.Paths.Model, fitted); err != nil {
		return nil, fmt.Errorf("failed to save model: %w", err)
	}

	fmt.Fprintf(t.out, "✅ Model saved to: %s\n", t.cfg.Paths.Model)

	summary.Duration = time.Since(start)
	t.log.Debug("Run finished", "duration", summary.Duration)

	return summary, nil
}

func (t *Trainer) prepare(records models.Dataset, summary *Summary) ([]models.Example, error) {
	processor, err := normalizer.NewProcessor(normalizer.Options{
		Policy:       t.cfg.Labels.Unrecognized,
		MinClassSize: t.cfg.Labels.MinClassSize,
	})
	if err != nil {
		return nil, err
	}

	result, err := processor.Process(records)
	if result != nil {
		t.reportDistributions(result)
		summary.Before = result.Before
		summary.After = result.After
	}

	if err != nil {
		return nil, err
	}

	return result.Examples, nil
}

func (t *Trainer) reportDistributions(result *normalizer.Result) {
	if result.EmptyLabels > 0 {
		t.log.Info("Dropped records without a label", "records", result.EmptyLabels)
	}

	if len(result.Unrecognized) > 0 {
		t.log.Warn("Unrecognized labels", "policy", t.cfg.Labels.Unrecognized, "distribution", result.Unrecognized.String())
	}

	fmt.Fprintf(t.out, "Class distribution before filtering: %s\n", result.Before)
	fmt.Fprintf(t.out, "Class distribution after filtering: %s\n", result.After)
}

func (t *Trainer) pipelineOptions() model.Options {
	return model.Options{
		Vectorizer: textfeat.Options{
			MaxFeatures: t.cfg.Vectorizer.MaxFeatures,
			NgramMin:    t.cfg.Vectorizer.NgramMin,
			NgramMax:    t.cfg.Vectorizer.NgramMax,
		},
		Classifier: linear.Options{
			C:             t.cfg.Classifier.C,
			MaxIterations: t.cfg.Classifier.MaxIterations,
			Tolerance:     t.cfg.Classifier.Tolerance,
		},
	}
}

func pick(examples []models.Example, idx []int) []models.Example {
	out := make([]models.Example, len(idx))
	for i, j := range idx {
		out[i] = examples[j]
	}

	return out
}
