// Package model composes the text vectorizer and the linear classifier into
// one fitted, persistable unit.
package model

import (
	"errors"
	"fmt"

	"desinfo/internal/linear"
	"desinfo/internal/textfeat"
)

// ErrNoTrainingData is returned when Fit receives no examples.
var ErrNoTrainingData = errors.New("no training data")

// Options configures both pipeline stages.
type Options struct {
	Vectorizer textfeat.Options
	Classifier linear.Options
}

// Pipeline fits a vectorizer and a classifier together.
type Pipeline struct {
	vectorizer *textfeat.Vectorizer
	classifier *linear.LogisticRegression
}

// NewPipeline creates an unfitted pipeline.
func NewPipeline(opts Options) (*Pipeline, error) {
	vectorizer, err := textfeat.NewVectorizer(opts.Vectorizer)
	if err != nil {
		return nil, err
	}

	classifier, err := linear.NewLogisticRegression(opts.Classifier)
	if err != nil {
		return nil, err
	}

	return &Pipeline{vectorizer: vectorizer, classifier: classifier}, nil
}

// Fit learns the vocabulary from texts, then the classifier weights from the
// transformed texts and their labels.
func (p *Pipeline) Fit(texts, labels []string) (*Model, error) {
	if len(texts) == 0 {
		return nil, ErrNoTrainingData
	}

	tfidf, err := p.vectorizer.Fit(texts)
	if err != nil {
		return nil, fmt.Errorf("vectorizer fit failed: %w", err)
	}

	clf, err := p.classifier.Fit(tfidf.TransformAll(texts), labels, tfidf.Dim())
	if err != nil {
		return nil, fmt.Errorf("classifier fit failed: %w", err)
	}

	return &Model{tfidf: tfidf, clf: clf}, nil
}
