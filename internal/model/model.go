package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"desinfo/internal/linear"
	"desinfo/internal/textfeat"
)

// ErrIncompleteModel is returned when a decoded model lacks a stage.
var ErrIncompleteModel = errors.New("model is missing a stage")

// Model is a fitted pipeline. It is immutable once built.
type Model struct {
	tfidf *textfeat.TFIDF
	clf   *linear.Model
}

// Predict returns the class of one text.
func (m *Model) Predict(text string) string {
	return m.clf.Predict(m.tfidf.Transform(text))
}

// PredictBatch returns one class per text.
func (m *Model) PredictBatch(texts []string) []string {
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = m.Predict(text)
	}

	return out
}

// Classes returns the class names in model order.
func (m *Model) Classes() []string {
	return append([]string(nil), m.clf.Classes...)
}

// Features returns the vocabulary size.
func (m *Model) Features() int {
	return m.tfidf.Dim()
}

// Iterations returns the optimizer iterations used per estimator.
func (m *Model) Iterations() []int {
	out := make([]int, len(m.clf.Estimators))
	for i, e := range m.clf.Estimators {
		out[i] = e.Iterations
	}

	return out
}

type modelState struct {
	Vectorizer *textfeat.TFIDF `json:"vectorizer"`
	Classifier *linear.Model   `json:"classifier"`
}

// MarshalJSON encodes both stages.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(modelState{Vectorizer: m.tfidf, Classifier: m.clf})
}

// UnmarshalJSON restores a model written by MarshalJSON.
func (m *Model) UnmarshalJSON(data []byte) error {
	var st modelState
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}

	if st.Vectorizer == nil || st.Classifier == nil {
		return ErrIncompleteModel
	}

	if err := st.Classifier.Validate(); err != nil {
		return err
	}

	if st.Classifier.Dim != st.Vectorizer.Dim() {
		return fmt.Errorf("%w: classifier expects %d features, vectorizer has %d",
			linear.ErrMalformedModel, st.Classifier.Dim, st.Vectorizer.Dim())
	}

	m.tfidf = st.Vectorizer
	m.clf = st.Classifier

	return nil
}
