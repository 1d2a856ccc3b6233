// Package textfeat converts text into TF-IDF weighted n-gram features.
package textfeat

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"desinfo/internal/sparse"
)

// Vectorizer errors.
var (
	ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain no usable tokens")
	ErrInvalidOptions  = errors.New("invalid vectorizer options")
	ErrCorruptState    = errors.New("vocabulary and idf lengths differ")
)

// Options configures the vectorizer.
type Options struct {
	MaxFeatures int
	NgramMin    int
	NgramMax    int
}

// Vectorizer learns a TF-IDF vocabulary from a corpus.
type Vectorizer struct {
	opts      Options
	tokenizer *Tokenizer
}

// NewVectorizer creates a vectorizer.
func NewVectorizer(opts Options) (*Vectorizer, error) {
	if opts.MaxFeatures < 1 || opts.NgramMin < 1 || opts.NgramMin > opts.NgramMax {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidOptions, opts)
	}

	return &Vectorizer{opts: opts, tokenizer: NewTokenizer()}, nil
}

// Fit learns the vocabulary and inverse document frequencies of texts.
// When the corpus has more distinct n-grams than MaxFeatures, the ones with
// the highest total term frequency are kept, ties broken by term.
func (v *Vectorizer) Fit(texts []string) (*TFIDF, error) {
	termFreq := make(map[string]int)
	docFreq := make(map[string]int)

	for _, text := range texts {
		seen := make(map[string]bool)

		for _, gram := range v.grams(text) {
			termFreq[gram]++
			if !seen[gram] {
				seen[gram] = true
				docFreq[gram]++
			}
		}
	}

	if len(termFreq) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(termFreq))
	for term := range termFreq {
		terms = append(terms, term)
	}

	if len(terms) > v.opts.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if termFreq[terms[i]] != termFreq[terms[j]] {
				return termFreq[terms[i]] > termFreq[terms[j]]
			}

			return terms[i] < terms[j]
		})
		terms = terms[:v.opts.MaxFeatures]
	}

	sort.Strings(terms)

	n := float64(len(texts))
	idf := make([]float64, len(terms))

	for i, term := range terms {
		// smoothed: as if one extra document contained every term
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	return newTFIDF(terms, idf, v.opts.NgramMin, v.opts.NgramMax), nil
}

func (v *Vectorizer) grams(text string) []string {
	return NGrams(v.tokenizer.Tokens(text), v.opts.NgramMin, v.opts.NgramMax)
}

// TFIDF is a fitted, read-only text transform.
type TFIDF struct {
	index     map[string]int
	terms     []string
	idf       []float64
	ngramMin  int
	ngramMax  int
	tokenizer *Tokenizer
}

func newTFIDF(terms []string, idf []float64, lo, hi int) *TFIDF {
	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}

	return &TFIDF{
		index:     index,
		terms:     terms,
		idf:       idf,
		ngramMin:  lo,
		ngramMax:  hi,
		tokenizer: NewTokenizer(),
	}
}

// Dim returns the number of features.
func (t *TFIDF) Dim() int {
	return len(t.terms)
}

// Terms returns the vocabulary in feature order.
func (t *TFIDF) Terms() []string {
	return append([]string(nil), t.terms...)
}

// IDF returns the inverse document frequency of term.
func (t *TFIDF) IDF(term string) (float64, bool) {
	i, ok := t.index[term]
	if !ok {
		return 0, false
	}

	return t.idf[i], true
}

// Transform returns the L2-normalized TF-IDF vector of text. Out of
// vocabulary n-grams are ignored.
func (t *TFIDF) Transform(text string) sparse.Vector {
	counts := make(map[int]float64)

	for _, gram := range NGrams(t.tokenizer.Tokens(text), t.ngramMin, t.ngramMax) {
		if i, ok := t.index[gram]; ok {
			counts[i]++
		}
	}

	for i := range counts {
		counts[i] *= t.idf[i]
	}

	vec := sparse.FromMap(counts)
	if norm := vec.Norm(); norm > 0 {
		vec.Scale(1 / norm)
	}

	return vec
}

// TransformAll transforms every text.
func (t *TFIDF) TransformAll(texts []string) []sparse.Vector {
	out := make([]sparse.Vector, len(texts))
	for i, text := range texts {
		out[i] = t.Transform(text)
	}

	return out
}

type tfidfState struct {
	Terms    []string  `json:"terms"`
	IDF      []float64 `json:"idf"`
	NgramMin int       `json:"ngram_min"`
	NgramMax int       `json:"ngram_max"`
}

// MarshalJSON encodes the learned vocabulary and weights.
func (t *TFIDF) MarshalJSON() ([]byte, error) {
	return json.Marshal(tfidfState{
		Terms:    t.terms,
		IDF:      t.idf,
		NgramMin: t.ngramMin,
		NgramMax: t.ngramMax,
	})
}

// UnmarshalJSON restores a transform written by MarshalJSON.
func (t *TFIDF) UnmarshalJSON(data []byte) error {
	var st tfidfState
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}

	if len(st.Terms) != len(st.IDF) {
		return ErrCorruptState
	}

	*t = *newTFIDF(st.Terms, st.IDF, st.NgramMin, st.NgramMax)

	return nil
}
