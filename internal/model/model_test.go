package model

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"desinfo/internal/linear"
	"desinfo/internal/textfeat"
	"desinfo/pkg/metadata"
)

var (
	trainTexts = []string{
		"gobierno anuncia presupuesto aprobado Fuente: El Comercio",
		"ministerio publica informe oficial Fuente: El Universo",
		"congreso aprueba ley de presupuesto Fuente: Primicias",
		"milagro cura todo en una noche Fuente: Blog",
		"aliens controlan el gobierno secreto Fuente: Foro",
		"vacuna convierte en imán milagro Fuente: Cadena",
	}
	trainLabels = []string{"verdadera", "verdadera", "verdadera", "falsa", "falsa", "falsa"}
)

func testOptions() Options {
	return Options{
		Vectorizer: textfeat.Options{MaxFeatures: 5000, NgramMin: 1, NgramMax: 2},
		Classifier: linear.Options{C: 1, MaxIterations: 1000, Tolerance: 1e-4},
	}
}

func fitTestModel(t *testing.T) *Model {
	t.Helper()

	p, err := NewPipeline(testOptions())
	require.NoError(t, err)

	m, err := p.Fit(trainTexts, trainLabels)
	require.NoError(t, err)

	return m
}

func TestPipeline_FitPredict(t *testing.T) {
	m := fitTestModel(t)

	assert.Equal(t, []string{"falsa", "verdadera"}, m.Classes())
	assert.Positive(t, m.Features())
	assert.Equal(t, trainLabels, m.PredictBatch(trainTexts))

	for _, got := range m.PredictBatch([]string{"texto sin vocabulario", ""}) {
		assert.Contains(t, m.Classes(), got)
	}
}

func TestPipeline_NoData(t *testing.T) {
	p, err := NewPipeline(testOptions())
	require.NoError(t, err)

	_, err = p.Fit(nil, nil)
	assert.ErrorIs(t, err, ErrNoTrainingData)
}

func TestPipeline_SingleClass(t *testing.T) {
	p, err := NewPipeline(testOptions())
	require.NoError(t, err)

	_, err = p.Fit([]string{"uno dos", "tres cuatro"}, []string{"falsa", "falsa"})
	assert.ErrorIs(t, err, linear.ErrTooFewClasses)
}

func TestNewPipeline_InvalidOptions(t *testing.T) {
	opts := testOptions()
	opts.Vectorizer.MaxFeatures = 0

	_, err := NewPipeline(opts)
	assert.Error(t, err)
}

func TestModel_JSONRoundTrip(t *testing.T) {
	m := fitTestModel(t)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var restored Model
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, m.Classes(), restored.Classes())
	assert.Equal(t, m.PredictBatch(trainTexts), restored.PredictBatch(trainTexts))
}

func TestModel_UnmarshalIncomplete(t *testing.T) {
	var m Model
	err := json.Unmarshal([]byte(`{"vectorizer": null}`), &m)
	assert.ErrorIs(t, err, ErrIncompleteModel)
}

func TestPersister_SaveLoad(t *testing.T) {
	m := fitTestModel(t)
	path := filepath.Join(t.TempDir(), "ml", "model.zst")

	require.NoError(t, Save(path, m))
	assert.FileExists(t, path)

	loaded, meta, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, meta.Version)
	assert.Equal(t, "falsa,verdadera", meta.Labels["classes"])
	assert.Equal(t, m.PredictBatch(trainTexts), loaded.PredictBatch(trainTexts))
}

func TestPersister_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.zst")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, Save(path, fitTestModel(t)))

	_, _, err := Load(path)
	assert.NoError(t, err)
}

func TestPersister_RejectsTamperedPayload(t *testing.T) {
	m := fitTestModel(t)
	payload, err := json.Marshal(m)
	require.NoError(t, err)

	meta := metadata.Sign([]byte("something else"), FormatVersion, nil)
	data, err := json.Marshal(artifact{Metadata: meta, Payload: payload})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.zst")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write(data)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	_, _, err = Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrHashMismatch))
}

func TestPersister_EmptyPath(t *testing.T) {
	err := Save("", fitTestModel(t))
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestPersister_LoadMissing(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.zst"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
