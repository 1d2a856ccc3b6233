package trainer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"desinfo/internal/config"
	"desinfo/internal/logger"
	"desinfo/internal/model"
	"desinfo/internal/normalizer"
)

type row struct {
	Fuente   string  `json:"fuente"`
	Titulo   string  `json:"titulo"`
	Cuerpo   string  `json:"cuerpo"`
	Etiqueta *string `json:"etiqueta"`
}

func label(s string) *string { return &s }

func writeDataset(t *testing.T, dir string, rows []row) {
	t.Helper()

	data, err := json.Marshal(rows)
	require.NoError(t, err)

	path := filepath.Join(dir, config.DefaultDatasetPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func mixedRows() []row {
	return []row{
		{"El Comercio", "Gobierno aprueba presupuesto", "El congreso votó el presupuesto anual", label("verdadera")},
		{"El Universo", "Ministerio publica cifras", "Informe oficial de empleo", label("Real")},
		{"Primicias", "Banco central informa", "Tasas se mantienen estables", label("TRUE")},
		{"Expreso", "Alcaldía inaugura puente", "Obra terminada en plazo", label(" verdadera ")},
		{"El Comercio", "Elecciones convocadas", "Consejo electoral fija fecha", label("real")},
		{"Primicias", "Vacunación avanza", "Cobertura supera el objetivo", label("true")},
		{"Blog", "Milagro cura todo", "Una planta elimina cualquier enfermedad", label("falsa")},
		{"Foro", "Aliens en el gobierno", "Documentos secretos revelan invasión", label("Noticia Falsa")},
		{"Cadena", "Vacuna con chip", "Las vacunas contienen rastreadores", label("false")},
		{"Red social", "Terremoto anunciado", "Un vidente predijo la fecha exacta", label("FALSA")},
		{"Anónimo", "Sin etiqueta", "Este registro se descarta", label("")},
	}
}

func newTestTrainer(dir string) (*Trainer, *bytes.Buffer) {
	var out bytes.Buffer
	return New(config.Default(dir), logger.Discard(), &out), &out
}

func TestRun_TrainsAndPersists(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, mixedRows())

	tr, out := newTestTrainer(dir)

	summary, err := tr.Run()
	require.NoError(t, err)

	assert.Equal(t, 11, summary.Records)
	assert.Equal(t, 6, summary.After["verdadera"])
	assert.Equal(t, 4, summary.After["falsa"])
	assert.Equal(t, 8, summary.TrainSize)
	assert.Equal(t, 2, summary.TestSize)
	assert.Equal(t, 2, summary.Report.Total)

	modelPath := filepath.Join(dir, config.DefaultModelPath)
	assert.Equal(t, modelPath, summary.ModelPath)
	assert.FileExists(t, modelPath)

	assert.Contains(t, out.String(), "accuracy")
	assert.Contains(t, out.String(), "Model saved to: "+modelPath)

	loaded, _, err := model.Load(modelPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"falsa", "verdadera"}, loaded.Classes())

	for _, got := range loaded.PredictBatch([]string{"Gobierno informa cifras Fuente: El Comercio", "texto nuevo"}) {
		assert.Contains(t, []string{"verdadera", "falsa"}, got)
	}
}

func TestRun_Deterministic(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, mixedRows())

	first, _ := newTestTrainer(dir)
	a, err := first.Run()
	require.NoError(t, err)

	second, _ := newTestTrainer(dir)
	b, err := second.Run()
	require.NoError(t, err)

	assert.Equal(t, a.Report, b.Report)
}

func TestRun_SingleClassFails(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, []row{
		{"A", "uno", "texto", label("verdadera")},
		{"B", "dos", "texto", label("real")},
		{"C", "tres", "texto", label("true")},
		{"D", "cuatro", "texto", label("falsa")},
	})

	tr, out := newTestTrainer(dir)

	_, err := tr.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, normalizer.ErrInsufficientClasses)

	var classErr *normalizer.InsufficientClassesError
	require.ErrorAs(t, err, &classErr)
	assert.Equal(t, 1, classErr.Before["falsa"])
	assert.NotContains(t, classErr.After, "falsa")

	assert.NoFileExists(t, filepath.Join(dir, config.DefaultModelPath))
	assert.Contains(t, out.String(), `Class distribution before filtering: {"falsa": 1, "verdadera": 3}`)
	assert.Contains(t, out.String(), `Class distribution after filtering: {"verdadera": 3}`)
	assert.NotContains(t, out.String(), "Model saved")
}

func TestRun_MissingDataset(t *testing.T) {
	tr, _ := newTestTrainer(t.TempDir())

	_, err := tr.Run()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_ProgressSurvivesQuietLogging(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, mixedRows())

	cfg := config.Default(dir)
	cfg.Logging.Level = "warn"

	var logs, out bytes.Buffer
	tr := New(cfg, logger.New(cfg.Logging.Level, &logs), &out)

	_, err := tr.Run()
	require.NoError(t, err)

	assert.Contains(t, out.String(), `Class distribution before filtering: {"falsa": 4, "verdadera": 6}`)
	assert.Contains(t, out.String(), `Class distribution after filtering: {"falsa": 4, "verdadera": 6}`)
	assert.Contains(t, out.String(), "Train size: 8, test size: 2")
	assert.NotContains(t, logs.String(), "Dataset loaded")
}
