// Package config provides configuration management for the training job.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"desinfo/internal/normalizer"
)

// Default locations, relative to the program's base directory.
const (
	DefaultDatasetPath = "data/dataset.json"
	DefaultModelPath   = "ml/model.zst"
	// FileName is the optional override file looked up next to the program.
	FileName = "train.yaml"
)

// Configuration validation errors.
var (
	ErrMissingDatasetPath    = errors.New("paths.dataset is required")
	ErrMissingModelPath      = errors.New("paths.model is required")
	ErrInvalidMinClassSize   = errors.New("labels.min_class_size must be at least 2")
	ErrInvalidPolicy         = errors.New("labels.unrecognized must be one of: passthrough, drop, fail")
	ErrInvalidTestSize       = errors.New("split.test_size must be between 0 and 1 (exclusive)")
	ErrInvalidMaxFeatures    = errors.New("vectorizer.max_features must be at least 1")
	ErrInvalidNgramRange     = errors.New("vectorizer.ngram_min must be >= 1 and <= ngram_max")
	ErrInvalidMaxIterations  = errors.New("classifier.max_iterations must be at least 1000")
	ErrInvalidRegularization = errors.New("classifier.c must be positive")
	ErrInvalidTolerance      = errors.New("classifier.tolerance must be positive")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete training job configuration.
type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Labels     LabelsConfig     `yaml:"labels"`
	Split      SplitConfig      `yaml:"split"`
	Vectorizer VectorizerConfig `yaml:"vectorizer"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// PathsConfig holds the dataset input and the model output locations.
type PathsConfig struct {
	Dataset string `yaml:"dataset"`
	Model   string `yaml:"model"`
}

// LabelsConfig controls label normalization and class filtering.
type LabelsConfig struct {
	Unrecognized normalizer.Policy `yaml:"unrecognized"`
	MinClassSize int               `yaml:"min_class_size"`
}

// SplitConfig controls the stratified train/test split.
type SplitConfig struct {
	TestSize float64 `yaml:"test_size"`
	Seed     uint64  `yaml:"seed"`
}

// VectorizerConfig controls the TF-IDF text vectorizer.
type VectorizerConfig struct {
	MaxFeatures int `yaml:"max_features"`
	NgramMin    int `yaml:"ngram_min"`
	NgramMax    int `yaml:"ngram_max"`
}

// ClassifierConfig controls the logistic regression fit.
type ClassifierConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	C             float64 `yaml:"c"`
	Tolerance     float64 `yaml:"tolerance"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the fixed job configuration with paths resolved against baseDir.
func Default(baseDir string) *Config {
	cfg := defaults()
	cfg.resolvePaths(baseDir)

	return cfg
}

func defaults() *Config {
	return &Config{
		Paths: PathsConfig{
			Dataset: DefaultDatasetPath,
			Model:   DefaultModelPath,
		},
		Labels: LabelsConfig{
			Unrecognized: normalizer.PolicyPassthrough,
			MinClassSize: normalizer.DefaultMinClassSize,
		},
		Split: SplitConfig{
			TestSize: 0.2,
			Seed:     42,
		},
		Vectorizer: VectorizerConfig{
			MaxFeatures: 5000,
			NgramMin:    1,
			NgramMax:    2,
		},
		Classifier: ClassifierConfig{
			MaxIterations: 1000,
			C:             1.0,
			Tolerance:     1e-4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads YAML overrides from path on top of Default(baseDir).
// Relative paths inside the file are resolved against baseDir.
func LoadConfig(path, baseDir string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.resolvePaths(baseDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Resolve returns the configuration for a program living in baseDir: the
// override file when one exists there, the defaults otherwise.
func Resolve(baseDir string) (*Config, error) {
	path := filepath.Join(baseDir, FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(baseDir), nil
	}

	return LoadConfig(path, baseDir)
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Paths.Dataset == "" {
		return ErrMissingDatasetPath
	}

	if c.Paths.Model == "" {
		return ErrMissingModelPath
	}

	// Stratification needs one example per class on each side of the split
	if c.Labels.MinClassSize < normalizer.DefaultMinClassSize {
		return ErrInvalidMinClassSize
	}

	if !c.Labels.Unrecognized.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, c.Labels.Unrecognized)
	}

	if c.Split.TestSize <= 0 || c.Split.TestSize >= 1 {
		return ErrInvalidTestSize
	}

	if c.Vectorizer.MaxFeatures < 1 {
		return ErrInvalidMaxFeatures
	}

	if c.Vectorizer.NgramMin < 1 || c.Vectorizer.NgramMin > c.Vectorizer.NgramMax {
		return ErrInvalidNgramRange
	}

	if c.Classifier.MaxIterations < 1000 {
		return ErrInvalidMaxIterations
	}

	if c.Classifier.C <= 0 {
		return ErrInvalidRegularization
	}

	if c.Classifier.Tolerance <= 0 {
		return ErrInvalidTolerance
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Dataset: %s, Model: %s, MinClassSize: %d, TestSize: %.2f, Seed: %d}",
		c.Paths.Dataset,
		c.Paths.Model,
		c.Labels.MinClassSize,
		c.Split.TestSize,
		c.Split.Seed,
	)
}

func (c *Config) resolvePaths(baseDir string) {
	c.Paths.Dataset = resolve(baseDir, c.Paths.Dataset)
	c.Paths.Model = resolve(baseDir, c.Paths.Model)
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(baseDir, path)
}
