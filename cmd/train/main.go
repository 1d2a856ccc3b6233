// Package main provides the train command, which fits the news veracity
// classifier from the dataset next to the program and saves the model.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"desinfo/internal/config"
	"desinfo/internal/logger"
	"desinfo/internal/trainer"
)

func main() {
	if err := newCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func newCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:           "train",
		Short:         "Train the news veracity classifier",
		Long:          "Loads data/dataset.json, trains a TF-IDF + logistic regression classifier, prints an evaluation report and writes ml/model.zst.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(programDir(), out)
		},
	}
}

func run(baseDir string, out io.Writer) error {
	cfg, err := config.Resolve(baseDir)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Logging.Level)
	log.Debug("Configuration resolved", "config", cfg.String())

	_, err = trainer.New(cfg, log, out).Run()

	return err
}

// programDir is the directory holding the executable. Binaries built into
// the temp dir by go run fall back to the working directory.
func programDir() string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	exe, err := os.Executable()
	if err != nil {
		return wd
	}

	return resolveProgramDir(exe, os.TempDir(), wd)
}

func resolveProgramDir(exe, tempDir, wd string) string {
	dir := realPath(filepath.Dir(exe))
	if within(dir, realPath(tempDir)) {
		return wd
	}

	return dir
}

// realPath resolves symlinks, keeping path unchanged when it cannot.
func realPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}

	return filepath.Clean(path)
}

func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
