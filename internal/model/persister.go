package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"desinfo/pkg/metadata"
)

// FormatVersion identifies the artifact layout.
const FormatVersion = "1"

// ErrEmptyPath is returned when no artifact path is configured.
var ErrEmptyPath = errors.New("model path is empty")

type artifact struct {
	Metadata *metadata.Metadata `json:"metadata"`
	Payload  json.RawMessage    `json:"payload"`
}

// Save writes m as one zstd-compressed, checksummed file, creating parent
// directories and replacing any existing file.
func Save(path string, m *Model) error {
	if path == "" {
		return ErrEmptyPath
	}

	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	meta := metadata.Sign(payload, FormatVersion, map[string]string{
		"classes":  strings.Join(m.Classes(), ","),
		"features": fmt.Sprint(m.Features()),
	})

	data, err := json.Marshal(artifact{Metadata: meta, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}

	if err := compress(f, data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write model file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close model file: %w", err)
	}

	return nil
}

// Load reads an artifact written by Save and verifies its checksum.
func Load(path string) (*Model, *metadata.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open zstd stream: %w", err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decompress model file: %w", err)
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, nil, fmt.Errorf("failed to decode artifact: %w", err)
	}

	if err := metadata.Verify(art.Metadata, art.Payload, FormatVersion); err != nil {
		return nil, nil, fmt.Errorf("artifact verification failed: %w", err)
	}

	var m Model
	if err := json.Unmarshal(art.Payload, &m); err != nil {
		return nil, nil, fmt.Errorf("failed to decode model: %w", err)
	}

	return &m, art.Metadata, nil
}

func compress(w io.Writer, data []byte) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}

	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return err
	}

	return enc.Close()
}
