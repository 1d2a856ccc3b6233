// Package metadata stamps serialized artifacts with a version, a timestamp
// and a content hash, and verifies them on the way back in.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// Metadata verification errors.
var (
	ErrNoMetadataBlock = errors.New("no metadata block found")
	ErrNoHashFound     = errors.New("no hash found in metadata")
	ErrHashMismatch    = errors.New("hash mismatch")
	ErrVersionMismatch = errors.New("unsupported artifact version")
)

// Metadata describes a signed payload.
type Metadata struct {
	LastModify time.Time `json:"last_modify"`
	Version    string    `json:"version"`
	Hash       string    `json:"hash"`
	// Labels carries free-form descriptive values, such as the class list.
	Labels map[string]string `json:"labels,omitempty"`
}

// CalculateHash computes the SHA-256 hash of the payload.
func CalculateHash(payload []byte) string {
	hash := sha256.Sum256(payload)

	return hex.EncodeToString(hash[:])
}

// Sign returns fresh metadata for payload.
func Sign(payload []byte, version string, labels map[string]string) *Metadata {
	return &Metadata{
		LastModify: time.Now().UTC().Truncate(time.Second),
		Version:    version,
		Hash:       CalculateHash(payload),
		Labels:     labels,
	}
}

// Verify checks that payload matches the hash and version in meta.
func Verify(meta *Metadata, payload []byte, version string) error {
	if meta == nil {
		return ErrNoMetadataBlock
	}

	if meta.Version != version {
		return fmt.Errorf("%w: got %q, want %q", ErrVersionMismatch, meta.Version, version)
	}

	if meta.Hash == "" {
		return ErrNoHashFound
	}

	calculated := CalculateHash(payload)
	if calculated != meta.Hash {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, calculated)
	}

	return nil
}
