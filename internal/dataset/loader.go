// Package dataset reads the labeled news dataset from disk.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"desinfo/internal/models"
)

// Dataset field names.
const (
	FieldSource = "fuente"
	FieldTitle  = "titulo"
	FieldBody   = "cuerpo"
	FieldLabel  = "etiqueta"
)

// byteOrderMark is stripped from field names before use.
const byteOrderMark = "\ufeff"

// RequiredFields lists the fields every dataset must provide.
var RequiredFields = []string{FieldSource, FieldTitle, FieldBody, FieldLabel}

// ErrSchema matches every *SchemaError.
var ErrSchema = errors.New("dataset schema error")

// SchemaError reports a dataset that does not carry the expected fields.
type SchemaError struct {
	// Missing lists required fields absent from every record.
	Missing []string
	// Field and Index locate a value of the wrong shape.
	Field string
	Index int
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%v: missing required field(s) %s", ErrSchema, strings.Join(e.Missing, ", "))
	}

	return fmt.Sprintf("%v: field %q of record %d must be a scalar", ErrSchema, e.Field, e.Index)
}

// Is lets errors.Is match ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// Loader reads a dataset file.
type Loader struct {
	path string
}

// NewLoader creates a loader for the dataset at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the dataset location.
func (l *Loader) Path() string {
	return l.path
}

// Load reads and validates the dataset file.
func (l *Loader) Load() (models.Dataset, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a JSON array of records. A leading byte-order mark on the
// stream and U+FEFF inside field names are tolerated. Records are returned
// in input order.
func Decode(r io.Reader) (models.Dataset, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())

	var raw []map[string]json.RawMessage
	if err := json.NewDecoder(transform.NewReader(r, decoder)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	rows := make([]map[string]json.RawMessage, len(raw))
	seen := make(map[string]bool, len(RequiredFields))

	for i, obj := range raw {
		rows[i] = cleanFieldNames(obj)
		for name := range rows[i] {
			seen[name] = true
		}
	}

	var missing []string

	for _, name := range RequiredFields {
		if !seen[name] {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	records := make(models.Dataset, 0, len(rows))

	for i, row := range rows {
		rec, err := toRecord(row, i)
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, nil
}

// cleanFieldNames strips BOM artifacts from keys. A clean key wins over a
// BOM-prefixed duplicate.
func cleanFieldNames(obj map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(obj))

	for key, val := range obj {
		clean := strings.ReplaceAll(key, byteOrderMark, "")
		if _, taken := out[clean]; taken && clean != key {
			continue
		}

		out[clean] = val
	}

	return out
}

func toRecord(row map[string]json.RawMessage, index int) (models.Record, error) {
	var rec models.Record

	fields := []struct {
		name string
		dst  **string
	}{
		{FieldSource, &rec.Source},
		{FieldTitle, &rec.Title},
		{FieldBody, &rec.Body},
	}

	for _, f := range fields {
		val, ok, err := scalar(row[f.name])
		if err != nil {
			return rec, &SchemaError{Field: f.name, Index: index}
		}

		if ok {
			*f.dst = &val
		}
	}

	label, ok, err := scalar(row[FieldLabel])
	if err != nil {
		return rec, &SchemaError{Field: FieldLabel, Index: index}
	}

	rec.Label = label
	rec.HasLabel = ok

	return rec, nil
}

var errNotScalar = errors.New("value is not a scalar")

// scalar renders a JSON scalar as text. Null and absent values report ok=false.
func scalar(raw json.RawMessage) (string, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false, nil
	}

	switch raw[0] {
	case 'n':
		return "", false, nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false, err
		}

		return s, true, nil
	case '{', '[':
		return "", false, errNotScalar
	default:
		// numbers and booleans keep their literal spelling
		return string(raw), true, nil
	}
}
