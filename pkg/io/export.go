package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/turnout/pkg/dataset"
	"github.com/matzehuels/turnout/pkg/errors"
)

// WriteJSON encodes the joined table as an indented JSON array and writes it to w.
func WriteJSON(t *dataset.Table, w io.Writer) error {
	records := t.Records
	if records == nil {
		records = []dataset.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the joined table to a JSON file at path.
func ExportJSON(t *dataset.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "create %s", path)
	}
	if err := WriteJSON(t, f); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeWrite, err, "write %s", path)
	}
	return f.Close()
}

// MarshalTable returns the JSON encoding produced by [WriteJSON].
func MarshalTable(t *dataset.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
