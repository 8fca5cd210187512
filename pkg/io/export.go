package io

import (
	"encoding/json"
	"io"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/matzehuels/lyphgraph/pkg/errors"
)

// WriteJSON encodes v as indented JSON and writes it to w.
func WriteJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return nil
}

// WriteYAML encodes v as YAML and writes it to w. Keys are emitted in the
// order of their JSON encoding.
func WriteYAML(v any, w io.Writer) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
	}
	if _, err := w.Write(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write yaml")
	}
	return nil
}

// Write encodes v in format f and writes it to w. JSONC is written as plain
// JSON.
func Write(v any, w io.Writer, f Format) error {
	switch f {
	case FormatJSON, FormatJSONC:
		return WriteJSON(v, w)
	case FormatYAML:
		return WriteYAML(v, w)
	}
	return errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
}

// Export writes v to the file at path in the format named by its extension.
func Export(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := Write(v, f, FormatOf(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
