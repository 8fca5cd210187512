package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"sigs.k8s.io/yaml"

	"github.com/matzehuels/lyphgraph/pkg/errors"
	"github.com/matzehuels/lyphgraph/pkg/model"
)

// Format is an encoding of a model document.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatYAML  Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatJSONC, FormatYAML}

// ParseFormat returns the format with the given name. "yml" is accepted as
// an alias of yaml.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "jsonc":
		return FormatJSONC, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported format %q", name)
}

// FormatOf returns the format named by the extension of path. Paths without
// a known extension are read as JSON.
func FormatOf(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatJSON
}

// ToJSON converts data in format f to plain JSON bytes.
func ToJSON(data []byte, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return data, nil
	case FormatJSONC:
		return jsonc.ToJSON(data), nil
	case FormatYAML:
		out, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "convert yaml")
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
}

// Decode decodes a model document encoded in format f. The top level must be
// a JSON object.
func Decode(data []byte, f Format) (model.Object, error) {
	return decode(data, f, string(f)+" document")
}

func decode(data []byte, f Format, name string) (model.Object, error) {
	raw, err := ToJSON(data, f)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s is empty", name)
	}
	var doc model.Object
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", name)
	}
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s is not an object", name)
	}
	return doc, nil
}

// ReadModel decodes a model document in format f from r. ReadModel does not
// close r.
func ReadModel(r io.Reader, f Format) (model.Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read model")
	}
	return Decode(data, f)
}

// ImportModel reads the model file at path, choosing the format from its
// extension.
func ImportModel(path string) (model.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	return decode(data, FormatOf(path), path)
}
