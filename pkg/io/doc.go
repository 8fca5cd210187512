// Package io reads lyph models from disk and writes assembled graphs back.
//
// # Formats
//
// Models are JSON documents whose top level is a graph or scaffold object.
// Three encodings are accepted, chosen by file extension (see [FormatOf]):
//
//   - .json: plain JSON
//   - .jsonc: JSON with comments and trailing commas, as written by hand
//   - .yaml, .yml: YAML with the same structure as the JSON form
//
// Every encoding is converted to JSON bytes first and decoded once, so
// numbers and nesting behave the same whichever encoding was used.
//
// # Import
//
// Use [ImportModel] to read a model from a file path, or [ReadModel] to read
// from any io.Reader:
//
//	doc, err := io.ImportModel("heart.jsonc")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Decoding errors carry [errors.ErrCodeInvalidFormat]; a missing file carries
// [errors.ErrCodeFileNotFound].
//
// # Export
//
// Use [Export] to write a value to a file in the format named by its
// extension, or [WriteJSON] and [WriteYAML] to write to any io.Writer. JSON
// output is indented with two spaces. JSONC output is plain JSON.
//
// [errors.ErrCodeInvalidFormat]: github.com/matzehuels/lyphgraph/pkg/errors.ErrCodeInvalidFormat
// [errors.ErrCodeFileNotFound]: github.com/matzehuels/lyphgraph/pkg/errors.ErrCodeFileNotFound
package io
