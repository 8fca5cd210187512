package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestValidateGraph(t *testing.T) {
	v := DefaultValidator()

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"empty", `{}`, false},
		{"lyphs by object", `{"id": "g", "lyphs": [{"id": "a", "topology": "TUBE"}]}`, false},
		{"lyph by reference", `{"chains": [{"id": "c1", "lyphs": ["a", "b"]}]}`, false},
		{"bad topology", `{"lyphs": [{"id": "a", "topology": "CONE"}]}`, true},
		{"bad number", `{"chains": [{"id": "c1", "numLevels": "three"}]}`, true},
		{"negative levels", `{"chains": [{"id": "c1", "numLevels": -1}]}`, true},
		{"bad coalescence topology", `{"coalescences": [{"id": "c", "topology": "OVERLAP"}]}`, true},
		{"empty reference", `{"nodes": [""]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.ValidateGraph(decode(t, tt.doc))
			if tt.wantErr {
				assert.NotEmpty(t, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestValidateScaffold(t *testing.T) {
	v := DefaultValidator()
	assert.Empty(t, v.ValidateScaffold(decode(t, `{"id": "s", "anchors": [{"id": "a1", "layout": {"x": 1, "y": 2}}], "wires": [{"id": "w", "source": "a1"}]}`)))
	assert.NotEmpty(t, v.ValidateScaffold(decode(t, `{"anchors": [{"id": "a1", "layout": {"x": "left"}}]}`)))
}

func TestViolationPath(t *testing.T) {
	got := DefaultValidator().ValidateGraph(decode(t, `{"lyphs": [{"id": "a"}, {"id": "b", "isTemplate": "yes"}]}`))
	require.NotEmpty(t, got)
	found := false
	for _, v := range got {
		if v.Path == "/lyphs/1/isTemplate" {
			found = true
		}
	}
	assert.True(t, found, "violations: %v", got)
}
