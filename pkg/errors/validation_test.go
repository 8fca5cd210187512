package errors

import (
	"testing"
)

func TestValidateModelID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "kidney", false},
		{"valid with dash", "wbkg-v2", false},
		{"valid with underscore", "my_model", false},
		{"valid with dot", "model.1", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"slash", "a/b", true},
		{"traversal", "..", true},
		{"control char", "foo\x01bar", true},
		{"leading dash", "-x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModelID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModelID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "sheets/lyphs.csv", false},
		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "a/../b", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStoreURI(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"mongodb://localhost:27017", false},
		{"mongodb+srv://cluster.example.net", false},
		{"redis://localhost:6379/0", false},
		{"", true},
		{"http://localhost", true},
	}

	for _, tt := range tests {
		err := ValidateStoreURI(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStoreURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
