package diag

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name   string
		levels []Level
		want   Status
	}{
		{"empty", nil, StatusOK},
		{"info only", []Level{Info, Info}, StatusOK},
		{"warning", []Level{Info, Warn}, StatusWarning},
		{"error wins", []Level{Warn, Error, Info}, StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			for _, l := range tt.levels {
				d.add(l, "m", nil)
			}
			if got := d.Status(); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntriesOrder(t *testing.T) {
	d := New()
	d.Warn(MsgChainSkipped, "c1")
	d.Info("second")
	d.Error(MsgUnresolvedReference, "a", "b")

	entries := d.Entries()
	if len(entries) != 3 {
		t.Fatalf("len(Entries()) = %d, want 3", len(entries))
	}
	if entries[0].Message != MsgChainSkipped || entries[2].Level != Error {
		t.Errorf("unexpected entries: %v", entries)
	}
	if d.Count(Warn) != 1 || len(d.Filter(Error)) != 1 {
		t.Errorf("Count/Filter mismatch")
	}
	if !d.Has(MsgUnresolvedReference) || d.Has("missing") {
		t.Errorf("Has() mismatch")
	}

	entries[0].Message = "changed"
	if d.Entries()[0].Message != MsgChainSkipped {
		t.Error("Entries() must return a copy")
	}
}

func TestZeroValue(t *testing.T) {
	var d Logger
	d.Warn("w")
	if d.Status() != StatusWarning {
		t.Errorf("Status() = %v, want WARNING", d.Status())
	}
}

func TestMarshalJSON(t *testing.T) {
	d := New()
	d.Warn(MsgChainSkipped, "c1")

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatal(err)
	}
	if report.Status != StatusWarning {
		t.Errorf("Status = %v, want WARNING", report.Status)
	}
	if len(report.Entries) != 1 || report.Entries[0].Level != Warn {
		t.Errorf("Entries = %v", report.Entries)
	}
	if !strings.Contains(string(data), `"level":"WARN"`) {
		t.Errorf("level not encoded by name: %s", data)
	}
}

func TestEmptyReport(t *testing.T) {
	data, err := json.Marshal(New())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"status":"OK","entries":[]}` {
		t.Errorf("got %s", data)
	}
}

func TestWithSink(t *testing.T) {
	var buf bytes.Buffer
	sink := log.New(&buf)
	sink.SetLevel(log.DebugLevel)

	d := New(WithSink(sink))
	d.Warn(MsgVillusTooManyLayers, "v1")

	if !strings.Contains(buf.String(), MsgVillusTooManyLayers) {
		t.Errorf("sink output missing message: %q", buf.String())
	}
}
