package diag

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
)

// Level is the severity of a diagnostic entry.
type Level int

const (
	Info Level = iota
	Warn
	Error
)

// String returns the wire name of the level.
func (l Level) String() string {
	switch l {
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name. Unknown names decode as [Info].
func (l *Level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "WARN":
		*l = Warn
	case "ERROR":
		*l = Error
	default:
		*l = Info
	}
	return nil
}

// Status summarizes a log by its worst entry.
type Status string

const (
	StatusOK      Status = "OK"
	StatusWarning Status = "WARNING"
	StatusError   Status = "ERROR"
)

// Entry is a single diagnostic.
type Entry struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Params  []any  `json:"params,omitempty"`
}

// String renders the entry on one line.
func (e Entry) String() string {
	if len(e.Params) == 0 {
		return fmt.Sprintf("%s %s", e.Level, e.Message)
	}
	return fmt.Sprintf("%s %s %v", e.Level, e.Message, e.Params)
}

// Logger is an ordered, non-throwing diagnostic sink.
//
// The zero value is ready to use. A Logger is not safe for concurrent use;
// one assembly owns one Logger.
type Logger struct {
	entries []Entry
	sink    *log.Logger
}

// Option configures a Logger.
type Option func(*Logger)

// WithSink mirrors every recorded entry to l.
func WithSink(l *log.Logger) Option {
	return func(d *Logger) { d.sink = l }
}

// New creates an empty Logger.
func New(opts ...Option) *Logger {
	d := &Logger{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Info records an informational entry.
func (d *Logger) Info(msg string, params ...any) { d.add(Info, msg, params) }

// Warn records a warning.
func (d *Logger) Warn(msg string, params ...any) { d.add(Warn, msg, params) }

// Error records an error. Errors do not stop assembly.
func (d *Logger) Error(msg string, params ...any) { d.add(Error, msg, params) }

func (d *Logger) add(level Level, msg string, params []any) {
	d.entries = append(d.entries, Entry{Level: level, Message: msg, Params: params})
	if d.sink == nil {
		return
	}
	kv := []any{}
	if len(params) > 0 {
		kv = append(kv, "params", params)
	}
	switch level {
	case Error:
		d.sink.Error(msg, kv...)
	case Warn:
		d.sink.Warn(msg, kv...)
	default:
		d.sink.Debug(msg, kv...)
	}
}

// Entries returns the recorded entries in insertion order.
func (d *Logger) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Filter returns the entries at exactly the given level.
func (d *Logger) Filter(level Level) []Entry {
	var out []Entry
	for _, e := range d.entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of entries at the given level.
func (d *Logger) Count(level Level) int {
	n := 0
	for _, e := range d.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Has reports whether an entry with the given message was recorded.
func (d *Logger) Has(msg string) bool {
	for _, e := range d.entries {
		if e.Message == msg {
			return true
		}
	}
	return false
}

// Status returns the worst level present.
func (d *Logger) Status() Status {
	status := StatusOK
	for _, e := range d.entries {
		switch e.Level {
		case Error:
			return StatusError
		case Warn:
			status = StatusWarning
		}
	}
	return status
}

// Report is the serialized form of a Logger.
type Report struct {
	Status  Status  `json:"status"`
	Entries []Entry `json:"entries"`
}

// Report snapshots the logger.
func (d *Logger) Report() Report {
	entries := d.Entries()
	if entries == nil {
		entries = []Entry{}
	}
	return Report{Status: d.Status(), Entries: entries}
}

// MarshalJSON encodes the logger as a [Report].
func (d *Logger) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Report())
}
