package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/lyphgraph/pkg/assemble"
	"github.com/matzehuels/lyphgraph/pkg/cache"
	"github.com/matzehuels/lyphgraph/pkg/diag"
)

const heart = `{
	"id": "heart",
	"lyphs": [{"id": "atrium"}, {"id": "ventricle"}],
	"chains": [{"id": "flow", "lyphs": ["atrium", "ventricle"]}]
}`

// setup isolates config and cache directories and returns a work dir with
// heart.json in it.
func setup(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LYPHGRAPH_CONFIG", "")
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "heart.json"), []byte(heart), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("%s: %v", path, err)
	}
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"assemble", "validate", "convert", "export", "inspect", "serve", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestAssembleCommand(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "heart.json")

	if err := execute(t, "assemble", input); err != nil {
		t.Fatal(err)
	}
	var graph map[string]any
	readJSON(t, filepath.Join(dir, "heart.graph.json"), &graph)
	if graph["id"] != "heart" {
		t.Errorf("id = %v", graph["id"])
	}
	if _, ok := graph["logger"]; !ok {
		t.Error("assembled graph has no logger report")
	}

	out := filepath.Join(dir, "entities.json")
	if err := execute(t, "assemble", input, "-f", "entities", "-o", out, "--no-cache"); err != nil {
		t.Fatal(err)
	}
	var entities []map[string]any
	readJSON(t, out, &entities)
	if len(entities) == 0 {
		t.Error("no entities written")
	}

	if err := execute(t, "assemble", input, "-f", "svg"); err == nil {
		t.Error("assemble should reject svg")
	}
	if err := execute(t, "assemble", filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing model")
	}
}

func TestAssembleUsesCache(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "heart.json")
	if err := execute(t, "assemble", input); err != nil {
		t.Fatal(err)
	}

	cacheHome := os.Getenv("XDG_CACHE_HOME")
	ch, err := cache.NewFileCache(filepath.Join(cacheHome, appName))
	if err != nil {
		t.Fatal(err)
	}
	entries, _, err := ch.(*cache.FileCache).Usage()
	if err != nil {
		t.Fatal(err)
	}
	if entries != 1 {
		t.Errorf("cache entries = %d, want 1", entries)
	}

	if err := execute(t, "cache", "info"); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if entries, _, _ = ch.(*cache.FileCache).Usage(); entries != 0 {
		t.Errorf("cache entries after clear = %d", entries)
	}
}

func TestExportCommand(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "heart.json")

	if err := execute(t, "export", input, "-f", "dot", "--detailed"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "heart.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph G {") {
		t.Errorf("dot = %q", data)
	}

	if err := execute(t, "export", input, "-f", "json"); err == nil {
		t.Error("export should reject json")
	}
}

func TestValidateCommand(t *testing.T) {
	dir := setup(t)
	if err := execute(t, "validate", filepath.Join(dir, "heart.json"), "--assemble"); err != nil {
		t.Errorf("valid model: %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"id": "bad", "lyphs": "nope"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "validate", bad); err == nil {
		t.Error("expected schema violations")
	}
}

func TestConvertCommand(t *testing.T) {
	dir := setup(t)
	sheets := filepath.Join(dir, "sheets")
	if err := os.Mkdir(sheets, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"main.csv":   "id,name\nheart,Heart\n",
		"lyphs.csv":  "id,name\natrium,Atrium\nventricle,Ventricle\n",
		"chains.csv": "id,lyphs\nflow,\"atrium,ventricle\"\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(sheets, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := execute(t, "convert", sheets); err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	readJSON(t, sheets+".json", &doc)
	if doc["name"] != "Heart" {
		t.Errorf("name = %v", doc["name"])
	}
	chains, _ := doc["chains"].([]any)
	if len(chains) != 1 {
		t.Fatalf("chains = %v", doc["chains"])
	}
	if lyphs := chains[0].(map[string]any)["lyphs"]; len(lyphs.([]any)) != 2 {
		t.Errorf("chain lyphs = %v", lyphs)
	}

	out := filepath.Join(dir, "heart.yaml")
	if err := execute(t, "convert", filepath.Join(dir, "heart.json"), "-o", out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "id: heart") {
		t.Errorf("yaml = %q", data)
	}

	wb := filepath.Join(dir, "book.json")
	if err := os.WriteFile(wb, []byte(`{"main": [["id"], ["book"]], "nodes": [{"id": "n1"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "convert", wb, "--sheets", "-o", filepath.Join(dir, "book.model.json")); err != nil {
		t.Fatal(err)
	}
	readJSON(t, filepath.Join(dir, "book.model.json"), &doc)
	if doc["id"] != "book" {
		t.Errorf("id = %v", doc["id"])
	}
}

func TestInspectPlain(t *testing.T) {
	dir := setup(t)
	if err := execute(t, "inspect", filepath.Join(dir, "heart.json"), "--plain"); err != nil {
		t.Fatal(err)
	}
}

func TestInspectModel(t *testing.T) {
	entries := []diag.Entry{
		{Level: diag.Info, Message: "one"},
		{Level: diag.Warn, Message: "two"},
		{Level: diag.Error, Message: "three"},
		{Level: diag.Warn, Message: "four"},
	}
	st := assemble.Stats{ByClass: map[string]int{"Lyph": 2, "Node": 3}, Status: diag.StatusError}
	var m tea.Model = NewInspectModel("heart", st, entries)

	key := func(s string) tea.KeyMsg {
		switch s {
		case "down":
			return tea.KeyMsg{Type: tea.KeyDown}
		case "tab":
			return tea.KeyMsg{Type: tea.KeyTab}
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}

	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("down"))
	if got := m.(InspectModel).Cursor; got != 2 {
		t.Errorf("cursor = %d, want 2", got)
	}
	m, _ = m.Update(key("G"))
	if got := m.(InspectModel).Cursor; got != 3 {
		t.Errorf("cursor after G = %d, want 3", got)
	}

	m, _ = m.Update(key("tab"))
	im := m.(InspectModel)
	if im.MinLevel != diag.Warn || im.Cursor != 0 {
		t.Errorf("after tab: level %v cursor %d", im.MinLevel, im.Cursor)
	}
	if n := len(im.Visible()); n != 3 {
		t.Errorf("visible = %d, want 3", n)
	}
	m, _ = m.Update(key("tab"))
	m, _ = m.Update(key("tab"))
	if lvl := m.(InspectModel).MinLevel; lvl != diag.Info {
		t.Errorf("level wraps to %v, want INFO", lvl)
	}

	view := m.View()
	for _, want := range []string{"heart", "2 Lyph", "3 Node", "three", "[1/4]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		input, suffix, want string
	}{
		{"models/heart.json", ".graph.json", "models/heart.graph.json"},
		{"heart.yaml", ".svg", "heart.svg"},
		{dir, ".json", dir + ".json"},
		{dir + string(filepath.Separator), ".json", dir + ".json"},
	}
	for _, tt := range tests {
		if got := defaultOutput(tt.input, tt.suffix); got != tt.want {
			t.Errorf("defaultOutput(%q, %q) = %q, want %q", tt.input, tt.suffix, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		t.Run(shell, func(t *testing.T) {
			root := New(io.Discard, LogInfo).RootCommand()
			var out strings.Builder
			root.SetArgs([]string{"completion", shell})
			root.SetOut(&out)
			root.SetErr(io.Discard)
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s script does not mention %s", shell, appName)
			}
		})
	}
	if err := execute(t, "completion", "powershell"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
