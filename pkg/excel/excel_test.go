package excel

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/schema"
)

func convert(t *testing.T, wb *Workbook) (model.Object, *diag.Logger) {
	t.Helper()
	d := diag.New()
	return Convert(wb, schema.Default(), d), d
}

func TestConvertGraph(t *testing.T) {
	wb := &Workbook{}
	wb.Add("main", []string{"id", "name", "scale"}, []string{"heart", "Heart", "2"})
	wb.Add("lyphs",
		[]string{"id", "name", "isTemplate", "layers", "topology", "thickness"},
		[]string{"t", "Wall", "yes", "l1, l2", "TUBE", "1-3"},
		[]string{"", "", "", "", "", ""},
		[]string{"a", "", "", "", "BAG", "2"},
	)
	wb.Add("chains",
		[]string{"id", "lyphs", "root", "numLevels"},
		[]string{"c", "a,b", "n0", "2"},
	)

	doc, d := convert(t, wb)
	assert.Equal(t, diag.StatusOK, d.Status(), d.Entries())
	assert.Equal(t, "heart", doc["id"])
	assert.Equal(t, "Heart", doc["name"])
	assert.Equal(t, float64(2), doc["scale"])

	lyphs := doc["lyphs"].([]any)
	require.Len(t, lyphs, 2)
	assert.Equal(t, model.Object{
		"id":         "t",
		"name":       "Wall",
		"isTemplate": true,
		"layers":     []any{"l1", "l2"},
		"topology":   "TUBE",
		"thickness":  model.Object{"min": float64(1), "max": float64(3)},
	}, lyphs[0])
	assert.Equal(t, model.Object{"min": float64(2), "max": float64(2)}, lyphs[1].(model.Object)["thickness"])

	chains := doc["chains"].([]any)
	assert.Equal(t, model.Object{
		"id":        "c",
		"lyphs":     []any{"a", "b"},
		"root":      "n0",
		"numLevels": float64(2),
	}, chains[0])
	assert.NotContains(t, doc, "class")
}

func TestConvertBorderColumns(t *testing.T) {
	wb := &Workbook{}
	wb.Add("lyphs",
		[]string{"id", "outer", "inner"},
		[]string{"h", "n1, n2", "n3"},
	)
	doc, _ := convert(t, wb)
	h := doc["lyphs"].([]any)[0].(model.Object)
	borders := model.Slice(model.Map(h, "border"), "borders")
	require.Len(t, borders, model.LyphBorderCount)
	assert.Equal(t, []any{"n3"}, borders[model.BorderInner].(model.Object)["hostedNodes"])
	assert.Equal(t, []any{"n1", "n2"}, borders[model.BorderOuter].(model.Object)["hostedNodes"])
	assert.Empty(t, borders[model.BorderRadial1])
}

func TestConvertAssign(t *testing.T) {
	wb := &Workbook{}
	wb.Add("groups",
		[]string{"id", "nodes", "assign"},
		[]string{"g", "a", `$.nodes[*]: {"color": "#f00"}; $.links[?(@.id=='l')] = {"hidden": true}`},
	)
	doc, d := convert(t, wb)
	assert.False(t, d.Has(diag.MsgInvalidCell))
	g := doc["groups"].([]any)[0].(model.Object)
	assert.Equal(t, []any{
		model.Object{"path": "$.nodes[*]", "value": map[string]any{"color": "#f00"}},
		model.Object{"path": "$.links[?(@.id=='l')]", "value": map[string]any{"hidden": true}},
	}, g["assign"])
}

func TestConvertProblems(t *testing.T) {
	wb := &Workbook{}
	wb.Add("localConventions", []string{"prefix"}, []string{"UBERON"})
	wb.Add("nodes",
		[]string{"id", "colour", "hidden", "layout"},
		[]string{"a", "red", "maybe", "{not json"},
		[]string{"b", "blue", "no", `{"x": 1}`},
	)
	doc, d := convert(t, wb)
	assert.True(t, d.Has(diag.MsgUnknownSheet))
	assert.Equal(t, 1, countMsg(d, diag.MsgUnknownColumn), "unknown columns are reported once")
	assert.True(t, d.Has(diag.MsgInvalidCell))
	assert.NotContains(t, doc, "localConventions")

	nodes := doc["nodes"].([]any)
	assert.Equal(t, model.Object{"id": "a"}, nodes[0])
	assert.Equal(t, model.Object{"id": "b", "hidden": false, "layout": map[string]any{"x": float64(1)}}, nodes[1])
}

func TestConvertScaffold(t *testing.T) {
	wb := &Workbook{}
	wb.Add("anchors", []string{"id"}, []string{"a1"})
	wb.Add("wires", []string{"id", "source", "target"}, []string{"w", "a1", "a2"})
	doc, _ := convert(t, wb)
	assert.Equal(t, model.ClassScaffold, doc["class"])
	assert.Len(t, doc["wires"], 1)
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name  string
		field schema.Field
		cell  string
		want  any
		ok    bool
	}{
		{"number", schema.Field{Type: "number"}, "2.5", 2.5, true},
		{"bad number", schema.Field{Type: "number"}, "two", nil, false},
		{"bool", schema.Field{Type: "boolean"}, "TRUE", true, true},
		{"numbers", schema.Field{Type: "array", ItemType: "number"}, "1, 2", []any{float64(1), float64(2)}, true},
		{"json array", schema.Field{Type: "array"}, `[{"x": 1}]`, []any{map[string]any{"x": float64(1)}}, true},
		{"strings", schema.Field{Type: "array"}, "a,,b", []any{"a", "b"}, true},
		{"single ref", schema.Field{Kind: schema.Relationship}, "n1", "n1", true},
		{"many refs", schema.Field{Kind: schema.Relationship, Many: true}, "n1,n2", []any{"n1", "n2"}, true},
		{"untyped", schema.Field{}, "x", "x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Coerce(&tt.field, tt.cell)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		cell string
		want model.Object
	}{
		{"1-3", model.Object{"min": float64(1), "max": float64(3)}},
		{" 4 ", model.Object{"min": float64(4), "max": float64(4)}},
		{"3-1", nil},
		{"a-b", nil},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, ok := parseRange(strings.TrimSpace(tt.cell))
			assert.Equal(t, tt.want != nil, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCSVDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("nodes.csv", "id,name\nn1,\"First, node\"\nn2\n")
	write("main.csv", "id\nm\n")
	write("notes.txt", "ignored")

	wb, err := ReadCSVDir(dir)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 2)
	assert.Equal(t, "main", wb.Sheets[0].Name)

	nodes, ok := wb.Sheet("nodes")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name"}, nodes.Header())
	assert.Equal(t, [][]string{{"n1", "First, node"}, {"n2"}}, nodes.Records())

	doc, _ := convert(t, wb)
	assert.Equal(t, "m", doc["id"])
	assert.Equal(t, []any{
		model.Object{"id": "n1", "name": "First, node"},
		model.Object{"id": "n2"},
	}, doc["nodes"])

	_, err = ReadCSVDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

// writeXLSX saves a workbook whose sheets are filled from rows, in order.
func writeXLSX(t *testing.T, path string, sheets []string, rows map[string][][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, name := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range rows[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heart.xlsx")
	writeXLSX(t, path, []string{"main", "lyphs", "chains"}, map[string][][]any{
		"main":   {{"id", "name"}, {"heart", "Heart"}},
		"lyphs":  {{"id", "isTemplate", "thickness"}, {"atrium", "yes", 2}, {"ventricle"}},
		"chains": {{"id", "lyphs"}, {"flow", "atrium,ventricle"}},
	})

	wb, err := ReadXLSX(path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 3)
	assert.Equal(t, "main", wb.Sheets[0].Name)
	assert.Equal(t, "chains", wb.Sheets[2].Name)

	lyphs, ok := wb.Sheet("lyphs")
	require.True(t, ok)
	assert.Equal(t, [][]string{{"atrium", "yes", "2"}, {"ventricle"}}, lyphs.Records())

	doc, d := convert(t, wb)
	assert.Equal(t, diag.StatusOK, d.Status(), d.Entries())
	assert.Equal(t, "Heart", doc["name"])
	assert.Equal(t, model.Object{
		"id":         "atrium",
		"isTemplate": true,
		"thickness":  model.Object{"min": float64(2), "max": float64(2)},
	}, doc["lyphs"].([]any)[0])
	assert.Equal(t, []any{"atrium", "ventricle"}, doc["chains"].([]any)[0].(model.Object)["lyphs"])

	_, err = ReadXLSX(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("id,name\n"), 0o644))
	_, err = ReadXLSX(bad)
	assert.Error(t, err)
}

func TestReadJSONSheets(t *testing.T) {
	input := `{
		"nodes": [{"id": "n1", "hidden": true}, {"id": "n2", "name": "Two"}],
		"links": [["id", "source", "length"], ["l", "n1", 7]]
	}`
	wb, err := ReadJSONSheets(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 2)

	nodes, _ := wb.Sheet("nodes")
	assert.Equal(t, [][]string{{"hidden", "id", "name"}, {"true", "n1", ""}, {"", "n2", "Two"}}, nodes.Rows)
	links, _ := wb.Sheet("links")
	assert.Equal(t, []string{"l", "n1", "7"}, links.Records()[0])

	_, err = ReadJSONSheets(strings.NewReader(`{"nodes": [1]}`))
	assert.Error(t, err)
}

func countMsg(d *diag.Logger, msg string) int {
	n := 0
	for _, e := range d.Entries() {
		if e.Message == msg {
			n++
		}
	}
	return n
}
