package excel

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/schema"
)

// Columns read differently from their schema type.
const (
	ColumnAssign    = "assign"
	ColumnLength    = "length"
	ColumnThickness = "thickness"
)

// Convert builds a model document from a workbook. The document is a graph
// unless the workbook only fills scaffold collections.
func Convert(wb *Workbook, reg *schema.Registry, d *diag.Logger) model.Object {
	if d == nil {
		d = diag.New()
	}
	c := &converter{reg: reg, diag: d}
	class := rootClass(wb)
	doc := model.Object{}
	for _, s := range wb.Sheets {
		name := strings.TrimSpace(s.Name)
		if name == SheetMain {
			if recs := s.Records(); len(recs) > 0 {
				for k, v := range c.row(s, class, recs[0]) {
					doc[k] = v
				}
			}
			continue
		}
		target := collectionClass(name)
		if target == "" || !reg.Has(target) {
			d.Warn(diag.MsgUnknownSheet, name)
			continue
		}
		items := make([]any, 0, len(s.Records()))
		for _, rec := range s.Records() {
			if obj := c.row(s, target, rec); len(obj) > 0 {
				items = append(items, obj)
			}
		}
		doc[name] = items
	}
	if class == model.ClassScaffold {
		doc["class"] = model.ClassScaffold
	}
	return doc
}

func rootClass(wb *Workbook) string {
	graph, scaffold := false, false
	for _, s := range wb.Sheets {
		for _, col := range model.GroupCollections {
			graph = graph || col.Key == s.Name
		}
		for _, col := range model.ComponentCollections {
			scaffold = scaffold || col.Key == s.Name
		}
	}
	if scaffold && !graph {
		return model.ClassScaffold
	}
	return model.ClassGraph
}

func collectionClass(key string) string {
	for _, cols := range [][]model.Collection{model.GroupCollections, model.ComponentCollections} {
		for _, col := range cols {
			if col.Key == key {
				return col.Class
			}
		}
	}
	return ""
}

type converter struct {
	reg  *schema.Registry
	diag *diag.Logger
	// columns already reported as unknown, by sheet
	reported map[string]bool
}

func (c *converter) row(s *Sheet, class string, rec []string) model.Object {
	cls, err := c.reg.Class(class)
	if err != nil {
		c.diag.Warn(diag.MsgUnknownClass, class)
		return nil
	}
	header := s.Header()
	obj := model.Object{}
	for j, raw := range rec {
		if j >= len(header) {
			break
		}
		key := strings.TrimSpace(header[j])
		cell := strings.TrimSpace(raw)
		if key == "" || cell == "" {
			continue
		}
		c.cell(s, cls, obj, key, cell)
	}
	return obj
}

func (c *converter) cell(s *Sheet, cls *schema.Class, obj model.Object, key, cell string) {
	if key == ColumnAssign {
		if v, ok := parseAssign(cell); ok {
			obj[key] = v
		} else {
			c.diag.Warn(diag.MsgInvalidCell, s.Name, key, cell)
		}
		return
	}
	if pos, ok := model.BorderNames[key]; ok && c.reg.IsA(cls.Name, model.ClassLyph) {
		setBorderNodes(obj, pos, list(cell))
		return
	}
	f, ok := cls.Field(key)
	if !ok {
		if c.reported == nil {
			c.reported = map[string]bool{}
		}
		if k := s.Name + "." + key; !c.reported[k] {
			c.reported[k] = true
			c.diag.Warn(diag.MsgUnknownColumn, s.Name, key)
		}
		return
	}
	if (key == ColumnLength || key == ColumnThickness) && f.Type == "" {
		if v, ok := parseRange(cell); ok {
			obj[key] = v
		} else {
			c.diag.Warn(diag.MsgInvalidCell, s.Name, key, cell)
		}
		return
	}
	v, ok := Coerce(f, cell)
	if !ok {
		c.diag.Warn(diag.MsgInvalidCell, s.Name, key, cell)
		return
	}
	obj[key] = v
}

// Coerce converts a cell to the type of field f.
func Coerce(f *schema.Field, cell string) (any, bool) {
	if f.IsRelationship() {
		if f.Many {
			return list(cell), true
		}
		return cell, true
	}
	switch f.Type {
	case "number", "integer":
		x, err := strconv.ParseFloat(cell, 64)
		return x, err == nil
	case "boolean":
		return parseBool(cell)
	case "array":
		return parseArray(cell, f.ItemType)
	case "object":
		var obj map[string]any
		if err := json.Unmarshal([]byte(cell), &obj); err != nil || obj == nil {
			return nil, false
		}
		return obj, true
	}
	return cell, true
}

func parseBool(cell string) (bool, bool) {
	switch strings.ToLower(cell) {
	case "true", "yes", "y", "1":
		return true, true
	case "false", "no", "n", "0":
		return false, true
	}
	return false, false
}

func parseArray(cell, itemType string) ([]any, bool) {
	if strings.HasPrefix(cell, "[") {
		var items []any
		if err := json.Unmarshal([]byte(cell), &items); err != nil {
			return nil, false
		}
		return items, true
	}
	items := list(cell)
	if itemType != "number" && itemType != "integer" {
		return items, true
	}
	for i, v := range items {
		x, err := strconv.ParseFloat(v.(string), 64)
		if err != nil {
			return nil, false
		}
		items[i] = x
	}
	return items, true
}

// list splits a comma separated cell, dropping empty entries.
func list(cell string) []any {
	out := []any{}
	for _, part := range strings.Split(cell, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseRange reads "min-max" or a single number.
func parseRange(cell string) (model.Object, bool) {
	lo, hi, found := strings.Cut(cell, "-")
	if !found {
		hi = lo
	}
	from, err1 := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	to, err2 := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err1 != nil || err2 != nil || from > to {
		return nil, false
	}
	return model.Object{"min": from, "max": to}, true
}

// parseAssign reads directives written as "path {json}" separated by
// semicolons outside of braces. A colon or equals sign may end the path.
func parseAssign(cell string) ([]any, bool) {
	var out []any
	for _, entry := range splitTop(cell, ';') {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		i := strings.IndexByte(entry, '{')
		if i <= 0 {
			return nil, false
		}
		path := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(entry[:i]), ":="))
		var value map[string]any
		if path == "" || json.Unmarshal([]byte(entry[i:]), &value) != nil {
			return nil, false
		}
		out = append(out, model.Object{"path": path, "value": value})
	}
	return out, len(out) > 0
}

// splitTop splits s at sep where sep is not nested in braces or brackets.
func splitTop(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// setBorderNodes lists nodes hosted by border segment pos of a lyph row.
func setBorderNodes(obj model.Object, pos int, nodes []any) {
	border := model.Map(obj, "border")
	if border == nil {
		border = model.Object{}
		obj["border"] = border
	}
	segments := model.Slice(border, "borders")
	for len(segments) < model.LyphBorderCount {
		segments = append(segments, model.Object{})
	}
	segments[pos].(model.Object)["hostedNodes"] = nodes
	border["borders"] = segments
}
