package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/lyphgraph/pkg/resource"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds class, fully qualified id and conveying lyph to labels.
	Detailed bool
	// Hidden includes hidden vertices and invisible edges.
	Hidden bool
}

// ToDOT converts the vertices and edges of s to Graphviz DOT. Vertices are
// written in store order, followed by the edges.
func ToDOT(s *resource.Store, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	drawn := map[string]bool{}
	for _, r := range s.All() {
		if !isVertex(r) || (r.Bool("hidden") && !opts.Hidden) {
			continue
		}
		drawn[r.FullID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", r.FullID, strings.Join(vertexAttrs(r, opts), ", "))
	}

	buf.WriteString("\n")
	for _, r := range s.All() {
		if !r.Kind.IsEdge() {
			continue
		}
		visible := resource.IsVisible(r)
		if !visible && !opts.Hidden {
			continue
		}
		src, tgt := r.Ref("source"), r.Ref("target")
		if !drawn[src] || !drawn[tgt] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", src, tgt, strings.Join(edgeAttrs(s, r, visible, opts), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func isVertex(r *resource.Resource) bool {
	return r.Kind == resource.KindNode || r.Kind == resource.KindAnchor
}

func vertexAttrs(r *resource.Resource, opts Options) []string {
	label := r.Name()
	if opts.Detailed {
		label += "\n" + r.Class + "\n" + r.FullID
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if c := r.String("color"); c != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
	}
	if r.Bool("hidden") {
		attrs = append(attrs, `style="filled,dashed"`)
	}
	return attrs
}

func edgeAttrs(s *resource.Store, r *resource.Resource, visible bool, opts Options) []string {
	attrs := []string{fmt.Sprintf("id=%q", r.FullID)}
	if opts.Detailed {
		label := r.Name()
		if lyph := s.DerefOne(r, "conveyingLyph"); lyph != nil {
			label += "\n" + lyph.Name()
		}
		attrs = append(attrs, fmt.Sprintf("label=%q", label))
	}
	if c := r.String("color"); c != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", c))
	}
	if !visible {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}
