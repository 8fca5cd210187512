package resource

import (
	"math"

	"github.com/matzehuels/lyphgraph/pkg/model"
)

// DefaultLinkLength is the length of links whose endpoints are not fixed.
const DefaultLinkLength = 5.0

// Point is a vertex layout.
type Point struct {
	X, Y, Z float64
}

// Layout returns the layout of a vertex, if set.
func (r *Resource) Layout() (Point, bool) {
	m, ok := r.props["layout"].(map[string]any)
	if !ok {
		return Point{}, false
	}
	x, okX := model.Float(m, "x")
	y, okY := model.Float(m, "y")
	z, _ := model.Float(m, "z")
	if !okX || !okY {
		return Point{}, false
	}
	return Point{X: x, Y: y, Z: z}, true
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Sqrt((a.X-b.X)*(a.X-b.X) + (a.Y-b.Y)*(a.Y-b.Y) + (a.Z-b.Z)*(a.Z-b.Z))
}

// EdgeLength derives the length of a link or wire: the distance between
// its endpoints when both are fixed, otherwise its declared length,
// otherwise def.
func (s *Store) EdgeLength(e *Resource, def float64) float64 {
	src, tgt := s.DerefOne(e, "source"), s.DerefOne(e, "target")
	if src != nil && tgt != nil && src.Bool("fixed") && tgt.Bool("fixed") {
		a, okA := src.Layout()
		b, okB := tgt.Layout()
		if okA && okB {
			return Distance(a, b)
		}
	}
	if l, ok := e.Float("length"); ok {
		return l
	}
	return def
}

// IsVisible reports whether an edge is drawn: it is neither hidden,
// invisible nor collapsible.
func IsVisible(e *Resource) bool {
	return !e.Bool("hidden") && e.String("geometry") != "invisible" && !e.Bool("collapsible")
}
