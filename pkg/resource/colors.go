package resource

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/lyphgraph/pkg/model"
)

// colorSchemes lists sequential color ramps by their stops.
var colorSchemes = map[string][]colorful.Color{
	"reds":    stops("#fff5f0", "#fb6a4a", "#67000d"),
	"blues":   stops("#f7fbff", "#6baed6", "#08306b"),
	"greens":  stops("#f7fcf5", "#74c476", "#00441b"),
	"greys":   stops("#ffffff", "#969696", "#000000"),
	"oranges": stops("#fff5eb", "#fd8d3c", "#7f2704"),
	"purples": stops("#fcfbfd", "#9e9ac8", "#3f007d"),
	"viridis": stops("#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"),
	"warm":    stops("#6e40aa", "#bf3caf", "#fe4b83", "#ff7847", "#e2b72f", "#aff05b"),
	"cool":    stops("#6e40aa", "#4c6edb", "#23abd8", "#1ddfa3", "#52f667", "#aff05b"),
}

func stops(hex ...string) []colorful.Color {
	out := make([]colorful.Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

// schemeStops finds a scheme by name; "interpolateBlues" and "blues" are
// the same scheme.
func schemeStops(name string) ([]colorful.Color, bool) {
	key := strings.ToLower(strings.TrimPrefix(name, "interpolate"))
	s, ok := colorSchemes[key]
	return s, ok
}

// Ramp returns the color at t in [0, 1] along the stops.
func Ramp(t float64, stops []colorful.Color) colorful.Color {
	t = math.Max(0, math.Min(1, t))
	if len(stops) == 1 {
		return stops[0]
	}
	pos := t * float64(len(stops)-1)
	i := int(math.Floor(pos))
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	return stops[i].BlendRgb(stops[i+1], pos-float64(i)).Clamped()
}

// ColorRamp returns n hex colors sampled from a scheme. The color object
// names the scheme and may set length (number of samples the scheme is
// divided into), offset (start position) and reversed.
func ColorRamp(n int, color model.Object) ([]string, bool) {
	st, ok := schemeStops(model.String(color, "scheme"))
	if !ok {
		return nil, false
	}
	length, ok := model.Int(color, "length")
	if !ok || length < n {
		length = n
	}
	offset, _ := model.Float(color, "offset")
	out := make([]string, n)
	for i := range out {
		t := offset
		if length > 1 {
			t += float64(i) * (1 - offset) / float64(length-1)
		}
		if model.Bool(color, "reversed") {
			t = 1 - t
		}
		out[i] = Ramp(t, st).Hex()
	}
	return out, true
}

// DefaultPalette is used for shapes and links declared without a color.
var DefaultPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}
