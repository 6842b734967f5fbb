// Package occlusion implements the Occlusion-Clip Builder of spec §4.4: it
// turns a top-most-first ordered snapshot of window rectangles into the
// region that should be installed as the overlay host window's clip.
package occlusion

import (
	"math"

	"github.com/1broseidon/borderd/internal/geometry"
)

// Thickness converts a configured float border thickness into the integer
// pixel count used for region arithmetic: ceil(thickness), floored at 1.
func Thickness(thickness float64) int {
	t := int(math.Ceil(thickness))
	if t < 1 {
		return 1
	}
	return t
}

// Bands returns the four border bands that surround r by t pixels on the
// outside, with the top/bottom bands extended horizontally by t so the
// corners are covered (spec §4.4 paragraph 2).
func Bands(r geometry.Rect, t int) []geometry.Rect {
	return []geometry.Rect{
		{L: r.L - t, T: r.T - t, R: r.R + t, B: r.T},       // top, corners included
		{L: r.L - t, T: r.B, R: r.R + t, B: r.B + t},       // bottom, corners included
		{L: r.L - t, T: r.T, R: r.L, B: r.B},               // left
		{L: r.R, T: r.T, R: r.R + t, B: r.B},                // right
	}
}

// Build runs the spec §4.4 accumulator loop over a top-most-first ordered
// list of window rectangles (already in overlay-local coordinates) and
// returns the region that should be installed as the host window's clip.
func Build(windows []geometry.Rect, thickness float64) geometry.Region {
	t := Thickness(thickness)

	var visible, covered geometry.Region
	for _, r := range windows {
		b := geometry.Region(Bands(r, t))
		visible = visible.UnionRegion(b.SubtractRegion(covered))
		covered = covered.Union(r.Inflate(t))
	}
	return visible
}
