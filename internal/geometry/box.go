package geometry

import "math"

// BoundingBox describes an axis-aligned rectangle by its center point and
// full width/height. Extents are half-width and half-height on each side.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the point (px, py) lies strictly inside b.
// Points exactly on an edge are outside.
func (b BoundingBox) Contains(px, py float64) bool {
	return math.Abs(px-b.X) < b.Width/2 && math.Abs(py-b.Y) < b.Height/2
}

// Overlaps reports whether the open interiors of b and o intersect.
// Boxes that share only an edge are adjacent, not overlapping.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	return math.Abs(b.X-o.X) < (b.Width+o.Width)/2 &&
		math.Abs(b.Y-o.Y) < (b.Height+o.Height)/2
}
