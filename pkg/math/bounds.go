package math

import "github.com/chewxy/math32"

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min Vec3
	Max Vec3
}

// BoundsOf returns the bounds of the given points. An empty slice yields the
// zero box, never an inverted or infinite one.
func BoundsOf(points []Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}

	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Union returns the smallest box containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// UnionAll merges a list of boxes. An empty list yields the zero box.
func UnionAll(boxes []Bounds) Bounds {
	if len(boxes) == 0 {
		return Bounds{}
	}

	acc := Bounds{
		Min: Vec3{math32.Inf(1), math32.Inf(1), math32.Inf(1)},
		Max: Vec3{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)},
	}
	for _, b := range boxes {
		acc = acc.Union(b)
	}
	return acc
}

// Size returns the extent along each axis.
func (b Bounds) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}
