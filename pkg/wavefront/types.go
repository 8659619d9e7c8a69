// Package wavefront provides line-oriented parsers for the Wavefront OBJ/MTL
// subset emitted by the track authoring tools.
package wavefront

import (
	"slices"

	"github.com/Faultbox/trackmaker/pkg/math"
)

// Vertex is a geometric vertex ("v"). Index is the 1-based position in the
// file-wide vertex stream.
type Vertex struct {
	Index   int
	X, Y, Z float32
}

// Vec3 returns the vertex position.
func (v Vertex) Vec3() math.Vec3 {
	return math.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// Normal is a vertex normal ("vn").
type Normal struct {
	Index   int
	X, Y, Z float32
}

// Vec3 returns the normal direction.
func (n Normal) Vec3() math.Vec3 {
	return math.Vec3{X: n.X, Y: n.Y, Z: n.Z}
}

// TexCoord is a texture coordinate ("vt").
type TexCoord struct {
	Index int
	U, V  float32
}

// Vec2 returns the coordinate pair.
func (t TexCoord) Vec2() math.Vec2 {
	return math.Vec2{X: t.U, Y: t.V}
}

// Face is a polygon ("f"). Index slices hold 1-based indices into the
// file-wide streams, one entry per corner. NormalIndices and TexCoordIndices
// are nil when the source omitted them, otherwise they have the same length as
// VertexIndices.
type Face struct {
	VertexIndices   []int
	TexCoordIndices []int
	NormalIndices   []int
	Material        *string // Active usemtl, nil if none was declared yet
	Object          string  // Active o/g name, empty if none was declared yet
}

// HasMaterial reports whether the face was declared under the named material.
func (f Face) HasMaterial(name string) bool {
	return f.Material != nil && *f.Material == name
}

// Clone returns a copy of f that shares no memory with it.
func (f Face) Clone() Face {
	c := f
	c.VertexIndices = slices.Clone(f.VertexIndices)
	c.TexCoordIndices = slices.Clone(f.TexCoordIndices)
	c.NormalIndices = slices.Clone(f.NormalIndices)
	if f.Material != nil {
		name := *f.Material
		c.Material = &name
	}
	return c
}

// OBJ is a parsed geometry document.
type OBJ struct {
	Vertices  []Vertex
	Normals   []Normal
	TexCoords []TexCoord
	Faces     []Face
	MtlLib    string      // Last mtllib name, empty if none
	Objects   []string    // Distinct o/g names in first-seen order
	Bounds    math.Bounds // Extent of all vertices, zero when there are none
}

// Positions returns the vertex positions in stream order.
func (o *OBJ) Positions() []math.Vec3 {
	out := make([]math.Vec3, len(o.Vertices))
	for i, v := range o.Vertices {
		out[i] = v.Vec3()
	}
	return out
}

// FacesWhere returns copies of the faces matching keep, preserving order.
func (o *OBJ) FacesWhere(keep func(Face) bool) []Face {
	var out []Face
	for _, f := range o.Faces {
		if keep(f) {
			out = append(out, f.Clone())
		}
	}
	return out
}

// Material is one MTL entry. DiffuseTexture is the raw map_Kd reference,
// empty when the material has none.
type Material struct {
	Name           string
	DiffuseTexture string
}

// MTL is a parsed material document. Names are unique.
type MTL struct {
	Materials []Material
}

// Lookup returns the material with the given name.
func (m *MTL) Lookup(name string) (Material, bool) {
	for _, mat := range m.Materials {
		if mat.Name == name {
			return mat, true
		}
	}
	return Material{}, false
}
