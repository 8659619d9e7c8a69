// Package model assembles track models from a primary geometry file, its
// material library and the optional collision and attachment companions.
package model

import (
	"path/filepath"
	"strings"

	"github.com/Faultbox/trackmaker/internal/texture"
	"github.com/Faultbox/trackmaker/pkg/formats"
	"github.com/Faultbox/trackmaker/pkg/math"
	"github.com/Faultbox/trackmaker/pkg/wavefront"
)

// Mesh is one material's share of a geometry file. The vertex, normal and
// texcoord arrays are private copies of the full file-wide streams, so Faces
// keep their original 1-based indices. Faces are copies too.
type Mesh struct {
	Material    string
	TexturePath string         // Resolved diffuse map path, empty when the material has none
	Texture     texture.Handle // texture.NoTexture when untextured
	Vertices    []math.Vec3
	Normals     []math.Vec3
	TexCoords   []math.Vec2
	Faces       []wavefront.Face
	Bounds      math.Bounds
}

// Textured reports whether the mesh has a resolved texture.
func (m *Mesh) Textured() bool {
	return m.Texture != texture.NoTexture
}

// Model is a fully assembled track model. It is not modified after assembly.
type Model struct {
	Path        string
	Name        string
	MaterialLib string // Resolved mtllib path, empty when the geometry names none
	Meshes      []Mesh
	Collision   []formats.CollisionMesh
	Attachments []formats.Attachment
	Bounds      math.Bounds // Union of mesh bounds
}

// UsesColor reports whether the model renders with a flat color, which is
// the case when none of its meshes is textured.
func (m *Model) UsesColor() bool {
	for i := range m.Meshes {
		if m.Meshes[i].Textured() {
			return false
		}
	}
	return true
}

// Stats summarizes a model's contents.
type Stats struct {
	Meshes          int
	Faces           int
	Vertices        int // Size of the shared vertex stream
	Textured        int // Meshes with a texture
	CollisionMeshes int
	CollisionFaces  int
	Attachments     int
}

// Stats counts the model's meshes, faces and companions.
func (m *Model) Stats() Stats {
	s := Stats{
		Meshes:          len(m.Meshes),
		CollisionMeshes: len(m.Collision),
		Attachments:     len(m.Attachments),
	}
	for i := range m.Meshes {
		s.Faces += len(m.Meshes[i].Faces)
		if m.Meshes[i].Textured() {
			s.Textured++
		}
	}
	if len(m.Meshes) > 0 {
		s.Vertices = len(m.Meshes[0].Vertices)
	}
	for i := range m.Collision {
		s.CollisionFaces += len(m.Collision[i].Faces)
	}
	return s
}

// NameFromPath derives a display name from a model path: the file name
// without its extension, with underscores shown as spaces.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, "_", " ")
}
