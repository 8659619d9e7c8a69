package formats

import (
	"errors"
	"fmt"

	"github.com/Faultbox/trackmaker/pkg/diag"
	"github.com/Faultbox/trackmaker/pkg/math"
	"github.com/Faultbox/trackmaker/pkg/wavefront"
)

// CollisionKind is the gameplay surface type of a collision mesh.
type CollisionKind int

const (
	CollisionRoad CollisionKind = iota
	CollisionWall
	CollisionOffRoad
	CollisionWayOffRoad
	CollisionOutOfBounds
	CollisionBoost
	CollisionRamp
	CollisionEngageGlider
	CollisionSideRamp
	CollisionCannon
	CollisionWater
	CollisionLava
	CollisionSpinOut
	CollisionKnockOut
)

// Group names, indexed by kind. Matching is exact and case-sensitive.
var collisionGroupNames = [...]string{
	CollisionRoad:         "ROAD",
	CollisionWall:         "WALL",
	CollisionOffRoad:      "OFFROAD",
	CollisionWayOffRoad:   "WAYOFFROAD",
	CollisionOutOfBounds:  "OUTOFBOUNDS",
	CollisionBoost:        "BOOST",
	CollisionRamp:         "RAMP",
	CollisionEngageGlider: "ENGAGEGLIDER",
	CollisionSideRamp:     "SIDERAMP",
	CollisionCannon:       "CANNON",
	CollisionWater:        "WATER",
	CollisionLava:         "LAVA",
	CollisionSpinOut:      "SPINOUT",
	CollisionKnockOut:     "KNOCKOUT",
}

var collisionKindByName = func() map[string]CollisionKind {
	m := make(map[string]CollisionKind, len(collisionGroupNames))
	for kind, name := range collisionGroupNames {
		m[name] = CollisionKind(kind)
	}
	return m
}()

// String returns the group name the kind is declared with.
func (k CollisionKind) String() string {
	if k < 0 || int(k) >= len(collisionGroupNames) {
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
	return collisionGroupNames[k]
}

// CollisionKindFromName maps a group name to its kind.
func CollisionKindFromName(name string) (CollisionKind, bool) {
	kind, ok := collisionKindByName[name]
	return kind, ok
}

// CollisionKinds returns every kind in declaration order.
func CollisionKinds() []CollisionKind {
	kinds := make([]CollisionKind, len(collisionGroupNames))
	for i := range kinds {
		kinds[i] = CollisionKind(i)
	}
	return kinds
}

// CollisionMesh is the geometry of one classified collision group. Vertices
// is a private copy of the collision file's full vertex stream; Faces index
// into it with 1-based indices.
type CollisionMesh struct {
	Kind     CollisionKind
	Group    string
	Vertices []math.Vec3
	Faces    []wavefront.Face
}

// LoadCollision reads and classifies a collision companion file. A missing
// file is not an error and yields no meshes.
func LoadCollision(path string, sink diag.Sink) ([]CollisionMesh, error) {
	doc, err := wavefront.LoadOBJ(path, sink)
	if err != nil {
		if errors.Is(err, wavefront.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return ClassifyCollision(doc, path, sink), nil
}

// ClassifyCollision builds one collision mesh per object/group whose name is
// in the collision table, in first-seen order. Other groups are dropped and
// reported as UnmappedGroup.
func ClassifyCollision(doc *wavefront.OBJ, source string, sink diag.Sink) []CollisionMesh {
	sink = diag.OrDiscard(sink)
	positions := doc.Positions()

	var meshes []CollisionMesh
	for _, group := range doc.Objects {
		kind, ok := CollisionKindFromName(group)
		if !ok {
			sink.Report(diag.Event{
				Kind:   diag.UnmappedGroup,
				Source: source,
				Detail: fmt.Sprintf("group %q has no collision kind", group),
			})
			continue
		}

		verts := make([]math.Vec3, len(positions))
		copy(verts, positions)

		meshes = append(meshes, CollisionMesh{
			Kind:     kind,
			Group:    group,
			Vertices: verts,
			Faces:    doc.FacesWhere(func(f wavefront.Face) bool { return f.Object == group }),
		})
	}
	return meshes
}
