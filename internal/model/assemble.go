package model

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/trackmaker/internal/config"
	"github.com/Faultbox/trackmaker/internal/logger"
	"github.com/Faultbox/trackmaker/internal/texture"
	"github.com/Faultbox/trackmaker/pkg/diag"
	"github.com/Faultbox/trackmaker/pkg/encoding"
	"github.com/Faultbox/trackmaker/pkg/formats"
	"github.com/Faultbox/trackmaker/pkg/math"
	"github.com/Faultbox/trackmaker/pkg/wavefront"
)

// Options configures an Assembler.
type Options struct {
	// Assets names the companion files. The zero value uses the defaults.
	Assets config.AssetsConfig
	// Textures resolves diffuse maps. Nil uses a stat-only texture cache.
	Textures texture.Loader
	// Sink receives non-fatal diagnostics. Nil discards them.
	Sink diag.Sink
	// Logger defaults to the "model" child of the global logger.
	Logger *zap.Logger
}

// Assembler turns a primary geometry path into a Model.
type Assembler struct {
	assets   config.AssetsConfig
	textures texture.Loader
	sink     diag.Sink
	log      *zap.Logger
}

// NewAssembler creates an assembler.
func NewAssembler(opts Options) *Assembler {
	if opts.Assets == (config.AssetsConfig{}) {
		opts.Assets = config.Default().Assets
	}
	if opts.Textures == nil {
		opts.Textures = texture.NewCache(false)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Named("model")
	}
	return &Assembler{
		assets:   opts.Assets,
		textures: opts.Textures,
		sink:     diag.OrDiscard(opts.Sink),
		log:      opts.Logger,
	}
}

// Assemble loads the geometry file at path together with its material
// library and companions. A missing primary file or material library fails
// with wavefront.ErrMissingFile; missing companions yield empty sections.
func (a *Assembler) Assemble(path string) (*Model, error) {
	doc, err := wavefront.LoadOBJ(path, a.sink)
	if err != nil {
		return nil, fmt.Errorf("loading geometry: %w", err)
	}

	dir := filepath.Dir(path)
	mtlPath := ""
	if doc.MtlLib != "" {
		mtlPath = resolveRef(dir, doc.MtlLib)
	}
	mtl, err := a.loadMaterials(mtlPath)
	if err != nil {
		return nil, fmt.Errorf("loading materials for %s: %w", path, err)
	}

	meshes := make([]Mesh, 0, len(mtl.Materials))
	for _, mat := range mtl.Materials {
		meshes = append(meshes, a.buildMesh(dir, doc, mat))
	}
	a.reportUnassigned(path, doc, mtl)

	collisionPath := formats.CompanionPath(path, a.assets.CollisionSuffix, a.assets.CollisionExt)
	collision, err := formats.LoadCollision(collisionPath, a.sink)
	if err != nil {
		return nil, fmt.Errorf("loading collision: %w", err)
	}

	attachmentPath := formats.CompanionPath(path, a.assets.AttachmentSuffix, a.assets.AttachmentExt)
	attachments, err := formats.LoadAttachments(attachmentPath, a.sink)
	if err != nil {
		return nil, fmt.Errorf("loading attachments: %w", err)
	}

	bounds := make([]math.Bounds, len(meshes))
	for i := range meshes {
		bounds[i] = meshes[i].Bounds
	}

	m := &Model{
		Path:        path,
		Name:        NameFromPath(path),
		MaterialLib: mtlPath,
		Meshes:      meshes,
		Collision:   collision,
		Attachments: attachments,
		Bounds:      math.UnionAll(bounds),
	}

	a.log.Debug("assembled model",
		zap.String("path", path),
		zap.String("name", m.Name),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("collision", len(m.Collision)),
		zap.Int("attachments", len(m.Attachments)))

	return m, nil
}

// loadMaterials reads the resolved material library. An empty path means the
// geometry declared no mtllib and has no materials.
func (a *Assembler) loadMaterials(path string) (*wavefront.MTL, error) {
	if path == "" {
		a.log.Debug("geometry declares no material library")
		return &wavefront.MTL{}, nil
	}
	return wavefront.LoadMTL(path, a.sink)
}

func (a *Assembler) buildMesh(dir string, doc *wavefront.OBJ, mat wavefront.Material) Mesh {
	mesh := Mesh{
		Material:  mat.Name,
		Texture:   texture.NoTexture,
		Vertices:  doc.Positions(),
		Normals:   make([]math.Vec3, len(doc.Normals)),
		TexCoords: make([]math.Vec2, len(doc.TexCoords)),
		Faces:     doc.FacesWhere(func(f wavefront.Face) bool { return f.HasMaterial(mat.Name) }),
	}
	for i, n := range doc.Normals {
		mesh.Normals[i] = n.Vec3()
	}
	for i, t := range doc.TexCoords {
		mesh.TexCoords[i] = t.Vec2()
	}
	mesh.Bounds = math.BoundsOf(mesh.Vertices)

	if mat.DiffuseTexture != "" {
		mesh.TexturePath = resolveRef(dir, mat.DiffuseTexture)
		h, err := a.textures.Resolve(mesh.TexturePath)
		if err != nil {
			a.sink.Report(diag.Event{
				Kind:   diag.UnresolvedTexture,
				Source: mesh.TexturePath,
				Detail: fmt.Sprintf("material %q renders untextured", mat.Name),
				Err:    err,
			})
		} else {
			mesh.Texture = h
		}
	}
	return mesh
}

// reportUnassigned reports, once per material tag, faces that no mesh owns.
func (a *Assembler) reportUnassigned(path string, doc *wavefront.OBJ, mtl *wavefront.MTL) {
	counts := make(map[string]int)
	var order []string
	for _, f := range doc.Faces {
		tag := ""
		if f.Material != nil {
			if _, ok := mtl.Lookup(*f.Material); ok {
				continue
			}
			tag = *f.Material
		}
		if _, seen := counts[tag]; !seen {
			order = append(order, tag)
		}
		counts[tag]++
	}

	for _, tag := range order {
		detail := fmt.Sprintf("%d faces use undeclared material %q", counts[tag], tag)
		if tag == "" {
			detail = fmt.Sprintf("%d faces have no material", counts[tag])
		}
		a.sink.Report(diag.Event{
			Kind:   diag.UnassignedFaces,
			Source: path,
			Detail: detail,
		})
	}
}

// resolveRef resolves a file reference against the geometry directory.
// Absolute references are used verbatim.
func resolveRef(dir, ref string) string {
	ref = encoding.NormalizePath(ref)
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(dir, ref)
}

// IsMissing reports whether err means a required input file does not exist.
func IsMissing(err error) bool {
	return errors.Is(err, wavefront.ErrMissingFile)
}
