package wavefront

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/trackmaker/pkg/diag"
	"github.com/Faultbox/trackmaker/pkg/math"
)

// LoadOBJ parses the OBJ file at path. A nonexistent file yields an error
// matching ErrMissingFile.
func LoadOBJ(path string, sink diag.Sink) (*OBJ, error) {
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseOBJ(f, ParseOptions{Source: path, Sink: sink})
}

// ParseOBJ parses OBJ text. Only v, vn, vt, f, o, g, usemtl and mtllib are
// interpreted; other directives are reported to the sink and skipped.
// On error no partial document is returned.
func ParseOBJ(r io.Reader, opts ParseOptions) (*OBJ, error) {
	p := &objParser{
		source: opts.source(),
		sink:   opts.sink(),
		doc:    &OBJ{},
		seen:   make(map[string]bool),
	}

	if err := eachLine(r, p.source, p.processLine); err != nil {
		return nil, err
	}

	p.doc.Bounds = math.BoundsOf(p.doc.Positions())
	return p.doc, nil
}

type objParser struct {
	source string
	sink   diag.Sink
	doc    *OBJ

	// Parse state carried across lines.
	material *string
	object   string
	seen     map[string]bool
}

func (p *objParser) processLine(lineNum int, tokens []string) error {
	directive := tokens[0]

	switch directive {
	case "v":
		c, err := parseFloats(tokens, 3)
		if err != nil {
			return malformed(p.source, lineNum, directive, "%v", err)
		}
		p.doc.Vertices = append(p.doc.Vertices, Vertex{
			Index: len(p.doc.Vertices) + 1,
			X:     c[0], Y: c[1], Z: c[2],
		})
	case "vn":
		c, err := parseFloats(tokens, 3)
		if err != nil {
			return malformed(p.source, lineNum, directive, "%v", err)
		}
		p.doc.Normals = append(p.doc.Normals, Normal{
			Index: len(p.doc.Normals) + 1,
			X:     c[0], Y: c[1], Z: c[2],
		})
	case "vt":
		c, err := parseFloats(tokens, 2)
		if err != nil {
			return malformed(p.source, lineNum, directive, "%v", err)
		}
		p.doc.TexCoords = append(p.doc.TexCoords, TexCoord{
			Index: len(p.doc.TexCoords) + 1,
			U:     c[0], V: c[1],
		})
	case "f":
		face, err := p.parseFace(tokens)
		if err != nil {
			return malformed(p.source, lineNum, directive, "%v", err)
		}
		p.doc.Faces = append(p.doc.Faces, face)
	case "usemtl":
		if len(tokens) < 2 {
			return malformed(p.source, lineNum, directive, "expected a material name")
		}
		name := tokens[1]
		p.material = &name
	case "mtllib":
		if len(tokens) < 2 {
			return malformed(p.source, lineNum, directive, "expected a material library name")
		}
		p.doc.MtlLib = tokens[1]
	case "o", "g":
		if len(tokens) < 2 {
			// Unnamed group: faces that follow belong to no named object.
			p.object = ""
			return nil
		}
		p.object = tokens[1]
		if !p.seen[p.object] {
			p.seen[p.object] = true
			p.doc.Objects = append(p.doc.Objects, p.object)
		}
	default:
		p.sink.Report(diag.Event{
			Kind:   diag.IgnoredDirective,
			Source: p.source,
			Line:   lineNum,
			Detail: strconv.Quote(directive),
		})
	}
	return nil
}

// Parse a face definition. Each corner uses one of:
// - v
// - v/vt
// - v//vn
// - v/vt/vn
//
// The first corner fixes the format for the rest of the face. Indices are
// 1-based and must refer to records already declared.
func (p *objParser) parseFace(tokens []string) (Face, error) {
	corners := tokens[1:]
	if len(corners) < 3 {
		return Face{}, fmt.Errorf("expected at least 3 corners; got %d", len(corners))
	}

	face := Face{
		VertexIndices: make([]int, len(corners)),
		Material:      p.material,
		Object:        p.object,
	}

	var hasUV, hasNormal bool
	for i, corner := range corners {
		parts := strings.Split(corner, "/")
		if len(parts) > 3 {
			return Face{}, fmt.Errorf("corner %d: too many indices in %q", i+1, corner)
		}

		cornerUV := len(parts) > 1 && parts[1] != ""
		cornerNormal := len(parts) > 2 && parts[2] != ""
		if i == 0 {
			hasUV, hasNormal = cornerUV, cornerNormal
			if hasUV {
				face.TexCoordIndices = make([]int, len(corners))
			}
			if hasNormal {
				face.NormalIndices = make([]int, len(corners))
			}
		} else if cornerUV != hasUV || cornerNormal != hasNormal {
			return Face{}, fmt.Errorf("corner %d: %q does not match the format of corner 1", i+1, corner)
		}

		idx, err := resolveIndex(parts[0], len(p.doc.Vertices))
		if err != nil {
			return Face{}, fmt.Errorf("corner %d: vertex %w", i+1, err)
		}
		face.VertexIndices[i] = idx

		if hasUV {
			if face.TexCoordIndices[i], err = resolveIndex(parts[1], len(p.doc.TexCoords)); err != nil {
				return Face{}, fmt.Errorf("corner %d: texcoord %w", i+1, err)
			}
		}
		if hasNormal {
			if face.NormalIndices[i], err = resolveIndex(parts[2], len(p.doc.Normals)); err != nil {
				return Face{}, fmt.Errorf("corner %d: normal %w", i+1, err)
			}
		}
	}

	return face, nil
}

// resolveIndex validates a 1-based index against the number of records
// declared so far.
func resolveIndex(token string, count int) (int, error) {
	if token == "" {
		return 0, errors.New("index missing")
	}
	idx, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("index %q: %w", token, err)
	}
	if idx < 1 {
		return 0, fmt.Errorf("index %d: only positive indices are supported", idx)
	}
	if idx > count {
		return 0, fmt.Errorf("index %d out of range (%d declared)", idx, count)
	}
	return idx, nil
}

func openSource(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}
