package wavefront

import (
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/trackmaker/pkg/diag"
)

// DiffuseMapDirective is the MTL directive naming a material's diffuse texture.
const DiffuseMapDirective = "map_Kd"

// LoadMTL parses the MTL file at path. A nonexistent file yields an error
// matching ErrMissingFile.
func LoadMTL(path string, sink diag.Sink) (*MTL, error) {
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseMTL(f, ParseOptions{Source: path, Sink: sink})
}

// ParseMTL parses MTL text, keeping only material names and diffuse texture
// references. A repeated newmtl replaces the earlier entry in place.
func ParseMTL(r io.Reader, opts ParseOptions) (*MTL, error) {
	source := opts.source()
	sink := opts.sink()

	doc := &MTL{}
	byName := make(map[string]int)
	cur := -1

	err := eachLine(r, source, func(lineNum int, tokens []string) error {
		switch tokens[0] {
		case "newmtl":
			if len(tokens) < 2 {
				return malformed(source, lineNum, tokens[0], "expected a material name")
			}
			name := tokens[1]
			if idx, exists := byName[name]; exists {
				doc.Materials[idx] = Material{Name: name}
				cur = idx
				return nil
			}
			doc.Materials = append(doc.Materials, Material{Name: name})
			cur = len(doc.Materials) - 1
			byName[name] = cur
		case DiffuseMapDirective:
			if cur < 0 {
				return malformed(source, lineNum, tokens[0], "texture declared before any newmtl")
			}
			if len(tokens) < 2 {
				return malformed(source, lineNum, tokens[0], "expected a texture reference")
			}
			// Texture paths may contain spaces.
			doc.Materials[cur].DiffuseTexture = strings.Join(tokens[1:], " ")
		default:
			sink.Report(diag.Event{
				Kind:   diag.IgnoredDirective,
				Source: source,
				Line:   lineNum,
				Detail: strconv.Quote(tokens[0]),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}
