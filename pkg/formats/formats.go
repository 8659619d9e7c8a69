// Package formats provides parsers for the companion files that sit next to a
// track model: collision geometry (_KCL) and attachment points (_Atch).
package formats

import (
	"path/filepath"
	"strings"
)

// Default companion naming, relative to the primary geometry file.
const (
	CollisionSuffix  = "_KCL"
	CollisionExt     = ".obj"
	AttachmentSuffix = "_Atch"
	AttachmentExt    = ".txt"
)

// CompanionPath returns the path of a companion file: the primary file's
// directory and base name, with suffix and ext appended.
// CompanionPath("a/b/track.obj", "_KCL", ".obj") == "a/b/track_KCL.obj".
func CompanionPath(primary, suffix, ext string) string {
	dir := filepath.Dir(primary)
	base := strings.TrimSuffix(filepath.Base(primary), filepath.Ext(primary))
	return filepath.Join(dir, base+suffix+ext)
}
