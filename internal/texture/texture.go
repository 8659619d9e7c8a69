// Package texture resolves diffuse texture references to stable handles. It
// stands in for the renderer's texture manager: GPU upload happens elsewhere,
// this package only validates, measures and deduplicates.
package texture

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp" // BMP decoder registration
)

// Handle identifies a resolved texture.
type Handle int32

// NoTexture marks a mesh that renders untextured.
const NoTexture Handle = -1

// ErrUnresolved is returned when a texture reference cannot be loaded.
var ErrUnresolved = errors.New("unresolved texture")

// Loader resolves a texture path to a handle. Implementations must return the
// same handle for the same path on every call.
type Loader interface {
	Resolve(path string) (Handle, error)
}

// Info describes a resolved texture.
type Info struct {
	Handle Handle
	Path   string
	Format string // Decoder name, empty when not decoded
	Width  int
	Height int
}

// Cache is a deduplicating Loader backed by the file system.
type Cache struct {
	decode bool

	mu     sync.Mutex
	byPath map[string]Handle
	infos  []Info

	// Stats
	hits   int
	misses int
}

// NewCache creates a texture cache. When decode is false, textures are only
// checked for existence and Info carries no dimensions.
func NewCache(decode bool) *Cache {
	return &Cache{
		decode: decode,
		byPath: make(map[string]Handle),
	}
}

// Resolve returns the handle for path, loading it on first use. Failed loads
// are not cached.
func (c *Cache) Resolve(path string) (Handle, error) {
	key := filepath.Clean(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.byPath[key]; ok {
		c.hits++
		return h, nil
	}
	c.misses++

	info, err := c.load(key)
	if err != nil {
		return NoTexture, fmt.Errorf("%w: %s: %w", ErrUnresolved, key, err)
	}

	info.Handle = Handle(len(c.infos))
	c.infos = append(c.infos, info)
	c.byPath[key] = info.Handle
	return info.Handle, nil
}

func (c *Cache) load(path string) (Info, error) {
	info := Info{Path: path}

	if !c.decode {
		st, err := os.Stat(path)
		if err != nil {
			return info, err
		}
		if st.IsDir() {
			return info, fmt.Errorf("%s is a directory", path)
		}
		return info, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return info, err
	}
	defer f.Close()

	img, format, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return info, err
	}
	b := img.Bounds()
	info.Format = format
	info.Width = b.Dx()
	info.Height = b.Dy()
	return info, nil
}

// Info returns the description of a resolved texture.
func (c *Cache) Info(h Handle) (Info, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h < 0 || int(h) >= len(c.infos) {
		return Info{}, false
	}
	return c.infos[h], true
}

// Textures returns all resolved textures in handle order.
func (c *Cache) Textures() []Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Info, len(c.infos))
	copy(out, c.infos)
	return out
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Decode decodes an image. TGA has no magic number, so it is selected by
// extension; every other format is detected by image.Decode.
func Decode(r io.Reader, ext string) (image.Image, string, error) {
	if strings.EqualFold(ext, ".tga") {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, "", err
		}
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, "", err
		}
		return img, "tga", nil
	}

	return image.Decode(r)
}
