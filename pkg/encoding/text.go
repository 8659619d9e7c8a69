// Package encoding provides text encoding utilities for track authoring files.
package encoding

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ToUTF8 converts one line of source text to a UTF-8 string. A leading byte
// order mark is dropped. Text that is not valid UTF-8 is decoded as
// Windows-1252, the code page older exporters write material names and
// texture paths in. Returns the original bytes if conversion fails.
func ToUTF8(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}

	decoder := charmap.Windows1252.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// FromUTF8 encodes a UTF-8 string as Windows-1252.
// Returns the original bytes if the string has no Windows-1252 form.
func FromUTF8(s string) []byte {
	encoder := charmap.Windows1252.NewEncoder()
	result, _, err := transform.Bytes(encoder, []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// NormalizePath converts a file reference written on any platform to the
// host's separator convention.
func NormalizePath(path string) string {
	// Convert backslashes to forward slashes
	path = strings.ReplaceAll(path, "\\", "/")
	return filepath.FromSlash(path)
}
