// Package encoding provides text decoding for model files written by
// third-party tools.
package encoding

import (
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewTextReader wraps r so that a leading byte order mark is consumed.
// UTF-16 input (with BOM) is decoded to UTF-8, UTF-8 passes through.
func NewTextReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ReadAllText reads r to the end through NewTextReader.
func ReadAllText(r io.Reader) ([]byte, error) {
	return io.ReadAll(NewTextReader(r))
}

// DecodeText converts raw file bytes to UTF-8, honoring a byte order mark.
// Returns the input as-is if decoding fails.
func DecodeText(data []byte) []byte {
	result, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return data
	}
	return result
}

// NormalizePath converts backslashes to forward slashes so texture paths
// written on Windows resolve on every platform.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
