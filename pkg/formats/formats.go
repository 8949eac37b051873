// Package formats provides readers and writers for Warzone 2100 model formats:
// PIE (versions 2 and 3), Wavefront OBJ, and the 3DS mesh boundary.
package formats

import "errors"

// Format errors shared by every text reader.
var (
	ErrUnexpectedEOF      = errors.New("unexpected end of file")
	ErrBadDirective       = errors.New("unexpected directive")
	ErrBadNumber          = errors.New("malformed number")
	ErrOutOfRange         = errors.New("value out of range")
	ErrInvalidName        = errors.New("invalid name")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrInvalidLevel       = errors.New("invalid level")
	ErrTooManyVertices    = errors.New("too many vertices")
)

// Limits imposed by the game engine.
const (
	MaxPie2PolygonVertices = 16
	MaxPie3PolygonVertices = 3
	MaxIndex               = 0xFFFF
	maxCount               = 1 << 20
)
