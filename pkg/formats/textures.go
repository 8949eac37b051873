package formats

import (
	"fmt"
	"path"
	"strings"
)

// TextureSlot identifies the role of a texture file.
type TextureSlot int

const (
	TextureDiffuse  TextureSlot = iota // base colour page
	TextureTCMask                      // team colour mask
	TextureNormal                      // normal map
	TextureSpecular                    // specular map
)

// String returns a human-readable slot name.
func (s TextureSlot) String() string {
	switch s {
	case TextureDiffuse:
		return "diffuse"
	case TextureTCMask:
		return "tcmask"
	case TextureNormal:
		return "normalmap"
	case TextureSpecular:
		return "specular"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// TextureSet maps texture slots to file names. Empty names are never stored.
type TextureSet map[TextureSlot]string

// Get returns the file name for a slot, or "".
func (ts TextureSet) Get(slot TextureSlot) string {
	return ts[slot]
}

// Set assigns a file name to a slot; an empty name clears the slot.
func (ts TextureSet) Set(slot TextureSlot, name string) {
	if name == "" {
		delete(ts, slot)
		return
	}
	ts[slot] = name
}

// Has reports whether a slot is filled.
func (ts TextureSet) Has(slot TextureSlot) bool {
	return ts[slot] != ""
}

// Clone returns an independent copy.
func (ts TextureSet) Clone() TextureSet {
	out := make(TextureSet, len(ts))
	for k, v := range ts {
		out.Set(k, v)
	}
	return out
}

// IsValid reports whether every file name uses the engine charset.
func (ts TextureSet) IsValid() bool {
	for _, name := range ts {
		if !IsValidName(name) {
			return false
		}
	}
	return true
}

// TCMaskName derives the team colour mask file name the engine looks up for
// a diffuse page: "page-7.png" becomes "page-7_tcmask.png".
func TCMaskName(diffuse string) string {
	if diffuse == "" {
		return ""
	}
	ext := path.Ext(diffuse)
	return strings.TrimSuffix(diffuse, ext) + "_tcmask" + ext
}
