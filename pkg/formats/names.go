package formats

import "fmt"

// IsValidName reports whether name only uses the characters the game engine
// accepts in mesh and texture names: ASCII letters, digits, '.', '_' and '-'.
// The empty name is valid.
func IsValidName(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-', c == '\\':
		default:
			return false
		}
	}
	return true
}

// SanitizeName returns name if it is valid and the empty string otherwise.
func SanitizeName(name string) string {
	if !IsValidName(name) {
		return ""
	}
	return name
}

func validateName(kind, name string) error {
	if !IsValidName(name) {
		return fmt.Errorf("%w: %s %q", ErrInvalidName, kind, name)
	}
	return nil
}
