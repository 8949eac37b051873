package formats

import "testing"

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"", true},
		{"page-7-barbarians-arizona.png", true},
		{"Body_01.mesh", true},
		{"with space", false},
		{`back\slash`, true},
		{`textures\page-7.png`, true},
		{"slash/path", false},
		{"ümlaut", false},
		{"tab\tname", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidName(tt.name); got != tt.want {
				t.Errorf("IsValidName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	if got := SanitizeName("turret.1"); got != "turret.1" {
		t.Errorf("SanitizeName kept = %q", got)
	}
	if got := SanitizeName("bad name"); got != "" {
		t.Errorf("SanitizeName cleared = %q, want empty", got)
	}
}
