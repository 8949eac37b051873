package encoding

import (
	"bytes"
	"testing"
)

func TestReadAllTextStripsUTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("PIE 3\n")...)
	got, err := ReadAllText(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAllText failed: %v", err)
	}
	if string(got) != "PIE 3\n" {
		t.Errorf("got %q, want %q", got, "PIE 3\n")
	}
}

func TestReadAllTextDecodesUTF16(t *testing.T) {
	// "WZM" in UTF-16LE with BOM
	input := []byte{0xFF, 0xFE, 'W', 0, 'Z', 0, 'M', 0}
	got, err := ReadAllText(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAllText failed: %v", err)
	}
	if string(got) != "WZM" {
		t.Errorf("got %q, want %q", got, "WZM")
	}
}

func TestDecodeTextPlain(t *testing.T) {
	if got := DecodeText([]byte("v 1 2 3")); string(got) != "v 1 2 3" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizePath(t *testing.T) {
	if got := NormalizePath(`texpages\page-7.png`); got != "texpages/page-7.png" {
		t.Errorf("got %q", got)
	}
}
