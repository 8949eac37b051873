package formats

import (
	"errors"
	"strings"
	"testing"
)

func TestTokenReaderBasics(t *testing.T) {
	tr := NewTokenReaderString("PIE 3\nTYPE 10200\n  POINTS 2\n -1.5 2 0x\n")

	if err := tr.Expect("PIE"); err != nil {
		t.Fatalf("Expect(PIE): %v", err)
	}
	if v, err := tr.Int(); err != nil || v != 3 {
		t.Fatalf("Int() = %d, %v; want 3", v, err)
	}
	if !tr.Accept("TYPE") {
		t.Fatal("Accept(TYPE) = false")
	}
	if v, err := tr.Hex(); err != nil || v != 0x10200 {
		t.Fatalf("Hex() = %x, %v; want 10200", v, err)
	}
	if tr.Accept("LEVELS") {
		t.Fatal("Accept(LEVELS) consumed a non-matching token")
	}
	if tok, _ := tr.Peek(); tok != "POINTS" {
		t.Fatalf("Peek() = %q, want POINTS", tok)
	}
	n, err := tr.Count("POINTS", 10)
	if err != nil || n != 2 {
		t.Fatalf("Count() = %d, %v", n, err)
	}
	if v, err := tr.Float(); err != nil || v != -1.5 {
		t.Fatalf("Float() = %v, %v", v, err)
	}
	if line := tr.Line(); line != 4 {
		t.Errorf("Line() = %d, want 4", line)
	}
	if _, err := tr.Float(); err != nil {
		t.Fatalf("Float(2): %v", err)
	}
	if _, err := tr.Float(); !errors.Is(err, ErrBadNumber) {
		t.Errorf("Float(0x) error = %v, want ErrBadNumber", err)
	}
	if !tr.EOF() {
		t.Error("expected EOF")
	}
	if _, err := tr.Int(); !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("Int() at EOF = %v, want ErrUnexpectedEOF", err)
	}
}

func TestTokenReaderMarkReset(t *testing.T) {
	tr := NewTokenReaderString("CONNECTORS 1 LEVEL 2")
	mark := tr.Mark()
	if _, err := tr.Count("CONNECTORS", 5); err != nil {
		t.Fatal(err)
	}
	tr.Reset(mark)
	if err := tr.Expect("CONNECTORS"); err != nil {
		t.Errorf("after Reset: %v", err)
	}
}

func TestTokenReaderExpectMismatch(t *testing.T) {
	tr := NewTokenReaderString("WZM 2")
	err := tr.Expect("PIE")
	if !errors.Is(err, ErrBadDirective) {
		t.Fatalf("error = %v, want ErrBadDirective", err)
	}
	if !strings.Contains(err.Error(), `"WZM"`) {
		t.Errorf("error %q should name the offending token", err)
	}
}

func TestTokenReaderRestOfLine(t *testing.T) {
	tr := NewTokenReaderString("MESH  body.main \nTEAMCOLOURS 1\nMESH\nVERTICES 0")
	tr.Expect("MESH")
	if got := tr.RestOfLine(); got != "body.main" {
		t.Errorf("RestOfLine() = %q", got)
	}
	tr.Expect("TEAMCOLOURS")
	tr.Int()
	tr.Expect("MESH")
	if got := tr.RestOfLine(); got != "" {
		t.Errorf("RestOfLine() on empty name = %q", got)
	}
	if err := tr.Expect("VERTICES"); err != nil {
		t.Error(err)
	}
}

func TestTokenReaderIndexAndCountLimits(t *testing.T) {
	tr := NewTokenReaderString("5 -1 POINTS 99")
	if _, err := tr.Index(5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Index(5) on 5 = %v, want ErrOutOfRange", err)
	}
	if _, err := tr.Index(5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Index(5) on -1 = %v, want ErrOutOfRange", err)
	}
	if _, err := tr.Count("POINTS", 10); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Count over limit = %v, want ErrOutOfRange", err)
	}
}

func TestNewTokenReaderBOM(t *testing.T) {
	tr, err := NewTokenReader(strings.NewReader("\ufeffPIE 2"))
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Expect("PIE"); err != nil {
		t.Errorf("BOM not stripped: %v", err)
	}
}
