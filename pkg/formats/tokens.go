package formats

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/Faultbox/wmit/pkg/encoding"
)

// TokenReader splits a text model file into whitespace-delimited tokens.
// Optional sections are handled by taking a Mark, peeking, and calling Reset
// when the section is absent.
type TokenReader struct {
	data []byte
	pos  int
}

// NewTokenReader reads r to the end and returns a reader over its tokens.
// A leading byte order mark is discarded.
func NewTokenReader(r io.Reader) (*TokenReader, error) {
	data, err := encoding.ReadAllText(r)
	if err != nil {
		return nil, fmt.Errorf("reading model text: %w", err)
	}
	return &TokenReader{data: data}, nil
}

// NewTokenReaderString returns a reader over the tokens of s.
func NewTokenReaderString(s string) *TokenReader {
	return &TokenReader{data: encoding.DecodeText([]byte(s))}
}

// Mark returns the current position for a later Reset.
func (t *TokenReader) Mark() int { return t.pos }

// Reset rewinds (or advances) to a position returned by Mark.
func (t *TokenReader) Reset(mark int) { t.pos = mark }

// Line returns the 1-based line number of the current position.
func (t *TokenReader) Line() int {
	return bytes.Count(t.data[:t.pos], []byte{'\n'}) + 1
}

// EOF reports whether only whitespace remains.
func (t *TokenReader) EOF() bool {
	t.skipSpace()
	return t.pos >= len(t.data)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

func (t *TokenReader) skipSpace() {
	for t.pos < len(t.data) && isSpace(t.data[t.pos]) {
		t.pos++
	}
}

// Next returns the next token, or false at end of input.
func (t *TokenReader) Next() (string, bool) {
	t.skipSpace()
	if t.pos >= len(t.data) {
		return "", false
	}
	start := t.pos
	for t.pos < len(t.data) && !isSpace(t.data[t.pos]) {
		t.pos++
	}
	return string(t.data[start:t.pos]), true
}

// Peek returns the next token without consuming it.
func (t *TokenReader) Peek() (string, bool) {
	mark := t.pos
	tok, ok := t.Next()
	t.pos = mark
	return tok, ok
}

// Accept consumes the next token if it equals word.
func (t *TokenReader) Accept(word string) bool {
	mark := t.pos
	if tok, ok := t.Next(); ok && tok == word {
		return true
	}
	t.pos = mark
	return false
}

// Expect consumes the next token and fails unless it equals word.
func (t *TokenReader) Expect(word string) error {
	tok, ok := t.Next()
	if !ok {
		return fmt.Errorf("%w: expected %q", ErrUnexpectedEOF, word)
	}
	if tok != word {
		return fmt.Errorf("%w: line %d: expected %q, got %q", ErrBadDirective, t.Line(), word, tok)
	}
	return nil
}

// Word returns the next token, failing at end of input.
func (t *TokenReader) Word() (string, error) {
	tok, ok := t.Next()
	if !ok {
		return "", ErrUnexpectedEOF
	}
	return tok, nil
}

// RestOfLine returns the remainder of the current line with surrounding
// whitespace removed. Leading blank lines are not skipped.
func (t *TokenReader) RestOfLine() string {
	start := t.pos
	for t.pos < len(t.data) && t.data[t.pos] != '\n' {
		t.pos++
	}
	line := bytes.TrimSpace(t.data[start:t.pos])
	if t.pos < len(t.data) {
		t.pos++
	}
	return string(line)
}

func (t *TokenReader) numberToken() (string, error) {
	tok, ok := t.Next()
	if !ok {
		return "", fmt.Errorf("%w: expected number", ErrUnexpectedEOF)
	}
	return tok, nil
}

func (t *TokenReader) badNumber(tok string, err error) error {
	return fmt.Errorf("%w: line %d: %q: %v", ErrBadNumber, t.Line(), tok, err)
}

// Int reads a signed decimal integer.
func (t *TokenReader) Int() (int, error) {
	tok, err := t.numberToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, t.badNumber(tok, err)
	}
	return v, nil
}

// Hex reads an unsigned hexadecimal integer without prefix.
func (t *TokenReader) Hex() (uint32, error) {
	tok, err := t.numberToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(tok, 16, 32)
	if err != nil {
		return 0, t.badNumber(tok, err)
	}
	return uint32(v), nil
}

// Float reads a decimal floating-point number.
func (t *TokenReader) Float() (float32, error) {
	tok, err := t.numberToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, t.badNumber(tok, err)
	}
	return float32(v), nil
}

// Index reads a vertex index bounded by limit (exclusive).
func (t *TokenReader) Index(limit int) (uint16, error) {
	v, err := t.Int()
	if err != nil {
		return 0, err
	}
	if v < 0 || v >= limit || v > MaxIndex {
		return 0, fmt.Errorf("%w: line %d: index %d (limit %d)", ErrOutOfRange, t.Line(), v, limit)
	}
	return uint16(v), nil
}

// Count reads "<directive> <n>" and checks 0 <= n <= limit.
func (t *TokenReader) Count(directive string, limit int) (int, error) {
	if err := t.Expect(directive); err != nil {
		return 0, err
	}
	n, err := t.Int()
	if err != nil {
		return 0, fmt.Errorf("%s count: %w", directive, err)
	}
	if n < 0 || n > limit {
		return 0, fmt.Errorf("%w: line %d: %s %d", ErrOutOfRange, t.Line(), directive, n)
	}
	return n, nil
}
