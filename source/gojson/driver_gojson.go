// Package gojson adapts github.com/goccy/go-json's streaming decoder to the
// engine token model.
//
// goccy's Decoder.Token skips commas and colons without checking where they
// appear, so the driver keeps the raw bytes the decoder has read, walks them
// token by token and checks separators and number syntax itself.
package gojson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/skema/internal/engine"
)

// SyntaxError reports malformed JSON text.
type SyntaxError struct {
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("gojson: %s at offset %d", e.Msg, e.Offset)
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
	empty        bool
}

// countingReader tracks how many bytes the decoder pulled from the input and
// keeps those not yet checked for separators.
type countingReader struct {
	r       io.Reader
	n       int64
	pending []byte
	base    int64 // input offset of pending[0]
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	c.pending = append(c.pending, p[:n]...)
	return n, err
}

// leading returns the commas and colons at the front of the unchecked bytes
// and the index of the first byte after them and any whitespace.
func (c *countingReader) leading() (string, int) {
	var seps strings.Builder
	i := 0
scan:
	for ; i < len(c.pending); i++ {
		switch b := c.pending[i]; b {
		case ' ', '\t', '\n', '\r':
		case ',', ':':
			seps.WriteByte(b)
		default:
			break scan
		}
	}
	return seps.String(), i
}

// next drops the separators and the text of tok from the front of the
// unchecked bytes and returns the separators with the token's input offset.
func (c *countingReader) next(tok j.Token) (string, int64) {
	seps, i := c.leading()
	start := c.base + int64(i)
	c.drop(tokenEnd(c.pending, i, tok))
	return seps, start
}

func (c *countingReader) drop(k int) {
	if k > len(c.pending) {
		k = len(c.pending)
	}
	c.pending = append(c.pending[:0], c.pending[k:]...)
	c.base += int64(k)
}

// tokenEnd returns the index just past the raw text of tok starting at i.
func tokenEnd(p []byte, i int, tok j.Token) int {
	switch v := tok.(type) {
	case j.Delim:
		return i + 1
	case string:
		for i++; i < len(p); i++ {
			switch p[i] {
			case '\\':
				i++
			case '"':
				return i + 1
			}
		}
		return len(p)
	case bool:
		if v {
			return i + len("true")
		}
		return i + len("false")
	case nil:
		return i + len("null")
	}
	for i < len(p) && strings.IndexByte("+-.eE0123456789", p[i]) >= 0 {
		i++
	}
	return i
}

type source struct {
	dec   *j.Decoder
	in    *countingReader
	stack []frame
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	in := &countingReader{r: r}
	dec := j.NewDecoder(in)
	dec.UseNumber()
	return &source{dec: dec, in: in}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return eng.Token{}, s.atEOF()
		}
		return eng.Token{}, err
	}
	seps, start := s.in.next(tok)
	if err := s.checkSeparators(tok, seps, start); err != nil {
		return eng.Token{}, err
	}
	off := s.Location()
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.push(kindObject)
			return eng.Token{Kind: eng.KindBeginObject, Offset: off}, nil
		case '[':
			s.push(kindArray)
			return eng.Token{Kind: eng.KindBeginArray, Offset: off}, nil
		case '}':
			s.pop()
			return eng.Token{Kind: eng.KindEndObject, Offset: off}, nil
		case ']':
			s.pop()
			return eng.Token{Kind: eng.KindEndArray, Offset: off}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				top.empty = false
				return eng.Token{Kind: eng.KindKey, String: v, Offset: off}, nil
			}
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindString, String: v, Offset: off}, nil
	case bool:
		s.valueDone()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: off}, nil
	case j.Number:
		// The number text aliases the decoder's buffer.
		num := strings.Clone(string(v))
		if !validNumber(num) {
			return eng.Token{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("invalid number %q", num)}
		}
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: num, Offset: off}, nil
	case float64:
		s.valueDone()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: off}, nil
	}
	s.valueDone()
	return eng.Token{Kind: eng.KindNull, Offset: off}, nil
}

// atEOF rejects separators left dangling after the last token. An open
// container is reported by the caller as an unexpected end of input.
func (s *source) atEOF() error {
	seps, i := s.in.leading()
	start := s.in.base + int64(i)
	s.in.drop(len(s.in.pending))
	if len(s.stack) == 0 && seps != "" {
		return &SyntaxError{Offset: start, Msg: fmt.Sprintf("unexpected %q after top-level value", seps)}
	}
	return io.EOF
}

// checkSeparators verifies the separators seen before tok against the
// enclosing container.
func (s *source) checkSeparators(tok j.Token, seps string, offset int64) error {
	fail := func(msg string) error { return &SyntaxError{Offset: offset, Msg: msg} }
	d, isDelim := tok.(j.Delim)
	closing := isDelim && (d == '}' || d == ']')
	if len(s.stack) == 0 {
		switch {
		case seps != "":
			return fail(fmt.Sprintf("unexpected %q", seps))
		case closing:
			return fail(fmt.Sprintf("unexpected %q", rune(d)))
		}
		return nil
	}
	top := s.stack[len(s.stack)-1]
	want := ""
	switch {
	case closing:
		if (d == '}') != (top.kind == kindObject) {
			return fail(fmt.Sprintf("mismatched %q", rune(d)))
		}
		if top.kind == kindObject && !top.expectingKey {
			return fail("missing object value")
		}
	case top.kind == kindObject && top.expectingKey:
		if _, isKey := tok.(string); !isKey {
			return fail("expected object key")
		}
		if !top.empty {
			want = ","
		}
	case top.kind == kindObject:
		want = ":"
	case !top.empty:
		want = ","
	}
	if seps != want {
		if want == "" {
			return fail(fmt.Sprintf("unexpected %q", seps))
		}
		return fail(fmt.Sprintf("expected %q, found %q", want, seps))
	}
	return nil
}

func (s *source) push(kind containerKind) {
	s.stack = append(s.stack, frame{kind: kind, expectingKey: kind == kindObject, empty: true})
}

func (s *source) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

func (s *source) valueDone() {
	n := len(s.stack)
	if n == 0 {
		return
	}
	top := &s.stack[n-1]
	top.empty = false
	if top.kind == kindObject && !top.expectingKey {
		top.expectingKey = true
	}
}

// validNumber reports whether s follows the JSON number grammar: no leading
// zeros, no bare sign, digits on both sides of the point and in the exponent.
func validNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		i = digits(s, i)
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		j := digits(s, i+1)
		if j == i+1 {
			return false
		}
		i = j
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		j := digits(s, i)
		if j == i {
			return false
		}
		i = j
	}
	return i == len(s)
}

func digits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// Location reports the number of input bytes consumed so far. The decoder reads
// ahead, so the value is an upper bound of the current token's offset.
func (s *source) Location() int64 { return s.in.n }
