package engine

import (
	"strconv"
	"strings"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

var kindNames = [...]string{"begin_object", "end_object", "begin_array", "end_array", "key", "string", "number", "bool", "null"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Scalar reports whether the token carries a complete JSON scalar.
func (k Kind) Scalar() bool {
	return k == KindString || k == KindNumber || k == KindBool || k == KindNull
}

// Token represents a streaming token with approximate input offset.
// Numbers are kept as their source text so callers decide how to interpret them.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// EscapePointer escapes a single reference token per RFC 6901.
func EscapePointer(s string) string { return pointerEscaper.Replace(s) }

// JoinPointer appends a reference token to a JSON Pointer. The root pointer may
// be given as "" or "/".
func JoinPointer(base, token string) string {
	if base == "" || base == "/" {
		return "/" + EscapePointer(token)
	}
	return base + "/" + EscapePointer(token)
}

// JoinIndex appends an array index to a JSON Pointer.
func JoinIndex(base string, i int) string {
	return JoinPointer(base, strconv.Itoa(i))
}

// NormalizePointer renders the root pointer as "/".
func NormalizePointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
