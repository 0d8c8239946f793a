package value

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"

	eng "github.com/reoring/skema/internal/engine"
	"github.com/reoring/skema/source/gojson"
)

// MarshalOpt controls JSON output.
type MarshalOpt struct {
	// SortKeys emits object members in key order instead of insertion order.
	SortKeys bool
	Prefix   string
	Indent   string
}

// Marshal encodes v as JSON text. Floats always carry a fraction or an
// exponent so that they decode back as Float; NaN and infinities are
// rejected.
func Marshal(v Value, opt MarshalOpt) ([]byte, error) {
	buf, err := appendValue(nil, v, opt.SortKeys)
	if err != nil {
		return nil, err
	}
	if opt.Prefix == "" && opt.Indent == "" {
		return buf, nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf, opt.Prefix, opt.Indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func appendValue(buf []byte, v Value, sorted bool) ([]byte, error) {
	switch x := v.(type) {
	case nil, Null:
		return append(buf, "null"...), nil
	case String:
		return appendString(buf, string(x))
	case Integer:
		return strconv.AppendInt(buf, int64(x), 10), nil
	case Float:
		return appendFloat(buf, float64(x))
	case Boolean:
		return strconv.AppendBool(buf, bool(x)), nil
	case Array:
		buf = append(buf, '[')
		for i, e := range x {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = appendValue(buf, e, sorted); err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case Object:
		members := x.Members()
		if sorted {
			sort.SliceStable(members, func(i, j int) bool { return members[i].Key < members[j].Key })
		}
		buf = append(buf, '{')
		for i, m := range members {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = appendString(buf, m.Key); err != nil {
				return nil, err
			}
			buf = append(buf, ':')
			if buf, err = appendValue(buf, m.Value, sorted); err != nil {
				return nil, err
			}
		}
		return append(buf, '}'), nil
	}
	return nil, fmt.Errorf("value: cannot encode %T", v)
}

func appendString(buf []byte, s string) ([]byte, error) {
	b, err := json.MarshalWithOption(s, json.DisableHTMLEscape())
	if err != nil {
		return nil, err
	}
	return append(buf, b...), nil
}

// appendFloat follows encoding/json's choice between plain and exponent
// notation and adds ".0" to integral values.
func appendFloat(buf []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("value: unsupported float %v", f)
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	start := len(buf)
	buf = strconv.AppendFloat(buf, f, format, -1, 64)
	if bytes.IndexAny(buf[start:], ".e") < 0 {
		buf = append(buf, ".0"...)
	}
	return buf, nil
}

// FormatFloat renders f the way Marshal does.
func FormatFloat(f float64) (string, error) {
	b, err := appendFloat(nil, f)
	return string(b), err
}

func (s String) MarshalJSON() ([]byte, error)  { return Marshal(s, MarshalOpt{}) }
func (i Integer) MarshalJSON() ([]byte, error) { return Marshal(i, MarshalOpt{}) }
func (f Float) MarshalJSON() ([]byte, error)   { return Marshal(f, MarshalOpt{}) }
func (b Boolean) MarshalJSON() ([]byte, error) { return Marshal(b, MarshalOpt{}) }
func (n Null) MarshalJSON() ([]byte, error)    { return Marshal(n, MarshalOpt{}) }
func (a Array) MarshalJSON() ([]byte, error)   { return Marshal(a, MarshalOpt{}) }
func (o Object) MarshalJSON() ([]byte, error)  { return Marshal(o, MarshalOpt{}) }

// UnmarshalJSON decodes a JSON array.
func (a *Array) UnmarshalJSON(data []byte) error {
	v, err := Unmarshal(data)
	if err != nil {
		return err
	}
	arr, err := AsArray(v)
	if err != nil {
		return err
	}
	*a = arr
	return nil
}

// UnmarshalJSON decodes a JSON object.
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := Unmarshal(data)
	if err != nil {
		return err
	}
	obj, err := AsObject(v)
	if err != nil {
		return err
	}
	*o = obj
	return nil
}

// ErrTrailingData reports input that continues after the first JSON value.
var ErrTrailingData = errors.New("value: trailing data after top-level value")

// ErrInvalidJSON reports text that go-json's validator rejects after the token
// reader accepted it.
var ErrInvalidJSON = errors.New("value: invalid JSON text")

// Unmarshal decodes exactly one JSON value from data.
func Unmarshal(data []byte) (Value, error) {
	src := gojson.NewBytes(data)
	v, err := ReadFrom(src)
	if err != nil {
		return nil, err
	}
	if err := ExpectEOF(src); err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}
	return v, nil
}

// ExpectEOF checks that src holds no further tokens.
func ExpectEOF(src eng.TokenSource) error {
	_, err := src.NextToken()
	switch {
	case err == nil:
		return ErrTrailingData
	case errors.Is(err, io.EOF):
		return nil
	default:
		return err
	}
}

// ReadFrom consumes one complete JSON value from src.
func ReadFrom(src eng.TokenSource) (Value, error) {
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("value: empty input: %w", io.ErrUnexpectedEOF)
		}
		return nil, err
	}
	r := reader{src: src}
	return r.value(tok, "")
}

type reader struct {
	src eng.TokenSource
}

func (r *reader) next() (eng.Token, error) {
	tok, err := r.src.NextToken()
	if errors.Is(err, io.EOF) {
		return eng.Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}

func (r *reader) value(tok eng.Token, path string) (Value, error) {
	switch tok.Kind {
	case eng.KindBeginObject:
		return r.object(path)
	case eng.KindBeginArray:
		return r.array(path)
	}
	if !tok.Kind.Scalar() {
		return nil, fmt.Errorf("value: unexpected %s at %s", tok.Kind, eng.NormalizePointer(path))
	}
	return scalar(tok, path)
}

func (r *reader) object(path string) (Value, error) {
	var members []Member
	for {
		tok, err := r.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == eng.KindEndObject {
			return NewObject(members...), nil
		}
		if tok.Kind != eng.KindKey {
			return nil, fmt.Errorf("value: expected object key at %s, got %s", eng.NormalizePointer(path), tok.Kind)
		}
		vt, err := r.next()
		if err != nil {
			return nil, err
		}
		v, err := r.value(vt, eng.JoinPointer(path, tok.String))
		if err != nil {
			return nil, err
		}
		members = append(members, Member{Key: tok.String, Value: v})
	}
}

func (r *reader) array(path string) (Value, error) {
	arr := Array{}
	for {
		tok, err := r.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == eng.KindEndArray {
			return arr, nil
		}
		v, err := r.value(tok, eng.JoinIndex(path, len(arr)))
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

// scalarTrial attempts to read a scalar token as one specific kind.
type scalarTrial func(tok eng.Token) (Value, bool)

// scalarTrials is the fixed resolution order for scalar tokens: string,
// boolean, integer, float, null. Booleans precede numbers and integers
// precede floats, so "5" stays an Integer and "5.0" a Float.
var scalarTrials = [...]scalarTrial{
	func(tok eng.Token) (Value, bool) { return String(tok.String), tok.Kind == eng.KindString },
	func(tok eng.Token) (Value, bool) { return Boolean(tok.Bool), tok.Kind == eng.KindBool },
	func(tok eng.Token) (Value, bool) {
		if tok.Kind != eng.KindNumber {
			return nil, false
		}
		i, err := strconv.ParseInt(tok.Number, 10, 64)
		return Integer(i), err == nil
	},
	func(tok eng.Token) (Value, bool) {
		if tok.Kind != eng.KindNumber {
			return nil, false
		}
		f, err := strconv.ParseFloat(tok.Number, 64)
		return Float(f), err == nil && !math.IsInf(f, 0)
	},
	func(tok eng.Token) (Value, bool) { return Null{}, tok.Kind == eng.KindNull },
}

func scalar(tok eng.Token, path string) (Value, error) {
	for _, try := range scalarTrials {
		if v, ok := try(tok); ok {
			return v, nil
		}
	}
	return nil, &TypeError{Path: eng.NormalizePointer(path), Expected: KindFloat, Actual: String(tok.Number)}
}
