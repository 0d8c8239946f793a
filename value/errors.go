package value

import (
	"fmt"
	"reflect"
)

// TypeError reports that a value did not have the kind a conversion needed.
type TypeError struct {
	Path     string // JSON Pointer of the offending value; "" when unknown.
	Expected Kind
	Actual   Value
}

func (e *TypeError) Error() string {
	got := "nothing"
	if e.Actual != nil {
		got = e.Actual.Kind().String() + " " + preview(e.Actual)
	}
	if e.Path == "" {
		return fmt.Sprintf("value: expected %s, got %s", e.Expected, got)
	}
	return fmt.Sprintf("value: expected %s at %s, got %s", e.Expected, e.Path, got)
}

// MissingPropertyError reports a lookup of an absent Object key.
type MissingPropertyError struct {
	Path string
	Key  string
}

func (e *MissingPropertyError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("value: missing property %q", e.Key)
	}
	return fmt.Sprintf("value: missing property %q at %s", e.Key, e.Path)
}

// UnsupportedTypeError reports a Go type with no mapping to or from Value.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return "value: unsupported Go type " + e.Type.String()
}

func preview(v Value) string {
	const max = 48
	b, err := Marshal(v, MarshalOpt{})
	if err != nil {
		return "<" + err.Error() + ">"
	}
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
