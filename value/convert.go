package value

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	eng "github.com/reoring/skema/internal/engine"
)

// Marshaler is implemented by types that can describe themselves as a Value.
type Marshaler interface {
	MarshalValue() (Value, error)
}

// Unmarshaler is implemented by types that can populate themselves from a
// Value. Implementations should return a *TypeError on kind mismatches.
type Unmarshaler interface {
	UnmarshalValue(v Value) error
}

var (
	valueType       = reflect.TypeOf((*Value)(nil)).Elem()
	marshalerType   = reflect.TypeOf((*Marshaler)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
)

// Of converts a Go value into a Value. Supported inputs are nil, Value,
// Marshaler, bool, strings, signed and unsigned integers, floats, pointers,
// slices and arrays of supported elements, and maps keyed by strings. Map
// members are ordered by key.
func Of(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case Marshaler:
		if rv := reflect.ValueOf(t); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Null{}, nil
		}
		return t.MarshalValue()
	case string:
		return String(t), nil
	case bool:
		return Boolean(t), nil
	case int:
		return Integer(t), nil
	case int64:
		return Integer(t), nil
	case int32:
		return Integer(t), nil
	case float64:
		return Float(t), nil
	case []any:
		out := make(Array, len(t))
		for i, e := range t {
			v, err := Of(e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return ofReflect(reflect.ValueOf(x))
}

// MustOf is like Of but panics on error. It is intended for literals in
// builders and tests.
func MustOf(x any) Value {
	v, err := Of(x)
	if err != nil {
		panic(err)
	}
	return v
}

func ofReflect(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return Null{}, nil
	}
	if rv.Type().Implements(valueType) {
		if rv.Kind() == reflect.Interface && rv.IsNil() {
			return Null{}, nil
		}
		return rv.Interface().(Value), nil
	}
	if rv.Type().Implements(marshalerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Null{}, nil
		}
		return rv.Interface().(Marshaler).MarshalValue()
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return ofReflect(rv.Elem())
	case reflect.Bool:
		return Boolean(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("value: %d overflows integer", u)
		}
		return Integer(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null{}, nil
		}
		out := make(Array, rv.Len())
		for i := range out {
			v, err := ofReflect(rv.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, &UnsupportedTypeError{Type: rv.Type()}
		}
		if rv.IsNil() {
			return Null{}, nil
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		members := make([]Member, 0, len(keys))
		for _, k := range keys {
			v, err := ofReflect(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())))
			if err != nil {
				return nil, err
			}
			members = append(members, Member{Key: k, Value: v})
		}
		return NewObject(members...), nil
	case reflect.Struct:
		// Marshaler declared on the pointer receiver.
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		if m, ok := p.Interface().(Marshaler); ok {
			return m.MarshalValue()
		}
	}
	return nil, &UnsupportedTypeError{Type: rv.Type()}
}

// Decode converts v into a T. It is the inverse of Of.
func Decode[T any](v Value) (T, error) {
	var out T
	err := Into(v, &out)
	return out, err
}

// Into stores v into the value pointed to by dst. Integers widen into float
// targets; floats never narrow into integer targets. Targets of type any
// receive v.Native().
func Into(v Value, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("value: Into requires a non-nil pointer, got %T", dst)
	}
	return into(v, rv.Elem(), "")
}

func into(v Value, rv reflect.Value, path string) error {
	if v == nil {
		v = Null{}
	}
	if rv.CanAddr() && rv.Addr().Type().Implements(unmarshalerType) {
		return rv.Addr().Interface().(Unmarshaler).UnmarshalValue(v)
	}
	if rv.Type() == valueType {
		rv.Set(reflect.ValueOf(v))
		return nil
	}
	if vt := reflect.TypeOf(v); rv.Kind() != reflect.Interface && vt.AssignableTo(rv.Type()) {
		rv.Set(reflect.ValueOf(v))
		return nil
	}
	mismatch := func(k Kind) error { return &TypeError{Path: path, Expected: k, Actual: v} }

	switch rv.Kind() {
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return &UnsupportedTypeError{Type: rv.Type()}
		}
		if n := v.Native(); n != nil {
			rv.Set(reflect.ValueOf(n))
		} else {
			rv.Set(reflect.Zero(rv.Type()))
		}
		return nil
	case reflect.Pointer:
		if v.Kind() == KindNull {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		p := reflect.New(rv.Type().Elem())
		if err := into(v, p.Elem(), path); err != nil {
			return err
		}
		rv.Set(p)
		return nil
	case reflect.Bool:
		b, ok := v.(Boolean)
		if !ok {
			return mismatch(KindBoolean)
		}
		rv.SetBool(bool(b))
		return nil
	case reflect.String:
		s, ok := v.(String)
		if !ok {
			return mismatch(KindString)
		}
		rv.SetString(string(s))
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := v.(Integer)
		if !ok || rv.OverflowInt(int64(i)) {
			return mismatch(KindInteger)
		}
		rv.SetInt(int64(i))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, ok := v.(Integer)
		if !ok || i < 0 || rv.OverflowUint(uint64(i)) {
			return mismatch(KindInteger)
		}
		rv.SetUint(uint64(i))
		return nil
	case reflect.Float32, reflect.Float64:
		switch n := v.(type) {
		case Float:
			rv.SetFloat(float64(n))
		case Integer:
			rv.SetFloat(float64(n))
		default:
			return mismatch(KindFloat)
		}
		return nil
	case reflect.Slice:
		if v.Kind() == KindNull {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		arr, ok := v.(Array)
		if !ok {
			return mismatch(KindArray)
		}
		out := reflect.MakeSlice(rv.Type(), len(arr), len(arr))
		for i, e := range arr {
			if err := into(e, out.Index(i), eng.JoinIndex(path, i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil
	case reflect.Array:
		arr, ok := v.(Array)
		if !ok || len(arr) != rv.Len() {
			return mismatch(KindArray)
		}
		for i, e := range arr {
			if err := into(e, rv.Index(i), eng.JoinIndex(path, i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return &UnsupportedTypeError{Type: rv.Type()}
		}
		if v.Kind() == KindNull {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		obj, ok := v.(Object)
		if !ok {
			return mismatch(KindObject)
		}
		out := reflect.MakeMapWithSize(rv.Type(), obj.Len())
		var err error
		obj.Range(func(k string, e Value) bool {
			ev := reflect.New(rv.Type().Elem()).Elem()
			if err = into(e, ev, eng.JoinPointer(path, k)); err != nil {
				return false
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()), ev)
			return true
		})
		if err != nil {
			return err
		}
		rv.Set(out)
		return nil
	}
	return &UnsupportedTypeError{Type: rv.Type()}
}

// AsString returns the string held by v.
func AsString(v Value) (string, error) {
	s, ok := v.(String)
	if !ok {
		return "", &TypeError{Expected: KindString, Actual: v}
	}
	return string(s), nil
}

// AsInt64 returns the integer held by v. Floats are rejected even when integral.
func AsInt64(v Value) (int64, error) {
	i, ok := v.(Integer)
	if !ok {
		return 0, &TypeError{Expected: KindInteger, Actual: v}
	}
	return int64(i), nil
}

// AsFloat64 returns the number held by v, widening integers.
func AsFloat64(v Value) (float64, error) {
	switch n := v.(type) {
	case Float:
		return float64(n), nil
	case Integer:
		return float64(n), nil
	}
	return 0, &TypeError{Expected: KindFloat, Actual: v}
}

// AsBool returns the boolean held by v.
func AsBool(v Value) (bool, error) {
	b, ok := v.(Boolean)
	if !ok {
		return false, &TypeError{Expected: KindBoolean, Actual: v}
	}
	return bool(b), nil
}

// AsArray returns the elements held by v.
func AsArray(v Value) (Array, error) {
	a, ok := v.(Array)
	if !ok {
		return nil, &TypeError{Expected: KindArray, Actual: v}
	}
	return a, nil
}

// AsObject returns the object held by v.
func AsObject(v Value) (Object, error) {
	o, ok := v.(Object)
	if !ok {
		return Object{}, &TypeError{Expected: KindObject, Actual: v}
	}
	return o, nil
}
