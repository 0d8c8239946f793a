package value

import (
	"sort"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	eng "github.com/reoring/skema/internal/engine"
)

// Kind enumerates the JSON value kinds. Integer and Float are distinct kinds.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindNull
	KindArray
	KindObject
)

var kindNames = [...]string{"string", "integer", "float", "boolean", "null", "array", "object"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value is a schema-less JSON value. The set of implementations is closed:
// String, Integer, Float, Boolean, Null, Array and Object.
type Value interface {
	Kind() Kind
	// Native returns the plain Go form: string, int64, float64, bool, nil,
	// []any or map[string]any.
	Native() any
	isValue()
}

type (
	String  string
	Integer int64
	Float   float64
	Boolean bool
	Null    struct{}
	Array   []Value
)

func (String) Kind() Kind  { return KindString }
func (Integer) Kind() Kind { return KindInteger }
func (Float) Kind() Kind   { return KindFloat }
func (Boolean) Kind() Kind { return KindBoolean }
func (Null) Kind() Kind    { return KindNull }
func (Array) Kind() Kind   { return KindArray }
func (Object) Kind() Kind  { return KindObject }

func (s String) Native() any  { return string(s) }
func (i Integer) Native() any { return int64(i) }
func (f Float) Native() any   { return float64(f) }
func (b Boolean) Native() any { return bool(b) }
func (Null) Native() any      { return nil }

func (a Array) Native() any {
	out := make([]any, len(a))
	for i, v := range a {
		out[i] = nativeOf(v)
	}
	return out
}

func (o Object) Native() any {
	out := make(map[string]any, o.Len())
	o.Range(func(k string, v Value) bool {
		out[k] = nativeOf(v)
		return true
	})
	return out
}

func nativeOf(v Value) any {
	if v == nil {
		return nil
	}
	return v.Native()
}

func (String) isValue()  {}
func (Integer) isValue() {}
func (Float) isValue()   {}
func (Boolean) isValue() {}
func (Null) isValue()    {}
func (Array) isValue()   {}
func (Object) isValue()  {}

// Member is a single key/value entry of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object maps string keys to values and remembers insertion order. The zero
// Object is empty and ready to use. Objects are never mutated after
// construction; With returns a modified copy.
type Object struct {
	m *orderedmap.OrderedMap[string, Value]
}

// NewObject builds an Object from members. A repeated key keeps its first
// position and its last value.
func NewObject(members ...Member) Object {
	m := orderedmap.New[string, Value]()
	for _, mb := range members {
		m.Set(mb.Key, mb.Value)
	}
	return Object{m: m}
}

// Len returns the number of members.
func (o Object) Len() int {
	if o.m == nil {
		return 0
	}
	return o.m.Len()
}

// Get returns the value stored under key.
func (o Object) Get(key string) (Value, bool) {
	if o.m == nil {
		return nil, false
	}
	return o.m.Get(key)
}

// Has reports whether key is present.
func (o Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Property is like Get but reports an absent key as a *MissingPropertyError
// whose Path is the key's pointer relative to o.
func (o Object) Property(key string) (Value, error) {
	v, ok := o.Get(key)
	if !ok {
		return nil, &MissingPropertyError{Path: eng.JoinPointer("", key), Key: key}
	}
	return v, nil
}

// Range calls fn for each member in insertion order until fn returns false.
func (o Object) Range(fn func(key string, v Value) bool) {
	if o.m == nil {
		return
	}
	for p := o.m.Oldest(); p != nil; p = p.Next() {
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

// Keys returns the keys in insertion order.
func (o Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	o.Range(func(k string, _ Value) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Members returns the members in insertion order.
func (o Object) Members() []Member {
	out := make([]Member, 0, o.Len())
	o.Range(func(k string, v Value) bool {
		out = append(out, Member{Key: k, Value: v})
		return true
	})
	return out
}

// With returns a copy of o with key set to v.
func (o Object) With(key string, v Value) Object {
	return NewObject(append(o.Members(), Member{Key: key, Value: v})...)
}

// Equal reports structural equality. Member order is ignored.
func (o Object) Equal(other Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	eq := true
	o.Range(func(k string, v Value) bool {
		ov, ok := other.Get(k)
		eq = ok && Equal(v, ov)
		return eq
	})
	return eq
}

// Equal reports whether a and b hold the same JSON value. Numeric kinds are
// not unified: Integer(5) and Float(5) differ.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Array:
		y := b.(Array)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Object:
		return x.Equal(b.(Object))
	default:
		return a == b
	}
}

// EqualSlices compares two value sequences element-wise. A nil slice equals
// an empty one.
func EqualSlices(a, b []Value) bool {
	return Equal(Array(a), Array(b))
}

// SortKeys returns a copy of v whose objects, at every level, list their
// members in key order.
func SortKeys(v Value) Value {
	switch x := v.(type) {
	case Array:
		out := make(Array, len(x))
		for i, e := range x {
			out[i] = SortKeys(e)
		}
		return out
	case Object:
		members := x.Members()
		sort.SliceStable(members, func(i, j int) bool { return members[i].Key < members[j].Key })
		for i := range members {
			members[i].Value = SortKeys(members[i].Value)
		}
		return NewObject(members...)
	}
	return v
}
