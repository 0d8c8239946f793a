package skema

import (
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/reoring/skema/value"
)

// Variant identifies which shape a Schema has.
type Variant int

const (
	VariantString Variant = iota
	VariantObject
	VariantEnum
	VariantArray
	VariantInteger
	VariantNumber
	VariantBoolean
	VariantNull
	VariantTrue
	VariantFalse
	VariantAnyOf
	VariantAllOf
	VariantOneOf
	VariantNot
)

var variantNames = [...]string{
	"string", "object", "enum", "array", "integer", "number", "boolean", "null",
	"true", "false", "anyOf", "allOf", "oneOf", "not",
}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return "variant(" + strconv.Itoa(int(v)) + ")"
	}
	return variantNames[v]
}

// Schema is a JSON Schema document. The set of implementations is closed:
// StringSchema, ObjectSchema, EnumSchema, ArraySchema, IntegerSchema,
// NumberSchema, BooleanSchema, NullSchema, LiteralTrue, LiteralFalse,
// AnyOfSchema, AllOfSchema, OneOfSchema and NotSchema.
//
// Schemas are values. Nested schemas are owned by their parent and must not
// form cycles.
type Schema interface {
	Variant() Variant
	// MarshalValue renders the schema in preserve order.
	MarshalValue() (value.Value, error)
	isSchema()
}

// Annotations are the keywords shared by the typed variants. A nil field is
// absent; value.Null{} as Default is an explicit null default.
type Annotations struct {
	Title       *string
	Description *string
	Default     value.Value
	Examples    []value.Value
}

// StringSchema is {"type":"string"}.
type StringSchema struct {
	Annotations
	MinLength *int
	MaxLength *int
	Pattern   *string // regular expression source, never compiled
	Format    *string
}

// ObjectSchema is {"type":"object"}.
type ObjectSchema struct {
	Annotations
	Properties           *Properties
	Required             []string // nil when absent
	AdditionalProperties Schema
}

// EnumSchema is {"enum":[...]}. Type is an authoring hint and is not checked
// against the kinds of Values.
type EnumSchema struct {
	Description *string
	Type        *string
	Values      []value.Value
}

// ArraySchema is {"type":"array"} with single-schema items.
type ArraySchema struct {
	Annotations
	Items       Schema
	MinItems    *int
	MaxItems    *int
	UniqueItems *bool
}

// IntegerSchema is {"type":"integer"}.
type IntegerSchema struct {
	Annotations
	Minimum *int64
	Maximum *int64
}

// NumberSchema is {"type":"number"}.
type NumberSchema struct {
	Annotations
	Minimum *float64
	Maximum *float64
}

// BooleanSchema is {"type":"boolean"}. It is not the same as LiteralTrue.
type BooleanSchema struct {
	Annotations
}

// NullSchema is {"type":"null"}.
type NullSchema struct {
	Annotations
}

// LiteralTrue is the bare true schema that accepts everything.
type LiteralTrue struct{}

// LiteralFalse is the bare false schema that accepts nothing.
type LiteralFalse struct{}

// AnyOfSchema is {"anyOf":[...]}.
type AnyOfSchema struct {
	Schemas []Schema
}

// AllOfSchema is {"allOf":[...]}.
type AllOfSchema struct {
	Schemas []Schema
}

// OneOfSchema is {"oneOf":[...]}.
type OneOfSchema struct {
	Schemas []Schema
}

// NotSchema is {"not":...}.
type NotSchema struct {
	Schema Schema
}

func (StringSchema) Variant() Variant  { return VariantString }
func (ObjectSchema) Variant() Variant  { return VariantObject }
func (EnumSchema) Variant() Variant    { return VariantEnum }
func (ArraySchema) Variant() Variant   { return VariantArray }
func (IntegerSchema) Variant() Variant { return VariantInteger }
func (NumberSchema) Variant() Variant  { return VariantNumber }
func (BooleanSchema) Variant() Variant { return VariantBoolean }
func (NullSchema) Variant() Variant    { return VariantNull }
func (LiteralTrue) Variant() Variant   { return VariantTrue }
func (LiteralFalse) Variant() Variant  { return VariantFalse }
func (AnyOfSchema) Variant() Variant   { return VariantAnyOf }
func (AllOfSchema) Variant() Variant   { return VariantAllOf }
func (OneOfSchema) Variant() Variant   { return VariantOneOf }
func (NotSchema) Variant() Variant     { return VariantNot }

func (StringSchema) isSchema()  {}
func (ObjectSchema) isSchema()  {}
func (EnumSchema) isSchema()    {}
func (ArraySchema) isSchema()   {}
func (IntegerSchema) isSchema() {}
func (NumberSchema) isSchema()  {}
func (BooleanSchema) isSchema() {}
func (NullSchema) isSchema()    {}
func (LiteralTrue) isSchema()   {}
func (LiteralFalse) isSchema()  {}
func (AnyOfSchema) isSchema()   {}
func (AllOfSchema) isSchema()   {}
func (OneOfSchema) isSchema()   {}
func (NotSchema) isSchema()     {}

// Property is a named entry of an object schema.
type Property struct {
	Name   string
	Schema Schema
}

// Prop is shorthand for Property{Name: name, Schema: s}.
func Prop(name string, s Schema) Property { return Property{Name: name, Schema: s} }

// Properties maps property names to schemas in declaration order. It is never
// mutated after construction. A nil *Properties is an absent keyword and
// behaves as an empty map for reads.
type Properties struct {
	m *orderedmap.OrderedMap[string, Schema]
}

// NewProperties builds Properties. A repeated name keeps its first position
// and its last schema.
func NewProperties(props ...Property) *Properties {
	m := orderedmap.New[string, Schema]()
	for _, p := range props {
		m.Set(p.Name, p.Schema)
	}
	return &Properties{m: m}
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil || p.m == nil {
		return 0
	}
	return p.m.Len()
}

// Get returns the schema for name.
func (p *Properties) Get(name string) (Schema, bool) {
	if p == nil || p.m == nil {
		return nil, false
	}
	return p.m.Get(name)
}

// Range calls fn for each property in order until fn returns false.
func (p *Properties) Range(fn func(name string, s Schema) bool) {
	if p == nil || p.m == nil {
		return
	}
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Names returns the property names in order.
func (p *Properties) Names() []string {
	out := make([]string, 0, p.Len())
	p.Range(func(name string, _ Schema) bool {
		out = append(out, name)
		return true
	})
	return out
}

// List returns the properties in order.
func (p *Properties) List() []Property {
	out := make([]Property, 0, p.Len())
	p.Range(func(name string, s Schema) bool {
		out = append(out, Property{Name: name, Schema: s})
		return true
	})
	return out
}

// With returns a copy with name set to s. An existing name keeps its position.
func (p *Properties) With(name string, s Schema) *Properties {
	return NewProperties(append(p.List(), Property{Name: name, Schema: s})...)
}

// Equal reports whether both hold the same names with equal schemas.
// Order is ignored; nil and empty differ.
func (p *Properties) Equal(o *Properties) bool {
	if (p == nil) != (o == nil) {
		return false
	}
	if p.Len() != o.Len() {
		return false
	}
	eq := true
	p.Range(func(name string, s Schema) bool {
		os, ok := o.Get(name)
		eq = ok && Equal(s, os)
		return eq
	})
	return eq
}
