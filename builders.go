package skema

import (
	"slices"

	"github.com/reoring/skema/value"
)

// String returns {"type":"string"}.
func String() StringSchema { return StringSchema{} }

// Object returns {"type":"object"}. Without props the properties keyword is
// absent; use WithProperties to emit an empty one.
func Object(props ...Property) ObjectSchema {
	if len(props) == 0 {
		return ObjectSchema{}
	}
	return ObjectSchema{Properties: NewProperties(props...)}
}

// Array returns {"type":"array"}. A nil items schema leaves items absent.
func Array(items Schema) ArraySchema { return ArraySchema{Items: items} }

// Integer returns {"type":"integer"}.
func Integer() IntegerSchema { return IntegerSchema{} }

// Number returns {"type":"number"}.
func Number() NumberSchema { return NumberSchema{} }

// Boolean returns {"type":"boolean"}.
func Boolean() BooleanSchema { return BooleanSchema{} }

// Null returns {"type":"null"}.
func Null() NullSchema { return NullSchema{} }

// Enum returns {"enum":[...]} over the given members. A nil member is stored
// as value.Null.
func Enum(values ...value.Value) EnumSchema {
	out := make([]value.Value, len(values))
	for i, v := range values {
		if v == nil {
			v = value.Null{}
		}
		out[i] = v
	}
	return EnumSchema{Values: out}
}

// EnumOf converts Go values with value.Of and builds an enum from them.
func EnumOf(xs ...any) (EnumSchema, error) {
	vals := make([]value.Value, len(xs))
	for i, x := range xs {
		v, err := value.Of(x)
		if err != nil {
			return EnumSchema{}, err
		}
		vals[i] = v
	}
	return EnumSchema{Values: vals}, nil
}

// AnyOf returns {"anyOf":[...]}.
func AnyOf(schemas ...Schema) AnyOfSchema { return AnyOfSchema{Schemas: cloneSchemas(schemas)} }

// AllOf returns {"allOf":[...]}.
func AllOf(schemas ...Schema) AllOfSchema { return AllOfSchema{Schemas: cloneSchemas(schemas)} }

// OneOf returns {"oneOf":[...]}.
func OneOf(schemas ...Schema) OneOfSchema { return OneOfSchema{Schemas: cloneSchemas(schemas)} }

// Not returns {"not":s}.
func Not(s Schema) NotSchema { return NotSchema{Schema: s} }

// True returns the literal true schema.
func True() LiteralTrue { return LiteralTrue{} }

// False returns the literal false schema.
func False() LiteralFalse { return LiteralFalse{} }

func cloneSchemas(schemas []Schema) []Schema {
	out := make([]Schema, len(schemas))
	copy(out, schemas)
	return out
}

func ptr[T any](v T) *T { return &v }

// With* methods return modified copies; the receiver is never changed.

func (a Annotations) withTitle(t string) Annotations { a.Title = ptr(t); return a }
func (a Annotations) withDescription(d string) Annotations {
	a.Description = ptr(d)
	return a
}
func (a Annotations) withDefault(v value.Value) Annotations {
	if v == nil {
		v = value.Null{}
	}
	a.Default = v
	return a
}
func (a Annotations) withExamples(vs []value.Value) Annotations {
	a.Examples = Enum(vs...).Values
	return a
}

func (s StringSchema) WithTitle(t string) StringSchema       { s.Annotations = s.withTitle(t); return s }
func (s StringSchema) WithDescription(d string) StringSchema { s.Annotations = s.withDescription(d); return s }
func (s StringSchema) WithDefault(v value.Value) StringSchema {
	s.Annotations = s.withDefault(v)
	return s
}
func (s StringSchema) WithExamples(vs ...value.Value) StringSchema {
	s.Annotations = s.withExamples(vs)
	return s
}
func (s StringSchema) WithMinLength(n int) StringSchema  { s.MinLength = ptr(n); return s }
func (s StringSchema) WithMaxLength(n int) StringSchema  { s.MaxLength = ptr(n); return s }
func (s StringSchema) WithPattern(re string) StringSchema { s.Pattern = ptr(re); return s }
func (s StringSchema) WithFormat(f string) StringSchema   { s.Format = ptr(f); return s }

func (s ObjectSchema) WithTitle(t string) ObjectSchema       { s.Annotations = s.withTitle(t); return s }
func (s ObjectSchema) WithDescription(d string) ObjectSchema { s.Annotations = s.withDescription(d); return s }
func (s ObjectSchema) WithDefault(v value.Value) ObjectSchema {
	s.Annotations = s.withDefault(v)
	return s
}
func (s ObjectSchema) WithExamples(vs ...value.Value) ObjectSchema {
	s.Annotations = s.withExamples(vs)
	return s
}

// WithProperties replaces the properties keyword. Calling it with no
// arguments sets an empty, present properties object.
func (s ObjectSchema) WithProperties(props ...Property) ObjectSchema {
	s.Properties = NewProperties(props...)
	return s
}

// WithProperty adds or replaces one property.
func (s ObjectSchema) WithProperty(name string, ps Schema) ObjectSchema {
	s.Properties = s.Properties.With(name, ps)
	return s
}

// WithRequired replaces the required list. Calling it with no names sets an
// empty, present list.
func (s ObjectSchema) WithRequired(names ...string) ObjectSchema {
	s.Required = append([]string{}, names...)
	return s
}

func (s ObjectSchema) WithAdditionalProperties(ap Schema) ObjectSchema {
	s.AdditionalProperties = ap
	return s
}

func (s ArraySchema) WithTitle(t string) ArraySchema       { s.Annotations = s.withTitle(t); return s }
func (s ArraySchema) WithDescription(d string) ArraySchema { s.Annotations = s.withDescription(d); return s }
func (s ArraySchema) WithDefault(v value.Value) ArraySchema {
	s.Annotations = s.withDefault(v)
	return s
}
func (s ArraySchema) WithExamples(vs ...value.Value) ArraySchema {
	s.Annotations = s.withExamples(vs)
	return s
}
func (s ArraySchema) WithItems(items Schema) ArraySchema { s.Items = items; return s }
func (s ArraySchema) WithMinItems(n int) ArraySchema     { s.MinItems = ptr(n); return s }
func (s ArraySchema) WithMaxItems(n int) ArraySchema     { s.MaxItems = ptr(n); return s }
func (s ArraySchema) WithUniqueItems(u bool) ArraySchema { s.UniqueItems = ptr(u); return s }

func (s IntegerSchema) WithTitle(t string) IntegerSchema { s.Annotations = s.withTitle(t); return s }
func (s IntegerSchema) WithDescription(d string) IntegerSchema {
	s.Annotations = s.withDescription(d)
	return s
}
func (s IntegerSchema) WithDefault(v value.Value) IntegerSchema {
	s.Annotations = s.withDefault(v)
	return s
}
func (s IntegerSchema) WithExamples(vs ...value.Value) IntegerSchema {
	s.Annotations = s.withExamples(vs)
	return s
}
func (s IntegerSchema) WithMinimum(n int64) IntegerSchema { s.Minimum = ptr(n); return s }
func (s IntegerSchema) WithMaximum(n int64) IntegerSchema { s.Maximum = ptr(n); return s }

func (s NumberSchema) WithTitle(t string) NumberSchema       { s.Annotations = s.withTitle(t); return s }
func (s NumberSchema) WithDescription(d string) NumberSchema { s.Annotations = s.withDescription(d); return s }
func (s NumberSchema) WithDefault(v value.Value) NumberSchema {
	s.Annotations = s.withDefault(v)
	return s
}
func (s NumberSchema) WithExamples(vs ...value.Value) NumberSchema {
	s.Annotations = s.withExamples(vs)
	return s
}
func (s NumberSchema) WithMinimum(f float64) NumberSchema { s.Minimum = ptr(f); return s }
func (s NumberSchema) WithMaximum(f float64) NumberSchema { s.Maximum = ptr(f); return s }

func (s BooleanSchema) WithTitle(t string) BooleanSchema { s.Annotations = s.withTitle(t); return s }
func (s BooleanSchema) WithDescription(d string) BooleanSchema {
	s.Annotations = s.withDescription(d)
	return s
}
func (s BooleanSchema) WithDefault(v value.Value) BooleanSchema {
	s.Annotations = s.withDefault(v)
	return s
}
func (s BooleanSchema) WithExamples(vs ...value.Value) BooleanSchema {
	s.Annotations = s.withExamples(vs)
	return s
}

func (s NullSchema) WithTitle(t string) NullSchema       { s.Annotations = s.withTitle(t); return s }
func (s NullSchema) WithDescription(d string) NullSchema { s.Annotations = s.withDescription(d); return s }
func (s NullSchema) WithDefault(v value.Value) NullSchema {
	s.Annotations = s.withDefault(v)
	return s
}
func (s NullSchema) WithExamples(vs ...value.Value) NullSchema {
	s.Annotations = s.withExamples(vs)
	return s
}

func (s EnumSchema) WithDescription(d string) EnumSchema { s.Description = ptr(d); return s }

// WithType sets the declared type hint. It is not checked against Values.
func (s EnumSchema) WithType(t string) EnumSchema { s.Type = ptr(t); return s }

// WithValues replaces the members.
func (s EnumSchema) WithValues(vs ...value.Value) EnumSchema {
	s.Values = Enum(vs...).Values
	return s
}

// Append returns a copy with more schemas appended.
func (s AnyOfSchema) Append(more ...Schema) AnyOfSchema {
	s.Schemas = append(slices.Clip(s.Schemas), more...)
	return s
}

// Append returns a copy with more schemas appended.
func (s AllOfSchema) Append(more ...Schema) AllOfSchema {
	s.Schemas = append(slices.Clip(s.Schemas), more...)
	return s
}

// Append returns a copy with more schemas appended.
func (s OneOfSchema) Append(more ...Schema) OneOfSchema {
	s.Schemas = append(slices.Clip(s.Schemas), more...)
	return s
}
