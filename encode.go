package skema

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/reoring/skema/source/yamlsrc"
	"github.com/reoring/skema/value"
)

// ErrNilSchema is returned when a nil Schema is encoded.
var ErrNilSchema = errors.New("skema: nil schema")

// Encode renders s as compact JSON in preserve order.
func Encode(s Schema) ([]byte, error) { return EncodeWith(s, EncodeOpt{}) }

// EncodeWith renders s as JSON. Encoding fails only for nil schemas and
// non-finite numbers.
func EncodeWith(s Schema, opt EncodeOpt) ([]byte, error) {
	v, err := marshalSchema(s, "")
	if err != nil {
		return nil, err
	}
	return value.Marshal(v, value.MarshalOpt{
		SortKeys: opt.Mode == EncodeCanonical,
		Prefix:   opt.Prefix,
		Indent:   opt.Indent,
	})
}

// EncodeYAML renders s as a YAML document. The indent width is taken from
// len(opt.Indent) and defaults to two spaces; Prefix is ignored.
func EncodeYAML(s Schema, opt EncodeOpt) ([]byte, error) {
	v, err := marshalSchema(s, "")
	if err != nil {
		return nil, err
	}
	if opt.Mode == EncodeCanonical {
		v = value.SortKeys(v)
	}
	return yamlsrc.Marshal(v, len(strings.ReplaceAll(opt.Indent, "\t", "  ")))
}

// ToValue converts s into its JSON value form.
func ToValue(s Schema) (value.Value, error) { return marshalSchema(s, "") }

func marshalSchema(s Schema, path string) (value.Value, error) {
	if s == nil {
		return nil, fmt.Errorf("%w at %s", ErrNilSchema, pathOrRoot(path))
	}
	e := encoder{path: path}
	switch x := s.(type) {
	case StringSchema:
		e.typed("string", x.Annotations, func() {
			e.count("minLength", x.MinLength)
			e.count("maxLength", x.MaxLength)
			e.str("pattern", x.Pattern)
			e.str("format", x.Format)
		})
	case ObjectSchema:
		e.typed("object", x.Annotations, func() {
			if x.Properties != nil {
				props := make([]value.Member, 0, x.Properties.Len())
				x.Properties.Range(func(name string, ps Schema) bool {
					pv := e.nested(ps, "properties", name)
					props = append(props, value.Member{Key: name, Value: pv})
					return e.err == nil
				})
				e.add("properties", value.NewObject(props...))
			}
			if x.Required != nil {
				req := make(value.Array, len(x.Required))
				for i, r := range x.Required {
					req[i] = value.String(r)
				}
				e.add("required", req)
			}
			if x.AdditionalProperties != nil {
				e.add("additionalProperties", e.nested(x.AdditionalProperties, "additionalProperties"))
			}
		})
	case ArraySchema:
		e.typed("array", x.Annotations, func() {
			if x.Items != nil {
				e.add("items", e.nested(x.Items, "items"))
			}
			e.count("minItems", x.MinItems)
			e.count("maxItems", x.MaxItems)
			if x.UniqueItems != nil {
				e.add("uniqueItems", value.Boolean(*x.UniqueItems))
			}
		})
	case IntegerSchema:
		e.typed("integer", x.Annotations, func() {
			if x.Minimum != nil {
				e.add("minimum", value.Integer(*x.Minimum))
			}
			if x.Maximum != nil {
				e.add("maximum", value.Integer(*x.Maximum))
			}
		})
	case NumberSchema:
		e.typed("number", x.Annotations, func() {
			e.number("minimum", x.Minimum)
			e.number("maximum", x.Maximum)
		})
	case BooleanSchema:
		e.typed("boolean", x.Annotations, nil)
	case NullSchema:
		e.typed("null", x.Annotations, nil)
	case EnumSchema:
		e.str("description", x.Description)
		e.str("type", x.Type)
		vals := make(value.Array, len(x.Values))
		for i, v := range x.Values {
			if v == nil {
				v = value.Null{}
			}
			vals[i] = v
		}
		e.add("enum", vals)
	case LiteralTrue:
		return value.Boolean(true), nil
	case LiteralFalse:
		return value.Boolean(false), nil
	case AnyOfSchema:
		e.add("anyOf", e.list("anyOf", x.Schemas))
	case AllOfSchema:
		e.add("allOf", e.list("allOf", x.Schemas))
	case OneOfSchema:
		e.add("oneOf", e.list("oneOf", x.Schemas))
	case NotSchema:
		e.add("not", e.nested(x.Schema, "not"))
	default:
		return nil, fmt.Errorf("skema: unknown schema type %T", s)
	}
	if e.err != nil {
		return nil, e.err
	}
	return value.NewObject(e.members...), nil
}

// encoder accumulates object members in emission order and keeps the first
// error.
type encoder struct {
	path    string
	members []value.Member
	err     error
}

func (e *encoder) add(key string, v value.Value) {
	if e.err != nil {
		return
	}
	e.members = append(e.members, value.Member{Key: key, Value: v})
}

func (e *encoder) typed(kind string, a Annotations, keywords func()) {
	e.add("type", value.String(kind))
	e.str("title", a.Title)
	e.str("description", a.Description)
	if keywords != nil {
		keywords()
	}
	if a.Default != nil {
		e.add("default", a.Default)
	}
	if a.Examples != nil {
		ex := make(value.Array, len(a.Examples))
		for i, v := range a.Examples {
			if v == nil {
				v = value.Null{}
			}
			ex[i] = v
		}
		e.add("examples", ex)
	}
}

func (e *encoder) str(key string, s *string) {
	if s != nil {
		e.add(key, value.String(*s))
	}
}

func (e *encoder) count(key string, n *int) {
	if n != nil {
		e.add(key, value.Integer(*n))
	}
}

func (e *encoder) number(key string, f *float64) {
	if f == nil {
		return
	}
	if math.IsNaN(*f) || math.IsInf(*f, 0) {
		if e.err == nil {
			e.err = &KeywordError{Path: joinPath(e.path, key), Keyword: key, Reason: "non-finite number"}
		}
		return
	}
	e.add(key, value.Float(*f))
}

func (e *encoder) nested(s Schema, tokens ...string) value.Value {
	if e.err != nil {
		return nil
	}
	v, err := marshalSchema(s, joinPath(e.path, tokens...))
	if err != nil {
		e.err = err
		return nil
	}
	return v
}

func (e *encoder) list(key string, schemas []Schema) value.Value {
	out := make(value.Array, 0, len(schemas))
	for i, s := range schemas {
		out = append(out, e.nested(s, key, indexToken(i)))
	}
	return out
}

// MarshalValue implements value.Marshaler.
func (s StringSchema) MarshalValue() (value.Value, error)  { return marshalSchema(s, "") }
func (s ObjectSchema) MarshalValue() (value.Value, error)  { return marshalSchema(s, "") }
func (s EnumSchema) MarshalValue() (value.Value, error)    { return marshalSchema(s, "") }
func (s ArraySchema) MarshalValue() (value.Value, error)   { return marshalSchema(s, "") }
func (s IntegerSchema) MarshalValue() (value.Value, error) { return marshalSchema(s, "") }
func (s NumberSchema) MarshalValue() (value.Value, error)  { return marshalSchema(s, "") }
func (s BooleanSchema) MarshalValue() (value.Value, error) { return marshalSchema(s, "") }
func (s NullSchema) MarshalValue() (value.Value, error)    { return marshalSchema(s, "") }
func (s LiteralTrue) MarshalValue() (value.Value, error)   { return value.Boolean(true), nil }
func (s LiteralFalse) MarshalValue() (value.Value, error)  { return value.Boolean(false), nil }
func (s AnyOfSchema) MarshalValue() (value.Value, error)   { return marshalSchema(s, "") }
func (s AllOfSchema) MarshalValue() (value.Value, error)   { return marshalSchema(s, "") }
func (s OneOfSchema) MarshalValue() (value.Value, error)   { return marshalSchema(s, "") }
func (s NotSchema) MarshalValue() (value.Value, error)     { return marshalSchema(s, "") }
