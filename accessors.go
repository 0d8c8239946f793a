package skema

import "github.com/reoring/skema/value"

// As returns s as the concrete variant T when it is one.
//
//	if str, ok := skema.As[skema.StringSchema](s); ok { ... }
func As[T Schema](s Schema) (T, bool) {
	t, ok := s.(T)
	return t, ok
}

func AsString(s Schema) (StringSchema, bool)   { return As[StringSchema](s) }
func AsObject(s Schema) (ObjectSchema, bool)   { return As[ObjectSchema](s) }
func AsEnum(s Schema) (EnumSchema, bool)       { return As[EnumSchema](s) }
func AsArray(s Schema) (ArraySchema, bool)     { return As[ArraySchema](s) }
func AsInteger(s Schema) (IntegerSchema, bool) { return As[IntegerSchema](s) }
func AsNumber(s Schema) (NumberSchema, bool)   { return As[NumberSchema](s) }
func AsBoolean(s Schema) (BooleanSchema, bool) { return As[BooleanSchema](s) }
func AsNull(s Schema) (NullSchema, bool)       { return As[NullSchema](s) }
func AsAnyOf(s Schema) (AnyOfSchema, bool)     { return As[AnyOfSchema](s) }
func AsAllOf(s Schema) (AllOfSchema, bool)     { return As[AllOfSchema](s) }
func AsOneOf(s Schema) (OneOfSchema, bool)     { return As[OneOfSchema](s) }
func AsNot(s Schema) (NotSchema, bool)         { return As[NotSchema](s) }

// IsTrue reports whether s is the literal true schema. A BooleanSchema is
// not.
func IsTrue(s Schema) bool {
	_, ok := s.(LiteralTrue)
	return ok
}

// IsFalse reports whether s is the literal false schema.
func IsFalse(s Schema) bool {
	_, ok := s.(LiteralFalse)
	return ok
}

// Kind returns the "type" keyword of s. Enums report their declared type
// hint when one is set; logical and literal schemas have none.
func Kind(s Schema) (string, bool) {
	switch x := s.(type) {
	case StringSchema:
		return "string", true
	case ObjectSchema:
		return "object", true
	case ArraySchema:
		return "array", true
	case IntegerSchema:
		return "integer", true
	case NumberSchema:
		return "number", true
	case BooleanSchema:
		return "boolean", true
	case NullSchema:
		return "null", true
	case EnumSchema:
		if x.Type != nil {
			return *x.Type, true
		}
	}
	return "", false
}

// DescriptionOf returns the description of typed and enum schemas when set.
func DescriptionOf(s Schema) (string, bool) {
	var d *string
	switch x := s.(type) {
	case StringSchema:
		d = x.Description
	case ObjectSchema:
		d = x.Description
	case ArraySchema:
		d = x.Description
	case IntegerSchema:
		d = x.Description
	case NumberSchema:
		d = x.Description
	case BooleanSchema:
		d = x.Description
	case NullSchema:
		d = x.Description
	case EnumSchema:
		d = x.Description
	}
	if d == nil {
		return "", false
	}
	return *d, true
}

// Equal reports structural equality. Property order is ignored; everything
// else, including the order of required names, enum members and logical
// operands, is significant. Absent keywords differ from zero values.
func Equal(a, b Schema) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Variant() != b.Variant() {
		return false
	}
	va, err := ToValue(a)
	if err != nil {
		return false
	}
	vb, err := ToValue(b)
	if err != nil {
		return false
	}
	return value.Equal(va, vb)
}
