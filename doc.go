// Package skema models JSON Schema documents as a closed set of Go types and
// converts them to and from JSON without loss.
//
// A Schema is exactly one of fourteen variants: the typed schemas
// (StringSchema, ObjectSchema, ArraySchema, IntegerSchema, NumberSchema,
// BooleanSchema, NullSchema), EnumSchema, the logical operators (AnyOfSchema,
// AllOfSchema, OneOfSchema, NotSchema) and the literal true/false schemas.
// Keyword values that may hold any JSON value, such as enum members and
// defaults, use the value package.
//
// Decoding tries each variant in a fixed order and keeps the first that
// binds: Enum, then String, Object, Array, Integer, Number, Boolean and Null,
// then the literals, then anyOf, allOf, oneOf and not. An object without
// "type" binds a typed variant only when it carries one of that variant's
// keywords. Failures are reported as Issues with JSON Pointer paths.
//
// The package never validates instances against schemas.
//
// Typical usage:
//
//	s := skema.Object(
//		skema.Prop("name", skema.String().WithMinLength(1)),
//	).WithRequired("name")
//	b, err := skema.Encode(s)
//
//	s2, err := skema.Decode(b)
//	if obj, ok := skema.AsObject(s2); ok {
//		name, _ := obj.Properties.Get("name")
//		_ = name
//	}
package skema
