// Package value models schema-less JSON values as a closed sum type.
//
// A Value is exactly one of String, Integer, Float, Boolean, Null, Array or
// Object. Integer and Float are separate kinds and are never unified: the
// JSON token 5 decodes as Integer(5), 5.0 as Float(5), and both encode back
// to the same spelling.
//
// Go values enter and leave the model through Of and Decode/Into. Types can
// take part in the conversion by implementing Marshaler and Unmarshaler:
//
//	type Level int
//
//	func (l Level) MarshalValue() (value.Value, error) { return value.String(l.String()), nil }
//
//	v, _ := value.Of([]Level{Low, High}) // Array{String("low"), String("high")}
//
// JSON text is read with Unmarshal (or ReadFrom over a token source) and
// written with Marshal.
package value
