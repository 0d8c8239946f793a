package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/reoring/skema"
	"github.com/reoring/skema/value"
)

// printTree writes one line per schema node, children indented by two spaces.
func printTree(w io.Writer, label string, s skema.Schema, depth int) {
	pad := strings.Repeat("  ", depth)
	if label != "" {
		label += ": "
	}
	fmt.Fprintf(w, "%s%s%s%s\n", pad, label, s.Variant(), attrs(s))
	switch x := s.(type) {
	case skema.ObjectSchema:
		x.Properties.Range(func(name string, ps skema.Schema) bool {
			printTree(w, "properties."+name, ps, depth+1)
			return true
		})
		if x.AdditionalProperties != nil {
			printTree(w, "additionalProperties", x.AdditionalProperties, depth+1)
		}
	case skema.ArraySchema:
		if x.Items != nil {
			printTree(w, "items", x.Items, depth+1)
		}
	case skema.AnyOfSchema:
		children(w, "anyOf", x.Schemas, depth)
	case skema.AllOfSchema:
		children(w, "allOf", x.Schemas, depth)
	case skema.OneOfSchema:
		children(w, "oneOf", x.Schemas, depth)
	case skema.NotSchema:
		printTree(w, "not", x.Schema, depth+1)
	}
}

func children(w io.Writer, key string, schemas []skema.Schema, depth int) {
	for i, c := range schemas {
		printTree(w, fmt.Sprintf("%s[%d]", key, i), c, depth+1)
	}
}

// attrs renders the scalar keywords of s as " k=v" pairs.
func attrs(s skema.Schema) string {
	var kv []string
	add := func(k string, v any) { kv = append(kv, fmt.Sprintf("%s=%v", k, v)) }
	if d, ok := skema.DescriptionOf(s); ok {
		add("description", fmt.Sprintf("%q", d))
	}
	switch x := s.(type) {
	case skema.StringSchema:
		if x.MinLength != nil {
			add("minLength", *x.MinLength)
		}
		if x.MaxLength != nil {
			add("maxLength", *x.MaxLength)
		}
		if x.Pattern != nil {
			add("pattern", fmt.Sprintf("%q", *x.Pattern))
		}
		if x.Format != nil {
			add("format", *x.Format)
		}
	case skema.ObjectSchema:
		if x.Required != nil {
			add("required", "["+strings.Join(x.Required, ",")+"]")
		}
	case skema.ArraySchema:
		if x.MinItems != nil {
			add("minItems", *x.MinItems)
		}
		if x.MaxItems != nil {
			add("maxItems", *x.MaxItems)
		}
		if x.UniqueItems != nil {
			add("uniqueItems", *x.UniqueItems)
		}
	case skema.IntegerSchema:
		if x.Minimum != nil {
			add("minimum", *x.Minimum)
		}
		if x.Maximum != nil {
			add("maximum", *x.Maximum)
		}
	case skema.NumberSchema:
		if x.Minimum != nil {
			add("minimum", *x.Minimum)
		}
		if x.Maximum != nil {
			add("maximum", *x.Maximum)
		}
	case skema.EnumSchema:
		if x.Type != nil {
			add("type", *x.Type)
		}
		b, err := value.Marshal(value.Array(x.Values), value.MarshalOpt{})
		if err == nil {
			add("values", string(b))
		}
	}
	if len(kv) == 0 {
		return ""
	}
	return " " + strings.Join(kv, " ")
}
