package skema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	eng "github.com/reoring/skema/internal/engine"
	"github.com/reoring/skema/source/gojson"
	"github.com/reoring/skema/source/yamlsrc"
	"github.com/reoring/skema/value"
)

// Decode parses JSON text into a Schema using DefaultDecodeOpt. Failures are
// reported as Issues.
func Decode(data []byte) (Schema, error) { return DecodeWith(data, DefaultDecodeOpt()) }

// DecodeWith parses JSON text into a Schema.
func DecodeWith(data []byte, opt DecodeOpt) (Schema, error) {
	v, err := readJSON(bytes.NewReader(data), opt)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, toIssues(value.ErrInvalidJSON, -1)
	}
	return decodeValue(v, opt)
}

// DecodeReader parses exactly one JSON value from r into a Schema. Duplicate
// keys, nesting depth, input size and JSON syntax are enforced while tokens
// stream in.
func DecodeReader(r io.Reader, opt DecodeOpt) (Schema, error) {
	v, err := readJSON(r, opt)
	if err != nil {
		return nil, err
	}
	return decodeValue(v, opt)
}

func readJSON(r io.Reader, opt DecodeOpt) (value.Value, error) {
	src := eng.WrapWithEnforcement(gojson.NewReader(r), eng.EnforceOptions{
		OnDuplicate: duplicateStrictness(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.maxDepth(),
		MaxBytes:    opt.MaxBytes,
		IssueSink: func(si eng.SimpleIssue) {
			if opt.Warnings != nil {
				opt.Warnings(Issue{Path: si.Path, Code: si.Code, Message: si.Message, Offset: -1})
			}
		},
	})
	v, err := value.ReadFrom(src)
	if err == nil {
		err = value.ExpectEOF(src)
	}
	if err != nil {
		return nil, toIssues(err, src.Location())
	}
	return v, nil
}

// DecodeYAML parses a single YAML document into a Schema. YAML scalars keep
// their tags: 5 is an integer and 5.0 a float.
func DecodeYAML(data []byte, opt DecodeOpt) (Schema, error) {
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, Issues{truncatedIssue(opt.MaxBytes, int64(len(data)))}
	}
	v, err := yamlsrc.Unmarshal(data, yamlsrc.Options{
		MaxDepth:    opt.maxDepth(),
		OnDuplicate: yamlDuplicates(opt),
	})
	if err != nil {
		return nil, toIssues(err, -1)
	}
	return decodeValue(v, opt)
}

// DecodeValue resolves an already parsed JSON value into a Schema using the
// ordered trial decode.
func DecodeValue(v value.Value) (Schema, error) { return decodeValue(v, DefaultDecodeOpt()) }

func decodeValue(v value.Value, opt DecodeOpt) (Schema, error) {
	d := decoder{maxDepth: opt.maxDepth()}
	s, err := d.schema(v, "", 0)
	if err != nil {
		return nil, toIssues(err, -1)
	}
	return s, nil
}

func duplicateStrictness(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	}
	return eng.DupIgnore
}

func yamlDuplicates(opt DecodeOpt) func(*yamlsrc.DuplicateKeyError) error {
	switch opt.Strictness.OnDuplicateKey {
	case Error:
		return nil
	case Warn:
		return func(e *yamlsrc.DuplicateKeyError) error {
			if opt.Warnings != nil {
				opt.Warnings(Issue{Path: e.Path, Code: CodeDuplicateKey, Message: e.Error(), Offset: -1})
			}
			return nil
		}
	}
	return func(*yamlsrc.DuplicateKeyError) error { return nil }
}

// DepthError reports schema nesting beyond DecodeOpt.MaxDepth.
type DepthError struct {
	Path string
	Max  int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("skema: max depth %d exceeded at %s", e.Max, pathOrRoot(e.Path))
}

// MismatchError reports that the input lacks the discriminating keyword of a
// candidate, as opposed to carrying it with an unusable value. Err is the
// *value.MissingPropertyError for a missing keyword.
type MismatchError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MismatchError) Error() string { return e.Reason }

func (e *MismatchError) Unwrap() error { return e.Err }

// keyword returns the value of a discriminating keyword or a MismatchError.
func keyword(obj value.Object, path, key string) (value.Value, error) {
	v, err := obj.Property(key)
	if err != nil {
		return nil, &MismatchError{Path: path, Reason: fmt.Sprintf("no %q keyword", key), Err: err}
	}
	return v, nil
}

type decoder struct {
	maxDepth int
}

type candidate struct {
	variant Variant
	decode  func(d *decoder, v value.Value, path string, depth int) (Schema, error)
}

// candidates holds the trial order. Enum goes first so that an object with
// "enum" is never read as a typed schema; literals come before the logical
// operators. Assigned in init because the decoders recurse into it.
var candidates []candidate

func init() {
	candidates = []candidate{
		{VariantEnum, (*decoder).enum},
		{VariantString, (*decoder).stringSchema},
		{VariantObject, (*decoder).objectSchema},
		{VariantArray, (*decoder).arraySchema},
		{VariantInteger, (*decoder).integerSchema},
		{VariantNumber, (*decoder).numberSchema},
		{VariantBoolean, (*decoder).booleanSchema},
		{VariantNull, (*decoder).nullSchema},
		{VariantTrue, literal(true)},
		{VariantFalse, literal(false)},
		{VariantAnyOf, logical("anyOf", func(s []Schema) Schema { return AnyOfSchema{Schemas: s} })},
		{VariantAllOf, logical("allOf", func(s []Schema) Schema { return AllOfSchema{Schemas: s} })},
		{VariantOneOf, logical("oneOf", func(s []Schema) Schema { return OneOfSchema{Schemas: s} })},
		{VariantNot, (*decoder).not},
	}
}

func (d *decoder) schema(v value.Value, path string, depth int) (Schema, error) {
	if d.maxDepth > 0 && depth >= d.maxDepth {
		return nil, &DepthError{Path: path, Max: d.maxDepth}
	}
	attempts := make([]Attempt, 0, len(candidates))
	for _, c := range candidates {
		s, err := c.decode(d, v, path, depth)
		if err == nil {
			return s, nil
		}
		var de *DepthError
		if errors.As(err, &de) {
			return nil, err
		}
		attempts = append(attempts, Attempt{Variant: c.variant, Err: err})
	}
	return nil, &ShapeError{Path: path, Attempts: attempts}
}

// fields reads the keywords of one JSON object for a candidate.
type fields struct {
	obj  value.Object
	path string
	err  error
}

func (f *fields) fail(key, reason string) {
	if f.err == nil {
		f.err = &KeywordError{Path: joinPath(f.path, key), Keyword: key, Reason: reason}
	}
}

func (f *fields) expect(key string, want value.Kind, got value.Value) {
	if f.err == nil {
		f.err = &value.TypeError{Path: joinPath(f.path, key), Expected: want, Actual: got}
	}
}

func (f *fields) str(key string) *string {
	v, ok := f.obj.Get(key)
	if !ok || f.err != nil {
		return nil
	}
	s, ok := v.(value.String)
	if !ok {
		f.expect(key, value.KindString, v)
		return nil
	}
	out := string(s)
	return &out
}

func (f *fields) count(key string) *int {
	v, ok := f.obj.Get(key)
	if !ok || f.err != nil {
		return nil
	}
	i, ok := v.(value.Integer)
	if !ok {
		f.expect(key, value.KindInteger, v)
		return nil
	}
	if int64(int(i)) != int64(i) {
		f.fail(key, "out of range")
		return nil
	}
	out := int(i)
	return &out
}

func (f *fields) integer(key string) *int64 {
	v, ok := f.obj.Get(key)
	if !ok || f.err != nil {
		return nil
	}
	i, ok := v.(value.Integer)
	if !ok {
		f.expect(key, value.KindInteger, v)
		return nil
	}
	out := int64(i)
	return &out
}

// number accepts integers as well as floats.
func (f *fields) number(key string) *float64 {
	v, ok := f.obj.Get(key)
	if !ok || f.err != nil {
		return nil
	}
	n, err := value.AsFloat64(v)
	if err != nil {
		f.expect(key, value.KindFloat, v)
		return nil
	}
	return &n
}

func (f *fields) flag(key string) *bool {
	v, ok := f.obj.Get(key)
	if !ok || f.err != nil {
		return nil
	}
	b, ok := v.(value.Boolean)
	if !ok {
		f.expect(key, value.KindBoolean, v)
		return nil
	}
	out := bool(b)
	return &out
}

func (f *fields) array(key string) (value.Array, bool) {
	v, ok := f.obj.Get(key)
	if !ok || f.err != nil {
		return nil, false
	}
	a, ok := v.(value.Array)
	if !ok {
		f.expect(key, value.KindArray, v)
		return nil, false
	}
	return a, true
}

func (f *fields) annotations() Annotations {
	a := Annotations{Title: f.str("title"), Description: f.str("description")}
	if v, ok := f.obj.Get("default"); ok {
		a.Default = v
	}
	if ex, ok := f.array("examples"); ok {
		a.Examples = append([]value.Value{}, ex...)
	}
	return a
}

func asObject(v value.Value, path string) (value.Object, error) {
	obj, ok := v.(value.Object)
	if !ok {
		return value.Object{}, &MismatchError{Path: path, Reason: "not a JSON object, got " + v.Kind().String()}
	}
	return obj, nil
}

// discriminators lists every keyword that selects a candidate. An object
// without "type" that carries none of them binds to the first typed
// candidate, String.
var discriminators = []string{
	"enum",
	"minLength", "maxLength", "pattern", "format",
	"properties", "required", "additionalProperties",
	"items", "minItems", "maxItems", "uniqueItems",
	"minimum", "maximum",
	"anyOf", "allOf", "oneOf", "not",
}

// typed binds the "type" discriminator of a typed candidate. Without "type"
// the candidate applies only when one of its own keywords is present.
func typed(v value.Value, path, kind string, keywords ...string) (*fields, error) {
	obj, err := asObject(v, path)
	if err != nil {
		return nil, err
	}
	if t, ok := obj.Get("type"); ok {
		s, isStr := t.(value.String)
		if !isStr {
			return nil, &value.TypeError{Path: joinPath(path, "type"), Expected: value.KindString, Actual: t}
		}
		if string(s) != kind {
			return nil, &MismatchError{Path: path, Reason: fmt.Sprintf("type is %q, not %q", string(s), kind)}
		}
		return &fields{obj: obj, path: path}, nil
	}
	for _, k := range keywords {
		if obj.Has(k) {
			return &fields{obj: obj, path: path}, nil
		}
	}
	if kind == "string" && !hasAny(obj, discriminators) {
		return &fields{obj: obj, path: path}, nil
	}
	if len(keywords) == 0 {
		return nil, &MismatchError{Path: path, Reason: fmt.Sprintf("requires \"type\": %q", kind)}
	}
	return nil, &MismatchError{Path: path, Reason: fmt.Sprintf("no \"type\" and none of %s", strings.Join(keywords, ", "))}
}

func hasAny(obj value.Object, keys []string) bool {
	for _, k := range keys {
		if obj.Has(k) {
			return true
		}
	}
	return false
}

func (d *decoder) enum(v value.Value, path string, _ int) (Schema, error) {
	obj, err := asObject(v, path)
	if err != nil {
		return nil, err
	}
	if _, err := keyword(obj, path, "enum"); err != nil {
		return nil, err
	}
	f := &fields{obj: obj, path: path}
	s := EnumSchema{Description: f.str("description"), Type: f.str("type")}
	if vals, ok := f.array("enum"); ok {
		s.Values = append([]value.Value{}, vals...)
	}
	return s, f.err
}

func (d *decoder) stringSchema(v value.Value, path string, _ int) (Schema, error) {
	f, err := typed(v, path, "string", "minLength", "maxLength", "pattern", "format")
	if err != nil {
		return nil, err
	}
	s := StringSchema{
		Annotations: f.annotations(),
		MinLength:   f.count("minLength"),
		MaxLength:   f.count("maxLength"),
		Pattern:     f.str("pattern"),
		Format:      f.str("format"),
	}
	return s, f.err
}

func (d *decoder) objectSchema(v value.Value, path string, depth int) (Schema, error) {
	f, err := typed(v, path, "object", "properties", "required", "additionalProperties")
	if err != nil {
		return nil, err
	}
	s := ObjectSchema{Annotations: f.annotations()}
	if pv, ok := f.obj.Get("properties"); ok && f.err == nil {
		pobj, isObj := pv.(value.Object)
		if !isObj {
			f.expect("properties", value.KindObject, pv)
		} else {
			props := make([]Property, 0, pobj.Len())
			pobj.Range(func(name string, raw value.Value) bool {
				ps, err := d.schema(raw, joinPath(path, "properties", name), depth+1)
				if err != nil {
					f.err = err
					return false
				}
				props = append(props, Property{Name: name, Schema: ps})
				return true
			})
			s.Properties = NewProperties(props...)
		}
	}
	if req, ok := f.array("required"); ok {
		s.Required = make([]string, 0, len(req))
		for i, r := range req {
			name, isStr := r.(value.String)
			if !isStr {
				f.err = &value.TypeError{Path: joinPath(path, "required", indexToken(i)), Expected: value.KindString, Actual: r}
				break
			}
			s.Required = append(s.Required, string(name))
		}
	}
	if ap, ok := f.obj.Get("additionalProperties"); ok && f.err == nil {
		s.AdditionalProperties, f.err = d.schema(ap, joinPath(path, "additionalProperties"), depth+1)
	}
	if f.err != nil {
		return nil, f.err
	}
	return s, nil
}

func (d *decoder) arraySchema(v value.Value, path string, depth int) (Schema, error) {
	f, err := typed(v, path, "array", "items", "minItems", "maxItems", "uniqueItems")
	if err != nil {
		return nil, err
	}
	s := ArraySchema{
		Annotations: f.annotations(),
		MinItems:    f.count("minItems"),
		MaxItems:    f.count("maxItems"),
		UniqueItems: f.flag("uniqueItems"),
	}
	if items, ok := f.obj.Get("items"); ok && f.err == nil {
		s.Items, f.err = d.schema(items, joinPath(path, "items"), depth+1)
	}
	if f.err != nil {
		return nil, f.err
	}
	return s, nil
}

func (d *decoder) integerSchema(v value.Value, path string, _ int) (Schema, error) {
	f, err := typed(v, path, "integer", "minimum", "maximum")
	if err != nil {
		return nil, err
	}
	s := IntegerSchema{Annotations: f.annotations(), Minimum: f.integer("minimum"), Maximum: f.integer("maximum")}
	return s, f.err
}

func (d *decoder) numberSchema(v value.Value, path string, _ int) (Schema, error) {
	f, err := typed(v, path, "number", "minimum", "maximum")
	if err != nil {
		return nil, err
	}
	s := NumberSchema{Annotations: f.annotations(), Minimum: f.number("minimum"), Maximum: f.number("maximum")}
	return s, f.err
}

func (d *decoder) booleanSchema(v value.Value, path string, _ int) (Schema, error) {
	f, err := typed(v, path, "boolean")
	if err != nil {
		return nil, err
	}
	s := BooleanSchema{Annotations: f.annotations()}
	return s, f.err
}

func (d *decoder) nullSchema(v value.Value, path string, _ int) (Schema, error) {
	f, err := typed(v, path, "null")
	if err != nil {
		return nil, err
	}
	s := NullSchema{Annotations: f.annotations()}
	return s, f.err
}

func literal(want bool) func(*decoder, value.Value, string, int) (Schema, error) {
	return func(_ *decoder, v value.Value, path string, _ int) (Schema, error) {
		b, ok := v.(value.Boolean)
		if !ok || bool(b) != want {
			return nil, &MismatchError{Path: path, Reason: fmt.Sprintf("not the literal %t", want)}
		}
		if want {
			return LiteralTrue{}, nil
		}
		return LiteralFalse{}, nil
	}
}

func logical(key string, build func([]Schema) Schema) func(*decoder, value.Value, string, int) (Schema, error) {
	return func(d *decoder, v value.Value, path string, depth int) (Schema, error) {
		obj, err := asObject(v, path)
		if err != nil {
			return nil, err
		}
		if _, err := keyword(obj, path, key); err != nil {
			return nil, err
		}
		f := &fields{obj: obj, path: path}
		raw, _ := f.array(key)
		if f.err != nil {
			return nil, f.err
		}
		out := make([]Schema, 0, len(raw))
		for i, e := range raw {
			s, err := d.schema(e, joinPath(path, key, indexToken(i)), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return build(out), nil
	}
}

func (d *decoder) not(v value.Value, path string, depth int) (Schema, error) {
	obj, err := asObject(v, path)
	if err != nil {
		return nil, err
	}
	raw, err := keyword(obj, path, "not")
	if err != nil {
		return nil, err
	}
	s, err := d.schema(raw, joinPath(path, "not"), depth+1)
	if err != nil {
		return nil, err
	}
	return NotSchema{Schema: s}, nil
}

// Innermost follows the single applicable attempt down nested shape errors
// and returns the most specific failure. Attempts rejected with a
// MismatchError are not applicable. Nested errors are matched by type rather
// than errors.As because a ShapeError unwraps to its own attempts.
func (e *ShapeError) Innermost() (string, error) {
	var applicable []error
	for _, a := range e.Attempts {
		if _, ok := a.Err.(*MismatchError); !ok {
			applicable = append(applicable, a.Err)
		}
	}
	if len(applicable) != 1 {
		return e.Path, e
	}
	if inner, ok := applicable[0].(*ShapeError); ok {
		return inner.Innermost()
	}
	return errPath(applicable[0], e.Path), applicable[0]
}

func errPath(err error, fallback string) string {
	var (
		ke *KeywordError
		te *value.TypeError
		de *DepthError
	)
	switch {
	case errors.As(err, &ke):
		return ke.Path
	case errors.As(err, &te):
		return te.Path
	case errors.As(err, &de):
		return de.Path
	}
	return fallback
}

func joinPath(base string, tokens ...string) string {
	for _, t := range tokens {
		base = eng.JoinPointer(base, t)
	}
	return base
}

func indexToken(i int) string { return strconv.Itoa(i) }
