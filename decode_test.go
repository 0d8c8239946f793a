package skema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/skema"
	"github.com/reoring/skema/value"
)

func TestDecode_ObjectScenario(t *testing.T) {
	s, err := skema.Decode([]byte(`{"type":"object","properties":{"name":{"type":"string","minLength":1}},"required":["name"]}`))
	require.NoError(t, err)

	obj, ok := skema.AsObject(s)
	require.True(t, ok, "got %T", s)
	name, ok := obj.Properties.Get("name")
	require.True(t, ok)
	str, ok := skema.AsString(name)
	require.True(t, ok)
	require.NotNil(t, str.MinLength)
	assert.Equal(t, 1, *str.MinLength)
	assert.Equal(t, []string{"name"}, obj.Required)
	assert.Nil(t, obj.AdditionalProperties)
}

func TestDecode_EnumWinsOverTypedKeywords(t *testing.T) {
	s, err := skema.Decode([]byte(`{"type":"string","minLength":3,"enum":["a","b"],"x-extra":1}`))
	require.NoError(t, err)
	e, ok := skema.AsEnum(s)
	require.True(t, ok, "got %T", s)
	require.NotNil(t, e.Type)
	assert.Equal(t, "string", *e.Type)
	assert.Len(t, e.Values, 2)

	kind, ok := skema.Kind(s)
	assert.True(t, ok)
	assert.Equal(t, "string", kind)
}

func TestDecode_LiteralsAreNotBooleanSchemas(t *testing.T) {
	tr, err := skema.Decode([]byte(`true`))
	require.NoError(t, err)
	fa, err := skema.Decode([]byte(` false `))
	require.NoError(t, err)
	bo, err := skema.Decode([]byte(`{"type":"boolean"}`))
	require.NoError(t, err)

	assert.True(t, skema.IsTrue(tr))
	assert.False(t, skema.IsFalse(tr))
	assert.True(t, skema.IsFalse(fa))
	assert.False(t, skema.IsTrue(fa))
	assert.False(t, skema.IsTrue(bo))
	assert.False(t, skema.IsFalse(bo))
	_, ok := skema.AsBoolean(bo)
	assert.True(t, ok)
	_, ok = skema.AsBoolean(tr)
	assert.False(t, ok)
}

func TestDecode_UntypedTieBreak(t *testing.T) {
	cases := []struct {
		in   string
		want skema.Variant
	}{
		{`{"minLength":2}`, skema.VariantString},
		{`{"properties":{}}`, skema.VariantObject},
		{`{"required":["a"]}`, skema.VariantObject},
		{`{"items":true}`, skema.VariantArray},
		{`{"minimum":1}`, skema.VariantInteger},
		{`{"minimum":1.5}`, skema.VariantNumber},
		{`{"minimum":1,"maximum":2.5}`, skema.VariantNumber},
		{`{"anyOf":[true],"description":"ignored"}`, skema.VariantAnyOf},
		{`{"allOf":[]}`, skema.VariantAllOf},
		{`{"not":{"enum":[1]}}`, skema.VariantNot},
	}
	for _, tc := range cases {
		s, err := skema.Decode([]byte(tc.in))
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, s.Variant(), tc.in)
	}
}

func TestDecode_TypeWinsOverKeywords(t *testing.T) {
	// minLength is not a number keyword; it is ignored, not rejected.
	s, err := skema.Decode([]byte(`{"type":"number","minLength":1,"minimum":2}`))
	require.NoError(t, err)
	n, ok := skema.AsNumber(s)
	require.True(t, ok)
	assert.Equal(t, 2.0, *n.Minimum)
}

func TestDecode_UntypedAnnotationsBindString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{}`, `{"type":"string"}`},
		{`{"description":"only"}`, `{"type":"string","description":"only"}`},
		{`{"title":"t","default":"x"}`, `{"type":"string","title":"t","default":"x"}`},
		{`{"type":"array","items":{}}`, `{"type":"array","items":{"type":"string"}}`},
		{`{"type":"object","additionalProperties":{}}`, `{"type":"object","additionalProperties":{"type":"string"}}`},
	}
	for _, tc := range cases {
		s, err := skema.Decode([]byte(tc.in))
		require.NoError(t, err, tc.in)
		b, err := skema.Encode(s)
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(b), tc.in)
	}

	s, err := skema.Decode([]byte(`{"description":"d","not":true}`))
	require.NoError(t, err)
	assert.Equal(t, skema.VariantNot, s.Variant())
}

func TestDecode_UnsupportedShapes(t *testing.T) {
	for _, in := range []string{`"string"`, `5`, `null`, `[]`, `{"type":"date"}`} {
		_, err := skema.Decode([]byte(in))
		iss, ok := skema.AsIssues(err)
		require.True(t, ok, "%s: %v", in, err)
		require.Len(t, iss, 1)
		assert.Equal(t, skema.CodeUnsupportedShape, iss[0].Code, in)
		assert.Equal(t, "/", iss[0].Path, in)

		var se *skema.ShapeError
		require.True(t, errors.As(err, &se), in)
		assert.Len(t, se.Attempts, 14)
		assert.Equal(t, skema.VariantEnum, se.Attempts[0].Variant)
		assert.Equal(t, skema.VariantNot, se.Attempts[13].Variant)
	}
}

func TestDecode_MissingKeywordAttempts(t *testing.T) {
	_, err := skema.Decode([]byte(`{"type":"date"}`))
	var se *skema.ShapeError
	require.True(t, errors.As(err, &se))

	var me *skema.MismatchError
	require.True(t, errors.As(se.Attempts[0].Err, &me))
	var mpe *value.MissingPropertyError
	require.True(t, errors.As(me, &mpe))
	assert.Equal(t, "enum", mpe.Key)
	assert.Equal(t, "/enum", mpe.Path)

	require.True(t, errors.As(se.Attempts[13].Err, &mpe))
	assert.Equal(t, "not", mpe.Key)
}

func TestDecode_KeywordTypeMismatchPath(t *testing.T) {
	_, err := skema.Decode([]byte(`{"type":"string","minLength":"1"}`))
	iss, ok := skema.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, skema.CodeUnsupportedShape, iss[0].Code)
	assert.Equal(t, "/minLength", iss[0].Path)

	var te *value.TypeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, value.KindInteger, te.Expected)
	assert.Equal(t, value.String("1"), te.Actual)
}

func TestDecode_NestedFailurePath(t *testing.T) {
	_, err := skema.Decode([]byte(`{"type":"object","properties":{"a":{"type":"array","items":{"type":"string","maxLength":1.5}}}}`))
	iss, ok := skema.AsIssues(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, "/properties/a/items/maxLength", iss[0].Path)
	assert.Contains(t, iss[0].Hint, "integer")

	_, err = skema.Decode([]byte(`{"type":"object","required":["a",2]}`))
	iss, _ = skema.AsIssues(err)
	require.NotEmpty(t, iss)
	assert.Equal(t, "/required/1", iss[0].Path)
}

func TestDecode_ParseErrors(t *testing.T) {
	for _, in := range []string{``, `{"type":`, `{"type":"string"} {}`, `{"type":"string"`} {
		_, err := skema.Decode([]byte(in))
		iss, ok := skema.AsIssues(err)
		require.True(t, ok, "%q: %v", in, err)
		assert.Equal(t, skema.CodeParseError, iss[0].Code, in)
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	inputs := []string{
		`{"type":"string" "minLength":1}`,
		`{"type":"string",}`,
		`{"enum":[true false]}`,
		`{"enum":[1,2,]}`,
		`{"type":"string","minLength":01}`,
		`{"enum":[-]}`,
		`{"enum":[1.]}`,
		`{"enum":[1e]}`,
		`{"type" "string"}`,
		`{"type"::"string"}`,
		`{,"type":"string"}`,
		`{"enum":[,1]}`,
		`{"enum":[1]}}`,
		`{"enum":[1}}`,
		`{"type":}`,
		`{1:"string"}`,
		`{"type":"string"},`,
	}
	for _, in := range inputs {
		_, err := skema.Decode([]byte(in))
		iss, ok := skema.AsIssues(err)
		require.True(t, ok, "%s: expected issues, got %v", in, err)
		assert.Equal(t, skema.CodeParseError, iss[0].Code, in)

		_, err = skema.DecodeReader(strings.NewReader(in), skema.DefaultDecodeOpt())
		iss, ok = skema.AsIssues(err)
		require.True(t, ok, "%s: expected issues from reader, got %v", in, err)
		assert.Equal(t, skema.CodeParseError, iss[0].Code, in)
	}

	s, err := skema.DecodeReader(strings.NewReader(" {\n \"enum\" : [ 1 , -0.5e+3 , \"a,b:c\" , \"q\\\"]\" ] \n}\n"), skema.DefaultDecodeOpt())
	require.NoError(t, err)
	e, ok := skema.AsEnum(s)
	require.True(t, ok)
	assert.Equal(t, []value.Value{value.Integer(1), value.Float(-500), value.String("a,b:c"), value.String(`q"]`)}, e.Values)
}

func TestDecode_DuplicateKeys(t *testing.T) {
	in := []byte(`{"properties":{"a":{"type":"string","type":"integer"}}}`)

	s, err := skema.Decode(in)
	require.NoError(t, err)
	obj, _ := skema.AsObject(s)
	a, _ := obj.Properties.Get("a")
	assert.Equal(t, skema.VariantInteger, a.Variant(), "last value wins by default")

	var warned []skema.Issue
	_, err = skema.DecodeWith(in, skema.DecodeOpt{
		Strictness: skema.Strictness{OnDuplicateKey: skema.Warn},
		Warnings:   func(is skema.Issue) { warned = append(warned, is) },
	})
	require.NoError(t, err)
	require.Len(t, warned, 1)
	assert.Equal(t, "/properties/a/type", warned[0].Path)

	_, err = skema.DecodeWith(in, skema.DecodeOpt{Strictness: skema.Strictness{OnDuplicateKey: skema.Error}})
	iss, ok := skema.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, skema.CodeDuplicateKey, iss[0].Code)
	assert.Equal(t, "/properties/a/type", iss[0].Path)
	assert.Contains(t, iss[0].Message, `"type"`)
}

func TestDecode_MaxDepth(t *testing.T) {
	in := []byte(strings.Repeat(`{"not":`, 10) + `true` + strings.Repeat(`}`, 10))

	_, err := skema.DecodeWith(in, skema.DecodeOpt{MaxDepth: 5})
	iss, ok := skema.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, skema.CodeParseError, iss[0].Code)
	assert.Equal(t, "/not/not/not/not/not", iss[0].Path)

	_, err = skema.DecodeWith(in, skema.DecodeOpt{MaxDepth: -1})
	assert.NoError(t, err)
}

func TestDecodeValue_MaxDepth(t *testing.T) {
	var v value.Value = value.Boolean(true)
	for i := 0; i < skema.DefaultMaxDepth+1; i++ {
		v = value.NewObject(value.Member{Key: "not", Value: v})
	}
	_, err := skema.DecodeValue(v)
	iss, ok := skema.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, skema.CodeParseError, iss[0].Code)

	var de *skema.DepthError
	assert.True(t, errors.As(err, &de))
}

func TestDecode_MaxBytes(t *testing.T) {
	long := `{"type":"string","description":"` + strings.Repeat("x", 4096) + `"}`
	_, err := skema.DecodeWith([]byte(long), skema.DecodeOpt{MaxBytes: 64})
	iss, ok := skema.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, skema.CodeTruncated, iss[0].Code)
	assert.Contains(t, iss[0].Message, "64")

	_, err = skema.DecodeWith([]byte(long), skema.DecodeOpt{MaxBytes: 1 << 20})
	assert.NoError(t, err)
}

func TestDecodeReader(t *testing.T) {
	s, err := skema.DecodeReader(strings.NewReader(`{"type":"integer","maximum":-1}`), skema.DefaultDecodeOpt())
	require.NoError(t, err)
	i, ok := skema.AsInteger(s)
	require.True(t, ok)
	assert.Equal(t, int64(-1), *i.Maximum)
}

func TestIssues_ErrorString(t *testing.T) {
	_, err := skema.Decode([]byte(`5`))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "unsupported_shape at /"), err.Error())
}
