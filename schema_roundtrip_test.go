package skema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/skema"
	"github.com/reoring/skema/value"
)

func fullVariants() map[string]skema.Schema {
	return map[string]skema.Schema{
		"string": skema.String().
			WithTitle("Name").
			WithDescription("a name").
			WithMinLength(0).
			WithMaxLength(64).
			WithPattern("^[a-z]+$").
			WithFormat("hostname").
			WithDefault(value.String("")).
			WithExamples(value.String("abc")),
		"object": skema.Object(
			skema.Prop("b", skema.Integer()),
			skema.Prop("a", skema.Null()),
		).WithRequired("b").WithAdditionalProperties(skema.False()),
		"object-empty": skema.Object().WithProperties().WithRequired(),
		"enum":         skema.Enum(value.String("x"), value.Integer(1)).WithDescription("pick").WithType("string"),
		"enum-empty":   skema.Enum(),
		"array": skema.Array(skema.Number()).
			WithMinItems(1).
			WithMaxItems(3).
			WithUniqueItems(false),
		"array-no-items": skema.Array(nil).WithDescription("anything"),
		"integer":        skema.Integer().WithMinimum(-3).WithMaximum(0).WithDefault(value.Integer(0)),
		"number":         skema.Number().WithMinimum(0.5).WithMaximum(10).WithExamples(value.Float(1.5), value.Integer(2)),
		"boolean":        skema.Boolean().WithDefault(value.Boolean(false)),
		"null":           skema.Null().WithTitle("nothing").WithDefault(value.Null{}),
		"true":           skema.True(),
		"false":          skema.False(),
		"anyOf":          skema.AnyOf(skema.String(), skema.True()),
		"allOf":          skema.AllOf(skema.Integer().WithMinimum(1), skema.Integer().WithMaximum(9)),
		"oneOf":          skema.OneOf(skema.String(), skema.Number()),
		"oneOf-empty":    skema.OneOf(),
		"not":            skema.Not(skema.Null()),
	}
}

func TestRoundTrip_AllVariants(t *testing.T) {
	for name, s := range fullVariants() {
		t.Run(name, func(t *testing.T) {
			b, err := skema.Encode(s)
			require.NoError(t, err)

			got, err := skema.Decode(b)
			require.NoError(t, err, "decode %s", b)
			assert.Equal(t, s.Variant(), got.Variant())
			if !skema.Equal(s, got) {
				want, _ := skema.ToValue(s)
				have, _ := skema.ToValue(got)
				t.Fatalf("round trip mismatch (-want +got):\n%s", cmp.Diff(want.Native(), have.Native()))
			}

			again, err := skema.Encode(got)
			require.NoError(t, err)
			assert.Equal(t, string(b), string(again))
		})
	}
}

func TestRoundTrip_DeepNesting(t *testing.T) {
	var s skema.Schema = skema.String()
	for i := 0; i < 60; i++ {
		switch i % 5 {
		case 0:
			s = skema.Array(s)
		case 1:
			s = skema.Object(skema.Prop("p", s))
		case 2:
			s = skema.AnyOf(skema.Null(), s)
		case 3:
			s = skema.Not(s)
		case 4:
			s = skema.Object().WithAdditionalProperties(s)
		}
	}
	b, err := skema.Encode(s)
	require.NoError(t, err)
	got, err := skema.Decode(b)
	require.NoError(t, err)
	assert.True(t, skema.Equal(s, got))
}

func TestEncode_KeywordOmission(t *testing.T) {
	cases := []struct {
		s    skema.Schema
		want string
	}{
		{skema.String(), `{"type":"string"}`},
		{skema.Object(), `{"type":"object"}`},
		{skema.Array(nil), `{"type":"array"}`},
		{skema.Integer(), `{"type":"integer"}`},
		{skema.Number(), `{"type":"number"}`},
		{skema.Boolean(), `{"type":"boolean"}`},
		{skema.Null(), `{"type":"null"}`},
		{skema.Enum(), `{"enum":[]}`},
		{skema.True(), `true`},
		{skema.False(), `false`},
		{skema.Not(skema.True()), `{"not":true}`},
		{skema.String().WithMinLength(0), `{"type":"string","minLength":0}`},
		{skema.Array(nil).WithUniqueItems(false), `{"type":"array","uniqueItems":false}`},
		{skema.Object().WithRequired(), `{"type":"object","required":[]}`},
	}
	for _, tc := range cases {
		b, err := skema.Encode(tc.s)
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(b))
		assert.NotContains(t, string(b), ":null")
	}
}

func TestEncode_PreserveKeyOrder(t *testing.T) {
	s := skema.String().
		WithDefault(value.String("ab")).
		WithFormat("email").
		WithPattern("^a").
		WithMaxLength(5).
		WithMinLength(1).
		WithDescription("D").
		WithTitle("T")
	b, err := skema.Encode(s)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"string","title":"T","description":"D","minLength":1,"maxLength":5,"pattern":"^a","format":"email","default":"ab"}`, string(b))

	e := skema.Enum(value.String("a")).WithType("string").WithDescription("d")
	b, err = skema.Encode(e)
	require.NoError(t, err)
	assert.Equal(t, `{"description":"d","type":"string","enum":["a"]}`, string(b))
}

func TestEncode_Canonical(t *testing.T) {
	s := skema.Object(
		skema.Prop("zeta", skema.String().WithMinLength(1).WithDescription("z")),
		skema.Prop("alpha", skema.Boolean()),
	)
	b, err := skema.EncodeWith(s, skema.EncodeOpt{Mode: skema.EncodeCanonical})
	require.NoError(t, err)
	assert.Equal(t, `{"properties":{"alpha":{"type":"boolean"},"zeta":{"description":"z","minLength":1,"type":"string"}},"type":"object"}`, string(b))

	b, err = skema.EncodeWith(skema.String(), skema.EncodeOpt{Indent: "  "})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"type\": \"string\"\n}", string(b))
}

func TestEncode_Errors(t *testing.T) {
	_, err := skema.Encode(nil)
	assert.ErrorIs(t, err, skema.ErrNilSchema)

	_, err = skema.Encode(skema.AnyOf(skema.String(), nil))
	assert.ErrorIs(t, err, skema.ErrNilSchema)

	zero := 0.0
	_, err = skema.Encode(skema.Number().WithMaximum(1 / zero))
	var ke *skema.KeywordError
	require.ErrorAs(t, err, &ke)
	assert.Equal(t, "/maximum", ke.Path)
}

func TestLogicalNesting(t *testing.T) {
	b, err := skema.Encode(skema.OneOf(skema.String(), skema.Number()))
	require.NoError(t, err)
	assert.Equal(t, `{"oneOf":[{"type":"string"},{"type":"number"}]}`, string(b))

	got, err := skema.Decode(b)
	require.NoError(t, err)
	one, ok := skema.AsOneOf(got)
	require.True(t, ok)
	require.Len(t, one.Schemas, 2)
	_, ok = skema.AsString(one.Schemas[0])
	assert.True(t, ok)
	_, ok = skema.AsNumber(one.Schemas[1])
	assert.True(t, ok)
}

func TestMixedEnum_KeepsKinds(t *testing.T) {
	in := `{"enum":["value1",5,"value3",null]}`
	s, err := skema.Decode([]byte(in))
	require.NoError(t, err)
	e, ok := skema.AsEnum(s)
	require.True(t, ok)
	require.Len(t, e.Values, 4)
	assert.Equal(t, value.String("value1"), e.Values[0])
	assert.Equal(t, value.Integer(5), e.Values[1])
	assert.Equal(t, value.String("value3"), e.Values[2])
	assert.Equal(t, value.Null{}, e.Values[3])

	b, err := skema.Encode(s)
	require.NoError(t, err)
	assert.Equal(t, in, string(b))
}

func TestEnumOf(t *testing.T) {
	e, err := skema.EnumOf("a", 5, 2.5, true, nil)
	require.NoError(t, err)
	b, err := skema.Encode(e)
	require.NoError(t, err)
	assert.Equal(t, `{"enum":["a",5,2.5,true,null]}`, string(b))

	_, err = skema.EnumOf(struct{}{})
	assert.Error(t, err)
}
