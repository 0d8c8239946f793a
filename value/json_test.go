package value_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/skema/source/gojson"
	"github.com/reoring/skema/value"
)

func TestUnmarshal_ScalarTrialOrder(t *testing.T) {
	cases := []struct {
		in   string
		want value.Value
	}{
		{`"5"`, value.String("5")},
		{`true`, value.Boolean(true)},
		{`false`, value.Boolean(false)},
		{`5`, value.Integer(5)},
		{`-12`, value.Integer(-12)},
		{`5.0`, value.Float(5)},
		{`1e3`, value.Float(1000)},
		{`9223372036854775808`, value.Float(9223372036854775808)},
		{`null`, value.Null{}},
	}
	for _, tc := range cases {
		got, err := value.Unmarshal([]byte(tc.in))
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want.Kind(), got.Kind(), tc.in)
		assert.True(t, value.Equal(tc.want, got), "%s: got %#v", tc.in, got)
	}
}

func TestUnmarshal_Containers(t *testing.T) {
	got, err := value.Unmarshal([]byte(`{"b":[1,"x",null],"a":{}}`))
	require.NoError(t, err)
	obj, err := value.AsObject(got)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, obj.Keys())
	want := value.NewObject(
		value.Member{Key: "b", Value: value.Array{value.Integer(1), value.String("x"), value.Null{}}},
		value.Member{Key: "a", Value: value.NewObject()},
	)
	assert.True(t, value.Equal(want, got))
}

func TestUnmarshal_Errors(t *testing.T) {
	_, err := value.Unmarshal(nil)
	assert.Error(t, err)

	_, err = value.Unmarshal([]byte(`{} {}`))
	assert.True(t, errors.Is(err, value.ErrTrailingData))

	_, err = value.Unmarshal([]byte(`{"a":`))
	assert.Error(t, err)

	_, err = value.Unmarshal([]byte(`{"a":1e999}`))
	var te *value.TypeError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, "/a", te.Path)
}

func TestUnmarshal_MalformedText(t *testing.T) {
	for _, in := range []string{`[1 2]`, `[1,2,]`, `{"a":1,}`, `{"a" 1}`, `01`, `-`, `[1.]`, `{"a":1]`} {
		_, err := value.Unmarshal([]byte(in))
		var se *gojson.SyntaxError
		assert.True(t, errors.As(err, &se), "%s: got %v", in, err)
	}

	v, err := value.Unmarshal([]byte(` [ -0 , 1e2 , "a,:" ] `))
	require.NoError(t, err)
	assert.Equal(t, value.Array{value.Integer(0), value.Float(100), value.String("a,:")}, v)
}

func TestMarshal_FloatKeepsKind(t *testing.T) {
	cases := map[value.Value]string{
		value.Float(5):      `5.0`,
		value.Float(-0.25):  `-0.25`,
		value.Float(1e21):   `1e+21`,
		value.Float(1e-7):   `1e-07`,
		value.Integer(5):    `5`,
		value.String("<&>"): `"<&>"`,
	}
	for v, want := range cases {
		got, err := value.Marshal(v, value.MarshalOpt{})
		require.NoError(t, err)
		assert.Equal(t, want, string(got))

		back, err := value.Unmarshal(got)
		require.NoError(t, err)
		assert.True(t, value.Equal(v, back), "round trip of %s", want)
	}
}

func TestMarshal_RejectsNonFinite(t *testing.T) {
	_, err := value.Marshal(value.Array{value.Float(posInf())}, value.MarshalOpt{})
	assert.Error(t, err)
}

func TestMarshal_KeyOrder(t *testing.T) {
	o := value.NewObject(
		value.Member{Key: "b", Value: value.Integer(1)},
		value.Member{Key: "a", Value: value.NewObject(
			value.Member{Key: "z", Value: value.Null{}},
			value.Member{Key: "y", Value: value.Boolean(false)},
		)},
	)
	got, err := value.Marshal(o, value.MarshalOpt{})
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":{"z":null,"y":false}}`, string(got))

	got, err = value.Marshal(o, value.MarshalOpt{SortKeys: true})
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"y":false,"z":null},"b":1}`, string(got))
}

func TestMarshal_Indent(t *testing.T) {
	got, err := value.Marshal(value.Array{value.Integer(1)}, value.MarshalOpt{Indent: "  "})
	require.NoError(t, err)
	assert.Equal(t, "[\n  1\n]", string(got))
}

func TestMixedArray_RoundTrip(t *testing.T) {
	in := value.Array{value.String("value1"), value.Integer(5), value.String("value3"), value.Null{}}
	b, err := value.Marshal(in, value.MarshalOpt{})
	require.NoError(t, err)
	assert.Equal(t, `["value1",5,"value3",null]`, string(b))
	out, err := value.Unmarshal(b)
	require.NoError(t, err)
	assert.True(t, value.Equal(in, out))
}

func TestObject_UnmarshalJSON(t *testing.T) {
	var o value.Object
	require.NoError(t, o.UnmarshalJSON([]byte(`{"k":1}`)))
	assert.Equal(t, 1, o.Len())
	assert.Error(t, o.UnmarshalJSON([]byte(`[1]`)))
}

func posInf() float64 {
	var zero float64
	return 1 / zero
}
