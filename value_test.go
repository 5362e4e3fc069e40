package jwt

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueConstructors(t *testing.T) {
	t.Parallel()

	s, ok := String("hello").AsString()
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	b, ok := Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	i, ok := Int(-42).AsInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(-42), i)

	f, ok := Float(1.5).AsFloat64()
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)

	n, ok := NumberValue("12.50").AsNumber()
	assert.True(t, ok)
	assert.Equal(t, json.Number("12.50"), n)

	assert.True(t, Null().IsNull())
	assert.True(t, Value{}.IsNull())
	assert.Equal(t, KindArray, Strings("a", "b").Kind())

	ts := time.Unix(1700000000, 999).UTC()
	sec, ok := Time(ts).AsInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), sec)
}

func TestValueAccessorKindMismatch(t *testing.T) {
	t.Parallel()

	_, ok := Int(1).AsString()
	assert.False(t, ok)
	_, ok = String("1").AsInt64()
	assert.False(t, ok)
	_, ok = String("1").AsFloat64()
	assert.False(t, ok)
	_, ok = Null().AsBool()
	assert.False(t, ok)
	_, ok = String("x").AsArray()
	assert.False(t, ok)
	_, ok = Array().AsObject()
	assert.False(t, ok)
	_, ok = Float(1.5).AsInt64()
	assert.False(t, ok)

	i, ok := Float(3).AsInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(3), i)

	i, ok = NumberValue("1e3").AsInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(1000), i)
}

func TestValueEqual(t *testing.T) {
	t.Parallel()

	obj := NewClaimSet()
	obj.SetString("k", "v")

	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"nulls", Null(), Null(), true},
		{"strings", String("a"), String("a"), true},
		{"different strings", String("a"), String("b"), false},
		{"number literals", NumberValue("1"), NumberValue("1.0"), true},
		{"int and float", Int(2), Float(2), true},
		{"different numbers", Int(2), Int(3), false},
		{"bools", Bool(false), Bool(false), true},
		{"kind mismatch", String("1"), Int(1), false},
		{"arrays", Strings("a", "b"), Array(String("a"), String("b")), true},
		{"array order", Strings("a", "b"), Strings("b", "a"), false},
		{"array length", Strings("a"), Strings("a", "a"), false},
		{"objects", Object(obj), Object(obj.Clone()), true},
		{"object vs empty", Object(obj), Object(NewClaimSet()), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
			assert.Equal(t, tt.equal, tt.b.Equal(tt.a))
		})
	}
}

func TestValueMarshalJSON(t *testing.T) {
	t.Parallel()

	nested := NewClaimSet()
	nested.Set("z", Int(1))
	nested.Set("a", Bool(false))

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), `null`},
		{"string", String(`quote " and \ slash`), `"quote \" and \\ slash"`},
		{"unicode", String("héllo 世界"), `"héllo 世界"`},
		{"int", Int(1700000000), `1700000000`},
		{"float", Float(0.25), `0.25`},
		{"literal", NumberValue("1.50"), `1.50`},
		{"bool", Bool(true), `true`},
		{"empty array", Array(), `[]`},
		{"array", Array(String("a"), Int(1), Null()), `["a",1,null]`},
		{"object sorted", Object(nested), `{"a":false,"z":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := json.Marshal(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestValueMarshalInvalidNumber(t *testing.T) {
	t.Parallel()

	for _, v := range []Value{Float(math.NaN()), Float(math.Inf(1)), NumberValue("abc"), NumberValue("")} {
		_, err := v.MarshalJSON()
		assert.ErrorIs(t, err, ErrInvalidClaims)
	}
}

func TestValueUnmarshalJSON(t *testing.T) {
	t.Parallel()

	var v Value
	require.NoError(t, json.Unmarshal([]byte(` {"b":[1,"x",null,true],"a":{"n":1.0}} `), &v))
	require.Equal(t, KindObject, v.Kind())

	obj, _ := v.AsObject()
	assert.Equal(t, []string{"a", "b"}, obj.Names())

	arr, _ := obj.claims["b"].AsArray()
	require.Len(t, arr, 4)
	assert.Equal(t, KindNumber, arr[0].Kind())
	assert.Equal(t, KindString, arr[1].Kind())
	assert.Equal(t, KindNull, arr[2].Kind())
	assert.Equal(t, KindBool, arr[3].Kind())

	inner, _ := obj.claims["a"].AsObject()
	n, _ := inner.claims["n"].AsNumber()
	assert.Equal(t, json.Number("1.0"), n, "number literal is preserved")

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"n":1.0},"b":[1,"x",null,true]}`, string(out))
}

func TestValueUnmarshalErrors(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		``,
		`{`,
		`[1,`,
		`{"a":1,"a":2}`,
		`{"x":{"a":1,"a":2}}`,
		`1 2`,
		`nul`,
	} {
		var v Value
		assert.Error(t, v.UnmarshalJSON([]byte(in)), in)
	}
}

func TestValueOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"string", "s", String("s")},
		{"bool", true, Bool(true)},
		{"int", 7, Int(7)},
		{"int32", int32(-7), Int(-7)},
		{"uint64", uint64(math.MaxUint64), NumberValue("18446744073709551615")},
		{"float64", 2.5, Float(2.5)},
		{"json.Number", json.Number("10"), Int(10)},
		{"time", time.Unix(1000, 0), Int(1000)},
		{"strings", []string{"a", "b"}, Strings("a", "b")},
		{"any slice", []any{"a", 1}, Array(String("a"), Int(1))},
		{"value", String("v"), String("v")},
		{"struct via json", struct {
			A string `json:"a"`
		}{"x"}, Object(ClaimSetFromStrings(map[string]string{"a": "x"}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ValueOf(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got.Interface())
		})
	}

	_, err := ValueOf(math.NaN())
	assert.ErrorIs(t, err, ErrInvalidClaims)
	_, err = ValueOf(make(chan int))
	assert.ErrorIs(t, err, ErrInvalidClaims)
	_, err = ValueOf(json.Number("nope"))
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestValueInterface(t *testing.T) {
	t.Parallel()

	obj := NewClaimSet()
	obj.Set("n", Int(1))
	v := Array(String("a"), Bool(true), Null(), Object(obj))

	assert.Equal(t, []any{"a", true, nil, map[string]any{"n": json.Number("1")}}, v.Interface())
}

func TestValueCopiesAreIndependent(t *testing.T) {
	t.Parallel()

	items := []Value{String("a")}
	arr := Array(items...)
	items[0] = String("changed")

	got, _ := arr.AsArray()
	assert.Equal(t, "a", got[0].str)

	got[0] = String("mutated")
	again, _ := arr.AsArray()
	assert.Equal(t, "a", again[0].str)
}
