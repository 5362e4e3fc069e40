package jwt

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimSetZeroValue(t *testing.T) {
	t.Parallel()

	var c ClaimSet
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Has("x"))
	assert.Empty(t, c.Names())

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))

	c.SetString("x", "y")
	assert.True(t, c.Has("x"))
}

func TestClaimSetAccessors(t *testing.T) {
	t.Parallel()

	c := NewClaimSet()
	c.SetString(ClaimSubject, "user-1")
	c.SetInt("count", 3)
	c.SetTime(ClaimExpiresAt, time.Unix(2000000000, 0))
	c.Set("roles", Strings("a", "b"))

	s, ok := c.GetString(ClaimSubject)
	assert.True(t, ok)
	assert.Equal(t, "user-1", s)

	_, ok = c.GetString("count")
	assert.False(t, ok, "count is a number")
	_, ok = c.GetString("missing")
	assert.False(t, ok)

	v, ok := c.Get(ClaimExpiresAt)
	require.True(t, ok)
	exp, _ := v.AsInt64()
	assert.Equal(t, int64(2000000000), exp)

	c.Delete("count")
	assert.False(t, c.Has("count"))
	assert.Equal(t, 3, c.Len())
}

func TestClaimSetDeterministicOrder(t *testing.T) {
	t.Parallel()

	names := []string{"zeta", "alpha", "mid", "Alpha", "_x", "10", "2"}

	var want string
	for i := range 20 {
		c := NewClaimSet()
		for j := range names {
			name := names[(i+j)%len(names)]
			c.SetString(name, name)
		}
		b, err := json.Marshal(c)
		require.NoError(t, err)
		if i == 0 {
			want = string(b)
			continue
		}
		assert.Equal(t, want, string(b), "insertion order must not affect encoding")
	}

	assert.Equal(t, `{"10":"10","2":"2","Alpha":"Alpha","_x":"_x","alpha":"alpha","mid":"mid","zeta":"zeta"}`, want)
}

func TestClaimSetAll(t *testing.T) {
	t.Parallel()

	c := ClaimSetFromStrings(map[string]string{"b": "2", "a": "1", "c": "3"})

	var got []string
	for name, v := range c.All() {
		s, _ := v.AsString()
		got = append(got, name+"="+s)
	}
	assert.Equal(t, []string{"a=1", "b=2", "c=3"}, got)

	got = got[:0]
	for name := range c.All() {
		got = append(got, name)
		break
	}
	assert.Equal(t, []string{"a"}, got)
}

func TestClaimSetCloneIsDeep(t *testing.T) {
	t.Parallel()

	inner := NewClaimSet()
	inner.SetString("k", "v")

	c := NewClaimSet()
	c.Set("obj", Object(inner))
	c.Set("arr", Strings("x"))

	clone := c.Clone()
	assert.True(t, c.Equal(clone))

	clone.SetString("new", "1")
	objVal, _ := clone.Get("obj")
	obj, _ := objVal.AsObject()
	obj.SetString("k", "changed")

	assert.False(t, c.Has("new"))
	origObj, _ := c.Get("obj")
	o, _ := origObj.AsObject()
	s, _ := o.GetString("k")
	assert.Equal(t, "v", s)
}

func TestClaimSetEqual(t *testing.T) {
	t.Parallel()

	a := ClaimSetFromStrings(map[string]string{"a": "1"})
	b := ClaimSetFromStrings(map[string]string{"a": "1"})
	assert.True(t, a.Equal(b))

	b.SetString("b", "2")
	assert.False(t, a.Equal(b))

	c := ClaimSetFromStrings(map[string]string{"a": "2"})
	assert.False(t, a.Equal(c))

	d := NewClaimSet()
	d.SetInt("a", 1)
	assert.False(t, a.Equal(d))
}

func TestClaimSetUnmarshal(t *testing.T) {
	t.Parallel()

	var c ClaimSet
	require.NoError(t, json.Unmarshal([]byte(`{"sub":"x","n":1,"arr":[1,2],"obj":{"a":null}}`), &c))
	assert.Equal(t, []string{"arr", "n", "obj", "sub"}, c.Names())

	for _, in := range []string{
		`[]`,
		`"string"`,
		`null`,
		`1`,
		`{"a":1,"a":1}`,
		`{"a":1}{"b":2}`,
		`{"a":1`,
	} {
		var bad ClaimSet
		assert.Error(t, json.Unmarshal([]byte(in), &bad), in)
	}
}

func TestClaimSetFromMap(t *testing.T) {
	t.Parallel()

	c, err := ClaimSetFromMap(map[string]any{
		"sub":   "user",
		"admin": true,
		"n":     42,
		"aud":   []string{"a", "b"},
		"meta":  map[string]any{"k": "v"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"admin":true,"aud":["a","b"],"meta":{"k":"v"},"n":42,"sub":"user"}`, c.String())

	_, err = ClaimSetFromMap(map[string]any{"bad": func() {}})
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestClaimSetToMap(t *testing.T) {
	t.Parallel()

	c := NewClaimSet()
	c.SetString("s", "v")
	c.SetInt("n", 5)
	c.Set("b", Bool(true))

	assert.Equal(t, map[string]any{"s": "v", "n": json.Number("5"), "b": true}, c.ToMap())
}

func TestClaimSetMarshalInvalid(t *testing.T) {
	t.Parallel()

	c := NewClaimSet()
	c.Set("bad", NumberValue("NaN"))

	_, err := json.Marshal(c)
	assert.ErrorIs(t, err, ErrInvalidClaims)
	assert.Contains(t, c.String(), "1 claims")
}

func ExampleClaimSet() {
	c := NewClaimSet()
	c.SetString("sub", "1234567890")
	c.SetString("name", "John Doe")
	c.Set("admin", Bool(true))

	fmt.Println(c)
	// Output: {"admin":true,"name":"John Doe","sub":"1234567890"}
}

func TestClaimSetGetTime(t *testing.T) {
	t.Parallel()

	c := NewClaimSet()
	c.SetTime(ClaimExpiresAt, time.Unix(1700000000, 0))
	c.Set(ClaimNotBefore, String("1700000000"))
	c.Set(ClaimIssuedAt, Bool(true))

	got, ok := c.GetTime(ClaimExpiresAt)
	require.True(t, ok)
	assert.Equal(t, int64(1700000000), got.Unix())

	got, ok = c.GetTime(ClaimNotBefore)
	require.True(t, ok)
	assert.Equal(t, int64(1700000000), got.Unix())

	_, ok = c.GetTime(ClaimIssuedAt)
	assert.False(t, ok)
	_, ok = c.GetTime("missing")
	assert.False(t, ok)
}
