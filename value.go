package jwt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
	"unicode/utf8"
)

// Kind identifies which JSON type a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a claim value: one of null, string, number, bool, array or object.
// The zero Value is null. Numbers keep their literal text so a decoded token
// re-encodes to the same bytes.
type Value struct {
	kind Kind
	str  string // string payload or number literal
	b    bool
	arr  []Value
	obj  ClaimSet
}

// Constructors for scalar values. Time stores whole epoch seconds.
func Null() Value            { return Value{} }
func String(s string) Value  { return Value{kind: KindString, str: s} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func Int(i int64) Value      { return Value{kind: KindNumber, str: strconv.FormatInt(i, 10)} }
func Uint(u uint64) Value    { return Value{kind: KindNumber, str: strconv.FormatUint(u, 10)} }
func Time(t time.Time) Value { return Int(t.Unix()) }

// Float returns a number Value. NaN and infinities have no JSON form and
// fail when the Value is marshaled.
func Float(f float64) Value {
	return Value{kind: KindNumber, str: strconv.FormatFloat(f, 'g', -1, 64)}
}

// NumberValue wraps a JSON number literal as is.
func NumberValue(n json.Number) Value {
	return Value{kind: KindNumber, str: string(n)}
}

// Array copies items into an array Value.
func Array(items ...Value) Value {
	arr := make([]Value, len(items))
	copy(arr, items)
	return Value{kind: KindArray, arr: arr}
}

// Strings is shorthand for an array of string Values.
func Strings(items ...string) Value {
	arr := make([]Value, len(items))
	for i, s := range items {
		arr[i] = String(s)
	}
	return Value{kind: KindArray, arr: arr}
}

// Object wraps a copy of c.
// Object wraps a copy of c as a nested JSON object.
func Object(c ClaimSet) Value {
	return Value{kind: KindObject, obj: c.Clone()}
}

// Kind and IsNull report the JSON type held by v.
func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// The As accessors report false when v holds a different kind.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsNumber() (json.Number, bool) {
	return json.Number(v.str), v.kind == KindNumber
}

// AsInt64 returns the number as an int64 when it is integral and in range.
func (v Value) AsInt64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	if i, err := strconv.ParseInt(v.str, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(v.str, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func (v Value) AsFloat64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.str, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// AsArray returns a copy of the array items.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out, true
}

// AsObject returns a copy of the object.
func (v Value) AsObject() (ClaimSet, bool) {
	if v.kind != KindObject {
		return ClaimSet{}, false
	}
	return v.obj.Clone(), true
}

// Equal reports deep equality. Numbers compare by value, so 1 and 1.0 are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindNumber:
		if v.str == o.str {
			return true
		}
		a, aok := v.AsFloat64()
		b, bok := o.AsFloat64()
		return aok && bok && a == b
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.Equal(o.obj)
	}
	return false
}

// Interface converts v to the types encoding/json produces with UseNumber:
// nil, string, json.Number, bool, []any or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return json.Number(v.str)
	case KindBool:
		return v.b
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		return v.obj.ToMap()
	default:
		return nil
	}
}

func (v Value) clone() Value {
	switch v.kind {
	case KindArray:
		arr := make([]Value, len(v.arr))
		for i, item := range v.arr {
			arr[i] = item.clone()
		}
		v.arr = arr
	case KindObject:
		v.obj = v.obj.Clone()
	}
	return v
}

// ValueOf converts a Go value to a Value. Strings, booleans, integers,
// floats, json.Number, time.Time (as a NumericDate), slices and string-keyed
// maps convert directly; anything else goes through encoding/json.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t.clone(), nil
	case ClaimSet:
		return Object(t), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint8:
		return Uint(uint64(t)), nil
	case uint16:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint64:
		return Uint(t), nil
	case float32:
		return floatValue(float64(t))
	case float64:
		return floatValue(t)
	case json.Number:
		if !isJSONNumber(string(t)) {
			return Value{}, fmt.Errorf("%w: invalid number %q", ErrInvalidClaims, string(t))
		}
		return NumberValue(t), nil
	case time.Time:
		return Time(t), nil
	case []string:
		return Strings(t...), nil
	case []any:
		arr := make([]Value, len(t))
		for i, item := range t {
			v, err := ValueOf(item)
			if err != nil {
				return Value{}, err
			}
			arr[i] = v
		}
		return Value{kind: KindArray, arr: arr}, nil
	case map[string]string:
		c := NewClaimSet()
		for k, s := range t {
			c.Set(k, String(s))
		}
		return Value{kind: KindObject, obj: c}, nil
	case map[string]any:
		c, err := ClaimSetFromMap(t)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindObject, obj: c}, nil
	}

	raw, err := json.Marshal(x)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %w", ErrInvalidClaims, err)
	}
	var v Value
	if err := v.UnmarshalJSON(raw); err != nil {
		return Value{}, err
	}
	return v, nil
}

func floatValue(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: %v has no JSON representation", ErrInvalidClaims, f)
	}
	return Float(f), nil
}

// MarshalJSON writes the canonical form: object keys sorted, no whitespace.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindString:
		return writeJSONString(buf, v.str)
	case KindNumber:
		if !isJSONNumber(v.str) {
			return fmt.Errorf("%w: invalid number %q", ErrInvalidClaims, v.str)
		}
		buf.WriteString(v.str)
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		return v.obj.writeJSON(buf)
	default:
		return fmt.Errorf("%w: unknown kind %v", ErrInvalidClaims, v.kind)
	}
	return nil
}

// writeJSONString refuses invalid UTF-8, which json.Marshal would silently
// replace with U+FFFD and so change the claim after signing.
func writeJSONString(buf *bytes.Buffer, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: invalid UTF-8 in %q", ErrInvalidClaims, s)
	}
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidClaims, err)
	}
	buf.Write(b)
	return nil
}

func isJSONNumber(s string) bool {
	if s == "" || !(s[0] == '-' || (s[0] >= '0' && s[0] <= '9')) {
		return false
	}
	return json.Valid([]byte(s))
}

// UnmarshalJSON decodes any JSON value. Objects with duplicate member names
// are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	out, err := decodeValue(dec)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	*v = out
	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(t), nil
	case json.Number:
		return NumberValue(t), nil
	case bool:
		return Bool(t), nil
	case json.Delim:
		switch t {
		case '[':
			var arr []Value
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				arr = append(arr, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			if arr == nil {
				arr = []Value{}
			}
			return Value{kind: KindArray, arr: arr}, nil
		case '{':
			c, err := decodeObject(dec)
			if err != nil {
				return Value{}, err
			}
			return Value{kind: KindObject, obj: c}, nil
		}
	}
	return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}

// decodeObject reads members up to and including the closing brace; the
// opening brace has already been consumed.
func decodeObject(dec *json.Decoder) (ClaimSet, error) {
	c := NewClaimSet()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return ClaimSet{}, err
		}
		name, ok := tok.(string)
		if !ok {
			return ClaimSet{}, fmt.Errorf("unexpected object key %v", tok)
		}
		if c.Has(name) {
			return ClaimSet{}, fmt.Errorf("duplicate claim %q", name)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return ClaimSet{}, err
		}
		c.claims[name] = val
	}
	if _, err := dec.Token(); err != nil {
		return ClaimSet{}, err
	}
	return c, nil
}
