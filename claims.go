package jwt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"time"
)

// ClaimSet is the JWT payload: a mapping from claim name to Value. Names are
// unique and serialize in sorted order, so equal sets always produce equal
// bytes. The zero ClaimSet is empty and ready to use.
type ClaimSet struct {
	claims map[string]Value
}

// NewClaimSet returns an empty set ready for Set.
func NewClaimSet() ClaimSet {
	return ClaimSet{claims: make(map[string]Value)}
}

// ClaimSetFromStrings builds a set of string claims.
func ClaimSetFromStrings(m map[string]string) ClaimSet {
	c := ClaimSet{claims: make(map[string]Value, len(m))}
	for k, v := range m {
		c.claims[k] = String(v)
	}
	return c
}

// ClaimSetFromMap converts each entry with ValueOf.
func ClaimSetFromMap(m map[string]any) (ClaimSet, error) {
	c := ClaimSet{claims: make(map[string]Value, len(m))}
	for k, x := range m {
		v, err := ValueOf(x)
		if err != nil {
			return ClaimSet{}, fmt.Errorf("claim %q: %w", k, err)
		}
		c.claims[k] = v
	}
	return c, nil
}

// Set adds or replaces a claim.
func (c *ClaimSet) Set(name string, v Value) {
	if c.claims == nil {
		c.claims = make(map[string]Value)
	}
	c.claims[name] = v
}

// SetString and SetInt are shorthands for Set with String and Int.
func (c *ClaimSet) SetString(name, s string) { c.Set(name, String(s)) }
func (c *ClaimSet) SetInt(name string, i int64) {
	c.Set(name, Int(i))
}

// SetTime stores t as a NumericDate (whole seconds since the epoch).
func (c *ClaimSet) SetTime(name string, t time.Time) { c.Set(name, Time(t)) }

// Delete removes name; deleting an absent claim is a no-op.
func (c *ClaimSet) Delete(name string) {
	delete(c.claims, name)
}

// Get returns the claim value and whether it is present.
func (c ClaimSet) Get(name string) (Value, bool) {
	v, ok := c.claims[name]
	return v, ok
}

// GetString returns the claim when it is present and a string.
func (c ClaimSet) GetString(name string) (string, bool) {
	v, ok := c.claims[name]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// GetTime returns the claim as a NumericDate. It reports false when the claim
// is absent or is not a valid date.
func (c ClaimSet) GetTime(name string) (time.Time, bool) {
	v, ok := c.claims[name]
	if !ok {
		return time.Time{}, false
	}
	t, err := parseNumericDate(v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Has reports whether name is present.
func (c ClaimSet) Has(name string) bool {
	_, ok := c.claims[name]
	return ok
}

// Len is the number of claims.
func (c ClaimSet) Len() int { return len(c.claims) }

// Names returns the claim names in sorted order.
func (c ClaimSet) Names() []string {
	return slices.Sorted(maps.Keys(c.claims))
}

// All iterates claims in sorted name order.
func (c ClaimSet) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range c.Names() {
			if !yield(name, c.claims[name]) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (c ClaimSet) Clone() ClaimSet {
	out := ClaimSet{claims: make(map[string]Value, len(c.claims))}
	for k, v := range c.claims {
		out.claims[k] = v.clone()
	}
	return out
}

// Equal reports whether both sets hold the same names with equal values.
func (c ClaimSet) Equal(o ClaimSet) bool {
	if len(c.claims) != len(o.claims) {
		return false
	}
	for k, v := range c.claims {
		ov, ok := o.claims[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// ToMap converts the set to plain Go values, see Value.Interface.
func (c ClaimSet) ToMap() map[string]any {
	out := make(map[string]any, len(c.claims))
	for k, v := range c.claims {
		out[k] = v.Interface()
	}
	return out
}

// String returns the canonical JSON encoding.
func (c ClaimSet) String() string {
	b, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("ClaimSet(%d claims)", len(c.claims))
	}
	return string(b)
}

// MarshalJSON writes a compact object with members sorted by name.
func (c ClaimSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c ClaimSet) writeJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, name := range c.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(buf, name); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := c.claims[name].writeJSON(buf); err != nil {
			return fmt.Errorf("claim %q: %w", name, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON requires a JSON object and rejects duplicate member names.
func (c *ClaimSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("claims must be a JSON object")
	}

	out, err := decodeObject(dec)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after claims object")
	}
	*c = out
	return nil
}
