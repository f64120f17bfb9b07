package jsonapi

import (
	"bytes"
	"encoding/json"
)

// Attributes is an ordered set of resource attributes. The zero value is
// empty and ready to use.
type Attributes struct {
	keys   []string
	values map[string]any
}

// NewAttributes returns an empty attribute set with room for n keys.
func NewAttributes(n int) *Attributes {
	return &Attributes{keys: make([]string, 0, n), values: make(map[string]any, n)}
}

// Set stores value under key. A new key is appended to the order; an
// existing key keeps its position.
func (a *Attributes) Set(key string, value any) {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the value stored under key.
func (a *Attributes) Get(key string) (any, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Keys returns the attribute keys in order.
func (a *Attributes) Keys() []string {
	return append([]string(nil), a.keys...)
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	return len(a.keys)
}

// MarshalJSON encodes the attributes as an object in insertion order.
func (a *Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(a.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
