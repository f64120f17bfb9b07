package jsonapi

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record map[string]any

func TestSerialize(t *testing.T) {
	records := []record{
		{"id": int64(7), "name": "alice", "created_at": "2024-01-02"},
		{"id": int64(9), "name": "bob", "created_at": nil},
	}

	doc := Serialize(Serializer{
		Type:   "users",
		Fields: []string{"id", "name", "created_at"},
	}, records, Meta{"table": "users"})

	out, err := json.Marshal(doc)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"jsonapi": {"version": "1.0"},
		"data": [
			{"type": "users", "id": "1", "attributes": {"id": 7, "name": "alice", "created_at": "2024-01-02"}},
			{"type": "users", "id": "2", "attributes": {"id": 9, "name": "bob", "created_at": null}}
		],
		"meta": {"table": "users"}
	}`, string(out))
}

func TestSerialize_AttributeOrder(t *testing.T) {
	records := []record{{"z": 1, "a": 2, "m": 3}}

	doc := Serialize(Serializer{Type: "row", Fields: []string{"z", "a", "m"}}, records, nil)
	out, err := json.Marshal(doc.Data)
	require.NoError(t, err)
	assert.Equal(t, `[{"type":"row","id":"1","attributes":{"z":1,"a":2,"m":3}}]`, string(out))

	// Without explicit fields the first record's keys are sorted.
	doc = Serialize(Serializer{Type: "row"}, records, nil)
	out, err = json.Marshal(doc.Data)
	require.NoError(t, err)
	assert.Equal(t, `[{"type":"row","id":"1","attributes":{"a":2,"m":3,"z":1}}]`, string(out))
}

func TestSerialize_Deterministic(t *testing.T) {
	records := []record{{"b": 1, "a": "x", "c": nil}, {"a": "y", "b": 2}}
	s := Serializer{Type: "query-result"}

	first, err := json.Marshal(Serialize(s, records, Meta{"query": "SELECT 1"}))
	require.NoError(t, err)
	for range 20 {
		again, err := json.Marshal(Serialize(s, records, Meta{"query": "SELECT 1"}))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestSerialize_SchemaFromFirstRecord(t *testing.T) {
	records := []record{{"a": 1}, {"a": 2, "extra": true}, {}}

	doc := Serialize(Serializer{Type: "row"}, records, nil)
	data := doc.Data.([]Resource)
	require.Len(t, data, 3)

	for _, res := range data {
		assert.Equal(t, []string{"a"}, res.Attributes.Keys())
	}
	v, ok := data[2].Attributes.Get("a")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestSerialize_Empty(t *testing.T) {
	doc := Serialize(Serializer{Type: "users"}, []record{}, nil)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonapi": {"version": "1.0"}, "data": []}`, string(out))

	doc = Serialize[record](Serializer{Type: "users"}, nil, Meta{"count": 0})
	out, err = json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonapi": {"version": "1.0"}, "data": [], "meta": {"count": 0}}`, string(out))
}

func TestSerialize_CustomID(t *testing.T) {
	records := []record{{"name": "orders"}, {"name": "users"}}

	doc := Serialize(Serializer{
		Type: "table",
		ID: func(_ int, rec map[string]any) string {
			return fmt.Sprint(rec["name"])
		},
	}, records, nil)

	data := doc.Data.([]Resource)
	require.Len(t, data, 2)
	assert.Equal(t, "orders", data[0].ID)
	assert.Equal(t, "users", data[1].ID)
	assert.Equal(t, "table", data[1].Type)
}

func TestSerialize_KeyCase(t *testing.T) {
	records := []record{{"user_id": 1, "createdAt": "now"}}
	fields := []string{"user_id", "createdAt"}

	tests := []struct {
		keyCase KeyCase
		want    []string
	}{
		{KeyCaseNone, []string{"user_id", "createdAt"}},
		{KeyCaseCamel, []string{"userId", "createdAt"}},
		{KeyCaseKebab, []string{"user-id", "created-at"}},
		{KeyCaseSnake, []string{"user_id", "created_at"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.keyCase), func(t *testing.T) {
			doc := Serialize(Serializer{Type: "row", Fields: fields, KeyCase: tt.keyCase}, records, nil)
			data := doc.Data.([]Resource)
			require.Len(t, data, 1)
			assert.Equal(t, tt.want, data[0].Attributes.Keys())
		})
	}
}
