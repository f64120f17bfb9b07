package jsonapi

import (
	"maps"
	"slices"
	"strconv"
)

// IDFunc derives a resource id from a record and its index in the input.
type IDFunc func(index int, record map[string]any) string

// Serializer turns records of one resource type into a document.
type Serializer struct {
	// Type becomes the type member of every resource.
	Type string

	// Fields is the attribute order applied to every record. When nil it
	// is inferred from the first record's keys, sorted.
	Fields []string

	// KeyCase rewrites attribute keys. The zero value leaves keys as is.
	KeyCase KeyCase

	// ID derives resource ids. When nil, ids are the 1-based record index.
	ID IDFunc
}

// Serialize builds a document with one resource per record. The attribute
// schema is taken once from s.Fields (or the first record) and applied to
// every record; keys missing from a record encode as null. An empty record
// set yields an empty data array.
func Serialize[M ~map[string]any](s Serializer, records []M, meta Meta) *Document {
	fields := s.Fields
	if fields == nil && len(records) > 0 {
		fields = slices.Sorted(maps.Keys(records[0]))
	}

	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = s.KeyCase.Convert(f)
	}

	data := make([]Resource, 0, len(records))
	for i, rec := range records {
		attrs := NewAttributes(len(fields))
		for j, f := range fields {
			attrs.Set(keys[j], rec[f])
		}

		var id string
		if s.ID != nil {
			id = s.ID(i, map[string]any(rec))
		} else {
			id = strconv.Itoa(i + 1)
		}

		data = append(data, Resource{Type: s.Type, ID: id, Attributes: attrs})
	}

	doc := &Document{JSONAPI: &Object{Version: Version}, Data: data}
	if len(meta) > 0 {
		doc.Meta = meta
	}
	return doc
}
