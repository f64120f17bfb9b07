// Package jsonapi builds JSON:API style documents from dynamic records.
//
// Records are maps with no intrinsic key order, so a Serializer carries the
// field order explicitly and Attributes preserves it on the wire.
package jsonapi

import (
	"net/http"
	"strconv"
)

// Version is the JSON:API version advertised in every document.
const Version = "1.0"

// MediaType is the JSON:API content type.
const MediaType = "application/vnd.api+json"

// Meta is non-resource information attached once at the document level.
type Meta map[string]any

// Object is the top-level "jsonapi" member.
type Object struct {
	Version string `json:"version"`
}

// Document is a top-level JSON:API document. Exactly one of Data, Errors or
// a meta-only body is expected to be set.
type Document struct {
	JSONAPI *Object       `json:"jsonapi,omitempty"`
	Data    any           `json:"data,omitempty"`
	Meta    Meta          `json:"meta,omitempty"`
	Errors  []ErrorObject `json:"errors,omitempty"`
}

// Resource is a single resource object.
type Resource struct {
	Type       string      `json:"type"`
	ID         string      `json:"id"`
	Attributes *Attributes `json:"attributes"`
}

// ErrorObject describes one error. Status is the HTTP status code as a
// string.
type ErrorObject struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

// NewError returns an error object for an HTTP status code, titled with the
// standard status text.
func NewError(status int, detail string) ErrorObject {
	return ErrorObject{
		Status: strconv.Itoa(status),
		Title:  http.StatusText(status),
		Detail: detail,
	}
}

// MetaDocument returns a document carrying only meta.
func MetaDocument(meta Meta) *Document {
	return &Document{JSONAPI: &Object{Version: Version}, Meta: meta}
}

// ErrorDocument returns a document carrying errs.
func ErrorDocument(errs ...ErrorObject) *Document {
	return &Document{JSONAPI: &Object{Version: Version}, Errors: errs}
}
