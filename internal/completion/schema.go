// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"
)

// =============================================================================
// SCHEMA
// =============================================================================

// Kind is a JSON value kind.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindInteger
	KindBoolean
	KindArray
	KindObject
)

// String returns the JSON Schema type name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field is one property of an object schema.
type Field struct {
	Name     string
	Schema   *Schema
	Optional bool
}

// Schema describes the expected shape of a response. Object fields keep
// their declaration order, which is also the order requested from the model.
type Schema struct {
	Kind        Kind
	Description string
	Enum        []string
	Items       *Schema
	Fields      []Field
}

// String returns a string schema.
func String() *Schema { return &Schema{Kind: KindString} }

// Number returns a number schema.
func Number() *Schema { return &Schema{Kind: KindNumber} }

// Integer returns an integer schema.
func Integer() *Schema { return &Schema{Kind: KindInteger} }

// Boolean returns a boolean schema.
func Boolean() *Schema { return &Schema{Kind: KindBoolean} }

// Enum returns a string schema restricted to values (matched case-insensitively).
func Enum(values ...string) *Schema { return &Schema{Kind: KindString, Enum: values} }

// ArrayOf returns an array schema.
func ArrayOf(items *Schema) *Schema { return &Schema{Kind: KindArray, Items: items} }

// Object returns an object schema.
func Object(fields ...Field) *Schema { return &Schema{Kind: KindObject, Fields: fields} }

// Required declares a required object field.
func Required(name string, s *Schema) Field { return Field{Name: name, Schema: s} }

// OptionalField declares an optional object field.
func OptionalField(name string, s *Schema) Field {
	return Field{Name: name, Schema: s, Optional: true}
}

// Describe sets the description and returns s.
func (s *Schema) Describe(desc string) *Schema {
	s.Description = desc
	return s
}

func (s *Schema) requiredNames() []string {
	var names []string
	for _, f := range s.Fields {
		if !f.Optional {
			names = append(names, f.Name)
		}
	}
	return names
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// Genai converts s to the genai response schema.
func (s *Schema) Genai() *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{Description: s.Description}
	switch s.Kind {
	case KindString:
		out.Type = genai.TypeString
		if len(s.Enum) > 0 {
			out.Format = "enum"
			out.Enum = append([]string(nil), s.Enum...)
		}
	case KindNumber:
		out.Type = genai.TypeNumber
	case KindInteger:
		out.Type = genai.TypeInteger
	case KindBoolean:
		out.Type = genai.TypeBoolean
	case KindArray:
		out.Type = genai.TypeArray
		out.Items = s.Items.Genai()
	case KindObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(s.Fields))
		for _, f := range s.Fields {
			out.Properties[f.Name] = f.Schema.Genai()
			out.PropertyOrdering = append(out.PropertyOrdering, f.Name)
		}
		out.Required = s.requiredNames()
	}
	return out
}

// JSONSchema converts s to a JSON Schema document for OpenAI-style
// response_format requests.
func (s *Schema) JSONSchema() map[string]interface{} {
	if s == nil {
		return nil
	}
	out := map[string]interface{}{"type": s.Kind.String()}
	if s.Description != "" {
		out["description"] = s.Description
	}
	switch s.Kind {
	case KindString:
		if len(s.Enum) > 0 {
			out["enum"] = append([]string(nil), s.Enum...)
		}
	case KindArray:
		out["items"] = s.Items.JSONSchema()
	case KindObject:
		props := make(map[string]interface{}, len(s.Fields))
		for _, f := range s.Fields {
			props[f.Name] = f.Schema.JSONSchema()
		}
		out["properties"] = props
		required := s.requiredNames()
		if required == nil {
			required = []string{}
		}
		out["required"] = required
		out["additionalProperties"] = false
	}
	return out
}

// =============================================================================
// VALIDATION
// =============================================================================

// ShapeError reports where a document diverges from its schema.
type ShapeError struct {
	Path    string
	Message string
}

func (e *ShapeError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Validate checks a value decoded with json.Decoder.UseNumber against s.
func (s *Schema) Validate(v interface{}) error {
	return s.validate("$", v)
}

func (s *Schema) validate(path string, v interface{}) error {
	if v == nil {
		return &ShapeError{Path: path, Message: fmt.Sprintf("expected %s, got null", s.Kind)}
	}

	switch s.Kind {
	case KindString:
		str, ok := v.(string)
		if !ok {
			return wrongKind(path, s.Kind, v)
		}
		if len(s.Enum) > 0 && canonicalEnum(s.Enum, str) == "" {
			return &ShapeError{Path: path, Message: fmt.Sprintf("%q is not one of %s", str, strings.Join(s.Enum, ", "))}
		}
	case KindNumber:
		if _, ok := numberValue(v); !ok {
			return wrongKind(path, s.Kind, v)
		}
	case KindInteger:
		f, ok := numberValue(v)
		if !ok || f != math.Trunc(f) {
			return wrongKind(path, s.Kind, v)
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return &ShapeError{Path: path, Message: fmt.Sprintf("integer %v out of range", v)}
		}
	case KindBoolean:
		if _, ok := v.(bool); !ok {
			return wrongKind(path, s.Kind, v)
		}
	case KindArray:
		items, ok := v.([]interface{})
		if !ok {
			return wrongKind(path, s.Kind, v)
		}
		for i, item := range items {
			if err := s.Items.validate(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return err
			}
		}
	case KindObject:
		obj, ok := v.(map[string]interface{})
		if !ok {
			return wrongKind(path, s.Kind, v)
		}
		for _, f := range s.Fields {
			val, present := obj[f.Name]
			if !present || val == nil {
				if f.Optional {
					continue
				}
				return &ShapeError{Path: path + "." + f.Name, Message: "required field missing"}
			}
			if err := f.Schema.validate(path+"."+f.Name, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func wrongKind(path string, want Kind, v interface{}) error {
	return &ShapeError{Path: path, Message: fmt.Sprintf("expected %s, got %s", want, jsonKindOf(v))}
}

func numberValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func jsonKindOf(v interface{}) string {
	switch v.(type) {
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// canonicalEnum returns the declared spelling of value, or "" if it is not
// an allowed value.
func canonicalEnum(allowed []string, value string) string {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(value), a) {
			return a
		}
	}
	return ""
}
