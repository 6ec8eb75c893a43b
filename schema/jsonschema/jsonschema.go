// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package jsonschema validates environments against a JSON Schema document.
//
// Environment values are strings, so before validation each value is coerced
// to the first matching type its property declares (integer, number, boolean,
// array, object). Absent properties take their "default". Only declared
// properties are validated and returned; the rest of the process environment
// is ignored, which keeps "additionalProperties": false usable.
package jsonschema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/stacklok/envictus/schema"
)

// rootField is how gojsonschema names the document itself.
const rootField = "(root)"

// ErrNoProperties is returned for documents that declare no properties.
var ErrNoProperties = errors.New("JSON schema must be an object schema with properties")

// Schema is a compiled JSON Schema document.
type Schema struct {
	compiled   *gojsonschema.Schema
	properties map[string]property
	names      []string
}

var _ schema.Schema = (*Schema)(nil)

type property struct {
	types      []string
	def        any
	hasDefault bool
}

// New compiles a JSON Schema document.
func New(document []byte) (*Schema, error) {
	var raw struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(document, &raw); err != nil {
		return nil, fmt.Errorf("parsing JSON schema: %w", err)
	}
	if len(raw.Properties) == 0 {
		return nil, ErrNoProperties
	}

	properties := make(map[string]property, len(raw.Properties))
	names := make([]string, 0, len(raw.Properties))
	for name, body := range raw.Properties {
		p, err := parseProperty(body)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		properties[name] = p
		names = append(names, name)
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("compiling JSON schema: %w", err)
	}

	s := &Schema{
		compiled:   compiled,
		properties: properties,
		names:      names,
	}
	slices.Sort(s.names)

	return s, nil
}

// NewFromFile reads and compiles a JSON Schema file.
func NewFromFile(path string) (*Schema, error) {
	document, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading JSON schema %s: %w", path, err)
	}
	s, err := New(document)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func parseProperty(body json.RawMessage) (property, error) {
	var p struct {
		Type    json.RawMessage `json:"type"`
		Default json.RawMessage `json:"default"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return property{}, err
	}

	var out property
	if len(p.Type) > 0 {
		var single string
		if err := json.Unmarshal(p.Type, &single); err == nil {
			out.types = []string{single}
		} else if err := json.Unmarshal(p.Type, &out.types); err != nil {
			return property{}, fmt.Errorf("type must be a string or an array of strings")
		}
	}
	if len(p.Default) > 0 && string(p.Default) != "null" {
		if err := json.Unmarshal(p.Default, &out.def); err != nil {
			return property{}, fmt.Errorf("invalid default: %w", err)
		}
		out.hasDefault = true
	}
	return out, nil
}

// Validate coerces the declared properties of candidate and validates them.
func (s *Schema) Validate(ctx context.Context, candidate map[string]any) (schema.Result, error) {
	if err := ctx.Err(); err != nil {
		return schema.Result{}, err
	}

	doc := make(map[string]any, len(s.names))
	for _, name := range s.names {
		p := s.properties[name]
		raw := candidate[name]
		if raw == nil {
			if !p.hasDefault {
				continue
			}
			raw = p.def
		}
		doc[name] = coerce(raw, p.types)
	}

	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return schema.Result{}, fmt.Errorf("validating against JSON schema: %w", err)
	}
	if result.Valid() {
		return schema.Success(doc), nil
	}

	issues := make(schema.Issues, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		issues = append(issues, schema.Issue{
			Message: re.Description(),
			Path:    issuePath(re),
		})
	}
	return schema.Failure(issues...), nil
}

// issuePath converts the error context ("(root).a.b") into path segments.
// Required errors are reported on the missing property rather than its parent.
func issuePath(re gojsonschema.ResultError) []string {
	var path []string
	if ctx := re.Context(); ctx != nil {
		field := strings.TrimPrefix(ctx.String(), rootField)
		field = strings.TrimPrefix(field, ".")
		if field != "" {
			path = strings.Split(field, ".")
		}
	}
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok && prop != "" {
			path = append(path, prop)
		}
	}
	return path
}

// coerce converts a string into the first declared type it parses as. Values
// that do not parse are returned unchanged so the schema reports the mismatch.
func coerce(raw any, types []string) any {
	s, ok := raw.(string)
	if !ok || slices.Contains(types, "string") {
		return raw
	}
	for _, t := range types {
		switch t {
		case "integer":
			if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return n
			}
		case "number":
			if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return n
			}
		case "boolean":
			if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
				return b
			}
		case "array", "object":
			var v any
			if err := json.Unmarshal([]byte(s), &v); err == nil {
				return v
			}
		case "null":
			if s == "" {
				return nil
			}
		}
	}
	return raw
}
