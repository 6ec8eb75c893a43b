// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package fields

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"unicode/utf8"

	"github.com/stacklok/envictus/schema"
	"github.com/stacklok/envictus/validation/envname"
)

// Type is the declared type of a field.
type Type string

// Supported field types.
const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeEnum    Type = "enum"
	TypeURL     Type = "url"
	TypeJSON    Type = "json"
	TypeArray   Type = "array"
)

var knownTypes = []Type{TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeEnum, TypeURL, TypeJSON, TypeArray}

// DefaultSeparator splits array fields given as plain strings.
const DefaultSeparator = ","

// Field declares one environment variable.
type Field struct {
	Name string
	Type Type
	// Default is used when the variable is absent. nil means no default.
	Default any
	// Optional fields without a default are omitted from the output when absent.
	Optional bool
	// Values lists the accepted values of an enum field.
	Values []string
	// Min and Max bound number and integer fields.
	Min *float64
	Max *float64
	// MinLength and MaxLength bound the rune length of string-like fields
	// and the item count of array fields.
	MinLength *int
	MaxLength *int
	// Pattern is a regular expression string-like values must match.
	Pattern string
	// Schemes restricts the scheme of url fields.
	Schemes []string
	// Separator splits array fields given as plain strings. Defaults to ",".
	Separator string
	// Description is informational only.
	Description string

	pattern *regexp.Regexp
}

// Schema validates a candidate against an ordered list of fields.
// Keys that are not declared are dropped from the validated output.
type Schema struct {
	fields []Field
}

var _ schema.Schema = (*Schema)(nil)

// New builds a Schema. It rejects invalid names, unknown types, duplicate
// fields, enums without values, bad patterns and defaults that do not satisfy
// their own field.
func New(fields ...Field) (*Schema, error) {
	seen := make(map[string]struct{}, len(fields))
	out := make([]Field, 0, len(fields))

	for _, f := range fields {
		if err := envname.ValidateName(f.Name); err != nil {
			return nil, fmt.Errorf("invalid field: %w", err)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = struct{}{}

		if f.Type == "" {
			f.Type = TypeString
		}
		if !slices.Contains(knownTypes, f.Type) {
			return nil, fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
		}
		if f.Type == TypeEnum && len(f.Values) == 0 {
			return nil, fmt.Errorf("field %q: enum type requires values", f.Name)
		}
		if f.Separator == "" {
			f.Separator = DefaultSeparator
		}
		if f.Pattern != "" {
			re, err := regexp.Compile(f.Pattern)
			if err != nil {
				return nil, fmt.Errorf("field %q: invalid pattern: %w", f.Name, err)
			}
			f.pattern = re
		}
		if f.Default != nil {
			if _, msg := f.check(f.Default); msg != "" {
				return nil, fmt.Errorf("field %q: invalid default: %s", f.Name, msg)
			}
		}
		out = append(out, f)
	}

	return &Schema{fields: out}, nil
}

// MustNew is like New but panics on error. Intended for tests and static schemas.
func MustNew(fields ...Field) *Schema {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the declared fields in order.
func (s *Schema) Fields() []Field {
	return slices.Clone(s.fields)
}

// Validate coerces and checks every declared field. Absent fields take their
// default; absent optional fields are omitted; absent required fields are issues.
func (s *Schema) Validate(ctx context.Context, candidate map[string]any) (schema.Result, error) {
	if err := ctx.Err(); err != nil {
		return schema.Result{}, err
	}

	value := make(map[string]any, len(s.fields))
	var issues schema.Issues

	for _, f := range s.fields {
		raw := candidate[f.Name]
		if raw == nil {
			switch {
			case f.Default != nil:
				raw = f.Default
			case f.Optional:
				continue
			default:
				issues = append(issues, schema.NewIssue("required", f.Name))
				continue
			}
		}

		v, msg := f.check(raw)
		if msg != "" {
			issues = append(issues, schema.NewIssue(msg, f.Name))
			continue
		}
		value[f.Name] = v
	}

	if len(issues) > 0 {
		return schema.Failure(issues...), nil
	}
	return schema.Success(value), nil
}

// check coerces raw to the field's type and applies its constraints.
// It returns the coerced value, or a non-empty issue message.
func (f *Field) check(raw any) (any, string) {
	v, msg := coerce(f, raw)
	if msg != "" {
		return nil, msg
	}

	switch f.Type {
	case TypeNumber, TypeInteger:
		n, _ := toFloat(v)
		if f.Min != nil && n < *f.Min {
			return nil, fmt.Sprintf("must be greater than or equal to %s", formatFloat(*f.Min))
		}
		if f.Max != nil && n > *f.Max {
			return nil, fmt.Sprintf("must be less than or equal to %s", formatFloat(*f.Max))
		}
	case TypeString, TypeEnum, TypeURL:
		s, _ := v.(string)
		if msg := f.checkLength(utf8.RuneCountInString(s), "character"); msg != "" {
			return nil, msg
		}
		if f.pattern != nil && !f.pattern.MatchString(s) {
			return nil, fmt.Sprintf("must match pattern %s", f.Pattern)
		}
	case TypeArray:
		items, _ := v.([]any)
		if msg := f.checkLength(len(items), "item"); msg != "" {
			return nil, msg
		}
	}

	return v, ""
}

func (f *Field) checkLength(n int, unit string) string {
	if f.MinLength != nil && n < *f.MinLength {
		return fmt.Sprintf("must contain at least %d %s(s)", *f.MinLength, unit)
	}
	if f.MaxLength != nil && n > *f.MaxLength {
		return fmt.Sprintf("must contain at most %d %s(s)", *f.MaxLength, unit)
	}
	return ""
}
