// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package fields

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fields  []Field
		wantErr string
	}{
		{"invalid name", []Field{{Name: "1BAD"}}, "invalid field"},
		{"duplicate", []Field{{Name: "A"}, {Name: "A"}}, `duplicate field "A"`},
		{"unknown type", []Field{{Name: "A", Type: "float"}}, `unknown type "float"`},
		{"enum without values", []Field{{Name: "A", Type: TypeEnum}}, "requires values"},
		{"bad pattern", []Field{{Name: "A", Pattern: "("}}, "invalid pattern"},
		{"bad default", []Field{{Name: "A", Type: TypeInteger, Default: "abc"}}, "invalid default"},
		{"default out of range", []Field{{Name: "A", Type: TypeNumber, Default: 0, Min: ptr(1.0)}}, "invalid default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.fields...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNew_DefaultsTypeToString(t *testing.T) {
	t.Parallel()

	s := MustNew(Field{Name: "HOST"})
	assert.Equal(t, TypeString, s.Fields()[0].Type)
	assert.Equal(t, DefaultSeparator, s.Fields()[0].Separator)
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { MustNew(Field{Name: ""}) })
}

func TestSchema_Validate(t *testing.T) {
	t.Parallel()

	s := MustNew(
		Field{Name: "NODE_ENV", Type: TypeEnum, Values: []string{"development", "production"}, Default: "development"},
		Field{Name: "PORT", Type: TypeInteger, Min: ptr(1.0), Max: ptr(65535.0), Default: 3000},
		Field{Name: "DEBUG", Type: TypeBoolean, Optional: true},
		Field{Name: "RATIO", Type: TypeNumber, Optional: true},
		Field{Name: "API_URL", Type: TypeURL, Optional: true},
		Field{Name: "HOSTS", Type: TypeArray, Optional: true},
		Field{Name: "META", Type: TypeJSON, Optional: true},
		Field{Name: "NAME", MinLength: ptr(2), MaxLength: ptr(5), Pattern: `^[a-z]+$`, Optional: true},
	)

	tests := []struct {
		name       string
		candidate  map[string]any
		want       map[string]any
		wantIssues []string
	}{
		{
			name:      "empty candidate takes defaults",
			candidate: map[string]any{},
			want:      map[string]any{"NODE_ENV": "development", "PORT": int64(3000)},
		},
		{
			name: "strings are coerced",
			candidate: map[string]any{
				"NODE_ENV": "production",
				"PORT":     "8080",
				"DEBUG":    "yes",
				"RATIO":    "0.25",
				"API_URL":  "https://api.example.com",
				"HOSTS":    "a, b,c",
				"META":     `{"k":[1,2]}`,
				"NAME":     "abc",
			},
			want: map[string]any{
				"NODE_ENV": "production",
				"PORT":     int64(8080),
				"DEBUG":    true,
				"RATIO":    0.25,
				"API_URL":  "https://api.example.com",
				"HOSTS":    []any{"a", "b", "c"},
				"META":     map[string]any{"k": []any{float64(1), float64(2)}},
				"NAME":     "abc",
			},
		},
		{
			name:      "native values from config defaults",
			candidate: map[string]any{"PORT": 4000, "DEBUG": false, "HOSTS": []any{"x"}, "META": map[string]any{"a": 1}},
			want: map[string]any{
				"NODE_ENV": "development",
				"PORT":     int64(4000),
				"DEBUG":    false,
				"HOSTS":    []any{"x"},
				"META":     map[string]any{"a": 1},
			},
		},
		{
			name:      "json array string for array field",
			candidate: map[string]any{"HOSTS": `["a","b"]`},
			want:      map[string]any{"NODE_ENV": "development", "PORT": int64(3000), "HOSTS": []any{"a", "b"}},
		},
		{
			name:      "unknown keys are stripped",
			candidate: map[string]any{"PATH": "/usr/bin", "HOME": "/root"},
			want:      map[string]any{"NODE_ENV": "development", "PORT": int64(3000)},
		},
		{
			name:      "nil counts as absent",
			candidate: map[string]any{"PORT": nil, "DEBUG": nil},
			want:      map[string]any{"NODE_ENV": "development", "PORT": int64(3000)},
		},
		{
			name: "every failure is reported",
			candidate: map[string]any{
				"NODE_ENV": "staging",
				"PORT":     "notanumber",
				"DEBUG":    "maybe",
				"API_URL":  "localhost",
				"NAME":     "ABCDEFG",
			},
			wantIssues: []string{
				"NODE_ENV: invalid value \"staging\", must be one of: development, production",
				"PORT: expected integer, received \"notanumber\"",
				"DEBUG: expected boolean, received \"maybe\"",
				"API_URL: URL must include a scheme (e.g., https://): localhost",
				"NAME: must contain at most 5 character(s)",
			},
		},
		{
			name:       "range checks",
			candidate:  map[string]any{"PORT": "70000"},
			wantIssues: []string{"PORT: must be less than or equal to 65535"},
		},
		{
			name:       "fractional integer",
			candidate:  map[string]any{"PORT": "80.5"},
			wantIssues: []string{"PORT: expected integer, received 80.5"},
		},
		{
			name:       "pattern mismatch",
			candidate:  map[string]any{"NAME": "ab1"},
			wantIssues: []string{"NAME: must match pattern ^[a-z]+$"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := s.Validate(context.Background(), tt.candidate)
			require.NoError(t, err)

			if tt.wantIssues != nil {
				require.False(t, res.OK())
				got := make([]string, 0, len(res.Issues))
				for _, is := range res.Issues {
					got = append(got, is.String())
				}
				assert.Equal(t, tt.wantIssues, got)
				return
			}

			require.True(t, res.OK(), "unexpected issues: %s", res.Issues)
			assert.Equal(t, tt.want, res.Value)
		})
	}
}

func TestSchema_Validate_Required(t *testing.T) {
	t.Parallel()

	s := MustNew(Field{Name: "REQUIRED_VAR"})

	res, err := s.Validate(context.Background(), map[string]any{})
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, []string{"REQUIRED_VAR"}, res.Issues[0].Path)
	assert.Equal(t, "required", res.Issues[0].Message)
}

func TestSchema_Validate_DoesNotMutateCandidate(t *testing.T) {
	t.Parallel()

	s := MustNew(Field{Name: "PORT", Type: TypeInteger, Default: 1})
	candidate := map[string]any{"PORT": "2", "OTHER": "x"}

	_, err := s.Validate(context.Background(), candidate)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"PORT": "2", "OTHER": "x"}, candidate)
}

func TestSchema_Validate_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MustNew(Field{Name: "A"}).Validate(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoerce_Scalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  Type
		raw  any
		want any
		ok   bool
	}{
		{"string from number", TypeString, 3000, "3000", true},
		{"string from bool", TypeString, true, "true", true},
		{"string rejects list", TypeString, []any{"a"}, nil, false},
		{"number from float string", TypeNumber, " 1.5 ", 1.5, true},
		{"number rejects NaN", TypeNumber, "NaN", nil, false},
		{"number rejects bool", TypeNumber, true, nil, false},
		{"boolean from 0", TypeBoolean, 0, false, true},
		{"boolean rejects 2", TypeBoolean, 2, nil, false},
		{"boolean off", TypeBoolean, "OFF", false, true},
		{"enum from number", TypeEnum, 1, "1", true},
		{"url rejects number", TypeURL, 1, nil, false},
		{"json invalid", TypeJSON, "{", nil, false},
		{"array empty string", TypeArray, "", []any{}, true},
		{"array rejects number", TypeArray, 5, nil, false},
		{"array from string slice", TypeArray, []string{"a"}, []any{"a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := &Field{Name: "X", Type: tt.typ, Values: []string{"1"}, Separator: DefaultSeparator}
			got, msg := coerce(f, tt.raw)
			if !tt.ok {
				assert.NotEmpty(t, msg)
				return
			}
			assert.Empty(t, msg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerce_Integer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     any
		want    int64
		wantMsg string
	}{
		{"max int64 is exact", "9223372036854775807", math.MaxInt64, ""},
		{"min int64 is exact", "-9223372036854775808", math.MinInt64, ""},
		{"above 2^53 is exact", "9007199254740993", 9007199254740993, ""},
		{"integral float string", "3000.0", 3000, ""},
		{"exponent", "1e3", 1000, ""},
		{"surrounding spaces", " 42 ", 42, ""},
		{"native int", 7, 7, ""},
		{"integral float64", float64(12), 12, ""},
		{"2^63 overflows", "9223372036854775808", 0, `integer out of range, received "9223372036854775808"`},
		{"huge float overflows", 1e20, 0, "integer out of range, received 100000000000000000000"},
		{"max uint64 overflows", uint64(math.MaxUint64), 0, "integer out of range"},
		{"fraction", "1.5", 0, "expected integer, received 1.5"},
		{"not a number", "abc", 0, `expected integer, received "abc"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, msg := coerce(&Field{Name: "N", Type: TypeInteger}, tt.raw)
			if tt.wantMsg != "" {
				assert.Contains(t, msg, tt.wantMsg)
				assert.Nil(t, got)
				return
			}
			assert.Empty(t, msg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchema_Validate_LargeIntegers(t *testing.T) {
	t.Parallel()

	s := MustNew(
		Field{Name: "N", Type: TypeInteger},
		Field{Name: "M", Type: TypeInteger},
	)

	res, err := s.Validate(context.Background(), map[string]any{"N": "9223372036854775807", "M": "9007199254740993"})
	require.NoError(t, err)
	require.True(t, res.OK(), "unexpected issues: %s", res.Issues)
	assert.Equal(t, int64(math.MaxInt64), res.Value["N"])
	assert.Equal(t, int64(9007199254740993), res.Value["M"])

	res, err = s.Validate(context.Background(), map[string]any{"N": "9223372036854775808", "M": "1"})
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "N", res.Issues[0].Field())
}
