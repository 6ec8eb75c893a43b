// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package fields

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/stacklok/envictus/validation/url"
)

// coerce converts raw into the Go representation of the field's type.
// Environment values always arrive as strings, while defaults from a config
// file may already be numbers, booleans, lists or maps.
func coerce(f *Field, raw any) (any, string) {
	switch f.Type {
	case TypeString:
		s, ok := scalarString(raw)
		if !ok {
			return nil, expected("string", raw)
		}
		return s, ""

	case TypeNumber:
		n, ok := toFloat(raw)
		if !ok {
			return nil, expected("number", raw)
		}
		return n, ""

	case TypeInteger:
		return toInteger(raw)

	case TypeBoolean:
		b, ok := toBool(raw)
		if !ok {
			return nil, expected("boolean", raw)
		}
		return b, ""

	case TypeEnum:
		s, ok := scalarString(raw)
		if !ok || !slices.Contains(f.Values, s) {
			return nil, fmt.Sprintf("invalid value %s, must be one of: %s", describe(raw), strings.Join(f.Values, ", "))
		}
		return s, ""

	case TypeURL:
		s, ok := raw.(string)
		if !ok {
			return nil, expected("url", raw)
		}
		if err := url.Validate(s, f.Schemes...); err != nil {
			return nil, err.Error()
		}
		return s, ""

	case TypeJSON:
		s, ok := raw.(string)
		if !ok {
			return raw, ""
		}
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil, fmt.Sprintf("invalid JSON: %v", err)
		}
		return v, ""

	case TypeArray:
		return toArray(raw, f.Separator)
	}

	return nil, fmt.Sprintf("unsupported type %q", f.Type)
}

func toArray(raw any, sep string) (any, string) {
	switch v := raw.(type) {
	case []any:
		return v, ""
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, ""
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return []any{}, ""
		}
		if strings.HasPrefix(trimmed, "[") {
			var items []any
			if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
				return nil, fmt.Sprintf("invalid JSON array: %v", err)
			}
			return items, ""
		}
		parts := strings.Split(v, sep)
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
		return out, ""
	}
	return nil, expected("array", raw)
}

// toInteger parses integers exactly and accepts integral floats such as
// "3000.0" or 1e3. Anything outside the int64 range is rejected.
func toInteger(raw any) (any, string) {
	switch v := raw.(type) {
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n, ""
		}
	case json.Number:
		if n, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return n, ""
		}
	case int:
		return int64(v), ""
	case int8:
		return int64(v), ""
	case int16:
		return int64(v), ""
	case int32:
		return int64(v), ""
	case int64:
		return v, ""
	case uint8:
		return int64(v), ""
	case uint16:
		return int64(v), ""
	case uint32:
		return int64(v), ""
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), ""
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), ""
		}
	}

	n, ok := toFloat(raw)
	if !ok {
		return nil, expected("integer", raw)
	}
	if n != math.Trunc(n) {
		return nil, fmt.Sprintf("expected integer, received %s", formatFloat(n))
	}
	if n < -(1<<63) || n >= 1<<63 {
		return nil, fmt.Sprintf("integer out of range, received %s", describe(raw))
	}
	return int64(n), ""
}

// scalarString renders strings, numbers and booleans as a string.
func scalarString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	}
	if n, ok := numeric(raw); ok {
		return formatFloat(n), true
	}
	return "", false
}

// toFloat accepts numbers and numeric strings.
func toFloat(raw any) (float64, bool) {
	if s, ok := raw.(string); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	return numeric(raw)
}

func numeric(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	}
	return 0, false
}

func toBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "y", "on":
			return true, true
		case "false", "0", "no", "n", "off":
			return false, true
		}
		return false, false
	}
	if n, ok := numeric(raw); ok && (n == 0 || n == 1) {
		return n == 1, true
	}
	return false, false
}

func formatFloat(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func expected(want string, raw any) string {
	return fmt.Sprintf("expected %s, received %s", want, describe(raw))
}

// describe names the received value for issue messages.
func describe(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case []any, []string:
		return "array"
	case map[string]any:
		return "object"
	}
	if n, ok := numeric(raw); ok {
		return formatFloat(n)
	}
	return fmt.Sprintf("%T", raw)
}
