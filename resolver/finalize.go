// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/stacklok/envictus/schema"
)

// ErrNoSchema is returned when validation is requested without a schema.
var ErrNoSchema = errors.New("no schema configured")

// Finalize validates candidate through s and stringifies the output.
//
// Without validation every candidate value is stringified as is. With
// validation, issues yield an empty environment; otherwise the schema's
// output, not the candidate, is stringified. Schema errors are returned
// unchanged.
func Finalize(
	ctx context.Context,
	s schema.Schema,
	candidate map[string]any,
	validate bool,
) (map[string]string, schema.Issues, error) {
	if !validate {
		out, err := stringifyAll(candidate)
		return out, nil, err
	}

	if s == nil {
		return nil, nil, ErrNoSchema
	}
	res, err := s.Validate(ctx, candidate)
	if err != nil {
		return nil, nil, err
	}
	if !res.OK() {
		return map[string]string{}, res.Issues, nil
	}

	out, err := stringifyAll(res.Value)
	return out, nil, err
}

func stringifyAll(values map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for k, v := range values {
		s, ok, err := Stringify(v)
		if err != nil {
			return nil, fmt.Errorf("failed to stringify %s: %w", k, err)
		}
		if ok {
			out[k] = s
		}
	}
	return out, nil
}

// Stringify renders a value for the environment. It reports false for nil,
// which is omitted. Strings are unchanged, booleans are "true" or "false",
// numbers use their shortest decimal form and everything else is JSON.
func Stringify(v any) (string, bool, error) {
	switch x := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return x, true, nil
	case bool:
		return strconv.FormatBool(x), true, nil
	case int:
		return strconv.FormatInt(int64(x), 10), true, nil
	case int8:
		return strconv.FormatInt(int64(x), 10), true, nil
	case int16:
		return strconv.FormatInt(int64(x), 10), true, nil
	case int32:
		return strconv.FormatInt(int64(x), 10), true, nil
	case int64:
		return strconv.FormatInt(x, 10), true, nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), true, nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true, nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true, nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true, nil
	case uint64:
		return strconv.FormatUint(x, 10), true, nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true, nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true, nil
	case json.Number:
		return x.String(), true, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}
