// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunc(t *testing.T) {
	t.Parallel()

	s := Func(func(_ context.Context, in map[string]any) (Result, error) {
		if _, ok := in["API_KEY"]; !ok {
			return Failure(NewIssue("required", "API_KEY")), nil
		}
		return Success(in), nil
	})

	res, err := s.Validate(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, "API_KEY: required", res.Issues.String())

	res, err = s.Validate(context.Background(), map[string]any{"API_KEY": "x"})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "x", res.Value["API_KEY"])
}

func TestSuccess_NilValue(t *testing.T) {
	t.Parallel()

	res := Success(nil)
	assert.True(t, res.OK())
	assert.NotNil(t, res.Value)
}

func TestIssue_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		issue Issue
		want  string
	}{
		{"root issue", NewIssue("expected object"), "expected object"},
		{"single segment", NewIssue("required", "PORT"), "PORT: required"},
		{"nested", NewIssue("bad", "LIST", "2"), "LIST.2: bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.issue.String())
		})
	}
}

func TestIssues_String(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Issues(nil).String())

	is := Issues{NewIssue("required", "A"), NewIssue("must be a number", "B")}
	assert.Equal(t, "2 issues:\n  1. A: required\n  2. B: must be a number", is.String())
}
