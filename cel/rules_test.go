// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/envictus/cel"
	"github.com/stacklok/envictus/schema"
	"github.com/stacklok/envictus/schema/fields"
)

func ruleSchema(t *testing.T) schema.Schema {
	t.Helper()
	return fields.MustNew(
		fields.Field{Name: "NODE_ENV", Type: fields.TypeEnum, Values: []string{"development", "production"}, Default: "development"},
		fields.Field{Name: "PORT", Type: fields.TypeInteger, Default: 3000},
		fields.Field{Name: "TLS_CERT", Optional: true},
	)
}

func TestNewRules_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rules   []cel.Rule
		wantErr string
	}{
		{"missing name", []cel.Rule{{Expr: "true"}}, "has no name"},
		{"missing expr", []cel.Rule{{Name: "r"}}, "has no expression"},
		{"duplicate", []cel.Rule{{Name: "r", Expr: "true"}, {Name: "r", Expr: "true"}}, "duplicate rule name"},
		{"syntax", []cel.Rule{{Name: "r", Expr: "env.PORT >"}}, `rule "r"`},
		{"not boolean", []cel.Rule{{Name: "r", Expr: `"x"`}}, "want bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := cel.NewRules(ruleSchema(t), tt.rules...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewRules_InvalidRuleSentinel(t *testing.T) {
	t.Parallel()
	_, err := cel.NewRules(ruleSchema(t), cel.Rule{Expr: "true"})
	assert.ErrorIs(t, err, cel.ErrInvalidRule)
}

func TestRules_Validate(t *testing.T) {
	t.Parallel()

	rules, err := cel.NewRules(ruleSchema(t),
		cel.Rule{
			Name:    "tls-in-production",
			Expr:    `env.NODE_ENV != "production" || "TLS_CERT" in env`,
			Field:   "TLS_CERT",
			Message: "required in production",
		},
		cel.Rule{
			Name: "unprivileged-port",
			Expr: `env.PORT >= 1024`,
		},
	)
	require.NoError(t, err)

	t.Run("passes", func(t *testing.T) {
		t.Parallel()
		res, err := rules.Validate(context.Background(), map[string]any{"PORT": "8080"})
		require.NoError(t, err)
		require.True(t, res.OK(), res.Issues.String())
		assert.Equal(t, int64(8080), res.Value["PORT"])
	})

	t.Run("reports every failing rule", func(t *testing.T) {
		t.Parallel()
		res, err := rules.Validate(context.Background(), map[string]any{"NODE_ENV": "production", "PORT": "80"})
		require.NoError(t, err)
		require.Len(t, res.Issues, 2)

		assert.Equal(t, "TLS_CERT: required in production", res.Issues[0].String())
		assert.Empty(t, res.Issues[1].Path)
		assert.Contains(t, res.Issues[1].Message, `rule "unprivileged-port" failed`)
	})

	t.Run("skips rules when fields fail", func(t *testing.T) {
		t.Parallel()
		res, err := rules.Validate(context.Background(), map[string]any{"PORT": "abc"})
		require.NoError(t, err)
		require.Len(t, res.Issues, 1)
		assert.Equal(t, []string{"PORT"}, res.Issues[0].Path)
	})
}

func TestRules_Validate_EvaluationErrorIsIssue(t *testing.T) {
	t.Parallel()

	rules, err := cel.NewRules(ruleSchema(t), cel.Rule{Name: "needs-cert", Expr: `env.TLS_CERT != ""`})
	require.NoError(t, err)

	res, err := rules.Validate(context.Background(), map[string]any{})
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	assert.Contains(t, res.Issues[0].Message, "could not be evaluated")
}

func TestRules_Validate_PropagatesInnerErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("broken schema")
	inner := schema.Func(func(context.Context, map[string]any) (schema.Result, error) {
		return schema.Result{}, boom
	})
	rules, err := cel.NewRules(inner, cel.Rule{Name: "r", Expr: "true"})
	require.NoError(t, err)

	_, err = rules.Validate(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}
