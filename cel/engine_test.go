// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cel_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/envictus/cel"
)

func testVars() map[string]any {
	return map[string]any{
		cel.EnvVariable: map[string]any{
			"NODE_ENV": "production",
			"PORT":     int64(8080),
			"DEBUG":    false,
			"RATIO":    0.5,
			"HOSTS":    []any{"a", "b"},
		},
	}
}

func TestEngine_Compile_ValidExpressions(t *testing.T) {
	t.Parallel()

	engine := cel.NewEnvEngine()

	tests := []struct {
		name string
		expr string
	}{
		{"field access", `env.NODE_ENV == "production"`},
		{"index access", `env["PORT"] > 1024`},
		{"membership", `"DEBUG" in env`},
		{"list macro", `env.HOSTS.exists(h, h == "a")`},
		{"string function", `env.NODE_ENV.startsWith("prod")`},
		{"implication", `env.NODE_ENV != "production" || !env.DEBUG`},
		{"literal", `true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			expr, err := engine.Compile(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, expr.Source())
		})
	}
}

func TestEngine_Compile_ParseErrors(t *testing.T) {
	t.Parallel()

	engine := cel.NewEnvEngine()

	for _, expr := range []string{`env["PORT"`, `env.PORT ===  1`, `env.PORT >`} {
		t.Run(expr, func(t *testing.T) {
			t.Parallel()
			_, err := engine.Compile(expr)
			require.Error(t, err)

			var parseErr *cel.ParseError
			require.True(t, errors.As(err, &parseErr), "expected ParseError, got %T", err)
			assert.Equal(t, expr, parseErr.Source)
			assert.NotEmpty(t, parseErr.Errors)
			assert.ErrorIs(t, err, cel.ErrExpressionCheck)
		})
	}
}

func TestEngine_Compile_CheckErrors(t *testing.T) {
	t.Parallel()

	engine := cel.NewEnvEngine()
	_, err := engine.Compile(`vars.PORT == 1`)
	require.Error(t, err)

	var checkErr *cel.CheckError
	require.True(t, errors.As(err, &checkErr), "expected CheckError, got %T", err)
	assert.Contains(t, checkErr.AsJSON(), `"source":"vars.PORT == 1"`)
	assert.ErrorIs(t, err, cel.ErrExpressionCheck)
}

func TestEngine_CompileBool(t *testing.T) {
	t.Parallel()

	engine := cel.NewEnvEngine()

	_, err := engine.CompileBool(`env.PORT > 1`)
	require.NoError(t, err, "dyn comparisons are boolean")

	_, err = engine.CompileBool(`"literal"`)
	require.Error(t, err)
	assert.ErrorIs(t, err, cel.ErrExpressionCheck)
	assert.Contains(t, err.Error(), "want bool")
}

func TestEngine_MaxExpressionLength(t *testing.T) {
	t.Parallel()

	engine := cel.NewEnvEngine().WithMaxExpressionLength(10)
	err := engine.Check(`env.NODE_ENV == "production"`)
	require.Error(t, err)
	assert.ErrorIs(t, err, cel.ErrExpressionCheck)
	assert.Contains(t, err.Error(), "exceeds maximum")

	assert.NoError(t, engine.Check(`true`))
}

func TestEngine_CostLimit(t *testing.T) {
	t.Parallel()

	engine := cel.NewEnvEngine().WithCostLimit(1)
	expr, err := engine.Compile(`env.HOSTS.all(h, h.size() > 0) && env.HOSTS.exists(h, h == "b")`)
	require.NoError(t, err)

	_, err = expr.Evaluate(testVars())
	assert.ErrorIs(t, err, cel.ErrEvaluation)
}

func TestCompiledExpression_EvaluateBool(t *testing.T) {
	t.Parallel()

	engine := cel.NewEnvEngine()

	tests := []struct {
		name    string
		expr    string
		want    bool
		wantErr error
	}{
		{"true comparison", `env.PORT == 8080`, true, nil},
		{"false comparison", `env.DEBUG`, false, nil},
		{"double compare", `env.RATIO < 1.0`, true, nil},
		{"missing key", `env.MISSING == "x"`, false, cel.ErrEvaluation},
		{"non-bool result", `env.NODE_ENV`, false, cel.ErrInvalidResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			expr, err := engine.Compile(tt.expr)
			require.NoError(t, err)

			got, err := expr.EvaluateBool(testVars())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_Concurrency(t *testing.T) {
	t.Parallel()

	engine := cel.NewEnvEngine()
	var wg sync.WaitGroup
	errs := make(chan error, 20)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			expr, err := engine.Compile(`env.NODE_ENV == "production"`)
			if err != nil {
				errs <- err
				return
			}
			ok, err := expr.EvaluateBool(testVars())
			if err != nil || !ok {
				errs <- errors.New("unexpected evaluation result")
			}
		}()
	}
	wg.Wait()
	close(errs)

	var msgs []string
	for err := range errs {
		msgs = append(msgs, err.Error())
	}
	assert.Empty(t, msgs, strings.Join(msgs, "\n"))
}
