// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cel

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

const (
	// DefaultMaxExpressionLength is the maximum allowed length for a rule expression.
	DefaultMaxExpressionLength = 10000

	// DefaultCostLimit is the default runtime cost limit for rule evaluation.
	DefaultCostLimit = 1000000

	// EnvVariable is the name under which the validated environment is bound.
	EnvVariable = "env"
)

// Engine compiles and evaluates CEL expressions.
// It is safe for concurrent use from multiple goroutines.
type Engine struct {
	envCache            *envCache
	factory             envFactory
	maxExpressionLength int
	costLimit           uint64
}

// envFactory is a function that creates a CEL environment.
type envFactory func() (*cel.Env, error)

// envCache holds a lazily-initialized CEL environment.
type envCache struct {
	once sync.Once
	env  *cel.Env
	err  error
}

// CompiledExpression represents a pre-compiled CEL program ready for evaluation.
type CompiledExpression struct {
	source  string
	program cel.Program
}

// Source returns the original expression source string.
func (ce *CompiledExpression) Source() string {
	return ce.source
}

// NewEngine creates an engine with the given CEL environment options.
func NewEngine(options ...cel.EnvOption) *Engine {
	return &Engine{
		envCache:            &envCache{},
		maxExpressionLength: DefaultMaxExpressionLength,
		costLimit:           DefaultCostLimit,
		factory: func() (*cel.Env, error) {
			return cel.NewEnv(options...)
		},
	}
}

// NewEnvEngine creates an engine that declares a single variable, env,
// holding the validated environment as a map of string to dyn:
//
//	env.NODE_ENV == "production" && env.PORT > 1024
func NewEnvEngine() *Engine {
	return NewEngine(cel.Variable(EnvVariable, cel.MapType(cel.StringType, cel.DynType)))
}

// WithMaxExpressionLength sets the maximum allowed length for expressions.
func (e *Engine) WithMaxExpressionLength(maxLen int) *Engine {
	e.maxExpressionLength = maxLen
	return e
}

// WithCostLimit sets the runtime cost limit for program evaluation.
func (e *Engine) WithCostLimit(limit uint64) *Engine {
	e.costLimit = limit
	return e
}

// getEnv returns the CEL environment, creating it lazily on first access.
func (e *Engine) getEnv() (*cel.Env, error) {
	e.envCache.once.Do(func() {
		e.envCache.env, e.envCache.err = e.factory()
	})
	return e.envCache.env, e.envCache.err
}

// check parses and type-checks expr.
func (e *Engine) check(expr string) (*cel.Env, *cel.Ast, error) {
	if len(expr) > e.maxExpressionLength {
		return nil, nil, fmt.Errorf("%w: expression length %d exceeds maximum of %d",
			ErrExpressionCheck, len(expr), e.maxExpressionLength)
	}

	env, err := e.getEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get CEL environment: %w", err)
	}

	parsedAst, issues := env.Parse(expr)
	if issues.Err() != nil {
		return nil, nil, newParseError(expr, issues)
	}

	checkedAst, issues := env.Check(parsedAst)
	if issues.Err() != nil {
		return nil, nil, newCheckError(expr, issues)
	}

	return env, checkedAst, nil
}

// Compile parses, type-checks and compiles expr.
//
// Returns an error if the expression exceeds the maximum length, a ParseError
// for syntax errors, or a CheckError for type errors.
func (e *Engine) Compile(expr string) (*CompiledExpression, error) {
	env, checkedAst, err := e.check(expr)
	if err != nil {
		return nil, err
	}

	program, err := env.Program(checkedAst, cel.CostLimit(e.costLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program for %q: %w", expr, err)
	}

	return &CompiledExpression{
		source:  expr,
		program: program,
	}, nil
}

// CompileBool is like Compile but also rejects expressions whose static
// type can never be a boolean.
func (e *Engine) CompileBool(expr string) (*CompiledExpression, error) {
	env, checkedAst, err := e.check(expr)
	if err != nil {
		return nil, err
	}

	out := checkedAst.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w: expression %q has type %s, want bool",
			ErrExpressionCheck, expr, out)
	}

	program, err := env.Program(checkedAst, cel.CostLimit(e.costLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program for %q: %w", expr, err)
	}
	return &CompiledExpression{source: expr, program: program}, nil
}

// Check verifies that expr is syntactically and semantically valid
// without creating a program.
func (e *Engine) Check(expr string) error {
	_, _, err := e.check(expr)
	return err
}

// Evaluate executes the compiled expression against vars.
func (ce *CompiledExpression) Evaluate(vars map[string]any) (any, error) {
	out, _, err := ce.program.Eval(vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEvaluation, err)
	}
	return out.Value(), nil
}

// EvaluateBool executes the compiled expression and returns the result as a bool.
func (ce *CompiledExpression) EvaluateBool(vars map[string]any) (bool, error) {
	result, err := ce.Evaluate(vars)
	if err != nil {
		return false, err
	}

	boolResult, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("%w: expected bool, got %T", ErrInvalidResult, result)
	}

	return boolResult, nil
}
