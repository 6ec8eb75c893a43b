// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cel

import (
	"context"
	"fmt"

	"github.com/stacklok/envictus/schema"
)

// Rule is a cross-field constraint evaluated after per-field validation.
type Rule struct {
	// Name identifies the rule in messages.
	Name string `yaml:"name" json:"name"`
	// Expr is a boolean CEL expression over env.
	Expr string `yaml:"expr" json:"expr"`
	// Message replaces the default failure message.
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
	// Field attributes failures to a variable.
	Field string `yaml:"field,omitempty" json:"field,omitempty"`
}

type compiledRule struct {
	Rule
	expr *CompiledExpression
}

// Rules wraps a Schema with CEL rules. Rules only run when the inner schema
// succeeds, and see its validated output rather than the raw candidate.
type Rules struct {
	inner schema.Schema
	rules []compiledRule
}

var _ schema.Schema = (*Rules)(nil)

// NewRules compiles rules against the env variable and wraps inner.
func NewRules(inner schema.Schema, rules ...Rule) (*Rules, error) {
	engine := NewEnvEngine()
	seen := make(map[string]struct{}, len(rules))
	compiled := make([]compiledRule, 0, len(rules))

	for i, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: rule at index %d has no name", ErrInvalidRule, i)
		}
		if _, dup := seen[r.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate rule name %q", ErrInvalidRule, r.Name)
		}
		seen[r.Name] = struct{}{}
		if r.Expr == "" {
			return nil, fmt.Errorf("%w: rule %q has no expression", ErrInvalidRule, r.Name)
		}

		expr, err := engine.CompileBool(r.Expr)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		compiled = append(compiled, compiledRule{Rule: r, expr: expr})
	}

	return &Rules{inner: inner, rules: compiled}, nil
}

// Validate runs the inner schema, then every rule. All failing rules are reported.
func (r *Rules) Validate(ctx context.Context, candidate map[string]any) (schema.Result, error) {
	res, err := r.inner.Validate(ctx, candidate)
	if err != nil || !res.OK() {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return schema.Result{}, err
	}

	vars := map[string]any{EnvVariable: res.Value}
	var issues schema.Issues
	for _, rule := range r.rules {
		ok, err := rule.expr.EvaluateBool(vars)
		switch {
		case err != nil:
			issues = append(issues, rule.issue(fmt.Sprintf("rule %q could not be evaluated: %v", rule.Name, err)))
		case !ok:
			msg := rule.Message
			if msg == "" {
				msg = fmt.Sprintf("rule %q failed: %s", rule.Name, rule.Expr)
			}
			issues = append(issues, rule.issue(msg))
		}
	}

	if len(issues) > 0 {
		return schema.Failure(issues...), nil
	}
	return res, nil
}

func (r compiledRule) issue(msg string) schema.Issue {
	if r.Field == "" {
		return schema.NewIssue(msg)
	}
	return schema.NewIssue(msg, r.Field)
}
