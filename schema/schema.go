// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"context"
	"fmt"
	"strings"
)

// Schema validates a candidate environment. Implementations may coerce values,
// apply their own defaults and drop unknown keys; the returned Result.Value is
// authoritative over the candidate.
//
// Validate must not mutate candidate. A validation failure is reported through
// Result.Issues; the error return is reserved for adapter malfunctions such as
// a broken schema definition.
type Schema interface {
	Validate(ctx context.Context, candidate map[string]any) (Result, error)
}

// Func adapts an ordinary function to the Schema interface.
type Func func(ctx context.Context, candidate map[string]any) (Result, error)

// Validate calls f.
func (f Func) Validate(ctx context.Context, candidate map[string]any) (Result, error) {
	return f(ctx, candidate)
}

// Result is the outcome of a validation: either a validated value or issues.
type Result struct {
	Value  map[string]any
	Issues Issues
}

// OK reports whether validation succeeded.
func (r Result) OK() bool {
	return len(r.Issues) == 0
}

// Success builds a successful Result.
func Success(value map[string]any) Result {
	if value == nil {
		value = map[string]any{}
	}
	return Result{Value: value}
}

// Failure builds a failed Result.
func Failure(issues ...Issue) Result {
	return Result{Issues: issues}
}

// Issue is a single validation failure.
type Issue struct {
	// Message is a human-readable description of the failure.
	Message string `json:"message"`
	// Path locates the failing part of the input, outermost segment first.
	// Empty when the issue applies to the candidate as a whole.
	Path []string `json:"path,omitempty"`
}

// NewIssue creates an issue for the given path segments.
func NewIssue(message string, path ...string) Issue {
	return Issue{Message: message, Path: path}
}

// Field returns the dotted path of the issue, or "" for root issues.
func (i Issue) Field() string {
	return strings.Join(i.Path, ".")
}

// String renders the issue as "<path>: <message>".
func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Field(), i.Message)
}

// Issues is an ordered list of validation failures.
type Issues []Issue

// String renders the issues as a single line, or as a numbered list when
// there is more than one.
func (is Issues) String() string {
	switch len(is) {
	case 0:
		return ""
	case 1:
		return is[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d issues:", len(is))
	for i, issue := range is {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, issue)
	}
	return b.String()
}
