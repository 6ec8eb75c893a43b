// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package exitcode attaches process exit codes to errors.
package exitcode

import (
	"errors"
)

// Conventional exit codes.
const (
	OK      = 0
	Failure = 1
	// NotExecutable is returned when the command exists but cannot be run.
	NotExecutable = 126
	// NotFound is returned when the command cannot be found.
	NotFound = 127
	// SignalBase is added to the signal number when a child is killed by a signal.
	SignalBase = 128
)

// CodedError wraps an error with the exit code main should return.
type CodedError struct {
	err    error
	code   int
	silent bool
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

// Unwrap returns the underlying error for errors.Is() and errors.As() compatibility.
func (e *CodedError) Unwrap() error {
	return e.err
}

// ExitCode returns the exit code associated with this error.
func (e *CodedError) ExitCode() int {
	return e.code
}

// WithCode wraps an error with an exit code.
// If err is nil, WithCode returns nil.
func WithCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &CodedError{err: err, code: code}
}

// Silent returns an error carrying only an exit code, for failures that have
// already been reported to the user, such as validation issues or a child
// process exiting non-zero.
func Silent(code int) error {
	return &CodedError{code: code, silent: true}
}

// IsSilent reports whether err should not be printed.
func IsSilent(err error) bool {
	var coded *CodedError
	return errors.As(err, &coded) && coded.silent
}

// Code extracts the exit code from an error.
// It returns 0 for nil and 1 when no CodedError is in the chain.
func Code(err error) int {
	if err == nil {
		return OK
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.code
	}

	return Failure
}

// New creates a new error with the given message and exit code.
func New(message string, code int) error {
	return &CodedError{err: errors.New(message), code: code}
}
