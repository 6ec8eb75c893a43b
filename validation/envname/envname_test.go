// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package envname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "upper snake case", input: "DATABASE_URL"},
		{name: "leading underscore", input: "_PRIVATE"},
		{name: "lower case allowed", input: "node_env"},
		{name: "digits after first", input: "V8_FLAGS2"},
		{name: "empty", input: "", wantErr: "cannot be empty"},
		{name: "whitespace only", input: "   ", wantErr: "cannot be empty"},
		{name: "null byte", input: "A\x00B", wantErr: "null bytes"},
		{name: "equals sign", input: "A=B", wantErr: "cannot contain '='"},
		{name: "leading digit", input: "1PORT", wantErr: "cannot start with a digit"},
		{name: "dash", input: "MY-VAR", wantErr: "letters, digits and underscores"},
		{name: "space", input: "MY VAR", wantErr: "letters, digits and underscores"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateName(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
