// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "find repository root"},
			expected: "failed to find repository root",
		},
		{
			name: "operation with resource",
			err: &ActionableError{
				Operation: "find repository root",
				Resource:  "/src/app",
			},
			expected: "failed to find repository root: /src/app",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "list packages",
				Resource:  "/src/mono",
				Cause:     errors.New("unreadable manifest"),
			},
			expected: "failed to list packages: /src/mono: unreadable manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ActionableError{Operation: "test", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if (&ActionableError{Operation: "test"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name: "suggestions",
			err: &ActionableError{
				Operation:   "find repository root",
				Resource:    "/src/app",
				Suggestions: []string{"Pass --stop-file", "Check the path"},
			},
			contains: []string{
				"failed to find repository root: /src/app",
				"• Pass --stop-file",
				"• Check the path",
			},
		},
		{
			name: "no error chain in non-verbose",
			err: &ActionableError{
				Operation: "load configuration",
				Cause:     errors.New("syntax error"),
			},
			contains: []string{"failed to load configuration: syntax error"},
			excludes: []string{"Error chain:"},
		},
		{
			name: "nested error chain verbose",
			err: &ActionableError{
				Operation: "list packages",
				Cause: &ActionableError{
					Operation: "read manifest",
					Cause:     errors.New("file not found"),
				},
			},
			verbose: true,
			contains: []string{
				"Error chain:",
				"1. failed to read manifest: file not found",
				"2. file not found",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Format(tt.verbose)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Format() missing %q\ngot:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Format() should not contain %q\ngot:\n%s", s, got)
				}
			}
		})
	}
}

func TestActionableError_Issue(t *testing.T) {
	withIssue := &ActionableError{Operation: "find repository root", IssueId: RootNotFoundId}
	if got := withIssue.Issue(); got == nil || got.Id() != RootNotFoundId {
		t.Errorf("Issue() = %v, want the RootNotFound entry", got)
	}
	if (&ActionableError{Operation: "x"}).Issue() != nil {
		t.Error("Issue() should be nil without an IssueId")
	}
}

func TestErrorContext_Build(t *testing.T) {
	cause := errors.New("parse error")
	err := NewErrorContext().
		WithOperation("load configuration").
		WithResource("/home/u/.config/reporoot/config.cue").
		WithSuggestion("Check syntax").
		WithSuggestion("Run 'reporoot config init'").
		WithIssue(ConfigLoadFailedId).
		Wrap(cause).
		Build()

	if err == nil {
		t.Fatal("Build() returned nil")
	}
	if err.Operation != "load configuration" || err.Resource != "/home/u/.config/reporoot/config.cue" {
		t.Errorf("Build() = %+v", err)
	}
	if len(err.Suggestions) != 2 {
		t.Errorf("Suggestions count = %d, want 2", len(err.Suggestions))
	}
	if err.IssueId != ConfigLoadFailedId {
		t.Errorf("IssueId = %d, want %d", err.IssueId, ConfigLoadFailedId)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if NewErrorContext().WithResource("some/path").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
}

func TestErrorContext_BuildError(t *testing.T) {
	err := NewErrorContext().WithOperation("test").BuildError()
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("BuildError() = %T, want *ActionableError", err)
	}

	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() should return nil when operation missing")
	}
}

func TestErrorContext_Reuse(t *testing.T) {
	ctx := NewErrorContext().
		WithOperation("find repository root").
		WithResource("/src/app")

	err1 := ctx.Wrap(errors.New("error 1")).Build()
	err2 := ctx.Wrap(errors.New("error 2")).Build()

	if err1.Cause.Error() == err2.Cause.Error() {
		t.Error("Reused context should allow different causes")
	}
	if err1.Operation != err2.Operation {
		t.Error("Reused context should preserve operation")
	}
}
