// SPDX-License-Identifier: MPL-2.0

package reporoot

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Library tags every error produced by this package.
const Library = "reporoot"

const (
	// KindInvalidPath reports a start path or stop file rejected before searching.
	KindInvalidPath Kind = iota + 1
	// KindNotFound reports an upward walk that reached the filesystem root.
	KindNotFound
)

// Context keys carried by *Error.
const (
	ContextPath     = "path"
	ContextStartDir = "startDir"
	ContextStopFile = "stopFile"
)

var (
	// ErrInvalidPath matches every error of kind KindInvalidPath.
	ErrInvalidPath = errors.New("invalid path")
	// ErrNotFound matches every error of kind KindNotFound.
	ErrNotFound = errors.New("repository root not found")

	// ErrPathNotExist is the cause of an InvalidPath error for a missing start path.
	ErrPathNotExist = errors.New("path does not exist")
	// ErrPathNotDirectory is the cause of an InvalidPath error for a start path that is not a directory.
	ErrPathNotDirectory = errors.New("path is not a directory")
	// ErrRootNotFound is the cause of a NotFound error.
	ErrRootNotFound = errors.New("stop file not found in any parent directory")

	// ErrDetection wraps failures of the monorepo Detector during narrowing.
	ErrDetection = errors.New("monorepo detection failed")
)

type (
	// Kind categorizes an *Error.
	Kind int

	// Error is the failure type of every lookup. Kind selects the category,
	// Context holds structured diagnostics (see the Context* keys) and Cause
	// is one of the condition sentinels or a wrapped filesystem error.
	Error struct {
		Kind    Kind
		Message string
		Context map[string]string
		Cause   error
	}
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalidPath:
		return "InvalidPath"
	case KindNotFound:
		return "NotFound"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// sentinel returns the package error every error of this kind matches.
func (k Kind) sentinel() error {
	switch k {
	case KindInvalidPath:
		return ErrInvalidPath
	case KindNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var msg strings.Builder
	msg.WriteString(Library)
	msg.WriteString(": ")
	msg.WriteString(e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		msg.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				msg.WriteString(", ")
			}
			fmt.Fprintf(&msg, "%s=%q", k, e.Context[k])
		}
		msg.WriteString(")")
	}
	return msg.String()
}

// Unwrap returns the condition that caused the error.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Library returns the identifier of the library that produced the error.
func (e *Error) Library() string { return Library }

// Value returns the context value for key, or "" when absent.
func (e *Error) Value(key string) string {
	return e.Context[key]
}

func newInvalidPath(path string, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    KindInvalidPath,
		Message: fmt.Sprintf(format, args...),
		Context: map[string]string{ContextPath: path},
		Cause:   cause,
	}
}

func newNotFound(startDir, stopFile string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("no repo root was found in %q or its parent directories", startDir),
		Context: map[string]string{
			ContextStartDir: startDir,
			ContextStopFile: stopFile,
		},
		Cause: ErrRootNotFound,
	}
}
