// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/invowk/reporoot/pkg/platform"
)

// DefaultStopFile is the marker that identifies a git work tree root.
const DefaultStopFile StopFile = ".git/HEAD"

// ErrInvalidStopFile is the sentinel error wrapped by InvalidStopFileError.
var ErrInvalidStopFile = errors.New("invalid stop file")

type (
	// StopFile is a path, relative to a candidate directory, whose existence marks
	// that directory as the root being searched for (".git/HEAD", "package.json").
	StopFile string

	// InvalidStopFileError is returned when a StopFile is empty, absolute,
	// climbs out of the candidate directory, or names a device on Windows.
	InvalidStopFileError struct {
		Value  StopFile
		Reason string
	}
)

// String returns the string representation of the StopFile.
func (s StopFile) String() string { return string(s) }

// OrDefault returns s, or DefaultStopFile when s is empty.
func (s StopFile) OrDefault() StopFile {
	if s == "" {
		return DefaultStopFile
	}
	return s
}

// Validate returns an error if the StopFile cannot be joined under a directory.
func (s StopFile) Validate() error {
	raw := string(s)
	switch {
	case strings.TrimSpace(raw) == "":
		return &InvalidStopFileError{Value: s, Reason: "must be non-empty"}
	case filepath.IsAbs(raw) || strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, `\`):
		return &InvalidStopFileError{Value: s, Reason: "must be relative"}
	}

	cleaned := filepath.ToSlash(filepath.Clean(filepath.FromSlash(raw)))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return &InvalidStopFileError{Value: s, Reason: "must name an entry inside the directory"}
	}
	// Device names exist in every directory on Windows and would match at once.
	if runtime.GOOS == platform.Windows && platform.HasWindowsReservedElement(cleaned) {
		return &InvalidStopFileError{Value: s, Reason: "must not contain a Windows reserved name"}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidStopFileError) Error() string {
	return fmt.Sprintf("invalid stop file %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidStopFile for errors.Is() compatibility.
func (e *InvalidStopFileError) Unwrap() error { return ErrInvalidStopFile }
