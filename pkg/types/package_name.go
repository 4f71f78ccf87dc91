// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPackageName is the sentinel error wrapped by InvalidPackageNameError.
var ErrInvalidPackageName = errors.New("invalid package name")

type (
	// PackageName identifies a package inside a monorepo, as declared by its
	// manifest ("@scope/pkg-a", "my-crate", "example.com/mod").
	PackageName string

	// InvalidPackageNameError is returned when a PackageName is empty or
	// whitespace-only.
	InvalidPackageNameError struct {
		Value PackageName
	}
)

// String returns the string representation of the PackageName.
func (n PackageName) String() string { return string(n) }

// Validate returns an error if the name is empty or whitespace-only.
func (n PackageName) Validate() error {
	if strings.TrimSpace(string(n)) == "" {
		return &InvalidPackageNameError{Value: n}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidPackageNameError) Error() string {
	return fmt.Sprintf("invalid package name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidPackageName for errors.Is() compatibility.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }
