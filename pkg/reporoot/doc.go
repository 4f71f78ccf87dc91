// SPDX-License-Identifier: MPL-2.0

// Package reporoot finds the root directory of a repository by walking upward
// from a start directory until a stop file (".git/HEAD" by default) exists under
// the candidate directory.
//
// Callers pass either a plain path (Find) or an Options value (FindWithOptions).
// With Options.StopOnMonorepoPackage set, a root recognised as a monorepo is
// narrowed to the package directory that encloses the start directory.
//
// Failures are *Error values of kind KindInvalidPath or KindNotFound:
//
//	root, err := reporoot.FindWithOptions(reporoot.Options{Path: "./src", StopFile: "go.mod"})
//	if errors.Is(err, reporoot.ErrNotFound) {
//		// no go.mod above ./src
//	}
package reporoot
