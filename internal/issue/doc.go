// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the path involved and remediation
// hints. The Issue catalog holds longer Markdown guidance, rendered with glamour,
// that the CLI prints in verbose mode.
package issue
