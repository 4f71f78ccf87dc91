// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// This package contains utilities for handling platform-specific concerns,
// such as Windows reserved device names, which exist in every directory on
// Windows and therefore cannot serve as root markers.
package platform
