// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that build directory trees and
// fail the test on setup errors instead of returning them.
//
// Common helpers include working-directory and environment management
// (MustChdir, MustSetenv), tree construction (MustMkdirAll, WriteTree) and an
// in-memory FakeFS for exercising lookups against trees the host cannot produce.
package testutil
