// SPDX-License-Identifier: MPL-2.0

// Package types holds the small string- and int-backed value types shared by the
// root lookup, the monorepo detector and the CLI. Each type validates itself and
// reports failures through a typed error that wraps a package sentinel.
package types
