// SPDX-License-Identifier: MPL-2.0

// Package monorepo recognises multi-package repositories from the manifests their
// tooling leaves at the repository root and enumerates the packages they declare.
//
// Supported conventions, checked in this order: rush (rush.json), pnpm
// (pnpm-workspace.yaml), lerna (lerna.json), nx (nx.json), turbo (turbo.json),
// npm/yarn workspaces (package.json "workspaces"), cargo (Cargo.toml [workspace])
// and go workspaces (go.work).
//
// The root lookup consumes this package only through the Detector interface.
package monorepo
