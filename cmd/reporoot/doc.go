// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the reporoot command-line interface.
//
// The root command prints the repository root for each path argument. The
// packages, info and config subcommands inspect monorepo layouts, describe a
// root, and manage the configuration file.
package cmd
