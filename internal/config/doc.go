// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/reporoot/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/reporoot/config.cue on macOS, %APPDATA%\reporoot\config.cue
// on Windows), falling back to reporoot.cue in the working directory. Values can be
// overridden with REPOROOT_* environment variables.
//
// Configuration files are validated against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
