// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Configuration files are validated in three steps:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with the schema definition
//  3. Validate and decode to a Go map that Viper can merge
//
// # Usage
//
//	//go:embed config_schema.cue
//	var configSchema string
//
//	values, err := cueutil.DecodeMap(configSchema, data, "#Config", "config.cue")
//	if err != nil {
//	    return err // Error includes the CUE path for debugging
//	}
//	return v.MergeConfigMap(values)
package cueutil
