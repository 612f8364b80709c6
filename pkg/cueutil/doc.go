// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes user-supplied CUE documents against an embedded
// schema definition.
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[Config](schema, data, "#Config",
//	    cueutil.WithFilename("singlejar.cue"))
//
// Errors name the file and the dotted path of the offending field.
package cueutil
