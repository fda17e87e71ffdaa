// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package dataset reads assembly input files.
//
// Input is JSON extended with // line comments, /* block comments */
// and trailing commas. [Parse] strips the extensions and returns both
// the standard JSON (for the schema gate, which must see the document
// as written) and the decoded components.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/dagcar/lib/assembly"
)

//go:embed sample.jsonc
var sample []byte

// Dataset is a parsed input file.
type Dataset struct {
	// Name identifies the source in messages: a path, or "sample".
	Name string

	// JSON is the input with comments and trailing commas removed.
	JSON []byte

	// Components is the decoded assembly, in file order.
	Components []assembly.Component
}

// Parse decodes JSONC data. Unknown fields are rejected so a
// misspelled key does not silently become a zero coordinate.
func Parse(name string, data []byte) (*Dataset, error) {
	stripped := jsonc.ToJSON(data)

	decoder := json.NewDecoder(bytes.NewReader(stripped))
	decoder.DisallowUnknownFields()
	var components []assembly.Component
	if err := decoder.Decode(&components); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("parsing %s: trailing data after assembly", name)
	}

	return &Dataset{Name: name, JSON: stripped, Components: components}, nil
}

// ReadFile reads and parses the input file at path.
func ReadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(path, data)
}

// Sample returns the built-in four-rectangle assembly.
func Sample() *Dataset {
	dataset, err := Parse("sample", sample)
	if err != nil {
		panic("dataset: built-in sample does not parse: " + err.Error())
	}
	return dataset
}

// Load reads path, or returns the sample when path is empty.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Sample(), nil
	}
	return ReadFile(path)
}
