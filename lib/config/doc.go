// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for dagcar.
//
// Configuration is loaded from a single file named by either the
// --config flag or the DAGCAR_CONFIG environment variable (see
// [Resolve]). There is no ~/.config discovery and no automatic file
// search. With neither set, [Default] applies: dag-json blocks,
// sha2-256 digests, an uncompressed assembly.car in the working
// directory, the built-in schema and the built-in sample input.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${CONFIG_DIR} (the directory holding the config file) and
// ${VAR:-default} patterns are expanded. Environment variables never
// override config values directly.
//
// Key exports:
//
//   - [Config] -- master struct with Codec, Container, Schema, Input, Log
//   - [Default] -- returns a Config with the built-in defaults
//   - [Load], [LoadFile] and [Resolve] -- the entry points for loading
//
// This package depends on no other dagcar packages; names are checked
// against fixed lists and resolved by the caller.
package config
