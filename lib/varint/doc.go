// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package varint implements the multiformats unsigned varint: LEB128
// with at most nine bytes and no redundant trailing zero groups.
//
// The encoding is identical to encoding/binary's Uvarint, so encoding
// delegates to [binary.AppendUvarint]. Decoding is stricter than the
// standard library: a value that could have been encoded in fewer
// bytes is rejected with [ErrNotMinimal], because CIDs and container
// sections are hashed and compared as bytes and must have exactly one
// valid encoding.
package varint
