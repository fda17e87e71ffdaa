// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package block pairs encoded bytes with the CID that identifies them.
//
// A [Block] is immutable once built: [Encode] serializes a value with a
// codec, hashes the bytes, and returns both together. Blocks read back
// from a container arrive through [New], which trusts nothing; call
// [Block.Verify] to recompute the identifier from the bytes before
// decoding anything that came off disk.
package block
