// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest provides the pluggable hash functions behind content
// identifiers, and the self-describing multihash framing that records
// which function produced a digest.
//
// Providers are keyed by their multicodec code. Three are registered
// at init:
//
//   - [SHA2_256] (0x12) -- crypto/sha256, the default
//   - [BLAKE3] (0x1e) -- github.com/zeebo/blake3, 32-byte output
//   - [BLAKE2B_256] (0xb220) -- golang.org/x/crypto/blake2b
//
// [Register] adds or replaces a provider. Asking for a code with no
// provider returns [ErrUnsupported]; that is a configuration problem
// and callers surface it before any data is hashed.
//
// A [Multihash] is varint(code) || varint(length) || digest. [Sum]
// returns the raw digest; [New] returns the framed multihash.
package digest
