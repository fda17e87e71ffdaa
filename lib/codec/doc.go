// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the canonical block encodings.
//
// A block's CID is a hash of its bytes, so every codec here is
// canonical: structurally equal values always produce byte-equal
// output. Three codecs are registered, keyed by multicodec code:
//
//   - dag-json (0x0129): JSON with map keys sorted, no insignificant
//     whitespace and no HTML escaping. Links are {"/": "<cid>"}, byte
//     strings are {"/": {"bytes": "<base64>"}}.
//   - dag-cbor (0x71): CBOR with length-first map key ordering, no
//     indefinite-length items, and 64-bit floats. Links are tag 42.
//   - raw (0x55): the bytes themselves; values must be []byte.
//
// Look codecs up with [Lookup] or [ByName]:
//
//	c, err := codec.ByName("dag-json")
//	data, err := c.Encode(value)
//	err = c.Decode(data, &value)
//
// The dag-cbor modes are also exported directly ([Marshal],
// [Unmarshal], [NewEncoder], [NewDecoder]) so the container header and
// other internal structures share one configuration without importing
// fxamacker/cbor.
//
// # Struct Tag Rules
//
// Block value types use `json` struct tags only. fxamacker/cbor v2
// reads `json` tags as fallback when `cbor` tags are absent, so one
// tag names the field in both dag-json and dag-cbor and a value
// produces the same logical map under either codec. Never use both
// `cbor` and `json` tags on the same field.
//
// # Errors
//
// Encoding failures are [*EncodeError] (a value the codec cannot
// represent). Decoding failures are [*DecodeError] (bytes that are not
// well-formed for the codec, or do not fit the target type).
package codec
