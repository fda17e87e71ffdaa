// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cid builds and parses content identifiers.
//
// A CID names a block by what it contains: version 1 CIDs are
// varint(1) || varint(codec) || multihash, where the multihash (see
// lib/digest) is computed over the block's encoded bytes. [New] is the
// only constructor that hashes; [Cast] and [Parse] accept identifiers
// that were produced elsewhere.
//
// [CID] is a comparable value type backed by an immutable string, so
// it can be used directly as a map key. The zero value is the
// undefined CID; [CID.Defined] distinguishes it.
//
// Text form is multibase base32 (lowercase, unpadded) with the "b"
// prefix, for example "bafyrei..." for dag-cbor/sha2-256. Version 0
// CIDs (a bare 34-byte sha2-256 multihash, text form "Qm...") are
// accepted by [Cast] and [ReadFrom] for container compatibility but
// never produced.
//
// Links inside encoded blocks use the IPLD conventions: CBOR tag 42
// around a byte string holding 0x00 || CID bytes, and the JSON object
// {"/": "<cid>"}. [CID] implements the marshaler interfaces for both.
package cid
