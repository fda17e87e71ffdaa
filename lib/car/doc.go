// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package car reads and writes block containers in the CARv1 layout.
//
// A container is a header followed by sections, each prefixed with an
// unsigned LEB128 length:
//
//	varint(len(header)) header
//	varint(len(cid)+len(data)) cid data
//	varint(len(cid)+len(data)) cid data
//	...
//
// The header is a DAG-CBOR map {"roots": [CID...], "version": 1}.
// Section CIDs are binary; the CID's own framing marks where the block
// bytes begin. Sections appear in the order they were written and
// nothing indexes them, so random access requires a full scan into a
// [BlockLookup].
//
// [Writer] streams: the header goes out on construction and every
// [Writer.Put] appends one section. [Reader] is the matching
// sequential parser; [Open] drains one into memory. Neither side
// verifies block digests; that is the caller's decision (see
// block.Block.Verify).
package car
