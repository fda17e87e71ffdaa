// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package carfile stores containers on disk.
//
// [Create] streams a container into a temporary file next to its
// destination and renames it into place on [Writer.Close], so readers
// never observe a half-written container. Any failure removes the
// temporary file. The stream may be wrapped in an LZ4 or zstd frame;
// [Open] detects the frame from its magic bytes and decompresses
// transparently, so callers read every variant the same way.
//
// [Drain] is the consumer half of a producer/consumer hand-off: a
// builder sends blocks on a channel and Drain writes them in arrival
// order.
package carfile
