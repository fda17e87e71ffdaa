// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package carfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the frame a container stream is wrapped in.
type Compression uint8

const (
	// CompressionNone writes the container bytes as they are.
	CompressionNone Compression = 0

	// CompressionLZ4 wraps the stream in an LZ4 frame. Fast, modest
	// ratio.
	CompressionLZ4 Compression = 1

	// CompressionZstd wraps the stream in a zstd frame at the default
	// level. JSON blocks compress well under zstd.
	CompressionZstd Compression = 2
)

// Frame magic numbers, as they appear on disk. A bare container starts
// with its header length varint followed by a CBOR map head (0xa1 or
// 0xa2), so neither magic can be mistaken for one.
var (
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// String returns the configuration name of a compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// ParseCompression parses a compression from its configuration name.
// The empty string means none.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// compressor returns a writer that frames everything written to it
// into w. Closing it flushes the frame but leaves w open.
func compressor(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil

	case CompressionLZ4:
		return lz4.NewWriter(w), nil

	case CompressionZstd:
		encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		return encoder, nil

	default:
		return nil, fmt.Errorf("unsupported compression: %d", c)
	}
}

// decompressor sniffs the frame magic at the start of r and returns a
// reader for the unframed stream.
func decompressor(r io.Reader) (io.ReadCloser, Compression, error) {
	buffered := bufio.NewReader(r)
	magic, err := buffered.Peek(4)
	if err != nil && err != io.EOF {
		return nil, 0, fmt.Errorf("reading frame magic: %w", err)
	}

	switch {
	case bytes.Equal(magic, lz4Magic):
		return io.NopCloser(lz4.NewReader(buffered)), CompressionLZ4, nil

	case bytes.Equal(magic, zstdMagic):
		decoder, err := zstd.NewReader(buffered)
		if err != nil {
			return nil, 0, fmt.Errorf("zstd decoder: %w", err)
		}
		return decoder.IOReadCloser(), CompressionZstd, nil

	default:
		return io.NopCloser(buffered), CompressionNone, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
