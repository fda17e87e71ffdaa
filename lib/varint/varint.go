// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package varint

import (
	"encoding/binary"
	"errors"
	"io"
)

// MaxLen is the longest permitted encoding. Nine bytes carry 63 bits,
// which is the multiformats limit.
const MaxLen = 9

var (
	// ErrOverflow is returned when an encoding exceeds MaxLen bytes.
	ErrOverflow = errors.New("varint: value exceeds 63 bits")

	// ErrNotMinimal is returned for encodings with redundant bytes.
	ErrNotMinimal = errors.New("varint: value not minimally encoded")

	// ErrTruncated is returned when the input ends mid-value.
	ErrTruncated = errors.New("varint: truncated")
)

// Append appends the encoding of value to buffer.
func Append(buffer []byte, value uint64) []byte {
	return binary.AppendUvarint(buffer, value)
}

// Size returns the number of bytes Append would write for value.
func Size(value uint64) int {
	size := 1
	for value >= 0x80 {
		value >>= 7
		size++
	}
	return size
}

// Decode reads one varint from the start of data and returns the
// value and the number of bytes consumed.
func Decode(data []byte) (uint64, int, error) {
	var value uint64
	for i := 0; i < len(data); i++ {
		if i == MaxLen {
			return 0, 0, ErrOverflow
		}
		b := data[i]
		value |= uint64(b&0x7f) << (7 * i)
		if b < 0x80 {
			if b == 0 && i > 0 {
				return 0, 0, ErrNotMinimal
			}
			return value, i + 1, nil
		}
	}
	return 0, 0, ErrTruncated
}

// Read reads one varint from r. A reader that is already at EOF
// returns io.EOF unchanged so callers can detect a clean end of
// stream; EOF after the first byte is reported as ErrTruncated.
func Read(r io.ByteReader) (uint64, error) {
	var value uint64
	for i := 0; ; i++ {
		if i == MaxLen {
			return 0, ErrOverflow
		}
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && i > 0 {
				return 0, ErrTruncated
			}
			return 0, err
		}
		value |= uint64(b&0x7f) << (7 * i)
		if b < 0x80 {
			if b == 0 && i > 0 {
				return 0, ErrNotMinimal
			}
			return value, nil
		}
	}
}
