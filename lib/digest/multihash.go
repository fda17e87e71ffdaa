// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"encoding/hex"
	"fmt"

	"github.com/bureau-foundation/dagcar/lib/varint"
)

// Multihash is a self-describing digest: varint(code) ||
// varint(length) || digest. The zero value is empty and invalid.
type Multihash []byte

// New hashes data with code and returns the framed multihash.
func New(code Code, data []byte) (Multihash, error) {
	sum, err := Sum(code, data)
	if err != nil {
		return nil, err
	}
	return Encode(code, sum), nil
}

// Encode frames an existing digest.
func Encode(code Code, sum []byte) Multihash {
	buffer := make([]byte, 0, varint.Size(uint64(code))+varint.Size(uint64(len(sum)))+len(sum))
	buffer = varint.Append(buffer, uint64(code))
	buffer = varint.Append(buffer, uint64(len(sum)))
	return append(buffer, sum...)
}

// Decoded is the parsed form of a multihash.
type Decoded struct {
	Code   Code
	Digest []byte
}

// DecodeMultihash parses a multihash that occupies the whole of data.
func DecodeMultihash(data []byte) (Decoded, error) {
	decoded, consumed, err := ReadMultihash(data)
	if err != nil {
		return Decoded{}, err
	}
	if consumed != len(data) {
		return Decoded{}, fmt.Errorf("multihash: %d trailing bytes", len(data)-consumed)
	}
	return decoded, nil
}

// ReadMultihash parses a multihash from the start of data and returns
// the number of bytes it occupies.
func ReadMultihash(data []byte) (Decoded, int, error) {
	code, codeLength, err := varint.Decode(data)
	if err != nil {
		return Decoded{}, 0, fmt.Errorf("multihash code: %w", err)
	}
	length, lengthLength, err := varint.Decode(data[codeLength:])
	if err != nil {
		return Decoded{}, 0, fmt.Errorf("multihash length: %w", err)
	}
	start := codeLength + lengthLength
	if uint64(len(data)-start) < length {
		return Decoded{}, 0, fmt.Errorf("multihash: digest length %d exceeds %d remaining bytes", length, len(data)-start)
	}
	end := start + int(length)
	return Decoded{Code: Code(code), Digest: data[start:end]}, end, nil
}

// Decode parses the multihash.
func (m Multihash) Decode() (Decoded, error) {
	return DecodeMultihash(m)
}

// HexString returns the hex encoding of the framed multihash.
func (m Multihash) HexString() string {
	return hex.EncodeToString(m)
}

// Verify reports whether the multihash matches data. An unsupported
// hash code is returned as an error rather than a mismatch.
func (m Multihash) Verify(data []byte) (bool, error) {
	decoded, err := m.Decode()
	if err != nil {
		return false, err
	}
	sum, err := Sum(decoded.Code, data)
	if err != nil {
		return false, err
	}
	return string(sum) == string(decoded.Digest), nil
}
