// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cid

import (
	"encoding/base32"
	"errors"
	"fmt"

	"github.com/bureau-foundation/dagcar/lib/digest"
	"github.com/bureau-foundation/dagcar/lib/varint"
)

// Codec is a multicodec content type code (dag-json, dag-cbor, raw).
type Codec uint64

// Multicodec codes for block content types.
const (
	Raw     Codec = 0x55
	DagPB   Codec = 0x70
	DagCBOR Codec = 0x71
	DagJSON Codec = 0x0129
)

// String returns the multicodec name of the code.
func (c Codec) String() string {
	switch c {
	case Raw:
		return "raw"
	case DagPB:
		return "dag-pb"
	case DagCBOR:
		return "dag-cbor"
	case DagJSON:
		return "dag-json"
	default:
		return fmt.Sprintf("codec(%#x)", uint64(c))
	}
}

// v0Length is the byte length of a version 0 CID: a sha2-256 multihash
// with its two-byte prefix.
const v0Length = 34

// ErrUndefined is returned when an operation needs a defined CID.
var ErrUndefined = errors.New("cid: undefined")

// base32Lower is the RFC 4648 alphabet in lower case without padding,
// multibase prefix "b".
var base32Lower = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// CID is a content identifier. The zero value is undefined.
type CID struct {
	bytes string
}

// Undef is the undefined CID.
var Undef = CID{}

// New hashes data with hashCode and returns the version 1 CID for a
// block of the given codec. The only error is an unsupported hash
// code.
func New(codec Codec, hashCode digest.Code, data []byte) (CID, error) {
	multihash, err := digest.New(hashCode, data)
	if err != nil {
		return Undef, err
	}
	return NewFromMultihash(codec, multihash), nil
}

// NewFromMultihash assembles a version 1 CID from an existing
// multihash.
func NewFromMultihash(codec Codec, multihash digest.Multihash) CID {
	buffer := make([]byte, 0, 1+varint.Size(uint64(codec))+len(multihash))
	buffer = varint.Append(buffer, 1)
	buffer = varint.Append(buffer, uint64(codec))
	buffer = append(buffer, multihash...)
	return CID{bytes: string(buffer)}
}

// Cast parses a binary CID that occupies the whole of data.
func Cast(data []byte) (CID, error) {
	c, consumed, err := ReadFrom(data)
	if err != nil {
		return Undef, err
	}
	if consumed != len(data) {
		return Undef, fmt.Errorf("cid: %d trailing bytes", len(data)-consumed)
	}
	return c, nil
}

// ReadFrom parses a binary CID from the start of data and returns the
// number of bytes it occupies. Container sections carry a CID followed
// directly by block bytes, so the CID's own framing is the only way to
// find where it ends.
func ReadFrom(data []byte) (CID, int, error) {
	if len(data) >= 2 && data[0] == 0x12 && data[1] == 0x20 {
		if len(data) < v0Length {
			return Undef, 0, fmt.Errorf("cid: truncated version 0 CID (%d bytes)", len(data))
		}
		return CID{bytes: string(data[:v0Length])}, v0Length, nil
	}

	version, versionLength, err := varint.Decode(data)
	if err != nil {
		return Undef, 0, fmt.Errorf("cid version: %w", err)
	}
	if version != 1 {
		return Undef, 0, fmt.Errorf("cid: unsupported version %d", version)
	}
	_, codecLength, err := varint.Decode(data[versionLength:])
	if err != nil {
		return Undef, 0, fmt.Errorf("cid codec: %w", err)
	}
	prefix := versionLength + codecLength
	_, multihashLength, err := digest.ReadMultihash(data[prefix:])
	if err != nil {
		return Undef, 0, fmt.Errorf("cid: %w", err)
	}
	end := prefix + multihashLength
	return CID{bytes: string(data[:end])}, end, nil
}

// Parse decodes the text form of a CID. Version 1 CIDs must use the
// base32 multibase ("b" prefix); version 0 text ("Qm...") is base58
// and is not supported in text form.
func Parse(text string) (CID, error) {
	if len(text) < 2 {
		return Undef, fmt.Errorf("cid: %q is too short", text)
	}
	if text[0] != 'b' {
		return Undef, fmt.Errorf("cid: unsupported multibase prefix %q in %q", text[0], text)
	}
	data, err := base32Lower.DecodeString(text[1:])
	if err != nil {
		return Undef, fmt.Errorf("cid: decoding %q: %w", text, err)
	}
	return Cast(data)
}

// MustParse is Parse for constants in tests and examples. It panics on
// malformed input.
func MustParse(text string) CID {
	c, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return c
}

// Defined reports whether c is a real identifier.
func (c CID) Defined() bool {
	return c.bytes != ""
}

// Equals reports whether two CIDs are byte-identical.
func (c CID) Equals(other CID) bool {
	return c.bytes == other.bytes
}

// Bytes returns the binary form.
func (c CID) Bytes() []byte {
	return []byte(c.bytes)
}

// ByteLen returns the length of the binary form.
func (c CID) ByteLen() int {
	return len(c.bytes)
}

// Version returns 0 or 1. The undefined CID reports 0.
func (c CID) Version() uint64 {
	if len(c.bytes) == v0Length && c.bytes[0] == 0x12 && c.bytes[1] == 0x20 {
		return 0
	}
	if !c.Defined() {
		return 0
	}
	return 1
}

// Codec returns the content type code. Version 0 CIDs are always
// dag-pb.
func (c CID) Codec() Codec {
	if !c.Defined() {
		return 0
	}
	if c.Version() == 0 {
		return DagPB
	}
	data := []byte(c.bytes)
	_, versionLength, _ := varint.Decode(data)
	codec, _, _ := varint.Decode(data[versionLength:])
	return Codec(codec)
}

// Multihash returns the multihash portion.
func (c CID) Multihash() digest.Multihash {
	if !c.Defined() {
		return nil
	}
	if c.Version() == 0 {
		return digest.Multihash(c.bytes)
	}
	data := []byte(c.bytes)
	_, versionLength, _ := varint.Decode(data)
	_, codecLength, _ := varint.Decode(data[versionLength:])
	return digest.Multihash(data[versionLength+codecLength:])
}

// HashCode returns the hash function code recorded in the multihash.
func (c CID) HashCode() digest.Code {
	decoded, err := c.Multihash().Decode()
	if err != nil {
		return 0
	}
	return decoded.Code
}

// String returns the base32 text form, or "<undef>". Version 0 CIDs
// have no base32 form and render as their version 1 dag-pb
// equivalent.
func (c CID) String() string {
	if !c.Defined() {
		return "<undef>"
	}
	if c.Version() == 0 {
		return NewFromMultihash(DagPB, c.Multihash()).String()
	}
	return "b" + base32Lower.EncodeToString([]byte(c.bytes))
}

// Matches reports whether data hashes to this CID's multihash. An
// unsupported hash code is returned as an error.
func (c CID) Matches(data []byte) (bool, error) {
	if !c.Defined() {
		return false, ErrUndefined
	}
	return c.Multihash().Verify(data)
}
