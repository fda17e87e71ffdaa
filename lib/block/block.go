// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"fmt"

	"github.com/bureau-foundation/dagcar/lib/cid"
	"github.com/bureau-foundation/dagcar/lib/codec"
	"github.com/bureau-foundation/dagcar/lib/digest"
)

// Block is an immutable (CID, bytes) pair.
type Block struct {
	cid  cid.CID
	data []byte
}

// Encode serializes value with c, identifies the bytes with hashCode,
// and returns the block.
func Encode(value any, c codec.Codec, hashCode digest.Code) (Block, error) {
	data, err := c.Encode(value)
	if err != nil {
		return Block{}, err
	}
	identifier, err := cid.New(c.Code(), hashCode, data)
	if err != nil {
		return Block{}, fmt.Errorf("identifying %s block: %w", c.Name(), err)
	}
	return Block{cid: identifier, data: data}, nil
}

// New wraps bytes whose identifier was recorded elsewhere. The pair is
// not checked; see [Block.Verify]. data is retained, so the caller
// must not modify it afterwards.
func New(identifier cid.CID, data []byte) Block {
	return Block{cid: identifier, data: data}
}

// CID returns the block's identifier.
func (b Block) CID() cid.CID {
	return b.cid
}

// Data returns the block's encoded bytes. The slice is shared with the
// block and must not be modified.
func (b Block) Data() []byte {
	return b.data
}

// Size is the length of the encoded bytes.
func (b Block) Size() int {
	return len(b.data)
}

// Defined reports whether the block carries an identifier.
func (b Block) Defined() bool {
	return b.cid.Defined()
}

// Verify recomputes the digest of the block's bytes with the hash
// function named in its CID and compares. A mismatch is an
// *IntegrityError; an unsupported hash function is a plain error.
func (b Block) Verify() error {
	if !b.cid.Defined() {
		return cid.ErrUndefined
	}
	matches, err := b.cid.Matches(b.data)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", b.cid, err)
	}
	if !matches {
		return &IntegrityError{Expected: b.cid, Size: len(b.data)}
	}
	return nil
}

// Decode parses the block's bytes into target with the codec named by
// its CID.
func (b Block) Decode(target any) error {
	c, err := codec.Lookup(b.cid.Codec())
	if err != nil {
		return err
	}
	return Decode(b, c, target)
}

// Decode parses the block's bytes into target with an explicit
// codec. The codec must match the one recorded in the CID.
func Decode(b Block, c codec.Codec, target any) error {
	if b.cid.Defined() && b.cid.Codec() != c.Code() {
		return fmt.Errorf("block %s is %v, not %s", b.cid, b.cid.Codec(), c.Name())
	}
	return c.Decode(b.data, target)
}

// IntegrityError reports block bytes whose digest does not match the
// CID they were stored under.
type IntegrityError struct {
	Expected cid.CID
	Size     int
}

func (err *IntegrityError) Error() string {
	return fmt.Sprintf("integrity mismatch: %d bytes do not hash to %s", err.Size, err.Expected)
}
