// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package car

import (
	"io"

	"github.com/bureau-foundation/dagcar/lib/block"
	"github.com/bureau-foundation/dagcar/lib/cid"
)

// Getter resolves a CID to its block. BlockLookup implements it; the
// assembly loader depends only on this interface.
type Getter interface {
	Get(identifier cid.CID) (block.Block, error)
}

// BlockLookup is an in-memory index of a fully read container. It is
// immutable after Open returns and safe for concurrent reads.
type BlockLookup struct {
	header Header
	blocks map[cid.CID]block.Block
	order  []cid.CID
	size   int64
}

// Open reads every section from r into a BlockLookup. When a CID
// appears in more than one section the first occurrence wins.
// Digests are not verified here.
func Open(r io.Reader, options ...ReaderOption) (*BlockLookup, error) {
	reader, err := NewReader(r, options...)
	if err != nil {
		return nil, err
	}

	lookup := &BlockLookup{
		header: reader.Header(),
		blocks: make(map[cid.CID]block.Block),
	}
	for {
		b, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if _, exists := lookup.blocks[b.CID()]; exists {
			continue
		}
		lookup.blocks[b.CID()] = b
		lookup.order = append(lookup.order, b.CID())
	}
	lookup.size = reader.Offset()
	return lookup, nil
}

// Header returns the container header.
func (l *BlockLookup) Header() Header {
	return l.header
}

// Roots returns the root CIDs from the header.
func (l *BlockLookup) Roots() []cid.CID {
	return l.header.Roots
}

// Get returns the block stored under identifier, or *NotFoundError.
func (l *BlockLookup) Get(identifier cid.CID) (block.Block, error) {
	b, ok := l.blocks[identifier]
	if !ok {
		return block.Block{}, &NotFoundError{CID: identifier}
	}
	return b, nil
}

// Has reports whether the container carries identifier.
func (l *BlockLookup) Has(identifier cid.CID) bool {
	_, ok := l.blocks[identifier]
	return ok
}

// CIDs returns the distinct CIDs in the order their sections appear.
func (l *BlockLookup) CIDs() []cid.CID {
	return append([]cid.CID(nil), l.order...)
}

// Len is the number of distinct blocks.
func (l *BlockLookup) Len() int {
	return len(l.order)
}

// Size is the number of container bytes consumed.
func (l *BlockLookup) Size() int64 {
	return l.size
}
