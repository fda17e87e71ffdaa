// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assembly

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/bureau-foundation/dagcar/lib/block"
	"github.com/bureau-foundation/dagcar/lib/codec"
	"github.com/bureau-foundation/dagcar/lib/digest"
)

// Options selects how blocks are encoded.
type Options struct {
	// ComponentCodec encodes component blocks. Nil means dag-json.
	ComponentCodec codec.Codec

	// RootCodec encodes the root link list. Nil means the component
	// codec.
	RootCodec codec.Codec

	// Hash identifies every block. Zero means sha2-256.
	Hash digest.Code

	// Workers bounds concurrent component encodes. Zero or negative
	// means GOMAXPROCS.
	Workers int
}

func (o Options) withDefaults() Options {
	if o.ComponentCodec == nil {
		o.ComponentCodec = codec.DagJSON
	}
	if o.RootCodec == nil {
		o.RootCodec = o.ComponentCodec
	}
	if o.Hash == 0 {
		o.Hash = digest.SHA2_256
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// Built is the output of Build: the component blocks in input order
// followed by the root block.
type Built struct {
	// Blocks holds every block to store, root last.
	Blocks []block.Block

	// Root is the link-list block. It is also the last entry of
	// Blocks.
	Root block.Block
}

// Components returns the component blocks, without the root.
func (b *Built) Components() []block.Block {
	return b.Blocks[:len(b.Blocks)-1]
}

// Build encodes each component as a block and then the root block
// linking them. Component encodes run concurrently; the root is
// encoded once every child CID is known.
func Build(components []Component, options Options) (*Built, error) {
	options = options.withDefaults()
	if !digest.Supported(options.Hash) {
		return nil, fmt.Errorf("building assembly: %w: %v", digest.ErrUnsupported, options.Hash)
	}

	blocks := make([]block.Block, len(components)+1)
	errs := make([]error, len(components))

	semaphore := make(chan struct{}, options.Workers)
	var wg sync.WaitGroup
	for i := range components {
		wg.Add(1)
		semaphore <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-semaphore }()
			blocks[i], errs[i] = block.Encode(components[i], options.ComponentCodec, options.Hash)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("encoding component %d (%q): %w", i, components[i].ID, err)
		}
	}

	links := make([]Link, len(components))
	for i := range components {
		links[i] = Link{Link: blocks[i].CID()}
	}
	root, err := block.Encode(links, options.RootCodec, options.Hash)
	if err != nil {
		return nil, fmt.Errorf("encoding root: %w", err)
	}
	blocks[len(components)] = root

	return &Built{Blocks: blocks, Root: root}, nil
}
