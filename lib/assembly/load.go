// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assembly

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/dagcar/lib/car"
	"github.com/bureau-foundation/dagcar/lib/cid"
)

// Source is a CID lookup that also knows its roots. *car.BlockLookup
// implements it.
type Source interface {
	car.Getter
	Roots() []cid.CID
}

// LoadOptions configures Load.
type LoadOptions struct {
	// SkipVerify decodes blocks without recomputing their CIDs.
	SkipVerify bool
}

// Load reconstructs the assembly rooted at the source's first root.
func Load(source Source, options LoadOptions) ([]Component, error) {
	roots := source.Roots()
	if len(roots) == 0 {
		return nil, errors.New("loading assembly: source has no roots")
	}
	return LoadRoot(source, roots[0], options)
}

// LoadRoot reconstructs the assembly whose link list is stored under
// root. Links are followed in order; the first failure ends the load.
func LoadRoot(getter car.Getter, root cid.CID, options LoadOptions) ([]Component, error) {
	var links []Link
	if err := fetch(getter, root, options, &links); err != nil {
		return nil, fmt.Errorf("loading root %s: %w", root, err)
	}

	components := make([]Component, 0, len(links))
	for i, link := range links {
		var component Component
		if err := fetch(getter, link.Link, options, &component); err != nil {
			return nil, fmt.Errorf("loading component %d: %w", i, err)
		}
		components = append(components, component)
	}
	return components, nil
}

// fetch gets, optionally verifies, and decodes one block.
func fetch(getter car.Getter, identifier cid.CID, options LoadOptions, target any) error {
	if !identifier.Defined() {
		return cid.ErrUndefined
	}
	b, err := getter.Get(identifier)
	if err != nil {
		return err
	}
	if !options.SkipVerify {
		if err := b.Verify(); err != nil {
			return err
		}
	}
	return b.Decode(target)
}

// Links returns every CID reachable from root without decoding the
// components: the root itself, then each link in order. Missing blocks
// are reported as *car.NotFoundError.
func Links(getter car.Getter, root cid.CID) ([]cid.CID, error) {
	var links []Link
	if err := fetch(getter, root, LoadOptions{SkipVerify: true}, &links); err != nil {
		return nil, fmt.Errorf("reading root %s: %w", root, err)
	}
	reachable := make([]cid.CID, 0, len(links)+1)
	reachable = append(reachable, root)
	for i, link := range links {
		if _, err := getter.Get(link.Link); err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
		reachable = append(reachable, link.Link)
	}
	return reachable, nil
}
