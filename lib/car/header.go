// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package car

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/dagcar/lib/cid"
	"github.com/bureau-foundation/dagcar/lib/codec"
)

// Version is the only container version this package reads or writes.
const Version = 1

// Header is the decoded container header.
type Header struct {
	Roots   []cid.CID `json:"roots"`
	Version uint64    `json:"version"`
}

// encodeHeader returns the DAG-CBOR header for roots.
func encodeHeader(roots []cid.CID) ([]byte, error) {
	if len(roots) == 0 {
		return nil, errors.New("car: container needs at least one root")
	}
	for i, root := range roots {
		if !root.Defined() {
			return nil, fmt.Errorf("car: root %d is undefined", i)
		}
	}
	return codec.Marshal(Header{Roots: roots, Version: Version})
}

// decodeHeader parses and validates a header.
func decodeHeader(data []byte) (Header, error) {
	var header Header
	if err := codec.Unmarshal(data, &header); err != nil {
		return Header{}, fmt.Errorf("decoding header: %w", err)
	}
	if header.Version != Version {
		return Header{}, fmt.Errorf("unsupported container version %d", header.Version)
	}
	if len(header.Roots) == 0 {
		return Header{}, errors.New("header lists no roots")
	}
	return header, nil
}
