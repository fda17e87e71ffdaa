// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assembly

import (
	"github.com/bureau-foundation/dagcar/lib/cid"
)

// Component is one rectangle of an assembly. The json tags name the
// fields in both codecs.
type Component struct {
	X      int64  `json:"x"`
	Y      int64  `json:"y"`
	Width  int64  `json:"width"`
	Height int64  `json:"height"`
	Fill   string `json:"fill"`
	ID     string `json:"id"`
}

// Link is one entry of a root block: a reference to a component block
// by CID and nothing else.
type Link struct {
	Link cid.CID `json:"link"`
}

// Equal reports whether two assemblies hold the same components in the
// same order.
func Equal(a, b []Component) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
