// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package assembly turns an ordered list of components into a linked
// block set and back.
//
// [Build] encodes every [Component] as its own block, then encodes a
// root block whose value is the list of [Link]s to those blocks in
// input order:
//
//	[{"link": {"/": "bagu..."}}, {"link": {"/": "bagu..."}}, ...]
//
// Components never embed in the root; each stays independently
// addressable. [Load] walks the other direction through a CID lookup:
// decode the root, then fetch, verify and decode each linked block in
// link order. A link the lookup cannot resolve is fatal
// (*car.NotFoundError), as is a block whose bytes do not hash to its
// CID (*block.IntegrityError). No partial assembly is ever returned.
//
// [Pipeline] ties the schema gate, the builder, the container file and
// the loader into the save/open/round-trip operations the CLI runs.
package assembly
