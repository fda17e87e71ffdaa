// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cid

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// LinkTag is the CBOR tag number registered for IPLD links.
const LinkTag = 42

// LinkBytes returns the tag 42 content for c: a 0x00 multibase
// identity prefix followed by the binary CID.
func (c CID) LinkBytes() []byte {
	content := make([]byte, 0, 1+len(c.bytes))
	content = append(content, 0x00)
	return append(content, c.bytes...)
}

// FromLinkBytes parses tag 42 content.
func FromLinkBytes(content []byte) (CID, error) {
	if len(content) == 0 || content[0] != 0x00 {
		return Undef, fmt.Errorf("cid: link content must start with the 0x00 identity prefix")
	}
	return Cast(content[1:])
}

// MarshalCBOR encodes c as an IPLD link (tag 42).
func (c CID) MarshalCBOR() ([]byte, error) {
	if !c.Defined() {
		return nil, fmt.Errorf("encoding link: %w", ErrUndefined)
	}
	return cbor.Marshal(cbor.Tag{Number: LinkTag, Content: c.LinkBytes()})
}

// UnmarshalCBOR decodes an IPLD link (tag 42). Any other item is an
// error.
func (c *CID) UnmarshalCBOR(data []byte) error {
	var tag cbor.RawTag
	if err := cbor.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("cid: expected tag %d link: %w", LinkTag, err)
	}
	if tag.Number != LinkTag {
		return fmt.Errorf("cid: expected tag %d link, got tag %d", LinkTag, tag.Number)
	}
	var content []byte
	if err := cbor.Unmarshal(tag.Content, &content); err != nil {
		return fmt.Errorf("cid: link content: %w", err)
	}
	parsed, err := FromLinkBytes(content)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalJSON encodes c as the dag-json link object {"/": "<cid>"}.
func (c CID) MarshalJSON() ([]byte, error) {
	if !c.Defined() {
		return nil, fmt.Errorf("encoding link: %w", ErrUndefined)
	}
	return json.Marshal(map[string]string{"/": c.String()})
}

// UnmarshalJSON decodes a dag-json link object. The object must have
// exactly one key, "/", holding a string.
func (c *CID) UnmarshalJSON(data []byte) error {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(data, &object); err != nil {
		return fmt.Errorf("cid: expected link object: %w", err)
	}
	raw, ok := object["/"]
	if !ok || len(object) != 1 {
		return fmt.Errorf("cid: link object must have exactly the key \"/\"")
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return fmt.Errorf("cid: link value must be a string: %w", err)
	}
	parsed, err := Parse(text)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
