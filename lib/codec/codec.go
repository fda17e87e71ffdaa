// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"sort"

	"github.com/bureau-foundation/dagcar/lib/cid"
)

// Codec encodes values to canonical bytes and back.
type Codec interface {
	// Code is the multicodec code recorded in CIDs.
	Code() cid.Codec

	// Name is the multicodec name ("dag-json").
	Name() string

	// Encode serializes value canonically.
	Encode(value any) ([]byte, error)

	// Decode parses data into target, which must be a non-nil pointer.
	Decode(data []byte, target any) error
}

var registry = map[cid.Codec]Codec{}

func init() {
	for _, c := range []Codec{DagJSON, DagCBOR, Raw} {
		registry[c.Code()] = c
	}
}

// Lookup returns the codec for a multicodec code.
func Lookup(code cid.Codec) (Codec, error) {
	c, ok := registry[code]
	if !ok {
		return nil, fmt.Errorf("codec: no codec registered for %v", code)
	}
	return c, nil
}

// ByName returns the codec with the given multicodec name.
func ByName(name string) (Codec, error) {
	for _, c := range registry {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("codec: unknown codec %q (known: %v)", name, Names())
}

// Names lists the registered codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, c := range registry {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	return names
}

// EncodeError reports a value that a codec cannot represent.
type EncodeError struct {
	Codec string
	Err   error
}

func (err *EncodeError) Error() string {
	return fmt.Sprintf("%s encode: %v", err.Codec, err.Err)
}

func (err *EncodeError) Unwrap() error {
	return err.Err
}

// DecodeError reports bytes that are not well-formed for a codec.
type DecodeError struct {
	Codec string
	Err   error
}

func (err *DecodeError) Error() string {
	return fmt.Sprintf("%s decode: %v", err.Codec, err.Err)
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}
