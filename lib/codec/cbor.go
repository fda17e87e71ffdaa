// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/dagcar/lib/cid"
)

// encMode is the CBOR encoder configured for DAG-CBOR: length-first
// sorted map keys, smallest integer encoding, no indefinite-length
// items, floats always in 64-bit form, NaN and infinities rejected.
// Same logical data always produces identical bytes.
var encMode cbor.EncMode

// decMode is the strict DAG-CBOR decoder. Duplicate map keys,
// indefinite-length items and struct fields the target type does not
// declare are all errors: a block that decodes must re-encode to the
// same bytes.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CanonicalEncOptions()
	encOptions.ShortestFloat = cbor.ShortestFloatNone
	encOptions.NaNConvert = cbor.NaNConvertReject
	encOptions.InfConvert = cbor.InfConvertReject
	encOptions.BigIntConvert = cbor.BigIntConvertReject
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
		// DAG-CBOR map keys are always strings. With an any-typed
		// target the decoder must pick a concrete map type, and the
		// CBOR default (map[interface{}]interface{}) is incompatible
		// with encoding/json and the rest of the module.
		DefaultMapType:    reflect.TypeOf(map[string]any(nil)),
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to DAG-CBOR.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes a single DAG-CBOR item into v. Trailing bytes are
// an error.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Encoder is a CBOR stream encoder. Type alias so consumers import
// only lib/codec, not fxamacker/cbor directly.
type Encoder = cbor.Encoder

// Decoder is a CBOR stream decoder. Type alias so consumers import
// only lib/codec, not fxamacker/cbor directly.
type Decoder = cbor.Decoder

// RawMessage is a raw encoded CBOR value.
type RawMessage = cbor.RawMessage

// NewEncoder returns a DAG-CBOR encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a DAG-CBOR decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return decMode.NewDecoder(r)
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for the
// entire contents of data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}

// DiagnoseFirst returns the CBOR diagnostic notation for the first
// data item in data, along with the remaining unconsumed bytes.
func DiagnoseFirst(data []byte) (string, []byte, error) {
	return cbor.DiagnoseFirst(data)
}

// dagCBOR is the registered DAG-CBOR codec.
type dagCBOR struct{}

// DagCBOR is the DAG-CBOR codec.
var DagCBOR Codec = dagCBOR{}

func (dagCBOR) Code() cid.Codec { return cid.DagCBOR }
func (dagCBOR) Name() string    { return "dag-cbor" }

// Encode produces canonical DAG-CBOR. Strings must be valid UTF-8.
func (c dagCBOR) Encode(value any) ([]byte, error) {
	if err := checkUTF8(value); err != nil {
		return nil, &EncodeError{Codec: c.Name(), Err: err}
	}
	data, err := encMode.Marshal(value)
	if err != nil {
		return nil, &EncodeError{Codec: c.Name(), Err: err}
	}
	return data, nil
}

// Decode parses data into target. When target is *any, tag 42 items
// anywhere in the tree are converted to cid.CID values.
func (c dagCBOR) Decode(data []byte, target any) error {
	if err := decMode.Unmarshal(data, target); err != nil {
		return &DecodeError{Codec: c.Name(), Err: err}
	}
	if generic, ok := target.(*any); ok {
		converted, err := convertCBORLinks(*generic)
		if err != nil {
			return &DecodeError{Codec: c.Name(), Err: err}
		}
		*generic = converted
	}
	return nil
}

// convertCBORLinks replaces tag 42 items in a generically decoded tree
// with cid.CID values. Any other tag is rejected: DAG-CBOR permits
// only tag 42.
func convertCBORLinks(value any) (any, error) {
	switch typed := value.(type) {
	case cbor.Tag:
		if typed.Number != cid.LinkTag {
			return nil, fmt.Errorf("tag %d is not permitted", typed.Number)
		}
		content, ok := typed.Content.([]byte)
		if !ok {
			return nil, fmt.Errorf("tag %d content is %T, want byte string", cid.LinkTag, typed.Content)
		}
		return cid.FromLinkBytes(content)
	case map[string]any:
		for key, element := range typed {
			converted, err := convertCBORLinks(element)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			typed[key] = converted
		}
		return typed, nil
	case []any:
		for i, element := range typed {
			converted, err := convertCBORLinks(element)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			typed[i] = converted
		}
		return typed, nil
	default:
		return value, nil
	}
}
