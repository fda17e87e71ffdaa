// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/bureau-foundation/dagcar/lib/cid"
)

// dagJSON is the registered DAG-JSON codec.
type dagJSON struct{}

// DagJSON is the DAG-JSON codec.
var DagJSON Codec = dagJSON{}

func (dagJSON) Code() cid.Codec { return cid.DagJSON }
func (dagJSON) Name() string    { return "dag-json" }

// Encode produces canonical DAG-JSON. The value is marshaled with
// encoding/json (which honors MarshalJSON on cid.CID and Bytes), then
// re-read as a generic tree and written back out: encoding/json sorts
// map keys but emits struct fields in declaration order, and the
// second pass makes field order irrelevant. Strings must be valid
// UTF-8.
func (c dagJSON) Encode(value any) ([]byte, error) {
	if err := checkUTF8(value); err != nil {
		return nil, &EncodeError{Codec: c.Name(), Err: err}
	}
	first, err := json.Marshal(value)
	if err != nil {
		return nil, &EncodeError{Codec: c.Name(), Err: err}
	}

	decoder := json.NewDecoder(bytes.NewReader(first))
	decoder.UseNumber()
	var generic any
	if err := decoder.Decode(&generic); err != nil {
		return nil, &EncodeError{Codec: c.Name(), Err: err}
	}

	data, err := canonicalJSON(generic)
	if err != nil {
		return nil, &EncodeError{Codec: c.Name(), Err: err}
	}
	return data, nil
}

// canonicalJSON writes a generically decoded tree with sorted keys, no
// whitespace and no HTML escaping.
func canonicalJSON(generic any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(generic); err != nil {
		return nil, err
	}
	// json.Encoder terminates every value with a newline.
	return bytes.TrimSuffix(buffer.Bytes(), []byte{'\n'}), nil
}

// Decode parses DAG-JSON into target. The input must be exactly what
// Encode would produce for it, so duplicate keys, unsorted keys,
// whitespace and needless escapes are rejected. Struct targets reject
// unknown fields. A *any target receives a tree in which link objects
// are cid.CID, byte objects are []byte, integers are int64 and other
// numbers float64.
func (c dagJSON) Decode(data []byte, target any) error {
	tree, err := decodeJSONTree(data)
	if err != nil {
		return &DecodeError{Codec: c.Name(), Err: err}
	}
	canonical, err := canonicalJSON(tree)
	if err != nil {
		return &DecodeError{Codec: c.Name(), Err: err}
	}
	if !bytes.Equal(canonical, data) {
		return &DecodeError{Codec: c.Name(), Err: errors.New("not in canonical form (duplicate or unsorted keys, whitespace or escaping)")}
	}

	if generic, isGeneric := target.(*any); isGeneric {
		converted, err := convertJSONTree(tree)
		if err != nil {
			return &DecodeError{Codec: c.Name(), Err: err}
		}
		*generic = converted
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return &DecodeError{Codec: c.Name(), Err: err}
	}
	return nil
}

// decodeJSONTree parses exactly one JSON value into a generic tree with
// numbers kept as json.Number.
func decodeJSONTree(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var tree any
	if err := decoder.Decode(&tree); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, errors.New("trailing data after value")
	}
	return tree, nil
}

// convertJSONTree rewrites the reserved "/" objects and numbers of a
// generically decoded tree.
func convertJSONTree(value any) (any, error) {
	switch typed := value.(type) {
	case json.Number:
		if integer, err := strconv.ParseInt(typed.String(), 10, 64); err == nil {
			return integer, nil
		}
		float, err := typed.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %s: %w", typed, err)
		}
		return float, nil
	case map[string]any:
		if reserved, ok := typed["/"]; ok && len(typed) == 1 {
			return convertReserved(reserved)
		}
		for key, element := range typed {
			converted, err := convertJSONTree(element)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			typed[key] = converted
		}
		return typed, nil
	case []any:
		for i, element := range typed {
			converted, err := convertJSONTree(element)
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

// convertReserved handles the value of a single-key {"/": ...} object:
// a string is a link, {"bytes": "..."} is a byte string.
func convertReserved(reserved any) (any, error) {
	switch typed := reserved.(type) {
	case string:
		return cid.Parse(typed)
	case map[string]any:
		encoded, ok := typed["bytes"].(string)
		if !ok || len(typed) != 1 {
			return nil, errors.New(`reserved "/" object must hold a CID string or {"bytes": ...}`)
		}
		return base64.RawStdEncoding.DecodeString(encoded)
	default:
		return nil, fmt.Errorf(`reserved "/" value has type %T`, reserved)
	}
}

// Bytes is a byte string that encodes as {"/": {"bytes": "<base64>"}}
// in DAG-JSON and as a CBOR byte string in DAG-CBOR. Plain []byte
// fields would become base64 JSON strings and lose their type.
type Bytes []byte

// MarshalJSON implements json.Marshaler.
func (b Bytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[string]string{
		"/": {"bytes": base64.RawStdEncoding.EncodeToString(b)},
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bytes) UnmarshalJSON(data []byte) error {
	var object map[string]map[string]string
	if err := json.Unmarshal(data, &object); err != nil {
		return fmt.Errorf("expected bytes object: %w", err)
	}
	inner, ok := object["/"]
	encoded, hasBytes := inner["bytes"]
	if !ok || !hasBytes || len(object) != 1 || len(inner) != 1 {
		return errors.New(`bytes object must be {"/": {"bytes": "..."}}`)
	}
	decoded, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("bytes object: %w", err)
	}
	*b = decoded
	return nil
}
