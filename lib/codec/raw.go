// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"

	"github.com/bureau-foundation/dagcar/lib/cid"
)

// raw is the identity codec: block bytes are the value.
type raw struct{}

// Raw is the raw codec.
var Raw Codec = raw{}

func (raw) Code() cid.Codec { return cid.Raw }
func (raw) Name() string    { return "raw" }

func (c raw) Encode(value any) ([]byte, error) {
	switch typed := value.(type) {
	case []byte:
		return append([]byte(nil), typed...), nil
	case Bytes:
		return append([]byte(nil), typed...), nil
	default:
		return nil, &EncodeError{Codec: c.Name(), Err: fmt.Errorf("value has type %T, want []byte", value)}
	}
}

func (c raw) Decode(data []byte, target any) error {
	switch typed := target.(type) {
	case *[]byte:
		*typed = append([]byte(nil), data...)
	case *Bytes:
		*typed = append(Bytes(nil), data...)
	case *any:
		*typed = append([]byte(nil), data...)
	default:
		return &DecodeError{Codec: c.Name(), Err: fmt.Errorf("target has type %T, want *[]byte", target)}
	}
	return nil
}
