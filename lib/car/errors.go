// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package car

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/dagcar/lib/cid"
)

// ErrRootMissing is returned when a container would name a root that
// none of its sections carry.
var ErrRootMissing = errors.New("car: root block not present in container")

// FormatError reports bytes that are not a well-formed container.
// Offset is the position in the stream where the bad structure begins.
type FormatError struct {
	Offset int64
	Err    error
}

func (err *FormatError) Error() string {
	return fmt.Sprintf("car: malformed container at offset %d: %v", err.Offset, err.Err)
}

func (err *FormatError) Unwrap() error {
	return err.Err
}

// NotFoundError reports a CID that the container does not carry.
type NotFoundError struct {
	CID cid.CID
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("car: block %s not found", err.CID)
}
