// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package car

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bureau-foundation/dagcar/lib/block"
	"github.com/bureau-foundation/dagcar/lib/cid"
	"github.com/bureau-foundation/dagcar/lib/varint"
)

// Writer streams a container to an io.Writer. It is not safe for
// concurrent use; one goroutine owns a Writer for its lifetime.
//
// Typical usage:
//
//	writer, err := car.NewWriter(file, root.CID())
//	for _, b := range blocks {
//	    err = writer.Put(b)
//	}
//	err = writer.Close()
type Writer struct {
	w       io.Writer
	pending map[cid.CID]bool
	written int64
	blocks  int
	closed  bool
}

// NewWriter writes the header naming roots to w and returns a writer
// for the sections that follow.
func NewWriter(w io.Writer, roots ...cid.CID) (*Writer, error) {
	header, err := encodeHeader(roots)
	if err != nil {
		return nil, err
	}

	writer := &Writer{w: w, pending: make(map[cid.CID]bool, len(roots))}
	for _, root := range roots {
		writer.pending[root] = true
	}

	prefix := varint.Append(nil, uint64(len(header)))
	if err := writer.write(prefix, header); err != nil {
		return nil, fmt.Errorf("writing container header: %w", err)
	}
	return writer, nil
}

// Put appends one section. Blocks appear in the container in the order
// they are put. Putting the same CID twice writes two sections; readers
// keep the first.
func (w *Writer) Put(b block.Block) error {
	if w.closed {
		return errors.New("car: put on closed writer")
	}
	if !b.Defined() {
		return fmt.Errorf("car: block %d: %w", w.blocks, cid.ErrUndefined)
	}

	identifier := b.CID().Bytes()
	prefix := varint.Append(nil, uint64(len(identifier)+b.Size()))
	if err := w.write(prefix, identifier, b.Data()); err != nil {
		return fmt.Errorf("writing block %s: %w", b.CID(), err)
	}
	delete(w.pending, b.CID())
	w.blocks++
	return nil
}

// Written is the number of bytes written so far, header included.
func (w *Writer) Written() int64 {
	return w.written
}

// Blocks is the number of sections written so far.
func (w *Writer) Blocks() int {
	return w.blocks
}

// Close finishes the container. It fails with ErrRootMissing if any
// root was never put; the bytes already written are then not a valid
// container and the caller must discard them. Close does not close the
// underlying io.Writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if len(w.pending) == 0 {
		return nil
	}
	missing := make([]string, 0, len(w.pending))
	for root := range w.pending {
		missing = append(missing, root.String())
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrRootMissing, strings.Join(missing, ", "))
}

func (w *Writer) write(parts ...[]byte) error {
	for _, part := range parts {
		n, err := w.w.Write(part)
		w.written += int64(n)
		if err != nil {
			return err
		}
	}
	return nil
}

// Write serializes a single-root container to w. The root must be
// among blocks; that is checked before any byte is written.
func Write(w io.Writer, root cid.CID, blocks []block.Block) error {
	found := false
	for _, b := range blocks {
		if b.CID() == root {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrRootMissing, root)
	}

	writer, err := NewWriter(w, root)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		if err := writer.Put(b); err != nil {
			return err
		}
	}
	return writer.Close()
}
