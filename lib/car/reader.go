// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package car

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/bureau-foundation/dagcar/lib/block"
	"github.com/bureau-foundation/dagcar/lib/cid"
	"github.com/bureau-foundation/dagcar/lib/varint"
)

// DefaultMaxSectionSize bounds the length prefix of a single section
// (and the header). A corrupt prefix would otherwise ask for an
// arbitrarily large allocation.
const DefaultMaxSectionSize = 32 << 20

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithMaxSectionSize overrides DefaultMaxSectionSize. Values below 1
// are ignored.
func WithMaxSectionSize(limit int) ReaderOption {
	return func(r *Reader) {
		if limit > 0 {
			r.maxSectionSize = limit
		}
	}
}

// Reader parses a container sequentially. It is not safe for
// concurrent use.
type Reader struct {
	source         *countingReader
	header         Header
	maxSectionSize int
	done           bool
	err            error
}

// NewReader parses the header from r and returns a reader positioned
// at the first section.
func NewReader(r io.Reader, options ...ReaderOption) (*Reader, error) {
	reader := &Reader{
		source:         &countingReader{reader: bufio.NewReader(r)},
		maxSectionSize: DefaultMaxSectionSize,
	}
	for _, option := range options {
		option(reader)
	}

	data, err := reader.readSection()
	if err == io.EOF {
		return nil, &FormatError{Offset: 0, Err: errors.New("empty input")}
	}
	if err != nil {
		return nil, err
	}
	header, err := decodeHeader(data)
	if err != nil {
		return nil, &FormatError{Offset: 0, Err: err}
	}
	reader.header = header
	return reader, nil
}

// Header returns the parsed container header.
func (r *Reader) Header() Header {
	return r.header
}

// Roots returns the root CIDs named in the header.
func (r *Reader) Roots() []cid.CID {
	return r.header.Roots
}

// Offset is the number of bytes consumed from the underlying stream.
func (r *Reader) Offset() int64 {
	return r.source.offset
}

// Next returns the next section as an unverified block. It returns
// io.EOF once the stream ends cleanly between sections. After any
// other error the reader is finished and every later call returns the
// same error.
func (r *Reader) Next() (block.Block, error) {
	if r.err != nil {
		return block.Block{}, r.err
	}
	if r.done {
		return block.Block{}, io.EOF
	}
	start := r.source.offset
	data, err := r.readSection()
	if err != nil {
		if err == io.EOF {
			r.done = true
		} else {
			r.err = err
		}
		return block.Block{}, err
	}

	identifier, consumed, err := cid.ReadFrom(data)
	if err != nil {
		r.err = &FormatError{Offset: start, Err: fmt.Errorf("section CID: %w", err)}
		return block.Block{}, r.err
	}
	return block.New(identifier, data[consumed:]), nil
}

// readSection reads one length-prefixed section body. A clean end of
// stream before the prefix returns io.EOF; every other failure is a
// *FormatError or an I/O error from the source.
func (r *Reader) readSection() ([]byte, error) {
	start := r.source.offset
	length, err := varint.Read(r.source)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		if isFormatCause(err) {
			return nil, &FormatError{Offset: start, Err: fmt.Errorf("section length: %w", err)}
		}
		return nil, err
	}
	if length == 0 {
		return nil, &FormatError{Offset: start, Err: errors.New("zero-length section")}
	}
	if length > uint64(r.maxSectionSize) {
		return nil, &FormatError{Offset: start, Err: fmt.Errorf("section length %d exceeds limit %d", length, r.maxSectionSize)}
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r.source, data); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, &FormatError{Offset: start, Err: fmt.Errorf("section truncated: want %d bytes, stream ended after %d", length, r.source.offset-start)}
		}
		return nil, err
	}
	return data, nil
}

func isFormatCause(err error) bool {
	return errors.Is(err, varint.ErrOverflow) ||
		errors.Is(err, varint.ErrNotMinimal) ||
		errors.Is(err, varint.ErrTruncated)
}

// countingReader tracks the stream offset for error reporting.
type countingReader struct {
	reader *bufio.Reader
	offset int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.offset += int64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.reader.ReadByte()
	if err == nil {
		c.offset++
	}
	return b, err
}
