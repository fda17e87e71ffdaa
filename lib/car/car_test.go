// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package car

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"testing"

	"github.com/bureau-foundation/dagcar/lib/block"
	"github.com/bureau-foundation/dagcar/lib/cid"
	"github.com/bureau-foundation/dagcar/lib/codec"
	"github.com/bureau-foundation/dagcar/lib/digest"
	"github.com/bureau-foundation/dagcar/lib/varint"
)

// rectangleBlocks encodes the four sample rectangles plus a root list
// of links, root last.
func rectangleBlocks(t *testing.T) ([]block.Block, block.Block) {
	t.Helper()
	values := []map[string]any{
		{"x": 409, "y": 129, "width": 100, "height": 100, "fill": "#eeff41", "id": "rect1"},
		{"x": 278, "y": 340, "width": 112, "height": 100, "fill": "#ffab40", "id": "rect2"},
		{"x": 194, "y": 123, "width": 200, "height": 200, "fill": "#4285f4", "id": "rect3"},
		{"x": 410, "y": 246, "width": 254, "height": 251, "fill": "#0097a7", "id": "rect4"},
	}

	var blocks []block.Block
	var links []map[string]any
	for _, value := range values {
		b, err := block.Encode(value, codec.DagJSON, digest.SHA2_256)
		if err != nil {
			t.Fatalf("encoding %v: %v", value["id"], err)
		}
		blocks = append(blocks, b)
		links = append(links, map[string]any{"link": b.CID()})
	}
	root, err := block.Encode(links, codec.DagJSON, digest.SHA2_256)
	if err != nil {
		t.Fatalf("encoding root: %v", err)
	}
	return append(blocks, root), root
}

func TestWriteKnownBytes(t *testing.T) {
	blocks, root := rectangleBlocks(t)
	if got := root.CID().String(); got != "baguqeeratvl535swvgzvzso43cqamcztq57qjs3p4fqvpghuwufemni2mdxq" {
		t.Fatalf("root CID = %s", got)
	}

	var buffer bytes.Buffer
	if err := Write(&buffer, root.CID(), blocks); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if buffer.Len() != 856 {
		t.Errorf("container length = %d, want 856", buffer.Len())
	}
	headerLength, n, err := varint.Decode(buffer.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if headerLength != 59 || n != 1 {
		t.Errorf("header length = %d (prefix %d bytes), want 59 (1)", headerLength, n)
	}
	sum := sha256.Sum256(buffer.Bytes())
	if got := hex.EncodeToString(sum[:]); got != "12b2cb293bf317173d946e86b8c3fc0f43f8bb3e386a8f79631e06e136818d6a" {
		t.Errorf("container sha256 = %s", got)
	}
}

func TestWriteDeterministic(t *testing.T) {
	blocks, root := rectangleBlocks(t)
	var first, second bytes.Buffer
	if err := Write(&first, root.CID(), blocks); err != nil {
		t.Fatal(err)
	}
	if err := Write(&second, root.CID(), blocks); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("identical inputs produced different containers")
	}
}

func TestOpenRoundtrip(t *testing.T) {
	blocks, root := rectangleBlocks(t)
	var buffer bytes.Buffer
	if err := Write(&buffer, root.CID(), blocks); err != nil {
		t.Fatal(err)
	}

	lookup, err := Open(bytes.NewReader(buffer.Bytes()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if roots := lookup.Roots(); len(roots) != 1 || roots[0] != root.CID() {
		t.Errorf("Roots = %v, want [%s]", roots, root.CID())
	}
	if lookup.Len() != len(blocks) {
		t.Errorf("Len = %d, want %d", lookup.Len(), len(blocks))
	}
	if lookup.Size() != int64(buffer.Len()) {
		t.Errorf("Size = %d, want %d", lookup.Size(), buffer.Len())
	}

	order := lookup.CIDs()
	for i, want := range blocks {
		if order[i] != want.CID() {
			t.Errorf("CIDs()[%d] = %s, want %s", i, order[i], want.CID())
		}
		got, err := lookup.Get(want.CID())
		if err != nil {
			t.Fatalf("Get(%s): %v", want.CID(), err)
		}
		if !bytes.Equal(got.Data(), want.Data()) {
			t.Errorf("Get(%s) data mismatch", want.CID())
		}
		if err := got.Verify(); err != nil {
			t.Errorf("Verify(%s): %v", want.CID(), err)
		}
	}
}

func TestGetMissing(t *testing.T) {
	blocks, root := rectangleBlocks(t)
	var buffer bytes.Buffer
	if err := Write(&buffer, root.CID(), blocks); err != nil {
		t.Fatal(err)
	}
	lookup, err := Open(&buffer)
	if err != nil {
		t.Fatal(err)
	}

	absent, err := cid.New(cid.DagJSON, digest.SHA2_256, []byte(`{"id":"absent"}`))
	if err != nil {
		t.Fatal(err)
	}
	if lookup.Has(absent) {
		t.Error("Has reported an absent CID")
	}
	_, err = lookup.Get(absent)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Get error = %v, want *NotFoundError", err)
	}
	if notFound.CID != absent {
		t.Errorf("NotFoundError.CID = %s, want %s", notFound.CID, absent)
	}
}

func TestWriteRootMissing(t *testing.T) {
	blocks, root := rectangleBlocks(t)
	var buffer bytes.Buffer
	err := Write(&buffer, root.CID(), blocks[:len(blocks)-1])
	if !errors.Is(err, ErrRootMissing) {
		t.Fatalf("Write error = %v, want ErrRootMissing", err)
	}
	if buffer.Len() != 0 {
		t.Errorf("Write emitted %d bytes before failing", buffer.Len())
	}
}

func TestWriterCloseRootMissing(t *testing.T) {
	blocks, root := rectangleBlocks(t)
	var buffer bytes.Buffer
	writer, err := NewWriter(&buffer, root.CID())
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range blocks[:len(blocks)-1] {
		if err := writer.Put(b); err != nil {
			t.Fatal(err)
		}
	}
	if writer.Blocks() != len(blocks)-1 {
		t.Errorf("Blocks = %d", writer.Blocks())
	}
	if err := writer.Close(); !errors.Is(err, ErrRootMissing) {
		t.Errorf("Close error = %v, want ErrRootMissing", err)
	}
	if err := writer.Put(root); err == nil {
		t.Error("Put after Close succeeded")
	}
}

func TestNewWriterRejectsBadRoots(t *testing.T) {
	if _, err := NewWriter(io.Discard); err == nil {
		t.Error("NewWriter with no roots succeeded")
	}
	if _, err := NewWriter(io.Discard, cid.Undef); err == nil {
		t.Error("NewWriter with an undefined root succeeded")
	}
}

func TestReaderNext(t *testing.T) {
	blocks, root := rectangleBlocks(t)
	var buffer bytes.Buffer
	if err := Write(&buffer, root.CID(), blocks); err != nil {
		t.Fatal(err)
	}

	reader, err := NewReader(&buffer)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if reader.Header().Version != Version {
		t.Errorf("Version = %d", reader.Header().Version)
	}
	for i := range blocks {
		b, err := reader.Next()
		if err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
		if b.CID() != blocks[i].CID() {
			t.Errorf("section %d CID = %s, want %s", i, b.CID(), blocks[i].CID())
		}
	}
	for range 2 {
		if _, err := reader.Next(); err != io.EOF {
			t.Errorf("Next at end = %v, want io.EOF", err)
		}
	}
}

func TestReaderStopsAfterFormatError(t *testing.T) {
	blocks, root := rectangleBlocks(t)
	var buffer bytes.Buffer
	if err := Write(&buffer, root.CID(), blocks); err != nil {
		t.Fatal(err)
	}
	valid := buffer.Bytes()

	// Header, a section whose CID does not parse, then the intact rect1
	// section (offsets 60 to 170 of the valid stream).
	headerEnd := 1 + 59
	input := append([]byte(nil), valid[:headerEnd]...)
	input = append(input, 0x03, 0x02, 0x00, 0x00)
	input = append(input, valid[headerEnd:170]...)

	reader, err := NewReader(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	_, first := reader.Next()
	var formatErr *FormatError
	if !errors.As(first, &formatErr) {
		t.Fatalf("Next error = %v, want *FormatError", first)
	}
	for range 2 {
		if _, err := reader.Next(); err != first {
			t.Fatalf("Next after failure = %v, want the first error again", err)
		}
	}
}

func TestOpenDuplicateFirstWins(t *testing.T) {
	blocks, root := rectangleBlocks(t)
	var buffer bytes.Buffer
	writer, err := NewWriter(&buffer, root.CID())
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range append(blocks, blocks[0]) {
		if err := writer.Put(b); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	lookup, err := Open(&buffer)
	if err != nil {
		t.Fatal(err)
	}
	if lookup.Len() != len(blocks) {
		t.Errorf("Len = %d, want %d", lookup.Len(), len(blocks))
	}
}

func TestOpenMalformed(t *testing.T) {
	blocks, root := rectangleBlocks(t)
	var buffer bytes.Buffer
	if err := Write(&buffer, root.CID(), blocks); err != nil {
		t.Fatal(err)
	}
	valid := buffer.Bytes()

	badVersion, err := codec.Marshal(Header{Roots: []cid.CID{root.CID()}, Version: 2})
	if err != nil {
		t.Fatal(err)
	}
	noRoots, err := codec.Marshal(Header{Roots: []cid.CID{}, Version: 1})
	if err != nil {
		t.Fatal(err)
	}

	headerEnd := 1 + 59
	badCID := append([]byte(nil), valid[:headerEnd]...)
	badCID = append(badCID, 0x03, 0x02, 0x00, 0x00)

	cases := []struct {
		name    string
		input   []byte
		options []ReaderOption
	}{
		{"empty", nil, nil},
		{"truncated section", valid[:len(valid)-1], nil},
		{"truncated header", valid[:10], nil},
		{"non-minimal varint", []byte{0x80, 0x00}, nil},
		{"overlong varint", bytes.Repeat([]byte{0xff}, 10), nil},
		{"truncated varint", append(append([]byte(nil), valid[:headerEnd]...), 0x80), nil},
		{"zero-length section", append(append([]byte(nil), valid[:headerEnd]...), 0x00), nil},
		{"oversize section", valid, []ReaderOption{WithMaxSectionSize(100)}},
		{"bad CID", badCID, nil},
		{"header not CBOR", []byte{0x02, 0xff, 0xff}, nil},
		{"version 2", append(varint.Append(nil, uint64(len(badVersion))), badVersion...), nil},
		{"no roots", append(varint.Append(nil, uint64(len(noRoots))), noRoots...), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Open(bytes.NewReader(tc.input), tc.options...)
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("Open error = %v, want *FormatError", err)
			}
		})
	}
}

func TestOffsetInFormatError(t *testing.T) {
	blocks, root := rectangleBlocks(t)
	var buffer bytes.Buffer
	if err := Write(&buffer, root.CID(), blocks); err != nil {
		t.Fatal(err)
	}
	truncated := buffer.Bytes()[:buffer.Len()-5]

	_, err := Open(bytes.NewReader(truncated))
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Open error = %v, want *FormatError", err)
	}
	// The root section is last: 2-byte prefix, 37-byte CID, 317 bytes.
	if want := int64(856 - 2 - 37 - 317); formatErr.Offset != want {
		t.Errorf("Offset = %d, want %d", formatErr.Offset, want)
	}
}
