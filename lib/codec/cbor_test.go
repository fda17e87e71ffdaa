// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/bureau-foundation/dagcar/lib/cid"
	"github.com/bureau-foundation/dagcar/lib/digest"
)

// sampleRecord mirrors the shape of block values: json tags only,
// shared by both codecs.
type sampleRecord struct {
	Width int64  `json:"width"`
	Fill  string `json:"fill"`
	ID    string `json:"id"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{Width: 100, Fill: "#eeff41", ID: "rect1"}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalLengthFirstKeyOrder(t *testing.T) {
	// DAG-CBOR sorts keys by encoded length first: "id" (2) before
	// "fill" (4) before "width" (5), regardless of declaration order.
	data, err := Marshal(sampleRecord{Width: 1, Fill: "f", ID: "i"})
	if err != nil {
		t.Fatal(err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id": "i", "fill": "f", "width": 1}`
	if notation != want {
		t.Errorf("Diagnose = %s, want %s", notation, want)
	}
}

func TestMarshalDeterministicAcrossMapAndStruct(t *testing.T) {
	fromStruct, err := DagCBOR.Encode(sampleRecord{Width: 7, Fill: "red", ID: "a"})
	if err != nil {
		t.Fatal(err)
	}
	fromMap, err := DagCBOR.Encode(map[string]any{"fill": "red", "id": "a", "width": 7})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(fromStruct, fromMap) {
		t.Errorf("struct and map encodings differ: %x != %x", fromStruct, fromMap)
	}
}

func TestMarshalFloatsAlways64Bit(t *testing.T) {
	data, err := Marshal(1.5)
	if err != nil {
		t.Fatal(err)
	}
	// 0xfb is the float64 head.
	if len(data) != 9 || data[0] != 0xfb {
		t.Errorf("Marshal(1.5) = %x, want 9-byte float64", data)
	}
}

func TestEncodeRejectsNaN(t *testing.T) {
	_, err := DagCBOR.Encode(math.NaN())
	var encodeErr *EncodeError
	if !errors.As(err, &encodeErr) {
		t.Fatalf("Encode(NaN) error = %v, want *EncodeError", err)
	}
}

func TestEncodeRejectsInvalidUTF8(t *testing.T) {
	cases := map[string]any{
		"struct field": sampleRecord{Width: 1, Fill: "\xff\xfe", ID: "x"},
		"map key":      map[string]int{"\xc3": 1},
		"nested":       []any{map[string]any{"fill": []string{"ok", "\x80"}}},
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DagCBOR.Encode(value)
			var encodeErr *EncodeError
			if !errors.As(err, &encodeErr) {
				t.Fatalf("Encode error = %v, want *EncodeError", err)
			}
			if encodeErr.Codec != "dag-cbor" {
				t.Errorf("EncodeError.Codec = %q", encodeErr.Codec)
			}
		})
	}

	// Byte strings carry arbitrary bytes.
	if _, err := DagCBOR.Encode(Bytes{0xff, 0xfe}); err != nil {
		t.Errorf("Encode(Bytes) = %v", err)
	}
}

func TestEncoderDecoderStreamRoundtrip(t *testing.T) {
	records := []sampleRecord{
		{Width: 1, Fill: "a", ID: "x"},
		{Width: 2, Fill: "b", ID: "y"},
	}

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i, want := range records {
		var got sampleRecord
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode record %d: %v", i, err)
		}
		if got != want {
			t.Errorf("record %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var record sampleRecord
	err := DagCBOR.Decode([]byte{0xFF, 0xFE, 0xFD}, &record)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("Decode error = %v, want *DecodeError", err)
	}
}

func TestDecodeRejectsUnknownField(t *testing.T) {
	data, err := Marshal(map[string]any{"fill": "f", "id": "i", "width": 1, "extra": true})
	if err != nil {
		t.Fatal(err)
	}
	var record sampleRecord
	if err := DagCBOR.Decode(data, &record); err == nil {
		t.Error("Decode accepted a map with an undeclared field")
	}
}

func TestDecodeRejectsDuplicateKeys(t *testing.T) {
	// {"id": "a", "id": "b"}
	data := []byte{0xa2, 0x62, 'i', 'd', 0x61, 'a', 0x62, 'i', 'd', 0x61, 'b'}
	var generic any
	if err := DagCBOR.Decode(data, &generic); err == nil {
		t.Error("Decode accepted duplicate map keys")
	}
}

func TestDecodeRejectsIndefiniteLength(t *testing.T) {
	// [_ 1, 2]
	data := []byte{0x9f, 0x01, 0x02, 0xff}
	var generic any
	if err := DagCBOR.Decode(data, &generic); err == nil {
		t.Error("Decode accepted an indefinite-length array")
	}
}

func TestGenericDecodeConvertsLinks(t *testing.T) {
	child, err := cid.New(cid.DagCBOR, digest.SHA2_256, []byte("child"))
	if err != nil {
		t.Fatal(err)
	}

	data, err := DagCBOR.Encode([]map[string]any{{"link": child}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var generic any
	if err := DagCBOR.Decode(data, &generic); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	list, ok := generic.([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("decoded %#v, want one-element list", generic)
	}
	entry := list[0].(map[string]any)
	if got, ok := entry["link"].(cid.CID); !ok || got != child {
		t.Errorf("link = %#v, want %s", entry["link"], child)
	}
}

func TestGenericDecodeRejectsForeignTags(t *testing.T) {
	// Tag 99 around 0.
	data := []byte{0xd8, 0x63, 0x00}
	var generic any
	err := DagCBOR.Decode(data, &generic)
	if err == nil {
		t.Fatal("Decode accepted tag 99")
	}
}

func TestDiagnoseFirst(t *testing.T) {
	item1, err := Marshal("hello")
	if err != nil {
		t.Fatalf("Marshal item 1: %v", err)
	}
	item2, err := Marshal(int64(42))
	if err != nil {
		t.Fatalf("Marshal item 2: %v", err)
	}

	sequence := append(append([]byte{}, item1...), item2...)

	notation, remaining, err := DiagnoseFirst(sequence)
	if err != nil {
		t.Fatalf("DiagnoseFirst: %v", err)
	}
	if !strings.Contains(notation, `"hello"`) {
		t.Errorf("first item notation %q does not contain \"hello\"", notation)
	}

	notation2, remaining2, err := DiagnoseFirst(remaining)
	if err != nil {
		t.Fatalf("DiagnoseFirst second: %v", err)
	}
	if notation2 != "42" {
		t.Errorf("second item notation = %q, want 42", notation2)
	}
	if len(remaining2) != 0 {
		t.Errorf("expected no remaining bytes, got %d", len(remaining2))
	}
}

func BenchmarkMarshal(b *testing.B) {
	record := sampleRecord{Width: 100, Fill: "#eeff41", ID: "rect1"}

	b.ReportAllocs()
	for b.Loop() {
		Marshal(record)
	}
}
