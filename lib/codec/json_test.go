// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bureau-foundation/dagcar/lib/cid"
	"github.com/bureau-foundation/dagcar/lib/digest"
)

type rectangle struct {
	X      int64  `json:"x"`
	Y      int64  `json:"y"`
	Width  int64  `json:"width"`
	Height int64  `json:"height"`
	Fill   string `json:"fill"`
	ID     string `json:"id"`
}

func TestDagJSONCanonicalBytes(t *testing.T) {
	data, err := DagJSON.Encode(rectangle{X: 409, Y: 129, Width: 100, Height: 100, Fill: "#eeff41", ID: "rect1"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"fill":"#eeff41","height":100,"id":"rect1","width":100,"x":409,"y":129}`
	if string(data) != want {
		t.Errorf("Encode = %s, want %s", data, want)
	}

	identifier, err := cid.New(DagJSON.Code(), digest.SHA2_256, data)
	if err != nil {
		t.Fatal(err)
	}
	if got := identifier.String(); got != "baguqeera64z4fjrqqawpqmro7ynesgch4tvknxpog34sjtvjcv6vcrkpblzq" {
		t.Errorf("CID = %s", got)
	}
}

func TestDagJSONFieldOrderIrrelevant(t *testing.T) {
	type reordered struct {
		ID     string `json:"id"`
		Fill   string `json:"fill"`
		Height int64  `json:"height"`
		Width  int64  `json:"width"`
		Y      int64  `json:"y"`
		X      int64  `json:"x"`
	}
	first, err := DagJSON.Encode(rectangle{X: 1, Y: 2, Width: 3, Height: 4, Fill: "f", ID: "i"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := DagJSON.Encode(reordered{X: 1, Y: 2, Width: 3, Height: 4, Fill: "f", ID: "i"})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("encodings differ:\n%s\n%s", first, second)
	}
}

func TestDagJSONNoHTMLEscaping(t *testing.T) {
	data, err := DagJSON.Encode(map[string]string{"fill": "<&>"})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"fill":"<&>"}`; string(data) != want {
		t.Errorf("Encode = %s, want %s", data, want)
	}
}

func TestDagJSONLinkRoundtrip(t *testing.T) {
	child, err := cid.New(cid.DagJSON, digest.SHA2_256, []byte(`{"id":"x"}`))
	if err != nil {
		t.Fatal(err)
	}

	type entry struct {
		Link cid.CID `json:"link"`
	}
	data, err := DagJSON.Encode([]entry{{Link: child}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `[{"link":{"/":"` + child.String() + `"}}]`
	if string(data) != want {
		t.Errorf("Encode = %s, want %s", data, want)
	}

	var typed []entry
	if err := DagJSON.Decode(data, &typed); err != nil {
		t.Fatalf("Decode typed: %v", err)
	}
	if len(typed) != 1 || typed[0].Link != child {
		t.Errorf("typed decode = %+v", typed)
	}

	var generic any
	if err := DagJSON.Decode(data, &generic); err != nil {
		t.Fatalf("Decode generic: %v", err)
	}
	link := generic.([]any)[0].(map[string]any)["link"]
	if got, ok := link.(cid.CID); !ok || got != child {
		t.Errorf("generic link = %#v, want %s", link, child)
	}
}

func TestDagJSONGenericNumbers(t *testing.T) {
	var generic any
	if err := DagJSON.Decode([]byte(`{"a":409,"b":1.5}`), &generic); err != nil {
		t.Fatal(err)
	}
	object := generic.(map[string]any)
	if got, ok := object["a"].(int64); !ok || got != 409 {
		t.Errorf("a = %#v, want int64 409", object["a"])
	}
	if got, ok := object["b"].(float64); !ok || got != 1.5 {
		t.Errorf("b = %#v, want float64 1.5", object["b"])
	}
}

func TestDagJSONBytes(t *testing.T) {
	type payload struct {
		Data Bytes `json:"data"`
	}
	data, err := DagJSON.Encode(payload{Data: Bytes("hi")})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"data":{"/":{"bytes":"aGk"}}}`; string(data) != want {
		t.Errorf("Encode = %s, want %s", data, want)
	}

	var decoded payload
	if err := DagJSON.Decode(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if string(decoded.Data) != "hi" {
		t.Errorf("decoded bytes = %q", decoded.Data)
	}

	var generic any
	if err := DagJSON.Decode(data, &generic); err != nil {
		t.Fatal(err)
	}
	if got, ok := generic.(map[string]any)["data"].([]byte); !ok || string(got) != "hi" {
		t.Errorf("generic bytes = %#v", generic)
	}
}

func TestDagJSONDecodeErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"malformed", `{"id":`},
		{"trailing", `{"id":"a"} {}`},
		{"unknown field", `{"extra":1,"id":"a"}`},
		{"wrong type", `{"id":7}`},
		{"duplicate key", `{"id":"a","id":"b"}`},
		{"whitespace", `{ "id" : "a" }`},
		{"unsorted keys", `{"x":1,"id":"a"}`},
		{"trailing newline", "{\"id\":\"a\"}\n"},
		{"escaped character", `{"id":"\u0061"}`},
		{"invalid utf-8", "{\"id\":\"\xff\"}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var target struct {
				ID string `json:"id"`
			}
			err := DagJSON.Decode([]byte(tc.input), &target)
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("Decode(%s) error = %v, want *DecodeError", tc.input, err)
			}
		})
	}
}

func TestDagJSONRejectsInvalidUTF8(t *testing.T) {
	_, err := DagJSON.Encode(rectangle{X: 1, Y: 2, Width: 3, Height: 4, Fill: "\xff\xfe", ID: "rect1"})
	var encodeErr *EncodeError
	if !errors.As(err, &encodeErr) {
		t.Fatalf("Encode error = %v, want *EncodeError", err)
	}
	if !strings.Contains(err.Error(), "value.Fill") {
		t.Errorf("error %q does not name the field", err)
	}

	if _, err := DagJSON.Encode(map[string]string{"\xff": "a"}); err == nil {
		t.Error("Encode accepted an invalid UTF-8 map key")
	}
}

func TestDagJSONDecodeAcceptsOwnEncoding(t *testing.T) {
	values := []any{
		rectangle{X: -1, Y: 0, Width: 3, Height: 4, Fill: "<é\u2028>", ID: "rect1"},
		map[string]any{"b": []any{1.5, "x", nil, true}, "a": map[string]any{}},
	}
	for _, value := range values {
		data, err := DagJSON.Encode(value)
		if err != nil {
			t.Fatalf("Encode(%v): %v", value, err)
		}
		var generic any
		if err := DagJSON.Decode(data, &generic); err != nil {
			t.Errorf("Decode(%s): %v", data, err)
		}
	}
}

func TestRawCodec(t *testing.T) {
	input := []byte{0x00, 0x01, 0xff}
	data, err := Raw.Encode(input)
	if err != nil {
		t.Fatal(err)
	}
	input[0] = 0x42
	if data[0] != 0x00 {
		t.Error("Encode did not copy its input")
	}

	var out []byte
	if err := Raw.Decode(data, &out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, []byte{0x00, 0x01, 0xff}) {
		t.Errorf("Decode = %x", out)
	}

	if _, err := Raw.Encode("text"); err == nil {
		t.Error("Raw.Encode accepted a string")
	}
}

func TestLookup(t *testing.T) {
	for _, c := range []Codec{DagJSON, DagCBOR, Raw} {
		found, err := Lookup(c.Code())
		if err != nil {
			t.Fatalf("Lookup(%v): %v", c.Code(), err)
		}
		if found.Name() != c.Name() {
			t.Errorf("Lookup(%v) = %s", c.Code(), found.Name())
		}
		byName, err := ByName(c.Name())
		if err != nil || byName.Code() != c.Code() {
			t.Errorf("ByName(%s) = %v, %v", c.Name(), byName, err)
		}
	}
	if _, err := Lookup(cid.DagPB); err == nil {
		t.Error("Lookup(dag-pb) succeeded")
	}
	if _, err := ByName("protobuf"); err == nil {
		t.Error("ByName(protobuf) succeeded")
	}
}
