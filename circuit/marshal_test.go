//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package circuit

import "testing"

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	c, err := Parse("GATE(AND, g0, GATE(XOR, g1, A, B), C)")
	if err != nil {
		t.Fatal(err)
	}
	c.Root.Table = [][]byte{[]byte("row0"), []byte("row1")}
	c.Root.Left.Gate.Table = [][]byte{[]byte("xrow")}

	cleaned := c.Clean()
	data := cleaned.Marshal()

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Root.Op != AND || got.Root.Identifier != "g0" {
		t.Fatalf("root mismatch: %+v", got.Root)
	}
	if len(got.Root.Table) != 2 || string(got.Root.Table[0]) != "row0" {
		t.Fatalf("root table mismatch: %v", got.Root.Table)
	}
	if got.Root.Left.IsLeaf() {
		t.Fatal("expected left to be a subgate")
	}
	if got.Root.Left.Gate.Op != XOR || len(got.Root.Left.Gate.Table) != 1 {
		t.Fatalf("left subgate mismatch: %+v", got.Root.Left.Gate)
	}
	if got.Root.Right.Leaf != "C" {
		t.Fatalf("right leaf mismatch: %q", got.Root.Right.Leaf)
	}
	if len(got.Inputs) != 3 {
		t.Fatalf("inputs mismatch: %v", got.Inputs)
	}
}
