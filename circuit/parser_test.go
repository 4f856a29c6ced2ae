//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"testing"

	"github.com/nachonavarro/gabes/gabeserr"
)

func TestParseSimpleAnd(t *testing.T) {
	c, err := Parse("GATE(AND, out, A, B)")
	if err != nil {
		t.Fatal(err)
	}
	if c.Root.Op != AND {
		t.Fatalf("got op %v, want AND", c.Root.Op)
	}
	if c.Root.Left.Leaf != "A" || c.Root.Right.Leaf != "B" {
		t.Fatalf("got left=%v right=%v", c.Root.Left, c.Root.Right)
	}
	want := []string{"A", "B"}
	if len(c.Inputs) != 2 || c.Inputs[0] != want[0] || c.Inputs[1] != want[1] {
		t.Fatalf("got inputs %v, want %v", c.Inputs, want)
	}
}

func TestParseNotSingleChild(t *testing.T) {
	c, err := Parse("GATE(NOT, out, GATE(NAND, inner, A, B))")
	if err != nil {
		t.Fatal(err)
	}
	if c.Root.Op != NOT {
		t.Fatalf("got op %v, want NOT", c.Root.Op)
	}
	if c.Root.Left.IsLeaf() {
		t.Fatal("expected nested gate, got leaf")
	}
	if c.Root.Left.Gate.Op != NAND {
		t.Fatalf("got inner op %v, want NAND", c.Root.Left.Gate.Op)
	}
}

func TestParseNestedXorChain(t *testing.T) {
	c, err := Parse("GATE(XOR, out, GATE(XOR, t1, GATE(XOR, t0, A, B), C), D)")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"A", "B", "C", "D"}
	if len(c.Inputs) != len(want) {
		t.Fatalf("got %d inputs, want %d: %v", len(c.Inputs), len(want), c.Inputs)
	}
	for i := range want {
		if c.Inputs[i] != want[i] {
			t.Fatalf("input %d: got %q, want %q", i, c.Inputs[i], want[i])
		}
	}
}

func TestParseMalformedMissingParen(t *testing.T) {
	_, err := Parse("GATE(AND, out, A, B")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if _, ok := err.(*gabeserr.ParseError); !ok {
		t.Fatalf("got %T, want *gabeserr.ParseError", err)
	}
}

func TestParseMalformedUnknownType(t *testing.T) {
	_, err := Parse("GATE(MAYBE, out, A, B)")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if _, ok := err.(*gabeserr.ParseError); !ok {
		t.Fatalf("got %T, want *gabeserr.ParseError", err)
	}
}

func TestRoundTripDumpParse(t *testing.T) {
	src := "GATE(AND, out, GATE(XOR, t0, A, B), GATE(NOT, t1, C))"
	c1, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := Parse(c1.Dump())
	if err != nil {
		t.Fatalf("re-parsing dump failed: %v", err)
	}
	if c1.Dump() != c2.Dump() {
		t.Fatalf("round trip mismatch:\n%s\nvs\n%s", c1.Dump(), c2.Dump())
	}
	if len(c1.Inputs) != len(c2.Inputs) {
		t.Fatalf("input count mismatch: %v vs %v", c1.Inputs, c2.Inputs)
	}
}

func TestCleanDropsOutputWires(t *testing.T) {
	c, err := Parse("GATE(AND, out, A, B)")
	if err != nil {
		t.Fatal(err)
	}
	c.Root.Output = nil // not yet garbled in this test; Clean must still behave
	cleaned := c.Clean()
	if cleaned.Root.Identifier != c.Root.Identifier {
		t.Fatal("clean must preserve gate identifiers")
	}
	if cleaned.Root.Output != nil {
		t.Fatal("clean must never carry an Output wire")
	}
}
