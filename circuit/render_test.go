//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"strings"
	"testing"
)

func TestRenderIncludesEveryGateAndLeaf(t *testing.T) {
	c, err := Parse("GATE(AND, g0, GATE(XOR, g1, A, B), C)")
	if err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	if err := c.Render(&b); err != nil {
		t.Fatal(err)
	}

	out := b.String()
	for _, want := range []string{"AND", "XOR", "A", "B", "C"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSingleLeafGate(t *testing.T) {
	c, err := Parse("GATE(NOT, g0, A)")
	if err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	if err := c.Render(&b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "A") {
		t.Fatalf("Render output missing leaf A:\n%s", b.String())
	}
}
