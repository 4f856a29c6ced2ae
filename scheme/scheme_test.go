//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package scheme

import (
	"crypto/rand"
	"testing"

	"github.com/nachonavarro/gabes/circuit"
	"github.com/nachonavarro/gabes/label"
	"github.com/nachonavarro/gabes/wire"
)

// TestFleXORSurvivesMarshalRoundTrip pins down a bug where a FleXOR
// XOR gate's single-ciphertext table has one nil row (the untranslated
// slot): Marshal/Unmarshal turned that nil into a non-nil empty slice,
// and EvaluateGate's old table[idx] != nil guard then tried to decrypt
// the empty slice instead of skipping it. Evaluating with the
// evaluator's right-hand label landing on the untranslated slot must
// still succeed after the table has gone through the wire encoding.
func TestFleXORSurvivesMarshalRoundTrip(t *testing.T) {
	for _, a := range []bool{false, true} {
		for _, b := range []bool{false, true} {
			ctx := newCtx()
			left, err := FleXOR{}.NewInputWire(ctx, "A")
			if err != nil {
				t.Fatal(err)
			}
			right, err := FleXOR{}.NewInputWire(ctx, "B")
			if err != nil {
				t.Fatal(err)
			}
			out, table, err := FleXOR{}.GarbleGate(ctx, circuit.XOR, left, right)
			if err != nil {
				t.Fatal(err)
			}

			circ := &circuit.Circuit{
				Root:   &circuit.Gate{Op: circuit.XOR, Identifier: "g0", Left: circuit.Node{Leaf: "A"}, Right: circuit.Node{Leaf: "B"}, Table: table},
				Inputs: []string{"A", "B"},
			}
			data := circ.Marshal()
			decoded, err := circuit.Unmarshal(data)
			if err != nil {
				t.Fatal(err)
			}

			rl := right.Label(b)
			got, err := FleXOR{}.EvaluateGate(circuit.XOR, decoded.Root.Table, left.Label(a), &rl)
			if err != nil {
				t.Fatalf("EvaluateGate after round-trip: %v", err)
			}
			want := out.Label(circuit.Eval(circuit.XOR, a, b))
			if !got.Equal(want) {
				t.Fatalf("XOR(%v,%v) after round-trip: got %s, want %s", a, b, got, want)
			}
		}
	}
}

func allSchemes(t *testing.T, ctx *circuit.GarbleContext) []circuit.Scheme {
	freeXOR, err := NewFreeXOR(ctx)
	if err != nil {
		t.Fatal(err)
	}
	halfGates, err := NewHalfGates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	return []circuit.Scheme{Classical{}, PointAndPermute{}, GRR3{}, freeXOR, FleXOR{}, halfGates}
}

func newCtx() *circuit.GarbleContext {
	return circuit.NewGarbleContext(rand.Reader)
}

// garbleEval garbles a single two-input gate, then evaluates it using
// the input labels for (a, b), and returns the label the evaluator
// reconstructs alongside the wire the garbler actually built, so the
// test can check the two agree.
func garbleEval(t *testing.T, s circuit.Scheme, op circuit.Operation, a, b bool) (*wire.Wire, *wire.Wire, *wire.Wire, label.Label) {
	ctx := newCtx()
	left, err := s.NewInputWire(ctx, "A")
	if err != nil {
		t.Fatal(err)
	}
	var right *wire.Wire
	if op.Arity() == 2 {
		right, err = s.NewInputWire(ctx, "B")
		if err != nil {
			t.Fatal(err)
		}
	}
	out, table, err := s.GarbleGate(ctx, op, left, right)
	if err != nil {
		t.Fatalf("%s GarbleGate(%v): %v", s.Name(), op, err)
	}

	var rightLabelPtr *label.Label
	if right != nil {
		rl := right.Label(b)
		rightLabelPtr = &rl
	}
	got, err := s.EvaluateGate(op, table, left.Label(a), rightLabelPtr)
	if err != nil {
		t.Fatalf("%s EvaluateGate(%v): %v", s.Name(), op, err)
	}
	return left, right, out, got
}

func TestAllSchemesAllGatesAllInputs(t *testing.T) {
	ops := []circuit.Operation{circuit.AND, circuit.OR, circuit.XOR, circuit.NAND, circuit.XNOR}
	ctx := newCtx()
	for _, s := range allSchemes(t, ctx) {
		for _, op := range ops {
			for _, a := range []bool{false, true} {
				for _, b := range []bool{false, true} {
					_, _, out, got := garbleEval(t, s, op, a, b)
					want := out.Label(circuit.Eval(op, a, b))
					if !got.Equal(want) {
						t.Fatalf("%s %v(%v,%v): evaluator got %s, want %s",
							s.Name(), op, a, b, got, want)
					}
				}
			}
		}
	}
}

func TestAllSchemesNot(t *testing.T) {
	ctx := newCtx()
	for _, s := range allSchemes(t, ctx) {
		for _, a := range []bool{false, true} {
			left, err := s.NewInputWire(ctx, "A")
			if err != nil {
				t.Fatal(err)
			}
			out, table, err := s.GarbleGate(ctx, circuit.NOT, left, nil)
			if err != nil {
				t.Fatalf("%s GarbleGate(NOT): %v", s.Name(), err)
			}
			got, err := s.EvaluateGate(circuit.NOT, table, left.Label(a), nil)
			if err != nil {
				t.Fatalf("%s EvaluateGate(NOT): %v", s.Name(), err)
			}
			want := out.Label(!a)
			if !got.Equal(want) {
				t.Fatalf("%s NOT(%v): evaluator got %s, want %s", s.Name(), a, got, want)
			}
		}
	}
}

func TestClassicalAndPPTableSizes(t *testing.T) {
	ctx := newCtx()
	for _, s := range []circuit.Scheme{Classical{}, PointAndPermute{}} {
		left, _ := s.NewInputWire(ctx, "A")
		right, _ := s.NewInputWire(ctx, "B")
		_, table, err := s.GarbleGate(ctx, circuit.AND, left, right)
		if err != nil {
			t.Fatal(err)
		}
		if len(table) != 4 {
			t.Fatalf("%s: got table size %d, want 4", s.Name(), len(table))
		}
		_, notTable, err := s.GarbleGate(ctx, circuit.NOT, left, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(notTable) != 2 {
			t.Fatalf("%s NOT: got table size %d, want 2", s.Name(), len(notTable))
		}
	}
}

func TestGRR3TableSize(t *testing.T) {
	ctx := newCtx()
	s := GRR3{}
	left, _ := s.NewInputWire(ctx, "A")
	right, _ := s.NewInputWire(ctx, "B")
	_, table, err := s.GarbleGate(ctx, circuit.AND, left, right)
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 3 {
		t.Fatalf("got table size %d, want 3", len(table))
	}
}

func TestHalfGatesANDTableSize(t *testing.T) {
	ctx := newCtx()
	s, err := NewHalfGates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	left, _ := s.NewInputWire(ctx, "A")
	right, _ := s.NewInputWire(ctx, "B")
	_, table, err := s.GarbleGate(ctx, circuit.AND, left, right)
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 2 {
		t.Fatalf("got table size %d, want 2", len(table))
	}
}

func TestFreeXORZeroCiphertexts(t *testing.T) {
	ctx := newCtx()
	s, err := NewFreeXOR(ctx)
	if err != nil {
		t.Fatal(err)
	}
	left, _ := s.NewInputWire(ctx, "A")
	right, _ := s.NewInputWire(ctx, "B")
	_, table, err := s.GarbleGate(ctx, circuit.XOR, left, right)
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 0 {
		t.Fatalf("XOR under free-xor should cost 0 ciphertexts, got %d", len(table))
	}
}

func TestOffsetSchemesSatisfyXorInvariant(t *testing.T) {
	ctx := newCtx()
	freeXOR, err := NewFreeXOR(ctx)
	if err != nil {
		t.Fatal(err)
	}
	halfGates, err := NewHalfGates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []interface {
		circuit.Scheme
		offset() label.Label
	}{
		freeXORAdapter{freeXOR}, halfGatesAdapter{halfGates},
	} {
		w, err := s.NewInputWire(ctx, "A")
		if err != nil {
			t.Fatal(err)
		}
		if !label.Xored(w.True, w.False).Equal(s.offset()) {
			t.Fatalf("%s: wire does not satisfy the global R invariant", s.Name())
		}
	}
}

type freeXORAdapter struct{ *FreeXOR }

func (a freeXORAdapter) offset() label.Label { return a.R }

type halfGatesAdapter struct{ *HalfGates }

func (a halfGatesAdapter) offset() label.Label { return a.R }

func TestSelectBitsAlwaysOpposite(t *testing.T) {
	ctx := newCtx()
	for _, s := range allSchemes(t, ctx) {
		w, err := s.NewInputWire(ctx, "A")
		if err != nil {
			t.Fatal(err)
		}
		if w.False.S() == w.True.S() {
			t.Fatalf("%s: input wire has equal select bits", s.Name())
		}
		out, _, err := s.GarbleGate(ctx, circuit.AND, w, mustWire(t, s, ctx, "B"))
		if err != nil {
			t.Fatal(err)
		}
		if out.False.S() == out.True.S() {
			t.Fatalf("%s: AND output wire has equal select bits", s.Name())
		}
	}
}

func mustWire(t *testing.T, s circuit.Scheme, ctx *circuit.GarbleContext, id string) *wire.Wire {
	w, err := s.NewInputWire(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

// TestNewAcceptsBothFlagAndWireNames checks New's two input forms:
// the short flag name a CLI passes in, and the scheme's own long
// Name() a garbler sends over the wire in its scheme frame.
func TestNewAcceptsBothFlagAndWireNames(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"", "classical"},
		{Cl, "classical"},
		{"classical", "classical"},
		{PP, "point-and-permute"},
		{"point-and-permute", "point-and-permute"},
		{GRR3N, "grr3"},
		{Free, "free-xor"},
		{"free-xor", "free-xor"},
		{Fle, "flexor"},
		{"flexor", "flexor"},
		{Half, "half-gates"},
		{"half-gates", "half-gates"},
	}
	for _, c := range cases {
		ctx := newCtx()
		s, err := New(c.name, ctx)
		if err != nil {
			t.Fatalf("New(%q): %v", c.name, err)
		}
		if got := s.Name(); got != c.want {
			t.Errorf("New(%q).Name() = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestNewRejectsUnknownScheme(t *testing.T) {
	if _, err := New("bogus", newCtx()); err == nil {
		t.Fatal("expected an error for an unknown scheme name")
	}
}
