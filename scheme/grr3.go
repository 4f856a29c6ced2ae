//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package scheme

import (
	"github.com/nachonavarro/gabes/circuit"
	"github.com/nachonavarro/gabes/gabeserr"
	"github.com/nachonavarro/gabes/gatecrypto"
	"github.com/nachonavarro/gabes/label"
	"github.com/nachonavarro/gabes/wire"
)

// GRR3 (garbled row reduction) drops the (0,0) row of every non-XOR
// gate's table: that row's output label is pinned, by construction,
// to the first 16 bytes of the deterministic zero ciphertext under the
// two select-bit-0 input labels (see zeroLabel), so both parties can recompute it
// without a transmitted row. NOT is free (a relabeling).
type GRR3 struct{}

func (GRR3) Name() string { return "grr3" }

func (GRR3) NewInputWire(ctx *circuit.GarbleContext, identifier string) (*wire.Wire, error) {
	return wire.New(ctx.Rand, identifier)
}

func (GRR3) GarbleGate(ctx *circuit.GarbleContext, op circuit.Operation, left, right *wire.Wire) (*wire.Wire, [][]byte, error) {
	if op.Arity() == 1 {
		return freeNot(left), nil, nil
	}
	return grr3Garble(ctx, op, left, right, nil)
}

func (GRR3) EvaluateGate(op circuit.Operation, table [][]byte, left label.Label, right *label.Label) (label.Label, error) {
	if right == nil {
		return freeNotLabel(left), nil
	}
	return grr3Evaluate(op, table, left, *right)
}

// freeNot builds NOT's output wire by swapping a wire's two labels:
// what used to represent false now represents true and vice versa.
// The offset between the labels, and hence R, is unchanged.
func freeNot(w *wire.Wire) *wire.Wire {
	return &wire.Wire{False: w.True, True: w.False, R: w.R}
}

// freeNotLabel is the evaluator's side of freeNot: the label it
// holds for the input is exactly the label it now holds for the
// (logically inverted) output, unchanged bit for bit.
func freeNotLabel(l label.Label) label.Label { return l }

// grr3Garble builds a GRR3 table for any two-input gate. When
// forceOffset is non-nil, the output wire is constructed so that
// True = False XOR *forceOffset, as required by Free-XOR and
// Half-Gates' GRR3 fallback for non-XOR gates; when nil (plain GRR3,
// and FleXOR's non-XOR path) the output wire's two labels carry no
// offset relationship at all.
func grr3Garble(ctx *circuit.GarbleContext, op circuit.Operation, left, right *wire.Wire, forceOffset *label.Label) (*wire.Wire, [][]byte, error) {
	ppLeft := selectLabel(left, false)
	ppRight := selectLabel(right, false)
	keyA, keyB := gatecrypto.KeyFromLabel(ppLeft), gatecrypto.KeyFromLabel(ppRight)

	zero, err := zeroLabel(keyA, keyB)
	if err != nil {
		return nil, nil, err
	}
	logic00 := circuit.Eval(op, isTrueLabel(left, ppLeft), isTrueLabel(right, ppRight))

	var out *wire.Wire
	if forceOffset != nil {
		R := *forceOffset
		if logic00 {
			out = &wire.Wire{True: zero, False: label.Xored(zero, R), R: forceOffset}
		} else {
			out = &wire.Wire{False: zero, True: label.Xored(zero, R), R: forceOffset}
		}
	} else {
		other, err := label.New(ctx.Rand)
		if err != nil {
			return nil, nil, err
		}
		other.SetS(!zero.S())
		if logic00 {
			out = &wire.Wire{True: zero, False: other}
		} else {
			out = &wire.Wire{False: zero, True: other}
		}
	}

	// Enumerate the three non-(select-bit-0,0) rows directly by
	// select bit rather than by logical value, matching how the
	// evaluator indexes the table.
	rows := make([][]byte, 3)
	for _, ls := range []bool{false, true} {
		for _, rs := range []bool{false, true} {
			if !ls && !rs {
				continue
			}
			leftLabel := selectLabel(left, ls)
			rightLabel := selectLabel(right, rs)
			logic := circuit.Eval(op, isTrueLabel(left, leftLabel), isTrueLabel(right, rightLabel))
			outLabel := out.Label(logic)
			ct, err := nestedEncrypt(
				gatecrypto.KeyFromLabel(leftLabel),
				gatecrypto.KeyFromLabel(rightLabel),
				outLabel.Bytes())
			if err != nil {
				return nil, nil, err
			}
			rows[index2(leftLabel, rightLabel)-1] = ct
		}
	}

	return out, rows, nil
}

// grr3Evaluate is the evaluator side of grr3Garble: it needs no
// forceOffset, since by the time a wire is evaluated its labels
// already encode whatever offset relationship the garbler built in.
func grr3Evaluate(op circuit.Operation, table [][]byte, left, right label.Label) (label.Label, error) {
	idx := index2(left, right)
	if idx == 0 {
		return zeroLabel(gatecrypto.KeyFromLabel(left), gatecrypto.KeyFromLabel(right))
	}
	pt, err := nestedDecrypt(gatecrypto.KeyFromLabel(left), gatecrypto.KeyFromLabel(right), table[idx-1])
	if err != nil {
		return label.Label{}, gabeserr.NewDecryptionError(err)
	}
	return label.FromBytes(pt), nil
}

// zeroLabel derives the deterministic GRR3 (0,0)-row output label
// from the two select-bit-0 input keys: the first 16 bytes of the
// deterministic zero-ciphertext construction, reproducible by both
// the garbler (who knows it pins the (0,0) row) and the evaluator
// (who recomputes it whenever its two held labels both carry select
// bit 0).
func zeroLabel(keyA, keyB gatecrypto.Key) (label.Label, error) {
	ct, err := gatecrypto.GenerateZeroCiphertext(keyA, keyB, 16)
	if err != nil {
		return label.Label{}, err
	}
	return label.FromBytes(ct[:16]), nil
}
