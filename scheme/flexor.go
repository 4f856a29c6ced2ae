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

// FleXOR lets every wire carry its own offset rather than one global
// R. An XOR gate's output offset is always chosen to equal its left
// input's offset, so the left input never needs translating; only
// the right input is translated, with a single ciphertext, when its
// offset disagrees. This keeps every XOR gate at 0 or 1 ciphertexts
// rather than the scheme's worst-case 2 — a deliberate choice over
// drawing an output offset independent of both inputs, which would
// need to translate both sides for no benefit. Non-XOR gates fall
// back to plain GRR3, whose output wire's offset is whatever the
// reduction happens to produce.
type FleXOR struct{}

func (FleXOR) Name() string { return "flexor" }

func (FleXOR) NewInputWire(ctx *circuit.GarbleContext, identifier string) (*wire.Wire, error) {
	r, err := wire.NewGlobalR(ctx.Rand)
	if err != nil {
		return nil, err
	}
	return wire.NewWithOffset(ctx.Rand, identifier, r)
}

func (FleXOR) GarbleGate(ctx *circuit.GarbleContext, op circuit.Operation, left, right *wire.Wire) (*wire.Wire, [][]byte, error) {
	if op.Arity() == 1 {
		return freeNot(left), nil, nil
	}
	if op != circuit.XOR {
		return grr3Garble(ctx, op, left, right, nil)
	}

	r1 := left.Offset()
	out := &wire.Wire{False: label.Xored(left.False, right.False)}
	out.True = label.Xored(out.False, r1)
	out.R = &r1

	r2 := right.Offset()
	if r1.Equal(r2) {
		return out, nil, nil
	}

	delta := label.Xored(r1, r2)
	cipher, err := gatecrypto.Encrypt(gatecrypto.KeyFromLabel(right.True), delta.Bytes())
	if err != nil {
		return nil, nil, err
	}
	table := make([][]byte, 2)
	table[boolIdx(right.True.S())] = cipher
	return out, table, nil
}

func (FleXOR) EvaluateGate(op circuit.Operation, table [][]byte, left label.Label, right *label.Label) (label.Label, error) {
	if right == nil {
		return freeNotLabel(left), nil
	}
	if op != circuit.XOR {
		return grr3Evaluate(op, table, left, *right)
	}

	aligned := *right
	if len(table) > 0 {
		idx := boolIdx(right.S())
		if ct := table[idx]; len(ct) > 0 {
			pt, err := gatecrypto.Decrypt(gatecrypto.KeyFromLabel(*right), ct)
			if err != nil {
				return label.Label{}, gabeserr.NewDecryptionError(err)
			}
			aligned = label.Xored(*right, label.FromBytes(pt))
		}
	}
	return label.Xored(left, aligned), nil
}

func boolIdx(b bool) int {
	if b {
		return 1
	}
	return 0
}
