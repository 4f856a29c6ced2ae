//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package scheme

import (
	"github.com/nachonavarro/gabes/circuit"
	"github.com/nachonavarro/gabes/label"
	"github.com/nachonavarro/gabes/wire"
)

// FreeXOR fixes one global offset R (low bit 1) for the whole
// circuit: every wire's true label is its false label XOR R, so an
// XOR gate's output can be computed by simply XORing whichever
// labels the evaluator holds for its two inputs, with no ciphertext
// at all. Non-XOR gates fall back to GRR3, built to preserve the
// same global R on their output wire so it can still feed later XORs
// for free.
type FreeXOR struct {
	R label.Label
}

// NewFreeXOR draws a fresh global offset and returns the scheme
// bound to it.
func NewFreeXOR(ctx *circuit.GarbleContext) (*FreeXOR, error) {
	r, err := wire.NewGlobalR(ctx.Rand)
	if err != nil {
		return nil, err
	}
	return &FreeXOR{R: r}, nil
}

func (s *FreeXOR) Name() string { return "free-xor" }

func (s *FreeXOR) NewInputWire(ctx *circuit.GarbleContext, identifier string) (*wire.Wire, error) {
	return wire.NewWithOffset(ctx.Rand, identifier, s.R)
}

func (s *FreeXOR) GarbleGate(ctx *circuit.GarbleContext, op circuit.Operation, left, right *wire.Wire) (*wire.Wire, [][]byte, error) {
	if op.Arity() == 1 {
		return freeNot(left), nil, nil
	}
	if op == circuit.XOR {
		out := &wire.Wire{
			False: label.Xored(left.False, right.False),
		}
		out.True = label.Xored(out.False, s.R)
		out.R = &s.R
		return out, nil, nil
	}
	return grr3Garble(ctx, op, left, right, &s.R)
}

func (s *FreeXOR) EvaluateGate(op circuit.Operation, table [][]byte, left label.Label, right *label.Label) (label.Label, error) {
	if right == nil {
		return freeNotLabel(left), nil
	}
	if op == circuit.XOR {
		return label.Xored(left, *right), nil
	}
	return grr3Evaluate(op, table, left, *right)
}
