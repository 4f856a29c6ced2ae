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

// PointAndPermute is Classical with rows sorted by (left.select,
// right.select) rather than shuffled, so the evaluator indexes
// straight to the one row it needs instead of searching.
type PointAndPermute struct{}

func (PointAndPermute) Name() string { return "point-and-permute" }

func (PointAndPermute) NewInputWire(ctx *circuit.GarbleContext, identifier string) (*wire.Wire, error) {
	return wire.New(ctx.Rand, identifier)
}

func (PointAndPermute) GarbleGate(ctx *circuit.GarbleContext, op circuit.Operation, left, right *wire.Wire) (*wire.Wire, [][]byte, error) {
	out, err := freshOutputWire(ctx)
	if err != nil {
		return nil, nil, err
	}

	if op.Arity() == 1 {
		rows := make([][]byte, 2)
		for _, lv := range []bool{false, true} {
			leftLabel := left.Label(lv)
			outLabel := out.Label(circuit.Eval(op, lv, false))
			ct, err := gatecrypto.Encrypt(gatecrypto.KeyFromLabel(leftLabel), outLabel.Bytes())
			if err != nil {
				return nil, nil, err
			}
			idx := 0
			if leftLabel.S() {
				idx = 1
			}
			rows[idx] = ct
		}
		return out, rows, nil
	}

	rows := make([][]byte, 4)
	for _, lv := range []bool{false, true} {
		for _, rv := range []bool{false, true} {
			leftLabel, rightLabel := left.Label(lv), right.Label(rv)
			outLabel := out.Label(circuit.Eval(op, lv, rv))
			ct, err := nestedEncrypt(
				gatecrypto.KeyFromLabel(leftLabel),
				gatecrypto.KeyFromLabel(rightLabel),
				outLabel.Bytes())
			if err != nil {
				return nil, nil, err
			}
			rows[index2(leftLabel, rightLabel)] = ct
		}
	}
	return out, rows, nil
}

func (PointAndPermute) EvaluateGate(op circuit.Operation, table [][]byte, left label.Label, right *label.Label) (label.Label, error) {
	if right == nil {
		idx := 0
		if left.S() {
			idx = 1
		}
		pt, err := gatecrypto.Decrypt(gatecrypto.KeyFromLabel(left), table[idx])
		if err != nil {
			return label.Label{}, gabeserr.NewDecryptionError(err)
		}
		return label.FromBytes(pt), nil
	}

	pt, err := nestedDecrypt(
		gatecrypto.KeyFromLabel(left),
		gatecrypto.KeyFromLabel(*right),
		table[index2(left, *right)])
	if err != nil {
		return label.Label{}, gabeserr.NewDecryptionError(err)
	}
	return label.FromBytes(pt), nil
}
