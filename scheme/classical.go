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

// Classical is the textbook garbling scheme: every row of a gate's
// truth table is encrypted and the table is shuffled, forcing the
// evaluator to try every row until exactly one authenticates.
type Classical struct{}

func (Classical) Name() string { return "classical" }

func (Classical) NewInputWire(ctx *circuit.GarbleContext, identifier string) (*wire.Wire, error) {
	return wire.New(ctx.Rand, identifier)
}

func (Classical) GarbleGate(ctx *circuit.GarbleContext, op circuit.Operation, left, right *wire.Wire) (*wire.Wire, [][]byte, error) {
	out, err := freshOutputWire(ctx)
	if err != nil {
		return nil, nil, err
	}

	if op.Arity() == 1 {
		rows := make([][]byte, 2)
		for i, lv := range []bool{false, true} {
			leftLabel := left.Label(lv)
			outLabel := out.Label(circuit.Eval(op, lv, false))
			ct, err := gatecrypto.Encrypt(gatecrypto.KeyFromLabel(leftLabel), outLabel.Bytes())
			if err != nil {
				return nil, nil, err
			}
			rows[i] = ct
		}
		if err := shuffleRows(ctx.Rand, rows); err != nil {
			return nil, nil, err
		}
		return out, rows, nil
	}

	rows := make([][]byte, 0, 4)
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
			rows = append(rows, ct)
		}
	}
	if err := shuffleRows(ctx.Rand, rows); err != nil {
		return nil, nil, err
	}
	return out, rows, nil
}

func (Classical) EvaluateGate(op circuit.Operation, table [][]byte, left label.Label, right *label.Label) (label.Label, error) {
	if right == nil {
		key := gatecrypto.KeyFromLabel(left)
		for _, ct := range table {
			pt, err := gatecrypto.Decrypt(key, ct)
			if err == nil {
				return label.FromBytes(pt), nil
			}
		}
		return label.Label{}, gabeserr.NewDecryptionError(errNoRowAuthenticated)
	}

	outerKey, innerKey := gatecrypto.KeyFromLabel(left), gatecrypto.KeyFromLabel(*right)
	for _, ct := range table {
		pt, err := nestedDecrypt(outerKey, innerKey, ct)
		if err == nil {
			return label.FromBytes(pt), nil
		}
	}
	return label.Label{}, gabeserr.NewDecryptionError(errNoRowAuthenticated)
}

var errNoRowAuthenticated = rowSearchError{}

type rowSearchError struct{}

func (rowSearchError) Error() string { return "no garbled table row authenticated" }
