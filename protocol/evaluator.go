//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package protocol

import (
	"crypto/rsa"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/nachonavarro/gabes/circuit"
	"github.com/nachonavarro/gabes/gabeserr"
	"github.com/nachonavarro/gabes/internal/timing"
	"github.com/nachonavarro/gabes/label"
	"github.com/nachonavarro/gabes/netio"
	"github.com/nachonavarro/gabes/ot"
	"github.com/nachonavarro/gabes/scheme"
)

// RunEvaluator drives the evaluator's side of one end-to-end run:
//
//  1. Receive the scheme name, cleaned circuit and input ordering.
//  2. Receive the garbler's own input labels directly.
//  3. Run oblivious transfer for every wire this party owns.
//  4. Evaluate the circuit bottom-up and report the output label.
//  5. Receive the plaintext output bit.
//
// schemeName is the evaluator's own choice of scheme, selected
// out-of-band the same way the garbler's was (matching command-line
// flags on both ends). The garbler's transmitted scheme name is not
// trusted as the evaluator's own garbling discipline: the two parties
// agree on a scheme out-of-band, and a genuine mismatch is left to
// surface naturally as a DecryptionError on the first gate rather than
// being silently papered over by deferring to whatever the garbler
// sent. The received name is only logged for diagnosis.
//
// t is optional; see RunGarbler's doc comment.
func RunEvaluator(conn *netio.Conn, rnd io.Reader, schemeName string, owned Inputs, t *timing.Timing) (bool, error) {
	peerSchemeData, err := receivePhase(conn, phaseScheme)
	if err != nil {
		return false, err
	}
	if peerScheme := string(peerSchemeData); peerScheme != schemeName {
		fmt.Fprintf(os.Stderr, "gabes: warning: garbler selected scheme %q, evaluator selected %q\n", peerScheme, schemeName)
	}

	circData, err := receivePhase(conn, phaseCircuit)
	if err != nil {
		return false, err
	}
	circ, err := circuit.Unmarshal(circData)
	if err != nil {
		return false, err
	}
	if err := conn.SendAck(); err != nil {
		return false, err
	}
	sample(t, "receive-circuit", costColumns(circ.Cost()))

	orderData, err := receivePhase(conn, phaseInputOrder)
	if err != nil {
		return false, err
	}
	ids := decodeIdentifiers(orderData)
	if err := conn.SendAck(); err != nil {
		return false, err
	}
	sample(t, "receive-input-order", nil)

	ctx := circuit.NewGarbleContext(rnd)
	s, err := scheme.New(schemeName, ctx)
	if err != nil {
		return false, err
	}
	if peerScheme != s.Name() {
		fmt.Fprintf(os.Stderr, "gabes: warning: garbler selected scheme %q, evaluator selected %q\n", peerScheme, s.Name())
	}

	inputs := map[string]label.Label{}
	var lastOT time.Time
	for _, id := range ids {
		bit, owns := owned[id]
		if owns {
			v, err := runEvaluatorTransfer(conn, rnd, bit)
			if err != nil {
				return false, err
			}
			inputs[id] = v
			lastOT = time.Now()
			continue
		}
		data, err := receivePhase(conn, phaseGarblerInput)
		if err != nil {
			return false, err
		}
		inputs[id] = label.FromBytes(data)
	}
	if t != nil {
		s := t.Sample("transfer-inputs", nil)
		if !lastOT.IsZero() {
			s.SubSample("OT", lastOT)
		}
	}

	outLabel, err := circ.EvaluateTree(s, inputs)
	if err != nil {
		return false, err
	}
	sample(t, "evaluate", nil)
	if err := sendPhase(conn, phaseOutputLabel, outLabel.Bytes()); err != nil {
		return false, err
	}
	if err := conn.Flush(); err != nil {
		return false, err
	}

	resultData, err := receivePhase(conn, phaseResult)
	if err != nil {
		return false, err
	}
	if len(resultData) != 1 {
		return false, gabeserr.NewProtocolError("malformed result frame of length %d", len(resultData))
	}
	sample(t, "result", nil)
	return resultData[0] != 0, nil
}

// runEvaluatorTransfer runs one wire's 1-out-of-2 OT as the receiver,
// choosing bit without revealing it to the garbler.
func runEvaluatorTransfer(conn *netio.Conn, rnd io.Reader, bit bool) (label.Label, error) {
	pkData, err := receivePhase(conn, phaseOTPublicKey)
	if err != nil {
		return label.Label{}, err
	}
	pkFields, err := unpackFields(pkData, 2)
	if err != nil {
		return label.Label{}, err
	}
	e, err := decodeUint32(pkFields[1])
	if err != nil {
		return label.Label{}, err
	}
	pub := &rsa.PublicKey{N: new(big.Int).SetBytes(pkFields[0]), E: int(e)}
	if pub.N.BitLen() < ot.MinModulusBits {
		return label.Label{}, gabeserr.NewProtocolError("OT modulus must be at least %d bits, got %d", ot.MinModulusBits, pub.N.BitLen())
	}

	padData, err := receivePhase(conn, phaseOTPads)
	if err != nil {
		return label.Label{}, err
	}
	pads, err := unpackFields(padData, 2)
	if err != nil {
		return label.Label{}, err
	}

	receiver := ot.NewReceiver(pub)
	xfer, err := receiver.NewTransfer(rnd, bit)
	if err != nil {
		return label.Label{}, err
	}
	v := xfer.Choose(pads[0], pads[1])
	if err := sendPhase(conn, phaseOTChoice, v); err != nil {
		return label.Label{}, err
	}
	if err := conn.Flush(); err != nil {
		return label.Label{}, err
	}

	respData, err := receivePhase(conn, phaseOTResponse)
	if err != nil {
		return label.Label{}, err
	}
	ms, err := unpackFields(respData, 2)
	if err != nil {
		return label.Label{}, err
	}
	l, err := xfer.Recover(ms[0], ms[1])
	if err != nil {
		return label.Label{}, err
	}
	return label.FromBytes(l), nil
}
