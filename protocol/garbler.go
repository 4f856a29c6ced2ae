//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package protocol

import (
	"fmt"
	"io"
	"time"

	"github.com/nachonavarro/gabes/circuit"
	"github.com/nachonavarro/gabes/gabeserr"
	"github.com/nachonavarro/gabes/internal/timing"
	"github.com/nachonavarro/gabes/label"
	"github.com/nachonavarro/gabes/netio"
	"github.com/nachonavarro/gabes/ot"
	"github.com/nachonavarro/gabes/scheme"
	"github.com/nachonavarro/gabes/wire"
)

// Inputs maps an input wire's identifier to the bit its owner is
// supplying.
type Inputs map[string]bool

// RunGarbler drives the garbler's side of one end-to-end run: garble,
// send, transfer, and finally learn and report the output bit.
//
//  1. Garble the circuit under scheme.
//  2. Send the scheme name and the cleaned, garbled circuit; await ack.
//  3. Send the input-wire identifier ordering; await ack.
//  4. For each garbler-owned wire, send its one label directly.
//  5. For each evaluator-owned wire, run oblivious transfer.
//  6. Receive the evaluator's output label, decide the output bit, and
//     send it back.
//
// t is optional: when non-nil, each phase is recorded as a timing
// sample for the end-of-run profiling report (see cmd/gabes's -v
// flag); a nil t disables this bookkeeping entirely.
func RunGarbler(conn *netio.Conn, rnd io.Reader, schemeName string, circ *circuit.Circuit, owned Inputs, t *timing.Timing) (bool, error) {
	ctx := circuit.NewGarbleContext(rnd)
	s, err := scheme.New(schemeName, ctx)
	if err != nil {
		return false, err
	}

	outputWire, err := circ.GarbleTree(ctx, s)
	if err != nil {
		return false, err
	}
	sample(t, "garble", costColumns(circ.Cost()))

	if err := sendPhase(conn, phaseScheme, []byte(s.Name())); err != nil {
		return false, err
	}
	if err := sendPhase(conn, phaseCircuit, circ.Clean().Marshal()); err != nil {
		return false, err
	}
	if err := conn.Flush(); err != nil {
		return false, err
	}
	if err := conn.WaitForAck(); err != nil {
		return false, err
	}
	sample(t, "send-circuit", nil)

	ids := circ.InputIdentifiers()
	if err := sendPhase(conn, phaseInputOrder, encodeIdentifiers(ids)); err != nil {
		return false, err
	}
	if err := conn.Flush(); err != nil {
		return false, err
	}
	if err := conn.WaitForAck(); err != nil {
		return false, err
	}
	sample(t, "send-input-order", nil)

	var lastOT time.Time
	for _, id := range ids {
		w, ok := ctx.Wires[id]
		if !ok {
			return false, gabeserr.NewProtocolError("no wire garbled for input %q", id)
		}
		bit, owns := owned[id]
		if owns {
			if err := sendPhase(conn, phaseGarblerInput, w.Label(bit).Bytes()); err != nil {
				return false, err
			}
			if err := conn.Flush(); err != nil {
				return false, err
			}
			continue
		}
		if err := runGarblerTransfer(conn, rnd, w); err != nil {
			return false, err
		}
		lastOT = time.Now()
	}
	if t != nil {
		s := t.Sample("transfer-inputs", nil)
		if !lastOT.IsZero() {
			s.SubSample("OT", lastOT)
		}
	}

	outData, err := receivePhase(conn, phaseOutputLabel)
	if err != nil {
		return false, err
	}
	outLabel := label.FromBytes(outData)

	result, ok := outputWire.Represents(outLabel)
	if !ok {
		return false, gabeserr.NewDecryptionError(fmt.Errorf("output label matches neither of the circuit's output labels"))
	}

	var resultByte [1]byte
	if result {
		resultByte[0] = 1
	}
	if err := sendPhase(conn, phaseResult, resultByte[:]); err != nil {
		return false, err
	}
	err = conn.Flush()
	sample(t, "result", nil)
	return result, err
}

// sample records one timing sample when t is non-nil, a no-op
// otherwise, so every call site above can stay unconditional.
func sample(t *timing.Timing, label string, cols []string) {
	if t != nil {
		t.Sample(label, cols)
	}
}

// runGarblerTransfer runs one wire's 1-out-of-2 OT as the sender, per
// the five-step protocol: a fresh RSA keypair, pads, the evaluator's
// blinded choice, and the two masked labels.
func runGarblerTransfer(conn *netio.Conn, rnd io.Reader, w *wire.Wire) error {
	sender, err := ot.NewSender(rnd, ot.MinModulusBits, w.Label(false).Bytes(), w.Label(true).Bytes())
	if err != nil {
		return err
	}
	pub := sender.PublicKey()
	if err := sendPhase(conn, phaseOTPublicKey, packFields(pub.N.Bytes(), encodeUint32(uint32(pub.E)))); err != nil {
		return err
	}

	x0, x1, err := sender.Pads(rnd)
	if err != nil {
		return err
	}
	if err := sendPhase(conn, phaseOTPads, packFields(x0, x1)); err != nil {
		return err
	}
	if err := conn.Flush(); err != nil {
		return err
	}

	v, err := receivePhase(conn, phaseOTChoice)
	if err != nil {
		return err
	}
	m0, m1, err := sender.Respond(v)
	if err != nil {
		return err
	}
	if err := sendPhase(conn, phaseOTResponse, packFields(m0, m1)); err != nil {
		return err
	}
	return conn.Flush()
}
