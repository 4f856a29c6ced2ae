//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package protocol drives the two-party garbler/evaluator exchange:
// garbling or evaluating the circuit, running oblivious transfer for
// evaluator-owned inputs, and walking both sides through the fixed
// phase sequence over a netio.Conn.
package protocol

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/nachonavarro/gabes/circuit"
	"github.com/nachonavarro/gabes/gabeserr"
	"github.com/nachonavarro/gabes/netio"
)

// phase tags every frame with the protocol step it belongs to, so a
// message arriving out of order is rejected as a ProtocolError rather
// than silently misparsed.
type phase byte

const (
	phaseScheme phase = iota
	phaseCircuit
	phaseInputOrder
	phaseGarblerInput
	phaseOTPublicKey
	phaseOTPads
	phaseOTChoice
	phaseOTResponse
	phaseOutputLabel
	phaseResult
)

func sendPhase(conn *netio.Conn, p phase, payload []byte) error {
	return conn.Send(append([]byte{byte(p)}, payload...))
}

func receivePhase(conn *netio.Conn, want phase) ([]byte, error) {
	data, err := conn.Receive()
	if err != nil {
		return nil, err
	}
	if len(data) < 1 {
		return nil, gabeserr.NewProtocolError("empty frame, wanted phase %d", want)
	}
	if phase(data[0]) != want {
		return nil, gabeserr.NewProtocolError("expected phase %d, got %d", want, data[0])
	}
	return data[1:], nil
}

// encodeIdentifiers/decodeIdentifiers carry the input-wire ordering
// as a single newline-joined frame; identifiers are grammar
// tokens and so never contain a newline themselves.
func encodeIdentifiers(ids []string) []byte {
	return []byte(strings.Join(ids, "\n"))
}

func decodeIdentifiers(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	return strings.Split(string(data), "\n")
}

func encodeUint32(v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return buf[:]
}

func decodeUint32(data []byte) (uint32, error) {
	if len(data) != 4 {
		return 0, gabeserr.NewProtocolError("malformed uint32 frame of length %d", len(data))
	}
	return binary.BigEndian.Uint32(data), nil
}

// packFields concatenates several byte strings into one frame, each
// preceded by its own 4-byte big-endian length, so a handful of
// related values (an RSA public key's N and E, a transfer's two
// pads) can ride in a single phase-tagged message.
func packFields(fields ...[]byte) []byte {
	var out []byte
	for _, f := range fields {
		out = append(out, encodeUint32(uint32(len(f)))...)
		out = append(out, f...)
	}
	return out
}

// costColumns formats a circuit's shape as the garble/receive-circuit
// timing sample's Xfer column, so a -v report shows what was garbled
// alongside how long it took.
func costColumns(s circuit.Stats) []string {
	return []string{fmt.Sprintf("%d gates, %d inputs", s.Gates, s.Inputs)}
}

func unpackFields(data []byte, n int) ([][]byte, error) {
	out := make([][]byte, n)
	pos := 0
	for i := 0; i < n; i++ {
		if pos+4 > len(data) {
			return nil, gabeserr.NewProtocolError("truncated field %d in packed frame", i)
		}
		length := int(binary.BigEndian.Uint32(data[pos:]))
		pos += 4
		if pos+length > len(data) {
			return nil, gabeserr.NewProtocolError("truncated field %d in packed frame", i)
		}
		out[i] = data[pos : pos+length]
		pos += length
	}
	return out, nil
}
