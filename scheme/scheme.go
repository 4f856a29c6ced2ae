//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package scheme implements the five garbling schemes gabes supports
// (classical, point-and-permute, GRR3, Free-XOR, FleXOR) plus
// Half-Gates, as circuit.Scheme implementations. Each file holds one
// scheme; this file holds what they share: the nested AEAD row
// encoding common to classical/PP/GRR3 and a couple of wire-building
// helpers.
package scheme

import (
	"encoding/binary"
	"io"

	"github.com/nachonavarro/gabes/circuit"
	"github.com/nachonavarro/gabes/gabeserr"
	"github.com/nachonavarro/gabes/gatecrypto"
	"github.com/nachonavarro/gabes/label"
	"github.com/nachonavarro/gabes/wire"
)

// Flag names for the CLI's mutually exclusive scheme flags, and the
// names New dispatches on.
const (
	Cl    = "cl"
	PP    = "pp"
	GRR3N = "grr3"
	Free  = "free"
	Fle   = "fle"
	Half  = "half"
)

// New constructs the named scheme, threading ctx through to the two
// schemes (Free-XOR, Half-Gates) that need to draw a global R at
// construction time. name may be either a scheme's short CLI flag
// name (cl, pp, grr3, free, fle, half) or its own long Name(), the
// form the garbler sends in its scheme frame. The evaluator builds
// its scheme from its own flag and only compares it with that frame.
func New(name string, ctx *circuit.GarbleContext) (circuit.Scheme, error) {
	switch name {
	case "", Cl, "classical":
		return Classical{}, nil
	case PP, "point-and-permute":
		return PointAndPermute{}, nil
	case GRR3N:
		return GRR3{}, nil
	case Free, "free-xor":
		return NewFreeXOR(ctx)
	case Fle, "flexor":
		return FleXOR{}, nil
	case Half, "half-gates":
		return NewHalfGates(ctx)
	default:
		return nil, gabeserr.NewUsageError("unknown scheme %q", name)
	}
}

// nestedEncrypt encrypts plaintext under inner, then under outer,
// producing the two-key row encoding classical, PP and GRR3 all
// share: AEAD(outer, AEAD(inner, plaintext)).
func nestedEncrypt(outer, inner gatecrypto.Key, plaintext []byte) ([]byte, error) {
	innerCt, err := gatecrypto.Encrypt(inner, plaintext)
	if err != nil {
		return nil, err
	}
	return gatecrypto.Encrypt(outer, innerCt)
}

// nestedDecrypt is nestedEncrypt's inverse.
func nestedDecrypt(outer, inner gatecrypto.Key, ciphertext []byte) ([]byte, error) {
	innerCt, err := gatecrypto.Decrypt(outer, ciphertext)
	if err != nil {
		return nil, err
	}
	return gatecrypto.Decrypt(inner, innerCt)
}

// freshOutputWire draws a brand new, unrelated pair of labels for a
// gate's output wire, with independently-chosen but necessarily
// opposite select bits. Used by classical, PP, and by GRR3/FleXOR's
// non-XOR path, where the output wire carries no required offset.
func freshOutputWire(ctx *circuit.GarbleContext) (*wire.Wire, error) {
	return wire.New(ctx.Rand, "")
}

// index2 is the 2-bit row index used by PP and GRR3: left's select
// bit in the high position, right's in the low position.
func index2(left, right label.Label) int {
	i := 0
	if left.S() {
		i |= 2
	}
	if right.S() {
		i |= 1
	}
	return i
}

// selectLabel returns whichever of a wire's two labels has the given
// select bit, used wherever a scheme needs "the label with S()==s" on
// a wire without caring which logical value it represents.
func selectLabel(w *wire.Wire, s bool) label.Label {
	if w.False.S() == s {
		return w.False
	}
	return w.True
}

// isTrueLabel reports whether l is w's true-representing label,
// distinguishing it from its false-representing sibling. Only the
// garbler ever calls this: it is the one party who holds both labels
// of w and therefore knows which is which.
func isTrueLabel(w *wire.Wire, l label.Label) bool {
	return l.Equal(w.True)
}

// shuffleRows permutes rows in place using ctx.Rand, hiding the
// association between a classical table's row order and the input
// labels that produced it.
func shuffleRows(rnd io.Reader, rows [][]byte) error {
	for i := len(rows) - 1; i > 0; i-- {
		j, err := randIntn(rnd, i+1)
		if err != nil {
			return err
		}
		rows[i], rows[j] = rows[j], rows[i]
	}
	return nil
}

// randIntn draws a uniform value in [0, n) from rnd.
func randIntn(rnd io.Reader, n int) (int, error) {
	var buf [8]byte
	if _, err := io.ReadFull(rnd, buf[:]); err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint64(buf[:]) % uint64(n)), nil
}
