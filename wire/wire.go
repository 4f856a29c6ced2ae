//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.

// Package wire implements garbled-circuit wires: a pair of labels
// standing for a wire's false and true values, with the offset algebra
// needed by Free-XOR, FleXOR and Half-Gates.
package wire

import (
	"io"

	"github.com/nachonavarro/gabes/label"
)

// Wire holds the two labels of a single circuit wire and, for offset
// schemes, the R such that True.Xor(False) == R.
type Wire struct {
	Identifier string
	False      label.Label
	True       label.Label
	R          *label.Label
}

// Label returns the label representing the given boolean value.
func (w *Wire) Label(value bool) label.Label {
	if value {
		return w.True
	}
	return w.False
}

// Offset returns the wire's true offset, True XOR False. It is
// always well defined, regardless of whether the wire was built with
// an explicit R: FleXOR relies on being able to compute it for any
// wire, including ones GRR3 built with no offset in mind.
func (w *Wire) Offset() label.Label {
	return label.Xored(w.True, w.False)
}

// Represents reports which boolean value l stands for on this wire. It
// is used only by the garbler, who alone ever holds both labels.
func (w *Wire) Represents(l label.Label) (bool, bool) {
	if l.Equal(w.True) {
		return true, true
	}
	if l.Equal(w.False) {
		return false, true
	}
	return false, false
}

// New draws a fresh wire with two independent random labels, a random
// select bit on False and the opposite select bit on True, as used by
// the classical and point-and-permute schemes.
func New(rnd io.Reader, identifier string) (*Wire, error) {
	f, err := label.New(rnd)
	if err != nil {
		return nil, err
	}
	t, err := label.New(rnd)
	if err != nil {
		return nil, err
	}

	var b [1]byte
	if _, err := io.ReadFull(rnd, b[:]); err != nil {
		return nil, err
	}
	s := b[0]&1 != 0
	f.SetS(s)
	t.SetS(!s)

	return &Wire{
		Identifier: identifier,
		False:      f,
		True:       t,
	}, nil
}

// NewWithOffset draws a fresh wire whose True label is False XORed with
// R, as required by Free-XOR, FleXOR and Half-Gates. R must have its low
// bit set so the two labels' select bits differ.
func NewWithOffset(rnd io.Reader, identifier string, r label.Label) (*Wire, error) {
	f, err := label.New(rnd)
	if err != nil {
		return nil, err
	}
	t := label.Xored(f, r)

	w := &Wire{
		Identifier: identifier,
		False:      f,
		True:       t,
		R:          &r,
	}
	return w, nil
}

// Rebalance replaces the wire's True label so that the wire carries the
// offset R, without touching False. FleXOR's garbling does not call it:
// it translates a mismatched input wire with a one-ciphertext table
// entry instead.
func (w *Wire) Rebalance(r label.Label) {
	w.True = label.Xored(w.False, r)
	w.R = &r
}

// NewGlobalR draws a fresh global offset for Free-XOR/Half-Gates: a
// random 128 bit value whose low bit is 1, guaranteeing the two labels
// of every wire built from it have opposite select bits.
func NewGlobalR(rnd io.Reader) (label.Label, error) {
	r, err := label.New(rnd)
	if err != nil {
		return r, err
	}
	r.SetS(true)
	return r, nil
}
