//
// rsa.go
//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package ot implements the RSA-based 1-out-of-2 oblivious transfer
// gabes uses to hand the evaluator exactly one of a wire's two
// labels: a fresh keypair is generated per wire, since reusing one
// across wires would let a curious garbler correlate the evaluator's
// choice bits across transfers.
package ot

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"io"
	"math/big"

	"github.com/nachonavarro/gabes/gabeserr"
	"github.com/nachonavarro/gabes/pkcs1"
)

// MinModulusBits is the smallest RSA modulus size gabes will garble
// or evaluate under.
const MinModulusBits = 2048

// Sender is the garbler's side of one wire's transfer: it holds the
// wire's two labels and a freshly generated RSA keypair, good for
// exactly one transfer.
type Sender struct {
	key    *rsa.PrivateKey
	label0 []byte
	label1 []byte
	x0, x1 []byte
}

// NewSender generates a fresh RSA keypair of the given size and
// binds it to label0/label1, the wire's false/true labels.
func NewSender(rnd io.Reader, bits int, label0, label1 []byte) (*Sender, error) {
	if bits < MinModulusBits {
		return nil, gabeserr.NewProtocolError("OT modulus must be at least %d bits, got %d", MinModulusBits, bits)
	}
	key, err := rsa.GenerateKey(rnd, bits)
	if err != nil {
		return nil, err
	}
	return &Sender{key: key, label0: label0, label1: label1}, nil
}

// MessageSize is the RSA modulus size in bytes, the size every
// encryption block and pad is formatted to.
func (s *Sender) MessageSize() int {
	return s.key.PublicKey.Size()
}

// PublicKey returns the keypair's public half, sent to the receiver
// at the start of the transfer.
func (s *Sender) PublicKey() *rsa.PublicKey {
	return &s.key.PublicKey
}

// Pads draws the sender's two random pads x0, x1, one message-size
// string of bytes each.
func (s *Sender) Pads(rnd io.Reader) (x0, x1 []byte, err error) {
	x0 = make([]byte, s.MessageSize())
	if _, err = io.ReadFull(rnd, x0); err != nil {
		return nil, nil, err
	}
	x1 = make([]byte, s.MessageSize())
	if _, err = io.ReadFull(rnd, x1); err != nil {
		return nil, nil, err
	}
	s.x0, s.x1 = x0, x1
	return x0, x1, nil
}

// Respond answers the receiver's v with the two masked labels
// (m0, m1); only the one corresponding to the receiver's chosen bit
// will unmask to the right label.
func (s *Sender) Respond(v []byte) (m0, m1 []byte, err error) {
	V := new(big.Int).SetBytes(v)
	N := s.key.PublicKey.N
	X0 := new(big.Int).SetBytes(s.x0)
	X1 := new(big.Int).SetBytes(s.x1)

	k0 := new(big.Int).Sub(V, X0)
	k0.Exp(k0, s.key.D, N)
	k1 := new(big.Int).Sub(V, X1)
	k1.Exp(k1, s.key.D, N)

	m0, err = s.mask(s.label0, k0)
	if err != nil {
		return nil, nil, err
	}
	m1, err = s.mask(s.label1, k1)
	if err != nil {
		return nil, nil, err
	}
	return m0, m1, nil
}

func (s *Sender) mask(label []byte, k *big.Int) ([]byte, error) {
	block, err := pkcs1.NewEncryptionBlock(s.MessageSize(), label)
	if err != nil {
		return nil, err
	}
	m := new(big.Int).SetBytes(block)
	m.Add(m, k)
	return m.Bytes(), nil
}

// Receiver is the evaluator's side, bound to the sender's public key
// for the duration of one wire's transfer.
type Receiver struct {
	pub *rsa.PublicKey
}

// NewReceiver binds a transfer to the sender's public key.
func NewReceiver(pub *rsa.PublicKey) *Receiver {
	return &Receiver{pub: pub}
}

// MessageSize is the RSA modulus size in bytes.
func (r *Receiver) MessageSize() int {
	return r.pub.Size()
}

// ReceiverTransfer holds the receiver's secret choice-blinding value
// k for the duration of one transfer.
type ReceiverTransfer struct {
	receiver *Receiver
	bit      bool
	k        *big.Int
}

// NewTransfer starts a transfer for the receiver's chosen bit,
// drawing the random blinding value k.
func (r *Receiver) NewTransfer(rnd io.Reader, bit bool) (*ReceiverTransfer, error) {
	k, err := randInt(rnd, r.pub.N)
	if err != nil {
		return nil, err
	}
	return &ReceiverTransfer{receiver: r, bit: bit, k: k}, nil
}

// Choose computes v = (x_bit + k^e) mod N from the sender's pads.
func (t *ReceiverTransfer) Choose(x0, x1 []byte) []byte {
	xb := new(big.Int).SetBytes(x0)
	if t.bit {
		xb = new(big.Int).SetBytes(x1)
	}
	e := big.NewInt(int64(t.receiver.pub.E))
	v := new(big.Int).Exp(t.k, e, t.receiver.pub.N)
	v.Add(v, xb)
	v.Mod(v, t.receiver.pub.N)
	return v.Bytes()
}

// Recover unmasks whichever of (m0, m1) corresponds to the
// receiver's chosen bit, recovering the sender's label.
func (t *ReceiverTransfer) Recover(m0, m1 []byte) ([]byte, error) {
	mb := m0
	if t.bit {
		mb = m1
	}

	mbp := new(big.Int).SetBytes(mb)
	labelInt := mbp.Sub(mbp, t.k)

	block := make([]byte, t.receiver.MessageSize())
	lb := labelInt.Bytes()
	if len(lb) > len(block) {
		return nil, gabeserr.NewDecryptionError(errOTMismatch)
	}
	copy(block[len(block)-len(lb):], lb)

	label, err := pkcs1.ParseEncryptionBlock(block)
	if err != nil {
		return nil, gabeserr.NewDecryptionError(err)
	}
	return label, nil
}

var errOTMismatch = fmt.Errorf("oblivious transfer: choice bit does not match sender's response")

func randInt(rnd io.Reader, max *big.Int) (*big.Int, error) {
	return rand.Int(rnd, max)
}
