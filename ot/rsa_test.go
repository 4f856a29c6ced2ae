//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func runTransfer(t *testing.T, bit bool) (got, label0 []byte) {
	label0 = []byte("this-is-label-0!")
	label1 := []byte("this-is-label-1!")

	sender, err := NewSender(rand.Reader, MinModulusBits, label0, label1)
	if err != nil {
		t.Fatal(err)
	}
	x0, x1, err := sender.Pads(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	receiver := NewReceiver(sender.PublicKey())
	xfer, err := receiver.NewTransfer(rand.Reader, bit)
	if err != nil {
		t.Fatal(err)
	}
	v := xfer.Choose(x0, x1)

	m0, m1, err := sender.Respond(v)
	if err != nil {
		t.Fatal(err)
	}

	got, err = xfer.Recover(m0, m1)
	if err != nil {
		t.Fatal(err)
	}
	return got, label0
}

func TestTransferChoosesBit0(t *testing.T) {
	got, label0 := runTransfer(t, false)
	if !bytes.Equal(got, label0) {
		t.Fatalf("got %x, want %x", got, label0)
	}
}

func TestTransferChoosesBit1(t *testing.T) {
	label1 := []byte("this-is-label-1!")
	got, _ := runTransfer(t, true)
	if !bytes.Equal(got, label1) {
		t.Fatalf("got %x, want %x", got, label1)
	}
}

func TestNewSenderRejectsSmallModulus(t *testing.T) {
	_, err := NewSender(rand.Reader, 512, []byte("a"), []byte("b"))
	if err == nil {
		t.Fatal("expected an error for a sub-2048-bit modulus")
	}
}
