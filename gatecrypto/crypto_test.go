//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package gatecrypto

import (
	"crypto/rand"
	"testing"

	"github.com/nachonavarro/gabes/gabeserr"
	"github.com/nachonavarro/gabes/label"
)

func randomKey(t *testing.T) Key {
	l, err := label.New(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	return KeyFromLabel(l)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := randomKey(t)
	plaintext := []byte("the output label bytes")

	ct, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatal(err)
	}
	pt, err := Decrypt(key, ct)
	if err != nil {
		t.Fatal(err)
	}
	if string(pt) != string(plaintext) {
		t.Fatalf("got %q, want %q", pt, plaintext)
	}
}

func TestDecryptWrongKeyFails(t *testing.T) {
	key := randomKey(t)
	wrong := randomKey(t)

	ct, err := Encrypt(key, []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = Decrypt(wrong, ct)
	if err == nil {
		t.Fatal("expected decryption under the wrong key to fail")
	}
	var decErr *gabeserr.DecryptionError
	if !asDecryptionError(err, &decErr) {
		t.Fatalf("expected *gabeserr.DecryptionError, got %T", err)
	}
}

func asDecryptionError(err error, target **gabeserr.DecryptionError) bool {
	if e, ok := err.(*gabeserr.DecryptionError); ok {
		*target = e
		return true
	}
	return false
}

func TestGenerateZeroCiphertextDeterministic(t *testing.T) {
	a := randomKey(t)
	b := randomKey(t)

	c1, err := GenerateZeroCiphertext(a, b, 16)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := GenerateZeroCiphertext(a, b, 16)
	if err != nil {
		t.Fatal(err)
	}
	if string(c1) != string(c2) {
		t.Fatal("GenerateZeroCiphertext must be deterministic given (keyA, keyB)")
	}

	composite := CompositeKey(a, b)
	pt, err := Decrypt(composite, c1)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range pt {
		if b != 0 {
			t.Fatal("zero ciphertext should decrypt to all-zero bytes")
		}
	}
}
