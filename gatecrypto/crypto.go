//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package gatecrypto implements the symmetric cryptography used to mask
// garbled-table ciphertexts: AES-GCM AEAD keyed by wire labels, plus the
// deterministic zero-ciphertext construction GRR3 relies on.
package gatecrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/nachonavarro/gabes/gabeserr"
	"github.com/nachonavarro/gabes/label"
)

func sha256New() hash.Hash {
	return sha256.New()
}

// Key is a symmetric key derived from a wire label's 16 raw bytes.
type Key [16]byte

// KeyFromLabel derives an AES-128 key from a label. Labels are used as
// opaque AEAD secrets: the key is exactly the label's bytes.
func KeyFromLabel(l label.Label) Key {
	var k Key
	copy(k[:], l.Bytes())
	return k
}

// Encrypt AEAD-encrypts plaintext under key with a random 96 bit nonce.
// The returned ciphertext is nonce ‖ AEAD(plaintext), where the AEAD
// output already carries its own authentication tag.
func Encrypt(key Key, plaintext []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt AEAD-decrypts a ciphertext produced by Encrypt. Authentication
// failure is reported as a *gabeserr.DecryptionError; this is the only
// channel by which a caller distinguishes a wrong-row guess from a
// correct one under classical encoding.
func Decrypt(key Key, ciphertext []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aead.NonceSize() {
		return nil, gabeserr.NewDecryptionError(
			errShortCiphertext)
	}
	nonce := ciphertext[:aead.NonceSize()]
	body := ciphertext[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, body, nil)
	if err != nil {
		return nil, gabeserr.NewDecryptionError(err)
	}
	return plaintext, nil
}

func newAEAD(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

var errShortCiphertext = shortCiphertextError{}

type shortCiphertextError struct{}

func (shortCiphertextError) Error() string { return "ciphertext shorter than nonce" }

// GenerateZeroCiphertext returns the AEAD ciphertext that GRR3 derives
// the implicit (00) table row from: the encryption of a string of `length`
// zero bytes under the composite key derived from (keyA, keyB), with the
// nonce itself derived deterministically from (keyA, keyB) via HKDF-SHA256
// so that both parties reconstruct the identical ciphertext without
// transmitting it. A random nonce would make this irreproducible by the
// evaluator, which is why it is not used here.
func GenerateZeroCiphertext(keyA, keyB Key, length int) ([]byte, error) {
	composite := CompositeKey(keyA, keyB)
	aead, err := newAEAD(composite)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	kdf := hkdf.New(sha256New, append(append([]byte{}, keyA[:]...), keyB[:]...),
		nil, []byte("gabes-grr3-zero-ciphertext-nonce"))
	if _, err := io.ReadFull(kdf, nonce); err != nil {
		return nil, err
	}

	zero := make([]byte, length)
	return aead.Seal(nonce, nonce, zero, nil), nil
}

// CompositeKey derives the single AES key used to garble/ungarble the
// nested (outer=keyA, inner=keyB) ciphertext layout into the flat key
// GenerateZeroCiphertext needs.
func CompositeKey(keyA, keyB Key) Key {
	var composite Key
	h := sha256New()
	h.Write(keyA[:])
	h.Write(keyB[:])
	sum := h.Sum(nil)
	copy(composite[:], sum[:16])
	return composite
}
