// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package fhe

import (
	"fmt"

	"github.com/luxfi/lattice/v7/core/rlwe"
)

// Ciphertext is an encrypted bit. Gates never modify their operands; every
// operation returns a new Ciphertext.
type Ciphertext struct {
	*rlwe.Ciphertext
	key KeyID
}

// Key returns the ID of the secret key the ciphertext is valid under.
func (ct *Ciphertext) Key() KeyID {
	return ct.key
}

// Encryptor encrypts boolean values into FHE ciphertexts
type Encryptor struct {
	params    Parameters
	encryptor *rlwe.Encryptor
	key       KeyID
}

// NewEncryptor creates a new encryptor from secret key
func NewEncryptor(params Parameters, sk *SecretKey) *Encryptor {
	return &Encryptor{
		params:    params,
		encryptor: rlwe.NewEncryptor(params.paramsLWE, sk.SKLWE),
		key:       sk.ID,
	}
}

// Encrypt encrypts a boolean value
func (enc *Encryptor) Encrypt(value bool) (*Ciphertext, error) {
	pt := rlwe.NewPlaintext(enc.params.paramsLWE, enc.params.paramsLWE.MaxLevel())

	q := enc.params.QLWE()
	// Q/8 scale keeps sums of two bits distinguishable:
	// true -> +Q/8, false -> -Q/8.
	if value {
		pt.Value.Coeffs[0][0] = q / 8
	} else {
		pt.Value.Coeffs[0][0] = q - (q / 8)
	}

	enc.params.paramsLWE.RingQ().NTT(pt.Value, pt.Value)

	ct := rlwe.NewCiphertext(enc.params.paramsLWE, 1, enc.params.paramsLWE.MaxLevel())
	if err := enc.encryptor.Encrypt(pt, ct); err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	return &Ciphertext{Ciphertext: ct, key: enc.key}, nil
}
