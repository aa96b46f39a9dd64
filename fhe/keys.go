// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package fhe

import (
	"crypto/rand"

	"github.com/luxfi/ids"
	"github.com/luxfi/lattice/v7/core/rgsw/blindrot"
	"github.com/luxfi/lattice/v7/core/rlwe"
	"github.com/luxfi/lattice/v7/ring"
)

// KeyID identifies the secret key a ciphertext or bootstrap key belongs to.
// It is a random tag, not derived from key material.
type KeyID = ids.ID

// SecretKey contains the LWE and RLWE secret keys
type SecretKey struct {
	// LWE secret key for encrypting bits
	SKLWE *rlwe.SecretKey
	// RLWE secret key for blind rotation results
	SKBR *rlwe.SecretKey
	// ID tags every ciphertext and bootstrap key derived from this key
	ID KeyID
}

// BootstrapKey contains the keys needed for bootstrapping.
// It is read-only after generation and may be shared by any number of
// evaluators.
type BootstrapKey struct {
	// BRK is the blind rotation key (RGSW encryptions of LWE secret key bits)
	BRK blindrot.BlindRotationEvaluationKeySet
	// TestPolyAND is the test polynomial for AND gate
	TestPolyAND *ring.Poly
	// TestPolyOR is the test polynomial for OR gate
	TestPolyOR *ring.Poly
	// TestPolyXOR is the test polynomial for XOR gate
	TestPolyXOR *ring.Poly
	// TestPolyID is the test polynomial for identity (refresh)
	TestPolyID *ring.Poly
	// KeyID is the ID of the secret key the bootstrap key was generated from
	KeyID KeyID

	params Parameters
}

// KeyGenerator generates FHE keys
type KeyGenerator struct {
	params  Parameters
	kgenLWE *rlwe.KeyGenerator
	kgenBR  *rlwe.KeyGenerator
	ringQBR *ring.Ring
	scaleBR float64
}

// NewKeyGenerator creates a new key generator
func NewKeyGenerator(params Parameters) *KeyGenerator {
	return &KeyGenerator{
		params:  params,
		kgenLWE: rlwe.NewKeyGenerator(params.paramsLWE),
		kgenBR:  rlwe.NewKeyGenerator(params.paramsBR),
		ringQBR: params.paramsBR.RingQ(),
		scaleBR: float64(params.QBR()) / 8.0, // [-1, 1] -> [-Q/8, Q/8]
	}
}

// GenSecretKey generates a new secret key pair with a fresh KeyID
func (kg *KeyGenerator) GenSecretKey() *SecretKey {
	var id KeyID
	_, _ = rand.Read(id[:])

	// Same dimension: one key serves both LWE and BR, no key switching.
	if kg.params.N() == kg.params.NBR() {
		sk := kg.kgenBR.GenSecretKeyNew()
		return &SecretKey{
			SKLWE: sk,
			SKBR:  sk,
			ID:    id,
		}
	}
	return &SecretKey{
		SKLWE: kg.kgenLWE.GenSecretKeyNew(),
		SKBR:  kg.kgenBR.GenSecretKeyNew(),
		ID:    id,
	}
}

// GenBootstrapKey generates the bootstrap key from secret keys
func (kg *KeyGenerator) GenBootstrapKey(sk *SecretKey) *BootstrapKey {
	brk := blindrot.GenEvaluationKeyNew(kg.params.paramsBR, sk.SKBR, kg.params.paramsLWE, sk.SKLWE, kg.params.evkParams)

	// With Q/8 encoding, after adding two bits the normalized positions are:
	// - true+true:   highest x (> 0.25)
	// - true+false:  middle x (in [-0.25, 0.25])
	// - false+false: lowest x (< -0.25)

	// AND: both inputs true. >= handles the exact 0.25 boundary.
	testPolyAND := kg.testPoly(func(x float64) bool { return x >= 0.25 })

	// OR: at least one input true.
	testPolyOR := kg.testPoly(func(x float64) bool { return x > -0.25 })

	// XOR is evaluated on 2*(a+b): (T,T) wraps to -0.5 like (F,F), so only
	// the mixed case lands near 0. 0.30 leaves margin for carry chains.
	testPolyXOR := kg.testPoly(func(x float64) bool { return x > -0.30 && x < 0.30 })

	testPolyID := kg.testPoly(func(x float64) bool { return x >= 0 })

	return &BootstrapKey{
		BRK:         brk,
		TestPolyAND: &testPolyAND,
		TestPolyOR:  &testPolyOR,
		TestPolyXOR: &testPolyXOR,
		TestPolyID:  &testPolyID,
		KeyID:       sk.ID,
		params:      kg.params,
	}
}

// testPoly builds the blind rotation test polynomial mapping the normalized
// phase x to +1 where truth(x) holds and -1 elsewhere.
func (kg *KeyGenerator) testPoly(truth func(x float64) bool) ring.Poly {
	return blindrot.InitTestPolynomial(func(x float64) float64 {
		if truth(x) {
			return 1.0
		}
		return -1.0
	}, rlwe.NewScale(kg.scaleBR), kg.ringQBR, -1, 1)
}
