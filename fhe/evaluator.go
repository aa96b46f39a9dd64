// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package fhe

import (
	"errors"
	"fmt"

	"github.com/luxfi/lattice/v7/core/rgsw/blindrot"
	"github.com/luxfi/lattice/v7/core/rlwe"
	"github.com/luxfi/lattice/v7/ring"
)

// ErrKeyMismatch is returned by every gate whose operands were not encrypted
// under the evaluator's key. It is never recoverable: the gate result would be
// meaningless.
var ErrKeyMismatch = errors.New("ciphertext key does not match evaluator key")

// Evaluator evaluates boolean gates on encrypted data without the secret key.
//
// An Evaluator owns blind rotation scratch buffers and must not be used by
// two goroutines at once. Use ShallowCopy to obtain independent evaluators
// for the same key.
type Evaluator struct {
	params   Parameters
	eval     *blindrot.Evaluator
	bsk      *BootstrapKey
	ringQLWE *ring.Ring
	ringQBR  *ring.Ring
}

// NewEvaluator creates a new evaluator with bootstrap key.
func NewEvaluator(params Parameters, bsk *BootstrapKey) *Evaluator {
	return &Evaluator{
		params:   params,
		eval:     blindrot.NewEvaluator(params.paramsBR, params.paramsLWE),
		bsk:      bsk,
		ringQLWE: params.paramsLWE.RingQ(),
		ringQBR:  params.paramsBR.RingQ(),
	}
}

// ShallowCopy returns an evaluator sharing the bootstrap key but with its own
// scratch buffers. The copy computes exactly what the original computes and
// can be used concurrently with it.
func (eval *Evaluator) ShallowCopy() *Evaluator {
	return NewEvaluator(eval.params, eval.bsk)
}

// Key returns the ID of the key the evaluator's bootstrap key belongs to.
func (eval *Evaluator) Key() KeyID {
	return eval.bsk.KeyID
}

func (eval *Evaluator) checkKeys(cts ...*Ciphertext) error {
	for _, ct := range cts {
		if ct.key != eval.bsk.KeyID {
			return fmt.Errorf("%w: ciphertext %s, evaluator %s", ErrKeyMismatch, ct.key, eval.bsk.KeyID)
		}
	}
	return nil
}

// toLWE converts a blind rotation output to an LWE ciphertext. In the
// recommended configuration (same ring) this is a copy.
func (eval *Evaluator) toLWE(ctBR *rlwe.Ciphertext) *Ciphertext {
	if eval.params.sameRing() {
		return &Ciphertext{Ciphertext: ctBR.CopyNew(), key: eval.bsk.KeyID}
	}

	ringQBR := eval.ringQBR.AtLevel(ctBR.Level())
	qBR := eval.params.QBR()
	qLWE := eval.params.QLWE()

	c0 := ctBR.Value[0].CopyNew()
	c1 := ctBR.Value[1].CopyNew()
	if ctBR.IsNTT {
		ringQBR.INTT(*c0, *c0)
		ringQBR.INTT(*c1, *c1)
	}

	ctLWE := rlwe.NewCiphertext(eval.params.paramsLWE, 1, eval.params.paramsLWE.MaxLevel())

	// Scale the first N_LWE coefficients from Q_BR to Q_LWE.
	scaleFactor := float64(qLWE) / float64(qBR)
	for i := 0; i < eval.params.N(); i++ {
		ctLWE.Value[0].Coeffs[0][i] = uint64(float64(c0.Coeffs[0][i])*scaleFactor+0.5) % qLWE
		ctLWE.Value[1].Coeffs[0][i] = uint64(float64(c1.Coeffs[0][i])*scaleFactor+0.5) % qLWE
	}

	ringQLWE := eval.ringQLWE.AtLevel(eval.params.paramsLWE.MaxLevel())
	ringQLWE.NTT(ctLWE.Value[0], ctLWE.Value[0])
	ringQLWE.NTT(ctLWE.Value[1], ctLWE.Value[1])
	ctLWE.IsNTT = true

	return &Ciphertext{Ciphertext: ctLWE, key: eval.bsk.KeyID}
}

// bootstrap performs programmable bootstrapping with the given test
// polynomial and returns a fresh LWE ciphertext. No decryption takes place.
func (eval *Evaluator) bootstrap(ct *Ciphertext, testPoly *ring.Poly) (*Ciphertext, error) {
	results, err := eval.eval.Evaluate(ct.Ciphertext, map[int]*ring.Poly{0: testPoly}, eval.bsk.BRK)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	ctBR, ok := results[0]
	if !ok {
		return nil, fmt.Errorf("bootstrap: no result for slot 0")
	}

	return eval.toLWE(ctBR), nil
}

// linear applies op to both polynomials of ct1 (and ct2) into a new
// ciphertext carrying ct1's key.
func (eval *Evaluator) linear(ct1 *Ciphertext, op func(out *rlwe.Ciphertext)) *Ciphertext {
	result := rlwe.NewCiphertext(eval.params.paramsLWE, 1, ct1.Level())
	op(result)
	result.IsNTT = ct1.IsNTT
	return &Ciphertext{Ciphertext: result, key: ct1.key}
}

func (eval *Evaluator) add(ct1, ct2 *Ciphertext) *Ciphertext {
	return eval.linear(ct1, func(out *rlwe.Ciphertext) {
		eval.ringQLWE.Add(ct1.Value[0], ct2.Value[0], out.Value[0])
		eval.ringQLWE.Add(ct1.Value[1], ct2.Value[1], out.Value[1])
	})
}

func (eval *Evaluator) double(ct *Ciphertext) *Ciphertext {
	return eval.add(ct, ct)
}

// ========== Boolean Gates ==========

// NOT computes the logical NOT of the input.
// Negation flips the sign of the encoded ±Q/8 and costs no bootstrap.
func (eval *Evaluator) NOT(ct *Ciphertext) *Ciphertext {
	return eval.linear(ct, func(out *rlwe.Ciphertext) {
		eval.ringQLWE.Neg(ct.Value[0], out.Value[0])
		eval.ringQLWE.Neg(ct.Value[1], out.Value[1])
	})
}

// AND computes the logical AND of two inputs
func (eval *Evaluator) AND(ct1, ct2 *Ciphertext) (*Ciphertext, error) {
	if err := eval.checkKeys(ct1, ct2); err != nil {
		return nil, err
	}
	return eval.bootstrap(eval.add(ct1, ct2), eval.bsk.TestPolyAND)
}

// OR computes the logical OR of two inputs
func (eval *Evaluator) OR(ct1, ct2 *Ciphertext) (*Ciphertext, error) {
	if err := eval.checkKeys(ct1, ct2); err != nil {
		return nil, err
	}
	return eval.bootstrap(eval.add(ct1, ct2), eval.bsk.TestPolyOR)
}

// XOR computes the logical XOR of two inputs with a single bootstrap on
// 2*(ct1+ct2): doubling wraps (T,T) onto (F,F).
func (eval *Evaluator) XOR(ct1, ct2 *Ciphertext) (*Ciphertext, error) {
	if err := eval.checkKeys(ct1, ct2); err != nil {
		return nil, err
	}
	return eval.bootstrap(eval.double(eval.add(ct1, ct2)), eval.bsk.TestPolyXOR)
}

// Refresh bootstraps a ciphertext to reduce noise
func (eval *Evaluator) Refresh(ct *Ciphertext) (*Ciphertext, error) {
	if err := eval.checkKeys(ct); err != nil {
		return nil, err
	}
	return eval.bootstrap(ct, eval.bsk.TestPolyID)
}
