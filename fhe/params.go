// Package fhe implements the boolean TFHE gates the encrypted board runs on.
//
// Bits are encrypted as LWE samples and every binary gate is followed by a
// programmable bootstrap, so arbitrarily deep circuits can be evaluated without
// decrypting. Built on luxfi/lattice primitives:
//   - LWE encryption for bits
//   - RGSW for bootstrap keys
//   - Blind rotations for programmable bootstrapping
//
// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause
package fhe

import (
	"fmt"
	"sort"

	"github.com/luxfi/lattice/v7/core/rlwe"
	"github.com/luxfi/lattice/v7/utils"
)

// Parameters defines the FHE parameter set
type Parameters struct {
	// paramsLWE defines parameters for LWE samples (encrypted bits)
	paramsLWE rlwe.Parameters
	// paramsBR defines parameters for blind rotation (bootstrapping)
	paramsBR rlwe.Parameters
	// evkParams defines evaluation key decomposition
	evkParams rlwe.EvaluationKeyParameters
}

// ParametersLiteral is a user-friendly parameter specification
type ParametersLiteral struct {
	// LogNLWE is log2 of the LWE dimension (typically 9-10)
	LogNLWE int
	// LogNBR is log2 of the blind rotation dimension (typically 10-11)
	LogNBR int
	// QLWE is the LWE modulus
	QLWE uint64
	// QBR is the blind rotation modulus
	QBR uint64
	// BaseTwoDecomposition for key switching (typically 7-10)
	BaseTwoDecomposition int
}

// Standard parameter sets
var (
	// PN10QP27 provides ~128-bit security with good performance.
	// LWE and BR share N=1024, Q=134215681 so no modulus switch is needed.
	PN10QP27 = ParametersLiteral{
		LogNLWE:              10,
		LogNBR:               10,
		QLWE:                 0x7fff801,
		QBR:                  0x7fff801,
		BaseTwoDecomposition: 7,
	}

	// PN11QP54 provides ~128-bit security with higher precision.
	// N=2048, Q=~2^54
	PN11QP54 = ParametersLiteral{
		LogNLWE:              11,
		LogNBR:               11,
		QLWE:                 0x3FFFFFFFFFC0001,
		QBR:                  0x3FFFFFFFFFC0001,
		BaseTwoDecomposition: 10,
	}

	// PN9QP28_STD128 is the closest power-of-two match to OpenFHE's
	// STD128_LMKCDEY (LWEDim=447 there, 512 here). Q ≡ 1 (mod 2048).
	PN9QP28_STD128 = ParametersLiteral{
		LogNLWE:              9,
		LogNBR:               10,
		QLWE:                 0x10001801,
		QBR:                  0x10001801,
		BaseTwoDecomposition: 5,
	}

	// PN9QP27_STD128Q is the post-quantum counterpart of PN9QP28_STD128
	// (OpenFHE STD128Q_LMKCDEY, LWEDim=483 there).
	PN9QP27_STD128Q = ParametersLiteral{
		LogNLWE:              9,
		LogNBR:               10,
		QLWE:                 0x8007001,
		QBR:                  0x8007001,
		BaseTwoDecomposition: 5,
	}
)

var presets = map[string]ParametersLiteral{
	"PN10QP27":        PN10QP27,
	"PN11QP54":        PN11QP54,
	"PN9QP28_STD128":  PN9QP28_STD128,
	"PN9QP27_STD128Q": PN9QP27_STD128Q,
}

// PresetNames returns the names accepted by ParametersByName, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParametersByName returns the preset literal registered under name.
func ParametersByName(name string) (ParametersLiteral, error) {
	lit, ok := presets[name]
	if !ok {
		return ParametersLiteral{}, fmt.Errorf("unknown parameter set %q (have %v)", name, PresetNames())
	}
	return lit, nil
}

// NewParametersFromLiteral creates Parameters from a literal specification
func NewParametersFromLiteral(lit ParametersLiteral) (params Parameters, err error) {
	params.paramsLWE, err = rlwe.NewParametersFromLiteral(rlwe.ParametersLiteral{
		LogN:    lit.LogNLWE,
		Q:       []uint64{lit.QLWE},
		NTTFlag: true,
	})
	if err != nil {
		return
	}

	params.paramsBR, err = rlwe.NewParametersFromLiteral(rlwe.ParametersLiteral{
		LogN:    lit.LogNBR,
		Q:       []uint64{lit.QBR},
		NTTFlag: true,
	})
	if err != nil {
		return
	}

	params.evkParams = rlwe.EvaluationKeyParameters{
		BaseTwoDecomposition: utils.Pointy(lit.BaseTwoDecomposition),
	}

	return
}

// N returns the LWE dimension
func (p Parameters) N() int {
	return p.paramsLWE.N()
}

// NBR returns the blind rotation dimension
func (p Parameters) NBR() int {
	return p.paramsBR.N()
}

// QLWE returns the LWE modulus
func (p Parameters) QLWE() uint64 {
	return p.paramsLWE.Q()[0]
}

// QBR returns the blind rotation modulus
func (p Parameters) QBR() uint64 {
	return p.paramsBR.Q()[0]
}

// sameRing reports whether LWE samples and blind rotation outputs live in
// the same ring, in which case bootstrapped ciphertexts need no conversion.
func (p Parameters) sameRing() bool {
	return p.N() == p.NBR() && p.QLWE() == p.QBR()
}
