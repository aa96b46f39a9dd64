// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package life runs Conway's Game of Life on an encrypted board.
//
// Cells are ciphertexts of single bits. The neighbour count and the
// birth/survival rule are evaluated as boolean circuits of homomorphic gates,
// so the board is advanced without ever being decrypted. The package is
// generic over the ciphertext type C; *fhe.Evaluator implements Gates for
// *fhe.Ciphertext.
package life

import "fmt"

// Gates is the gate surface the circuits are built from. An implementation
// may hold mutable scratch state and is never called from two goroutines at
// once by this package.
type Gates[C any] interface {
	AND(a, b C) (C, error)
	OR(a, b C) (C, error)
	XOR(a, b C) (C, error)
	NOT(a C) C
}

// Sum is a 3-bit encrypted counter, least significant bit first.
type Sum[C any] [3]C

// ZeroTriple is Sum's encrypted zero. It must be encrypted under the same key
// as the board it is used with.
type ZeroTriple[C any] Sum[C]

// Neighbors holds the 8 cells surrounding a position.
type Neighbors[C any] [8]C

// AddBit folds one encrypted bit into a running 3-bit sum. The carry out of
// bit 2 is dropped, so the counter wraps at 8.
func AddBit[C any](g Gates[C], a C, s Sum[C]) (Sum[C], error) {
	var out Sum[C]
	var err error

	if out[0], err = g.XOR(a, s[0]); err != nil {
		return out, err
	}
	carry, err := g.AND(a, s[0])
	if err != nil {
		return out, err
	}
	if out[1], err = g.XOR(carry, s[1]); err != nil {
		return out, err
	}
	if carry, err = g.AND(carry, s[1]); err != nil {
		return out, err
	}
	if out[2], err = g.XOR(carry, s[2]); err != nil {
		return out, err
	}
	return out, nil
}

// Count returns the number of true neighbours modulo 8. Each fold depends on
// the previous one, so a single count cannot be parallelised.
func Count[C any](g Gates[C], n Neighbors[C], zero ZeroTriple[C]) (Sum[C], error) {
	sum := Sum[C](zero)
	for i, a := range n {
		var err error
		if sum, err = AddBit(g, a, sum); err != nil {
			return sum, fmt.Errorf("count neighbour %d: %w", i, err)
		}
	}
	return sum, nil
}

// Next applies the birth/survival rule: alive next generation iff the sum is
// 3, or the cell is alive and the sum is 2.
//
//	twoOrThree = s1 AND NOT s2        (010, 011)
//	three      = s0 AND twoOrThree    (011)
//	next       = three OR (cell AND twoOrThree)
func Next[C any](g Gates[C], cell C, s Sum[C]) (C, error) {
	var zero C

	twoOrThree, err := g.AND(s[1], g.NOT(s[2]))
	if err != nil {
		return zero, fmt.Errorf("sum is 2 or 3: %w", err)
	}
	three, err := g.AND(s[0], twoOrThree)
	if err != nil {
		return zero, fmt.Errorf("sum is 3: %w", err)
	}
	survives, err := g.AND(cell, twoOrThree)
	if err != nil {
		return zero, fmt.Errorf("survival: %w", err)
	}
	next, err := g.OR(three, survives)
	if err != nil {
		return zero, fmt.Errorf("next state: %w", err)
	}
	return next, nil
}

// Cell computes a cell's next state from its current state and neighbours.
func Cell[C any](g Gates[C], cell C, n Neighbors[C], zero ZeroTriple[C]) (C, error) {
	sum, err := Count(g, n, zero)
	if err != nil {
		var none C
		return none, err
	}
	return Next(g, cell, sum)
}
