// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package life

import (
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// plainGates evaluates the circuits on plaintext bits.
type plainGates struct {
	calls atomic.Int64
}

func (g *plainGates) AND(a, b bool) (bool, error) {
	g.calls.Add(1)
	return a && b, nil
}

func (g *plainGates) OR(a, b bool) (bool, error) {
	g.calls.Add(1)
	return a || b, nil
}

func (g *plainGates) XOR(a, b bool) (bool, error) {
	g.calls.Add(1)
	return a != b, nil
}

func (g *plainGates) NOT(a bool) bool { return !a }

// exclusiveGates fails the test if it is entered by two goroutines at once.
type exclusiveGates struct {
	t     *testing.T
	inUse atomic.Bool
	used  atomic.Int64
}

func (g *exclusiveGates) enter() {
	if !g.inUse.CompareAndSwap(false, true) {
		g.t.Error("evaluator used concurrently")
	}
	g.used.Add(1)
}

func (g *exclusiveGates) leave() { g.inUse.Store(false) }

func (g *exclusiveGates) AND(a, b bool) (bool, error) {
	g.enter()
	defer g.leave()
	return a && b, nil
}

func (g *exclusiveGates) OR(a, b bool) (bool, error) {
	g.enter()
	defer g.leave()
	return a || b, nil
}

func (g *exclusiveGates) XOR(a, b bool) (bool, error) {
	g.enter()
	defer g.leave()
	return a != b, nil
}

func (g *exclusiveGates) NOT(a bool) bool { return !a }

var errForeignKey = errors.New("foreign key")

// keyed is a plaintext bit tagged with the key it was "encrypted" under.
type keyed struct {
	v   bool
	key int
}

type keyedGates struct{ key int }

func (g keyedGates) check(cts ...keyed) error {
	for _, c := range cts {
		if c.key != g.key {
			return errForeignKey
		}
	}
	return nil
}

func (g keyedGates) AND(a, b keyed) (keyed, error) {
	return keyed{a.v && b.v, g.key}, g.check(a, b)
}

func (g keyedGates) OR(a, b keyed) (keyed, error) {
	return keyed{a.v || b.v, g.key}, g.check(a, b)
}

func (g keyedGates) XOR(a, b keyed) (keyed, error) {
	return keyed{a.v != b.v, g.key}, g.check(a, b)
}

func (g keyedGates) NOT(a keyed) keyed { return keyed{!a.v, a.key} }

func plainEncrypt(v bool) (bool, error) { return v, nil }

func plainDecrypt(v bool) bool { return v }

func plainPool(t *testing.T, k int) *Pool[bool] {
	t.Helper()
	evaluators := make([]Gates[bool], k)
	for i := range evaluators {
		evaluators[i] = &plainGates{}
	}
	pool, err := NewPool(evaluators...)
	require.NoError(t, err)
	return pool
}

func plainScheduler(t *testing.T, k int, opts ...Option) *Scheduler[bool] {
	t.Helper()
	return NewScheduler(plainPool(t, k), ZeroTriple[bool]{}, opts...)
}

func mustGrid(t *testing.T, rows ...string) Grid {
	t.Helper()
	cells := make([][]bool, len(rows))
	for i, r := range rows {
		cells[i] = make([]bool, len(r))
		for j, c := range r {
			cells[i][j] = c == 'O'
		}
	}
	g, err := NewGrid(cells)
	require.NoError(t, err)
	return g
}

func randomGrid(t *testing.T, rng *rand.Rand, rows, cols int) Grid {
	t.Helper()
	cells := make([][]bool, rows)
	for i := range cells {
		cells[i] = make([]bool, cols)
		for j := range cells[i] {
			cells[i][j] = rng.Intn(3) == 0
		}
	}
	g, err := NewGrid(cells)
	require.NoError(t, err)
	return g
}

func decrypted[C any](t *testing.T, b *Board[C], decrypt func(C) bool) Grid {
	t.Helper()
	g, err := DecryptGeneration(b.Snapshot(), decrypt)
	require.NoError(t, err)
	return g
}
