// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package life_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/life"
	"github.com/luxfi/life/fhe"
)

type encrypted struct {
	enc  *fhe.Encryptor
	dec  *fhe.Decryptor
	eval *fhe.Evaluator
	zero life.ZeroTriple[*fhe.Ciphertext]
}

func newEncrypted(t *testing.T) *encrypted {
	t.Helper()

	params, err := fhe.NewParametersFromLiteral(fhe.PN10QP27)
	require.NoError(t, err)

	kgen := fhe.NewKeyGenerator(params)
	sk := kgen.GenSecretKey()
	bsk := kgen.GenBootstrapKey(sk)

	e := &encrypted{
		enc:  fhe.NewEncryptor(params, sk),
		dec:  fhe.NewDecryptor(params, sk),
		eval: fhe.NewEvaluator(params, bsk),
	}
	e.zero, err = life.EncryptZero(e.enc.Encrypt)
	require.NoError(t, err)
	return e
}

func (e *encrypted) pool(t *testing.T, k int) *life.Pool[*fhe.Ciphertext] {
	t.Helper()
	evaluators := []life.Gates[*fhe.Ciphertext]{e.eval}
	for len(evaluators) < k {
		evaluators = append(evaluators, e.eval.ShallowCopy())
	}
	pool, err := life.NewPool(evaluators...)
	require.NoError(t, err)
	return pool
}

func TestEncryptedCount(t *testing.T) {
	if testing.Short() {
		t.Skip("bootstrapping is slow")
	}
	e := newEncrypted(t)

	for _, v := range []uint8{0b00000000, 0b10110001, 0b11111111, 0b01110110} {
		var n life.Neighbors[*fhe.Ciphertext]
		want := 0
		for i := range n {
			bit := v&(1<<i) != 0
			if bit {
				want++
			}
			ct, err := e.enc.Encrypt(bit)
			require.NoError(t, err)
			n[i] = ct
		}

		sum, err := life.Count[*fhe.Ciphertext](e.eval, n, e.zero)
		require.NoError(t, err)

		got := 0
		for i, b := range sum {
			if e.dec.Decrypt(b) {
				got |= 1 << i
			}
		}
		require.Equal(t, want%8, got, "neighbours %08b", v)
	}
}

func TestEncryptedIsolatedCellDies(t *testing.T) {
	if testing.Short() {
		t.Skip("bootstrapping is slow")
	}
	e := newEncrypted(t)

	grid, err := life.NewGrid([][]bool{
		{false, false, false},
		{false, true, false},
		{false, false, false},
	})
	require.NoError(t, err)

	board, err := life.EncryptGrid(grid, e.enc.Encrypt)
	require.NoError(t, err)

	sched := life.NewScheduler(e.pool(t, 4), e.zero)
	require.NoError(t, board.Evolve(context.Background(), sched))

	got, err := life.DecryptGeneration(board.Snapshot(), e.dec.Decrypt)
	require.NoError(t, err)
	require.True(t, grid.Step().Equal(got))
	require.Zero(t, got.Population())
}

func TestEncryptedBlinkerMatchesPlaintext(t *testing.T) {
	if testing.Short() {
		t.Skip("bootstrapping is slow")
	}
	e := newEncrypted(t)

	grid, err := life.NewGrid([][]bool{
		{false, true, false, false},
		{false, true, false, false},
		{false, true, false, false},
		{false, false, false, false},
	})
	require.NoError(t, err)

	board, err := life.EncryptGrid(grid, e.enc.Encrypt)
	require.NoError(t, err)
	sched := life.NewScheduler(e.pool(t, 3), e.zero)

	want := grid
	for gen := 0; gen < 2; gen++ {
		require.NoError(t, board.Evolve(context.Background(), sched))
		want = want.Step()

		got, err := life.DecryptGeneration(board.Snapshot(), e.dec.Decrypt)
		require.NoError(t, err)
		require.True(t, want.Equal(got), "generation %d:\nwant\n%sgot\n%s", gen+1, want, got)
	}
}

func TestZeroTripleUnderForeignKeyIsFatal(t *testing.T) {
	e := newEncrypted(t)
	foreign := newEncrypted(t)

	grid, err := life.NewGrid([][]bool{{true, false}, {false, true}})
	require.NoError(t, err)
	board, err := life.EncryptGrid(grid, e.enc.Encrypt)
	require.NoError(t, err)
	before := board.Snapshot()

	sched := life.NewScheduler(e.pool(t, 2), foreign.zero)
	err = board.Evolve(context.Background(), sched)
	require.ErrorIs(t, err, fhe.ErrKeyMismatch)
	require.Equal(t, before.Index, board.Generation())
	require.Equal(t, before.Cells, board.Snapshot().Cells)
}
