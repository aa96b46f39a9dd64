// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/life"
	"github.com/luxfi/life/internal/config"
	"github.com/luxfi/life/internal/pattern"
	"github.com/luxfi/life/internal/render"
)

type boolGates struct {
	brokenOR bool
}

func (g boolGates) AND(a, b bool) (bool, error) { return a && b, nil }

func (g boolGates) OR(a, b bool) (bool, error) {
	if g.brokenOR {
		return false, nil
	}
	return a || b, nil
}

func (g boolGates) XOR(a, b bool) (bool, error) { return a != b, nil }

func (g boolGates) NOT(a bool) bool { return !a }

func plainSession(t *testing.T, grid life.Grid, gates boolGates, out *bytes.Buffer) *session[bool] {
	t.Helper()
	board, err := life.EncryptGrid(grid, func(v bool) (bool, error) { return v, nil })
	require.NoError(t, err)
	pool, err := life.NewPool[bool](gates, gates)
	require.NoError(t, err)
	return &session[bool]{
		board:    board,
		sched:    life.NewScheduler(pool, life.ZeroTriple[bool]{}),
		renderer: render.New[bool](out, render.DecrypterFunc[bool](func(v bool) bool { return v }), render.Glyphs{Alive: "O", Dead: "."}),
		log:      log.Root(),
	}
}

func TestLoopRendersEachGeneration(t *testing.T) {
	grid, err := pattern.Builtin("blinker")
	require.NoError(t, err)

	var out bytes.Buffer
	s := plainSession(t, grid, boolGates{}, &out)
	cfg := config.Config{Generations: 3, Verify: true}
	require.NoError(t, s.loop(context.Background(), cfg, grid))

	require.EqualValues(t, 3, s.board.Generation())
	text := out.String()
	for _, header := range []string{
		"generation 0  population 3\n",
		"generation 1  population 3\n",
		"generation 3  population 3\n",
	} {
		require.Contains(t, text, header)
	}
	require.Contains(t, text, ".....\n.OOO.\n.....\n")
}

func TestLoopDetectsDivergence(t *testing.T) {
	grid, err := pattern.Builtin("block")
	require.NoError(t, err)

	var out bytes.Buffer
	s := plainSession(t, grid, boolGates{brokenOR: true}, &out)
	err = s.loop(context.Background(), config.Config{Generations: 2, Verify: true}, grid)
	require.ErrorIs(t, err, ErrDiverged)
	require.ErrorContains(t, err, "generation 1")
}

func TestLoopStopsOnCancel(t *testing.T) {
	grid, err := pattern.Builtin("glider")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := plainSession(t, grid, boolGates{}, &out)
	require.NoError(t, s.loop(ctx, config.Config{}, grid))
	require.Zero(t, s.board.Generation())
	require.Equal(t, 1, strings.Count(out.String(), "generation"))
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	require.Equal(t, "fhe-life dev (built unknown)\n", out.String())
}

func TestRunRejectsEmptyPool(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--evaluators=-1"})
	require.ErrorIs(t, root.Execute(), config.ErrInvalidPoolSize)
}

func TestRunEncrypted(t *testing.T) {
	if testing.Short() {
		t.Skip("bootstrapping is slow")
	}

	path := filepath.Join(t.TempDir(), "lonely.cells")
	require.NoError(t, os.WriteFile(path, []byte("! a single cell dies\nO\n"), 0o600))

	cfg := config.Config{
		Board:       path,
		Evaluators:  2,
		Generations: 1,
		Params:      "PN10QP27",
		AliveGlyph:  "#",
		DeadGlyph:   "-",
		Verify:      true,
	}
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &out, log.Root()))
	require.Equal(t, "generation 0  population 1\n#\n\ngeneration 1  population 0\n-\n\n", out.String())
}
