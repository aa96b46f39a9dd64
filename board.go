// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package life

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrEmptyBoard     = errors.New("board has no cells")
	ErrNotRectangular = errors.New("cells do not form a rectangle")
)

// offsets lists the neighbour positions in the order Neighbors returns them:
// NW, N, NE, W, E, SW, S, SE.
var offsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Generation is a completed board state. Cells is in row-major order and
// has exactly Rows*Cols entries.
type Generation[C any] struct {
	Index uint64
	Rows  int
	Cols  int
	Cells []C
}

// At returns the cell at (i, j), wrapping both coordinates.
func (g Generation[C]) At(i, j int) C {
	return g.Cells[wrap(i, g.Rows)*g.Cols+wrap(j, g.Cols)]
}

// Neighbors returns the 8 cells around (i, j) on the torus. On boards with
// a dimension of 1 or 2 several offsets land on the same cell, possibly
// (i, j) itself; each is returned as often as it occurs.
func (g Generation[C]) Neighbors(i, j int) Neighbors[C] {
	var n Neighbors[C]
	for k, d := range offsets {
		n[k] = g.At(i+d[0], j+d[1])
	}
	return n
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// Board is a toroidal grid of encrypted cells. Each call to Evolve replaces
// the whole state at once; readers only ever see complete generations.
type Board[C any] struct {
	rows, cols int

	// evolveMu orders generations: a step starts only after the previous
	// one has been swapped in.
	evolveMu sync.Mutex

	mu         sync.RWMutex
	cells      []C
	generation uint64
}

// NewBoard creates a board of len(cells)/cols rows. cells is taken over by
// the board and must not be modified afterwards.
func NewBoard[C any](cols int, cells []C) (*Board[C], error) {
	if cols <= 0 || len(cells) == 0 {
		return nil, ErrEmptyBoard
	}
	if len(cells)%cols != 0 {
		return nil, fmt.Errorf("%w: %d cells, %d columns", ErrNotRectangular, len(cells), cols)
	}
	return &Board[C]{
		rows:  len(cells) / cols,
		cols:  cols,
		cells: cells,
	}, nil
}

func (b *Board[C]) Rows() int { return b.rows }

func (b *Board[C]) Cols() int { return b.cols }

// Generation returns the index of the current generation, 0 for the
// initial configuration.
func (b *Board[C]) Generation() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.generation
}

// Snapshot returns the current generation. The returned Cells slice is a
// copy and may be kept by the caller.
func (b *Board[C]) Snapshot() Generation[C] {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Generation[C]{
		Index: b.generation,
		Rows:  b.rows,
		Cols:  b.cols,
		Cells: append([]C(nil), b.cells...),
	}
}

// Neighbors returns the 8 neighbours of (i, j) in the current generation.
func (b *Board[C]) Neighbors(i, j int) Neighbors[C] {
	return b.current().Neighbors(i, j)
}

// current returns the live generation without copying. The cell slice is
// never written after it is published, so sharing it is safe.
func (b *Board[C]) current() Generation[C] {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Generation[C]{Index: b.generation, Rows: b.rows, Cols: b.cols, Cells: b.cells}
}

// Evolve advances the board by one generation using s. Every cell is
// computed from the pre-step state; the new state is published in a single
// swap once all cells are done. On error the board is left unchanged.
func (b *Board[C]) Evolve(ctx context.Context, s *Scheduler[C]) error {
	b.evolveMu.Lock()
	defer b.evolveMu.Unlock()

	cur := b.current()
	next, err := s.Step(ctx, cur)
	if err != nil {
		return fmt.Errorf("generation %d: %w", cur.Index+1, err)
	}

	b.mu.Lock()
	b.cells = next
	b.generation = cur.Index + 1
	b.mu.Unlock()
	return nil
}
