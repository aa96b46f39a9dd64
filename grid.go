// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package life

import (
	"errors"
	"fmt"
)

// ErrEmptyGrid is returned for grids without rows or columns.
var ErrEmptyGrid = errors.New("grid is empty")

// Grid is a rectangular plaintext board. It is the ingestion format for the
// initial configuration and the reference the encrypted board is checked
// against.
type Grid struct {
	rows, cols int
	cells      []bool
}

// NewGrid validates rows and copies them into a Grid. Every row must have
// the same, non-zero, width; nothing is padded or truncated.
func NewGrid(rows [][]bool) (Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Grid{}, ErrEmptyGrid
	}
	cols := len(rows[0])
	cells := make([]bool, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return Grid{}, fmt.Errorf("%w: row %d has %d cells, row 0 has %d", ErrNotRectangular, i, len(row), cols)
		}
		cells = append(cells, row...)
	}
	return Grid{rows: len(rows), cols: cols, cells: cells}, nil
}

// GridFromCells builds a Grid from row-major cells, e.g. a decrypted
// Generation.
func GridFromCells(rows, cols int, cells []bool) (Grid, error) {
	if rows <= 0 || cols <= 0 {
		return Grid{}, ErrEmptyGrid
	}
	if len(cells) != rows*cols {
		return Grid{}, fmt.Errorf("%w: %d cells for %dx%d", ErrNotRectangular, len(cells), rows, cols)
	}
	return Grid{rows: rows, cols: cols, cells: append([]bool(nil), cells...)}, nil
}

func (g Grid) Rows() int { return g.rows }

func (g Grid) Cols() int { return g.cols }

// Alive reports the state of (i, j), wrapping both coordinates.
func (g Grid) Alive(i, j int) bool {
	return g.cells[wrap(i, g.rows)*g.cols+wrap(j, g.cols)]
}

// Population returns the number of live cells.
func (g Grid) Population() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// Cells returns a row-major copy of the cells.
func (g Grid) Cells() []bool {
	return append([]bool(nil), g.cells...)
}

// Equal reports whether both grids have the same shape and cells.
func (g Grid) Equal(o Grid) bool {
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Step returns the next generation under the plaintext rule, with the same
// toroidal neighbourhood as the encrypted board.
func (g Grid) Step() Grid {
	next := make([]bool, len(g.cells))
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			n := 0
			for _, d := range offsets {
				if g.Alive(i+d[0], j+d[1]) {
					n++
				}
			}
			alive := g.cells[i*g.cols+j]
			next[i*g.cols+j] = n == 3 || (alive && n == 2)
		}
	}
	return Grid{rows: g.rows, cols: g.cols, cells: next}
}

// String draws the grid with O for live and . for dead cells.
func (g Grid) String() string {
	buf := make([]byte, 0, g.rows*(g.cols+1))
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			if g.cells[i*g.cols+j] {
				buf = append(buf, 'O')
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

// EncryptGrid encrypts every cell of g and returns the board holding them.
// It runs on the key holder's side.
func EncryptGrid[C any](g Grid, encrypt func(bool) (C, error)) (*Board[C], error) {
	cells := make([]C, len(g.cells))
	for k, v := range g.cells {
		ct, err := encrypt(v)
		if err != nil {
			return nil, fmt.Errorf("encrypt cell (%d, %d): %w", k/g.cols, k%g.cols, err)
		}
		cells[k] = ct
	}
	return NewBoard(g.cols, cells)
}

// EncryptZero encrypts the counter seed.
func EncryptZero[C any](encrypt func(bool) (C, error)) (ZeroTriple[C], error) {
	var z ZeroTriple[C]
	for i := range z {
		ct, err := encrypt(false)
		if err != nil {
			return z, fmt.Errorf("encrypt zero bit %d: %w", i, err)
		}
		z[i] = ct
	}
	return z, nil
}

// DecryptGeneration decrypts every cell of gen into a Grid. It runs on the
// key holder's side.
func DecryptGeneration[C any](gen Generation[C], decrypt func(C) bool) (Grid, error) {
	cells := make([]bool, len(gen.Cells))
	for k, c := range gen.Cells {
		cells[k] = decrypt(c)
	}
	return GridFromCells(gen.Rows, gen.Cols, cells)
}
