// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package render draws decrypted generations as text.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/luxfi/life"
)

// Decrypter recovers the plaintext of a cell. Only the key holder can
// provide one.
type Decrypter[C any] interface {
	Decrypt(C) bool
}

// DecrypterFunc adapts a function to Decrypter.
type DecrypterFunc[C any] func(C) bool

func (f DecrypterFunc[C]) Decrypt(c C) bool { return f(c) }

// Glyphs are the strings drawn for live and dead cells.
type Glyphs struct {
	Alive string
	Dead  string
}

// DefaultGlyphs draws full and light shade blocks.
var DefaultGlyphs = Glyphs{Alive: "█", Dead: "░"}

// Renderer writes generations to an io.Writer.
type Renderer[C any] struct {
	w      io.Writer
	dec    Decrypter[C]
	glyphs Glyphs
}

func New[C any](w io.Writer, dec Decrypter[C], glyphs Glyphs) *Renderer[C] {
	return &Renderer[C]{w: w, dec: dec, glyphs: glyphs}
}

// Render decrypts gen and writes a header line followed by one line per row.
// The decrypted grid is returned so callers can inspect it without
// decrypting twice.
func (r *Renderer[C]) Render(gen life.Generation[C]) (life.Grid, error) {
	grid, err := life.DecryptGeneration(gen, r.dec.Decrypt)
	if err != nil {
		return life.Grid{}, err
	}
	return grid, r.write(gen.Index, grid)
}

func (r *Renderer[C]) write(index uint64, grid life.Grid) error {
	bw := bufio.NewWriter(r.w)
	fmt.Fprintf(bw, "generation %d  population %d\n", index, grid.Population())

	var line strings.Builder
	for i := 0; i < grid.Rows(); i++ {
		line.Reset()
		for j := 0; j < grid.Cols(); j++ {
			if grid.Alive(i, j) {
				line.WriteString(r.glyphs.Alive)
			} else {
				line.WriteString(r.glyphs.Dead)
			}
		}
		line.WriteByte('\n')
		bw.WriteString(line.String())
	}
	bw.WriteByte('\n')
	return bw.Flush()
}
