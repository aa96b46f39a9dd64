// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package life

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
)

// BenchmarkCount measures the neighbour counter on plaintext gates, which is
// dominated by circuit overhead rather than gate cost.
func BenchmarkCount(b *testing.B) {
	g := &plainGates{}
	n := Neighbors[bool]{true, false, true, true, false, false, true, false}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Count[bool](g, n, ZeroTriple[bool]{}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEvolve measures one generation across pool sizes.
func BenchmarkEvolve(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	cells := make([]bool, 64*64)
	for k := range cells {
		cells[k] = rng.Intn(3) == 0
	}

	for _, k := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("K=%d", k), func(b *testing.B) {
			evaluators := make([]Gates[bool], k)
			for i := range evaluators {
				evaluators[i] = &plainGates{}
			}
			pool, err := NewPool(evaluators...)
			if err != nil {
				b.Fatal(err)
			}
			sched := NewScheduler(pool, ZeroTriple[bool]{})
			board, err := NewBoard(64, cells)
			if err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := board.Evolve(context.Background(), sched); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
