// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package life

import (
	"errors"
	"runtime"
	"sync"
)

// ErrEmptyPool is returned by NewPool when no evaluator is supplied.
var ErrEmptyPool = errors.New("evaluator pool needs at least one evaluator")

type slot[C any] struct {
	mu    sync.Mutex
	gates Gates[C]
}

// Pool is a fixed set of interchangeable evaluators for one key. Each
// evaluator is used by at most one goroutine at a time.
type Pool[C any] struct {
	slots []*slot[C]
}

// NewPool creates a pool over the given evaluators. All of them must
// evaluate under the same key; typically they are ShallowCopy clones of one
// evaluator.
func NewPool[C any](evaluators ...Gates[C]) (*Pool[C], error) {
	if len(evaluators) == 0 {
		return nil, ErrEmptyPool
	}
	p := &Pool[C]{slots: make([]*slot[C], len(evaluators))}
	for i, g := range evaluators {
		p.slots[i] = &slot[C]{gates: g}
	}
	return p, nil
}

// Size returns the number of evaluators in the pool.
func (p *Pool[C]) Size() int {
	return len(p.slots)
}

// acquire locks a free slot, starting at preferred mod Size and probing the
// following slots round-robin. It never blocks on a single slot; after each
// full unsuccessful sweep it yields the processor. It returns the slot and
// the number of slots tried.
func (p *Pool[C]) acquire(preferred int) (*slot[C], int) {
	k := len(p.slots)
	start := preferred % k
	if start < 0 {
		start += k
	}
	for probes := 0; ; probes++ {
		s := p.slots[(start+probes)%k]
		if s.mu.TryLock() {
			return s, probes + 1
		}
		if (probes+1)%k == 0 {
			runtime.Gosched()
		}
	}
}

// Do runs fn with exclusive use of one evaluator, preferring slot
// preferred mod Size. The evaluator is released when fn returns or panics.
// The returned int is the number of slots probed.
func (p *Pool[C]) Do(preferred int, fn func(g Gates[C]) error) (int, error) {
	s, probes := p.acquire(preferred)
	defer s.mu.Unlock()
	return probes, fn(s.gates)
}
