// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package life

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/luxfi/log"
	"golang.org/x/sync/errgroup"
)

// Observer receives scheduler measurements. Implementations must be safe for
// concurrent use.
type Observer interface {
	// ObserveAcquire is called once per cell with the number of pool slots
	// probed before an evaluator was obtained.
	ObserveAcquire(probes int)
	// ObserveGeneration is called after a full step.
	ObserveGeneration(index uint64, cells int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveAcquire(int) {}

func (nopObserver) ObserveGeneration(uint64, int, time.Duration) {}

type schedulerConfig struct {
	log      log.Logger
	observer Observer
	workers  int
}

// Option configures a Scheduler.
type Option func(*schedulerConfig)

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l log.Logger) Option {
	return func(c *schedulerConfig) { c.log = l }
}

// WithObserver sets the measurement sink.
func WithObserver(o Observer) Option {
	return func(c *schedulerConfig) { c.observer = o }
}

// WithWorkers bounds the number of cell tasks in flight. Values below 1
// select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *schedulerConfig) { c.workers = n }
}

// Scheduler evaluates the transition circuit for every cell of a generation
// in parallel, drawing evaluators from a Pool.
type Scheduler[C any] struct {
	pool *Pool[C]
	zero ZeroTriple[C]
	cfg  schedulerConfig
}

// NewScheduler creates a scheduler. zero must be encrypted under the key of
// the pool's evaluators.
func NewScheduler[C any](pool *Pool[C], zero ZeroTriple[C], opts ...Option) *Scheduler[C] {
	cfg := schedulerConfig{observer: nopObserver{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}
	if cfg.observer == nil {
		cfg.observer = nopObserver{}
	}
	return &Scheduler[C]{pool: pool, zero: zero, cfg: cfg}
}

// Step computes the generation following g. Cell k = i*Cols + j prefers
// evaluator k mod K. The first failing cell cancels the rest of the step and
// its error is returned; g is never modified.
func (s *Scheduler[C]) Step(ctx context.Context, g Generation[C]) ([]C, error) {
	start := time.Now()
	next := make([]C, len(g.Cells))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.workers)

	for k := range g.Cells {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			i, j := k/g.Cols, k%g.Cols
			n := g.Neighbors(i, j)

			probes, err := s.pool.Do(k, func(gates Gates[C]) error {
				c, err := Cell(gates, g.Cells[k], n, s.zero)
				if err != nil {
					return err
				}
				next[k] = c
				return nil
			})
			s.cfg.observer.ObserveAcquire(probes)
			if err != nil {
				return fmt.Errorf("cell (%d, %d): %w", i, j, err)
			}
			return nil
		})
	}

	err := eg.Wait()
	if err == nil {
		// Tasks skipped after a cancellation leave holes in next.
		err = ctx.Err()
	}
	if err != nil {
		if s.cfg.log != nil && !errors.Is(err, context.Canceled) {
			s.cfg.log.Error("generation failed",
				log.Uint64("generation", g.Index+1),
				log.Err(err),
			)
		}
		return nil, err
	}

	elapsed := time.Since(start)
	s.cfg.observer.ObserveGeneration(g.Index+1, len(next), elapsed)
	if s.cfg.log != nil {
		s.cfg.log.Debug("generation computed",
			log.Uint64("generation", g.Index+1),
			log.Int("cells", len(next)),
			log.Int("evaluators", s.pool.Size()),
			log.Stringer("elapsed", elapsed),
		)
	}
	return next, nil
}
