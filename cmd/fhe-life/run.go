// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/luxfi/life"
	"github.com/luxfi/life/fhe"
	"github.com/luxfi/life/internal/config"
	"github.com/luxfi/life/internal/metrics"
	"github.com/luxfi/life/internal/pattern"
	"github.com/luxfi/life/internal/render"
)

// ErrDiverged is returned in verify mode when a decrypted generation differs
// from the plaintext rule.
var ErrDiverged = errors.New("encrypted board diverged from plaintext evolution")

const shutdownTimeout = 30 * time.Second

func run(ctx context.Context, cfg config.Config, out io.Writer, logger log.Logger) error {
	grid, err := pattern.Load(cfg.Board)
	if err != nil {
		return fmt.Errorf("load board: %w", err)
	}

	params, err := cfg.Parameters()
	if err != nil {
		return fmt.Errorf("create FHE parameters: %w", err)
	}

	logger.Info("fhe-life starting",
		log.String("board", cfg.Board),
		log.Int("rows", grid.Rows()),
		log.Int("cols", grid.Cols()),
		log.String("params", cfg.Params),
		log.Int("evaluators", cfg.Evaluators),
		log.Int("generations", cfg.Generations),
		log.Stringer("wait", cfg.Wait),
	)

	start := time.Now()
	kgen := fhe.NewKeyGenerator(params)
	sk := kgen.GenSecretKey()
	bsk := kgen.GenBootstrapKey(sk)
	logger.Info("keys generated",
		log.Stringer("key", sk.ID),
		log.Stringer("elapsed", time.Since(start)),
	)

	enc := fhe.NewEncryptor(params, sk)
	dec := fhe.NewDecryptor(params, sk)

	board, err := life.EncryptGrid(grid, enc.Encrypt)
	if err != nil {
		return fmt.Errorf("encrypt board: %w", err)
	}
	zero, err := life.EncryptZero(enc.Encrypt)
	if err != nil {
		return fmt.Errorf("encrypt zero: %w", err)
	}

	eval := fhe.NewEvaluator(params, bsk)
	evaluators := make([]life.Gates[*fhe.Ciphertext], cfg.Evaluators)
	evaluators[0] = eval
	for i := 1; i < len(evaluators); i++ {
		evaluators[i] = eval.ShallowCopy()
	}
	pool, err := life.NewPool(evaluators...)
	if err != nil {
		return err
	}

	opts := []life.Option{
		life.WithLogger(logger),
		life.WithWorkers(cfg.Workers),
	}
	if cfg.MetricsPort != 0 {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, life.WithObserver(metrics.NewSchedulerMetrics(reg)))

		stop := serveMetrics(cfg.MetricsPort, reg, logger)
		defer stop()
	}

	s := &session[*fhe.Ciphertext]{
		board:    board,
		sched:    life.NewScheduler(pool, zero, opts...),
		renderer: render.New[*fhe.Ciphertext](out, dec, render.Glyphs{Alive: cfg.AliveGlyph, Dead: cfg.DeadGlyph}),
		log:      logger,
	}
	if err := s.loop(ctx, cfg, grid); err != nil {
		return err
	}
	logger.Info("shutdown complete", log.Uint64("generation", board.Generation()))
	return nil
}

func serveMetrics(port uint16, reg *prometheus.Registry, logger log.Logger) func() {
	addr := net.JoinHostPort("", strconv.Itoa(int(port)))
	server := &http.Server{
		Addr:              addr,
		Handler:           metrics.Handler(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", log.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", log.Err(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("metrics server shutdown", log.Err(err))
		}
	}
}

// session drives a board through the configured number of generations and
// draws each one.
type session[C any] struct {
	board    *life.Board[C]
	sched    *life.Scheduler[C]
	renderer *render.Renderer[C]
	log      log.Logger
}

// loop renders the current generation, then alternates waiting, evolving
// and rendering. Cancelling ctx ends the loop without error; the board keeps
// its last complete generation.
func (s *session[C]) loop(ctx context.Context, cfg config.Config, initial life.Grid) error {
	want := initial
	grid, err := s.renderer.Render(s.board.Snapshot())
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if cfg.Verify && !want.Equal(grid) {
		return fmt.Errorf("%w at generation %d", ErrDiverged, s.board.Generation())
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for n := 1; cfg.Generations == 0 || n <= cfg.Generations; n++ {
		timer.Reset(cfg.Wait)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		if err := s.board.Evolve(ctx, s.sched); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		gen := s.board.Snapshot()
		grid, err := s.renderer.Render(gen)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if cfg.Verify {
			want = want.Step()
			if !want.Equal(grid) {
				return fmt.Errorf("%w at generation %d", ErrDiverged, gen.Index)
			}
			s.log.Debug("generation verified", log.Uint64("generation", gen.Index))
		}
	}
	return nil
}
