// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package config assembles the fhe-life settings from flags, environment,
// an optional config file and defaults.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"
	"unicode/utf8"

	"github.com/luxfi/life/fhe"
)

// Common errors.
var (
	ErrInvalidPoolSize   = errors.New("evaluator pool size must be at least 1")
	ErrNegativeValue     = errors.New("value must not be negative")
	ErrInvalidGlyph      = errors.New("glyph must be a single character")
	ErrMissingBoard      = errors.New("board is not set")
	ErrIdenticalGlyphs   = errors.New("alive and dead glyphs must differ")
	ErrUnknownParameters = errors.New("unknown parameter preset")
)

const (
	defaultBoard       = "glider"
	defaultGenerations = 0
	defaultWait        = 500 * time.Millisecond
	defaultParams      = "PN10QP27"
	defaultMetricsPort = 0
	defaultAliveGlyph  = "█"
	defaultDeadGlyph   = "░"
)

func defaultEvaluators() int {
	return runtime.NumCPU()
}

// Config holds the run settings.
type Config struct {
	// Board is a .cells file path or the name of a built-in pattern.
	Board string `mapstructure:"board" json:"board"`
	// Evaluators is the number of evaluator clones in the pool.
	Evaluators int `mapstructure:"evaluators" json:"evaluators"`
	// Workers bounds concurrent cell tasks. 0 selects GOMAXPROCS.
	Workers int `mapstructure:"workers" json:"workers"`
	// Generations to compute. 0 runs until interrupted.
	Generations int           `mapstructure:"generations" json:"generations"`
	Wait        time.Duration `mapstructure:"wait" json:"wait"`
	Params      string        `mapstructure:"params" json:"params"`
	// MetricsPort serves /metrics and /health. 0 disables the server.
	MetricsPort uint16 `mapstructure:"metrics-port" json:"metrics-port"`
	AliveGlyph  string `mapstructure:"alive-glyph" json:"alive-glyph"`
	DeadGlyph   string `mapstructure:"dead-glyph" json:"dead-glyph"`
	Verify      bool   `mapstructure:"verify" json:"verify"`
}

// Validate checks the configuration for values the run cannot use.
func (c *Config) Validate() error {
	if c.Board == "" {
		return ErrMissingBoard
	}
	if c.Evaluators < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPoolSize, c.Evaluators)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%s: %w", WorkersKey, ErrNegativeValue)
	}
	if c.Generations < 0 {
		return fmt.Errorf("%s: %w", GenerationsKey, ErrNegativeValue)
	}
	if c.Wait < 0 {
		return fmt.Errorf("%s: %w", WaitKey, ErrNegativeValue)
	}
	if _, err := fhe.ParametersByName(c.Params); err != nil {
		return fmt.Errorf("%w %q", ErrUnknownParameters, c.Params)
	}
	for key, glyph := range map[string]string{AliveGlyphKey: c.AliveGlyph, DeadGlyphKey: c.DeadGlyph} {
		if utf8.RuneCountInString(glyph) != 1 {
			return fmt.Errorf("%s %q: %w", key, glyph, ErrInvalidGlyph)
		}
	}
	if c.AliveGlyph == c.DeadGlyph {
		return ErrIdenticalGlyphs
	}
	return nil
}

// Parameters returns the FHE parameter set named by Params.
func (c *Config) Parameters() (fhe.Parameters, error) {
	lit, err := fhe.ParametersByName(c.Params)
	if err != nil {
		return fhe.Parameters{}, err
	}
	return fhe.NewParametersFromLiteral(lit)
}
