// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package config

const (
	// Command line option keys
	ConfigFileKey = "config-file"

	// Environment variables are the upper-cased keys with this prefix and
	// hyphens replaced by underscores, e.g. FHE_LIFE_EVALUATORS.
	EnvPrefix = "FHE_LIFE"

	// Top-level configuration keys
	BoardKey       = "board"
	EvaluatorsKey  = "evaluators"
	WorkersKey     = "workers"
	GenerationsKey = "generations"
	WaitKey        = "wait"
	ParamsKey      = "params"
	MetricsPortKey = "metrics-port"
	AliveGlyphKey  = "alive-glyph"
	DeadGlyphKey   = "dead-glyph"
	VerifyKey      = "verify"
)
