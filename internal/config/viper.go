// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func NewConfig(v *viper.Viper) (Config, error) {
	cfg, err := BuildConfig(v)
	if err != nil {
		return cfg, err
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("failed to validate configuration: %w", err)
	}
	return cfg, nil
}

// BuildFlagSet declares every configuration key as a flag. Flag defaults
// are left zero so that unset flags fall through to the environment, the
// config file and SetDefaultConfigValues, in that order.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("fhe-life", pflag.ContinueOnError)
	AddFlags(fs)
	return fs
}

// AddFlags registers the configuration flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String(ConfigFileKey, "", "path to a JSON, YAML or TOML config file")
	fs.String(BoardKey, "", fmt.Sprintf("initial board: a .cells file or a built-in pattern (default %q)", defaultBoard))
	fs.Int(EvaluatorsKey, 0, "number of evaluators in the pool (default: number of CPUs)")
	fs.Int(WorkersKey, 0, "maximum concurrent cell tasks (default: GOMAXPROCS)")
	fs.Int(GenerationsKey, 0, "generations to compute, 0 runs until interrupted")
	fs.Duration(WaitKey, 0, fmt.Sprintf("pause between generations (default %s)", defaultWait))
	fs.String(ParamsKey, "", fmt.Sprintf("FHE parameter preset (default %q)", defaultParams))
	fs.Uint16(MetricsPortKey, 0, "port for /metrics and /health, 0 disables")
	fs.String(AliveGlyphKey, "", fmt.Sprintf("glyph for live cells (default %q)", defaultAliveGlyph))
	fs.String(DeadGlyphKey, "", fmt.Sprintf("glyph for dead cells (default %q)", defaultDeadGlyph))
	fs.Bool(VerifyKey, false, "decrypt every generation and check it against the plaintext rule")
}

// BuildViper binds the flags that were set on the command line, the
// FHE_LIFE_* environment and, when config-file is given, the config file.
func BuildViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	// Map flag names to env var names. Flags are capitalized, and hyphens are replaced with underscores.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	fs.Visit(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	if !v.IsSet(ConfigFileKey) {
		return v, nil
	}
	v.SetConfigFile(v.GetString(ConfigFileKey))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return v, nil
}

func SetDefaultConfigValues(v *viper.Viper) {
	v.SetDefault(BoardKey, defaultBoard)
	v.SetDefault(EvaluatorsKey, defaultEvaluators())
	v.SetDefault(WorkersKey, 0)
	v.SetDefault(GenerationsKey, defaultGenerations)
	v.SetDefault(WaitKey, defaultWait)
	v.SetDefault(ParamsKey, defaultParams)
	v.SetDefault(MetricsPortKey, defaultMetricsPort)
	v.SetDefault(AliveGlyphKey, defaultAliveGlyph)
	v.SetDefault(DeadGlyphKey, defaultDeadGlyph)
	v.SetDefault(VerifyKey, false)
}

// BuildConfig constructs the config using Viper.
// The following precedence order is used. Each item takes precedence over the item below it:
//  1. Flags
//  2. Environment
//  3. Config file
//  4. Defaults
func BuildConfig(v *viper.Viper) (Config, error) {
	SetDefaultConfigValues(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal viper config: %w", err)
	}
	return cfg, nil
}
