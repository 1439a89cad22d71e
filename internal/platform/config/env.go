// Package config loads process configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from the process environment.
func ParseEnv(target any) error {
	return ParseEnvWithOptions(target, env.Options{})
}

// ParseEnvWithOptions loads configuration with explicit parser options.
//
// Tests pass Options.Environment to parse against an isolated map instead of
// the process environment.
func ParseEnvWithOptions(target any, opts env.Options) error {
	if target == nil {
		return fmt.Errorf("config target is required")
	}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
