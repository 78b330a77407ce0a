// Package config holds Claripy's ambient configuration surface (spec
// §6's "Environment configuration"): the SMT native library search
// path and solver timeout, exposed as a Config struct plus functional
// options, matching the teacher's engine.go Config/NewDefault pattern.
package config

import (
	"os"
	"time"
)

// Config is the façade's ambient configuration.
type Config struct {
	// Z3LibraryPath overrides the resolved SMT native library search
	// path (spec §6); empty means use the env-var/default chain.
	Z3LibraryPath string
	// Timeout bounds every SMT check; zero disables it.
	Timeout time.Duration
	// AllowDSIS records the DiscreteStridedIntervalSet policy flag.
	// Nothing outside this package reads it: claripy.WithVSA takes its
	// own allowDSIS argument, and BackendVSA stores that flag without
	// any operation consulting it.
	AllowDSIS bool
}

// Option configures a Config at construction time.
type Option func(*Config)

// WithZ3LibraryPath pins the SMT native library path, bypassing the
// env-var resolution chain.
func WithZ3LibraryPath(path string) Option {
	return func(c *Config) { c.Z3LibraryPath = path }
}

// WithTimeout sets the SMT solver timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithDSIS sets Config.AllowDSIS.
func WithDSIS(allow bool) Option {
	return func(c *Config) { c.AllowDSIS = allow }
}

// NewDefault builds a Config from environment defaults plus any
// options, matching engine.go's NewDefault(...Option) pattern: the SMT
// path chain is CLARAGOPY_Z3PATH, then CLARAGOPY_VENV, then a
// compiled-in default (spec §6).
func NewDefault(opts ...Option) *Config {
	c := &Config{Z3LibraryPath: resolveLibraryPath()}
	for _, o := range opts {
		o(c)
	}
	return c
}

func resolveLibraryPath() string {
	if p := os.Getenv("CLARAGOPY_Z3PATH"); p != "" {
		return p
	}
	if venv := os.Getenv("CLARAGOPY_VENV"); venv != "" {
		return venv + "/lib/"
	}
	return "/usr/lib/x86_64-linux-gnu/"
}

// TimeoutMS returns the configured timeout in milliseconds, the unit
// of the z3.Timeout that backend/z3's Backend.NewSolverState takes.
func (c *Config) TimeoutMS() int {
	if c.Timeout <= 0 {
		return 0
	}
	return int(c.Timeout.Milliseconds())
}
