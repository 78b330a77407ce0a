package z3

import (
	"os"
	"time"
)

// resolveLibraryPath implements spec §6's "search path for the SMT
// native library resolved (in order) from an explicit env var, a
// virtual-env path, then a system default", ported from
// backend_z3.py's Z3PATH/VIRTUAL_ENV/"/opt/python/lib/" chain.
func resolveLibraryPath() string {
	if p := os.Getenv("CLARAGOPY_Z3PATH"); p != "" {
		return p
	}
	if venv := os.Getenv("CLARAGOPY_VENV"); venv != "" {
		return venv + "/lib/"
	}
	return "/usr/lib/x86_64-linux-gnu/"
}

// Timeout is a solver timeout in milliseconds, the unit
// Backend.NewSolverState and config.Config.Timeout agree on. Zero
// means no timeout.
type Timeout int

// FromConfigTimeout converts config.Config's time.Duration timeout
// into the millisecond unit NewSolverState expects, rounding down to
// zero (disabled) for any non-positive duration.
func FromConfigTimeout(d time.Duration) Timeout {
	if d <= 0 {
		return 0
	}
	return Timeout(d.Milliseconds())
}
