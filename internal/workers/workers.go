package workers

import (
	"os"
	"runtime"
	"strconv"

	"media-catalog/internal/logging"
)

// Pool describes a worker pool sized from GOMAXPROCS, which the Go runtime
// derives from container CPU limits.
type Pool struct {
	// Env names a variable whose positive integer value replaces the computed
	// size. The Limit still applies.
	Env string
	// Multiplier scales GOMAXPROCS: 1.0 for CPU-bound work, 2.0 for I/O-bound.
	Multiplier float64
	// Limit caps the size. 0 means no cap.
	Limit int
}

// Pools used by the preview cache.
var (
	// PreviewDecode bounds concurrent image decodes.
	PreviewDecode = Pool{Env: "PREVIEW_WORKERS", Multiplier: 1.0, Limit: 8}
	// PreviewWarm bounds concurrent cache warm requests.
	PreviewWarm = Pool{Env: "PREVIEW_WARM_WORKERS", Multiplier: 2.0, Limit: 16}
)

// Size returns the pool size, honoring the environment override.
func (p Pool) Size() int {
	if p.Env != "" {
		if v := os.Getenv(p.Env); v != "" {
			n, err := strconv.Atoi(v)
			if err == nil && n > 0 {
				return capAt(n, p.Limit)
			}
			logging.Warn("Ignoring invalid %s %q", p.Env, v)
		}
	}
	return Count(p.Multiplier, p.Limit)
}

// Count returns max(1, GOMAXPROCS*multiplier) capped at limit (0 = no cap).
func Count(multiplier float64, limit int) int {
	n := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if n < 1 {
		n = 1
	}
	return capAt(n, limit)
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}

func capAt(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}
