/*
Package workers sizes worker pools from GOMAXPROCS, which the Go runtime sets
from container CPU limits, rather than runtime.NumCPU.

# Usage

	// Named pools read their override from the environment.
	sem := semaphore.NewWeighted(int64(workers.PreviewDecode.Size()))

	// Ad hoc sizing; 0 means no cap.
	n := workers.ForIO(16)

# Environment Variable Overrides

  - PREVIEW_WORKERS: concurrent preview decodes (default: 1 per CPU, at most 8)
  - PREVIEW_WARM_WORKERS: concurrent cache warm requests (default: 2 per CPU, at most 16)

The pool's cap still applies to an override. Non-numeric or non-positive
values are logged and ignored.
*/
package workers
