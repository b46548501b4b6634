/*
Package filesystem provides resilient filesystem operations with automatic retry logic
for NFS stale file handle errors.

# Purpose

Media roots are frequently network mounts. This package wraps os.Stat, os.Lstat,
os.Open and os.ReadDir with retry logic for ESTALE (stale file handle) errors,
which NFS clients return transiently after server-side changes.

# Usage

	info, err := filesystem.StatWithRetry("/media/photos", filesystem.DefaultRetryConfig())

	entries, err := filesystem.ReadDirWithRetry("/media/photos", filesystem.DefaultRetryConfig())

Custom retry configuration:

	config := filesystem.RetryConfig{
	    MaxRetries:     5,
	    InitialBackoff: 100 * time.Millisecond,
	    MaxBackoff:     1 * time.Second,
	}

# Retry Behavior

Defaults:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

Only ESTALE triggers retries. All other errors are returned immediately.

# Observability

Every retried call reports one [Operation] and a [RetryEvent] per stale
handle, retry attempt, recovery or exhausted budget to the [Observer]
installed with [SetObserver]. The metrics package provides the Prometheus
implementation; with no observer installed, recording is skipped. Paths are labeled with a volume name using a
[VolumeResolver].
*/
package filesystem
