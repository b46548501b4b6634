package filesystem

import "time"

// Operation summarizes one retried filesystem call after it finished.
type Operation struct {
	// Name is "stat", "lstat", "open" or "readdir".
	Name string
	// Volume is the resolved mount label of the path, e.g. "media".
	Volume string
	// Duration covers every attempt including backoff.
	Duration time.Duration
	// Retries is the number of attempts after the first.
	Retries int
	// Err is the final error, if any.
	Err error
}

// RetryEvent is a step in the NFS retry protocol of an operation.
type RetryEvent int

const (
	// RetryStale is reported for every ESTALE result.
	RetryStale RetryEvent = iota
	// RetryAttempt is reported before each retry.
	RetryAttempt
	// RetrySucceeded is reported when a retried operation succeeds.
	RetrySucceeded
	// RetryExhausted is reported when retries run out.
	RetryExhausted
)

func (e RetryEvent) String() string {
	switch e {
	case RetryStale:
		return "stale"
	case RetryAttempt:
		return "attempt"
	case RetrySucceeded:
		return "succeeded"
	case RetryExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Observer records filesystem metrics. The implementation lives in the
// metrics package, which imports this one.
type Observer interface {
	// ObserveOperation is called once per operation.
	ObserveOperation(op Operation)
	// ObserveRetry is called for each retry event of an operation.
	ObserveRetry(event RetryEvent, name, volume string)
}

type nopObserver struct{}

func (nopObserver) ObserveOperation(Operation) {}
func (nopObserver) ObserveRetry(RetryEvent, string, string) {}

// defaultObserver is the package-level observer set at startup.
var defaultObserver Observer

// SetObserver sets the package-level metrics observer. nil disables
// recording.
func SetObserver(o Observer) {
	defaultObserver = o
}

func observe() Observer {
	if defaultObserver == nil {
		return nopObserver{}
	}
	return defaultObserver
}
