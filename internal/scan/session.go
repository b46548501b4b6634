package scan

import (
	"context"
	"sync/atomic"
	"time"
)

// State is the lifecycle state of a Session.
type State int32

const (
	StateRunning State = iota
	StateCancelling
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCancelling:
		return "cancelling"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is a final state.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Progress is emitted while a session runs.
type Progress struct {
	// Batch holds the paths matched since the previous event, in discovery order.
	Batch []string `json:"batch"`
	// Total is the number of paths matched so far, including Batch.
	Total int `json:"total"`
	// CurrentDir is the directory being walked when the event was emitted.
	CurrentDir string `json:"currentDir"`
}

// Result is the single terminal delivery of a session.
type Result struct {
	State State
	// Paths is every matched path in discovery order. For a cancelled
	// session it is the prefix found before cancellation was observed.
	Paths []string
	// Err is set only when State is StateFailed.
	Err error
	// SkippedDirs counts directories below the root that could not be listed.
	SkippedDirs int
	Duration    time.Duration
}

// Session is one scan run. Sessions are created by Coordinator.Start.
type Session struct {
	id      string
	req     Request
	started time.Time

	state           atomic.Int32
	cancelRequested atomic.Bool
	found           atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc

	events chan Progress
	result chan Result
}

// ID returns the opaque session identifier.
func (s *Session) ID() string { return s.id }

// Request returns the request the session was started with.
func (s *Session) Request() Request { return s.req }

// StartedAt returns when the session was admitted.
func (s *Session) StartedAt() time.Time { return s.started }

// State returns the current lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

// Found returns the number of paths matched so far.
func (s *Session) Found() int { return int(s.found.Load()) }

// Events returns the progress stream. It is closed before the Result is sent.
func (s *Session) Events() <-chan Progress { return s.events }

// Result returns a channel that receives exactly one Result and is then closed.
func (s *Session) Result() <-chan Result { return s.result }

// Cancel requests cooperative cancellation. It is a no-op once the session
// is cancelling or terminal.
func (s *Session) Cancel() {
	if s.state.CompareAndSwap(int32(StateRunning), int32(StateCancelling)) {
		s.cancelRequested.Store(true)
		s.cancel()
	}
}

// markCancelling moves a running session to Cancelling when its context
// ends without an explicit Cancel.
func (s *Session) markCancelling() {
	s.state.CompareAndSwap(int32(StateRunning), int32(StateCancelling))
}

// Wait drains Events and returns the terminal Result. If ctx ends first the
// session is cancelled and Wait still returns its Result.
func (s *Session) Wait(ctx context.Context) Result {
	events := s.events
	for events != nil {
		select {
		case _, ok := <-events:
			if !ok {
				events = nil
			}
		case <-ctx.Done():
			s.Cancel()
			ctx = context.Background()
		}
	}
	return <-s.result
}

// emit delivers p unless the session has been cancelled and the consumer is
// not keeping up, in which case p is dropped; Result.Paths still holds it.
func (s *Session) emit(p Progress) bool {
	select {
	case s.events <- p:
		return true
	case <-s.ctx.Done():
		select {
		case s.events <- p:
			return true
		default:
			return false
		}
	}
}
