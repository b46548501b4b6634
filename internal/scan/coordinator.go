package scan

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"media-catalog/internal/listing"
	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// Coordinator admits scan sessions one at a time.
type Coordinator struct {
	lister listing.Lister
	config Config

	mu     sync.Mutex
	active *Session
}

// NewCoordinator creates a Coordinator whose sessions list directories
// through lister. Zero fields of config take their DefaultConfig values.
func NewCoordinator(lister listing.Lister, config Config) *Coordinator {
	return &Coordinator{
		lister: lister,
		config: config.withDefaults(),
	}
}

// Start validates req and launches a session on its own goroutine. It fails
// with ErrAlreadyRunning while another session is running or cancelling.
// Cancelling ctx cancels the session.
func (c *Coordinator) Start(ctx context.Context, req Request) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Root = filepath.Clean(req.Root)

	sessCtx, cancel := context.WithCancel(ctx)
	sess := &Session{
		id:      uuid.NewString(),
		req:     req,
		started: time.Now(),
		ctx:     sessCtx,
		cancel:  cancel,
		events:  make(chan Progress, c.config.EventBuffer),
		result:  make(chan Result, 1),
	}

	if !c.tryAdmit(sess) {
		cancel()
		metrics.ScanRejectedTotal.Inc()
		logging.Debug("Scan of %s rejected, another session is active", req.Root)
		return nil, ErrAlreadyRunning
	}

	context.AfterFunc(sessCtx, sess.markCancelling)

	metrics.ScanRunning.Set(1)
	logging.Info("Scan %s started: root=%s extensions=%v maxDepth=%d maxResults=%d",
		sess.id, req.Root, req.Extensions.Sorted(), req.MaxDepth, req.MaxResults)

	go c.run(sess)
	return sess, nil
}

// Cancel requests cancellation of the session with the given id. Unknown
// and finished sessions are ignored.
func (c *Coordinator) Cancel(id string) {
	if sess := c.Active(); sess != nil && sess.id == id {
		logging.Info("Scan %s cancellation requested", id)
		sess.Cancel()
	}
}

// Active returns the running or cancelling session, or nil.
func (c *Coordinator) Active() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// IsRunning reports whether a session is active.
func (c *Coordinator) IsRunning() bool {
	return c.Active() != nil
}

func (c *Coordinator) tryAdmit(sess *Session) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return false
	}
	c.active = sess
	return true
}

func (c *Coordinator) release(sess *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == sess {
		c.active = nil
	}
}

func (c *Coordinator) run(sess *Session) {
	defer sess.cancel()

	res := c.execute(sess)
	res.Duration = time.Since(sess.started)

	close(sess.events)
	sess.state.Store(int32(res.State))
	c.release(sess)

	metrics.ScanRunning.Set(0)
	metrics.ScanSessionsTotal.WithLabelValues(res.State.String()).Inc()
	metrics.ScanDuration.WithLabelValues(res.State.String()).Observe(res.Duration.Seconds())

	switch res.State {
	case StateFailed:
		logging.Error("Scan %s failed after %v: %v", sess.id, res.Duration, res.Err)
	default:
		logging.Info("Scan %s %s in %v: %d matches, %d directories skipped",
			sess.id, res.State, res.Duration, len(res.Paths), res.SkippedDirs)
	}

	sess.result <- res
	close(sess.result)
}

func (c *Coordinator) execute(sess *Session) Result {
	if err := statRoot(c.lister, sess.req.Root); err != nil {
		return Result{State: StateFailed, Err: err}
	}

	w := newWalker(sess, c.lister, c.config)
	if err := w.walk(sess.req.Root, 0); err != nil {
		return Result{State: StateFailed, Err: err}
	}
	w.flush()

	state := StateCompleted
	if w.interrupted {
		state = StateCancelled
	}
	return Result{
		State:       state,
		Paths:       w.paths,
		SkippedDirs: w.skippedDirs,
	}
}
