package streaming

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"media-catalog/internal/logging"
)

// Sentinel errors for streaming operations.
var (
	// ErrWriteTimeout indicates that a write did not complete within the
	// configured timeout, or the stream outlived its maximum duration.
	// This typically occurs when a client stops reading.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates that the client disconnected before the stream completed.
	// This is detected via the request context being canceled.
	ErrClientGone = errors.New("client disconnected")

	// ErrStreamClosed indicates that Send was called after Close.
	ErrStreamClosed = errors.New("stream closed")
)

// ContentType is the media type of an event stream.
const ContentType = "application/x-ndjson"

// Config configures event stream behavior
type Config struct {
	// WriteTimeout bounds each event write, including the flush
	WriteTimeout time.Duration
	// MaxDuration is the absolute maximum streaming duration (0 = unlimited)
	MaxDuration time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		WriteTimeout: 30 * time.Second,
		MaxDuration:  0, // scans may run for a long time
	}
}

// EventStream writes one JSON value per line to an HTTP response and flushes
// after every event so clients see progress as it happens.
type EventStream struct {
	w      http.ResponseWriter
	rc     *http.ResponseController
	ctx    context.Context
	config Config
	enc    *json.Encoder

	mu        sync.Mutex
	startTime time.Time
	events    int
	closed    bool
}

// NewEventStream sends the response headers and returns a stream bound to
// ctx, normally the request context.
func NewEventStream(ctx context.Context, w http.ResponseWriter, config Config) *EventStream {
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	return &EventStream{
		w:         w,
		rc:        http.NewResponseController(w),
		ctx:       ctx,
		config:    config,
		enc:       json.NewEncoder(w),
		startTime: time.Now(),
	}
}

// Send writes v as one line and flushes it.
func (s *EventStream) Send(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	if s.ctx.Err() != nil {
		return ErrClientGone
	}
	if s.config.MaxDuration > 0 && time.Since(s.startTime) > s.config.MaxDuration {
		return ErrWriteTimeout
	}

	if s.config.WriteTimeout > 0 {
		s.setWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	}

	if err := s.enc.Encode(v); err != nil {
		return s.writeError(err)
	}
	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return s.writeError(err)
	}

	s.events++
	return nil
}

// Wait blocks until changed is closed or the client goes away.
func (s *EventStream) Wait(changed <-chan struct{}) error {
	select {
	case <-changed:
		return nil
	case <-s.ctx.Done():
		return ErrClientGone
	}
}

// Close clears the write deadline. Further Sends fail with ErrStreamClosed.
func (s *EventStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.config.WriteTimeout > 0 {
		s.setWriteDeadline(time.Time{})
	}
	logging.Debug("Event stream closed: %d events in %v", s.events, time.Since(s.startTime))
}

// Stats returns streaming statistics
func (s *EventStream) Stats() (events int, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events, time.Since(s.startTime)
}

func (s *EventStream) setWriteDeadline(deadline time.Time) {
	if err := s.rc.SetWriteDeadline(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
		logging.Debug("Event stream: cannot set write deadline: %v", err)
	}
}

func (s *EventStream) writeError(err error) error {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrWriteTimeout
	}
	if s.ctx.Err() != nil {
		return ErrClientGone
	}
	return err
}
