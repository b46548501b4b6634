package scan

import (
	"fmt"
	"math"
	"strings"
	"time"

	"media-catalog/internal/catalog"
)

// Unlimited is the MaxDepth or MaxResults to use when no bound is wanted.
const Unlimited = math.MaxInt32

// Request describes one scan. It is not modified after Start.
type Request struct {
	Root       string
	Extensions catalog.ExtensionSet
	MaxDepth   int
	MaxResults int
}

// Validate reports whether r can be started.
func (r Request) Validate() error {
	switch {
	case strings.TrimSpace(r.Root) == "":
		return fmt.Errorf("%w: root is required", ErrInvalidRequest)
	case len(r.Extensions) == 0:
		return fmt.Errorf("%w: at least one extension is required", ErrInvalidRequest)
	case r.MaxDepth < 0:
		return fmt.Errorf("%w: maxDepth must be >= 0, got %d", ErrInvalidRequest, r.MaxDepth)
	case r.MaxResults <= 0:
		return fmt.Errorf("%w: maxResults must be > 0, got %d", ErrInvalidRequest, r.MaxResults)
	}
	return nil
}

// Config holds engine policy shared by every session of a Coordinator.
type Config struct {
	// BatchSize is the number of matches that forces a progress event.
	BatchSize int

	// FlushInterval forces a progress event when pending matches have waited
	// this long since the previous event.
	FlushInterval time.Duration

	// SkipHidden ignores entries whose name starts with a dot.
	SkipHidden bool

	// EventBuffer is the capacity of each session's progress channel.
	EventBuffer int
}

// DefaultConfig returns the default engine policy.
func DefaultConfig() Config {
	return Config{
		BatchSize:     20,
		FlushInterval: 500 * time.Millisecond,
		EventBuffer:   16,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = d.FlushInterval
	}
	if c.EventBuffer < 0 {
		c.EventBuffer = 0
	}
	return c
}
