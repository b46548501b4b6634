package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"media-catalog/internal/catalog"
	"media-catalog/internal/listing"
	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// walker is the traversal state of one session, threaded through the
// recursive walk.
type walker struct {
	sess   *Session
	lister listing.Lister
	cfg    Config
	exts   catalog.ExtensionSet

	paths       []string
	pending     []string
	lastFlush   time.Time
	currentDir  string
	skippedDirs int
	interrupted bool
}

func newWalker(sess *Session, lister listing.Lister, cfg Config) *walker {
	return &walker{
		sess:      sess,
		lister:    lister,
		cfg:       cfg,
		exts:      sess.req.Extensions,
		lastFlush: time.Now(),
	}
}

// stop reports whether the walk must unwind without further I/O.
func (w *walker) stop() bool {
	if w.sess.cancelRequested.Load() || w.sess.ctx.Err() != nil {
		w.interrupted = true
		return true
	}
	return len(w.paths) >= w.sess.req.MaxResults
}

// walk lists dir and recurses into its subdirectories. Only a failure to
// list the root is returned; deeper failures are absorbed.
func (w *walker) walk(dir string, depth int) error {
	if w.stop() {
		return nil
	}
	if depth > w.sess.req.MaxDepth {
		return nil
	}

	entries, err := w.lister.List(dir)
	if err != nil {
		if depth == 0 {
			return fmt.Errorf("%w: %s: %v", ErrRootUnreadable, dir, err)
		}
		w.skippedDirs++
		metrics.ScanDirectoriesSkipped.Inc()
		logging.Warn("Scan %s: skipping unreadable directory %s: %v", w.sess.id, dir, err)
		return nil
	}
	metrics.ScanDirectoriesListed.Inc()
	w.currentDir = dir

	for _, e := range entries {
		if w.stop() {
			return nil
		}
		w.maybeFlush()

		if w.cfg.SkipHidden && strings.HasPrefix(e.Name, ".") {
			continue
		}

		path := filepath.Join(dir, e.Name)
		if e.IsDir {
			if depth+1 > w.sess.req.MaxDepth {
				continue
			}
			if w.stop() {
				return nil
			}
			_ = w.walk(path, depth+1)
			w.currentDir = dir
			continue
		}

		if w.exts.Matches(e.Name) {
			w.paths = append(w.paths, path)
			w.pending = append(w.pending, path)
			w.sess.found.Add(1)
			metrics.ScanFilesMatched.Inc()
			if len(w.pending) >= w.cfg.BatchSize {
				w.flush()
			}
		}
	}
	return nil
}

func (w *walker) maybeFlush() {
	if len(w.pending) > 0 && time.Since(w.lastFlush) >= w.cfg.FlushInterval {
		w.flush()
	}
}

func (w *walker) flush() {
	w.lastFlush = time.Now()
	if len(w.pending) == 0 {
		return
	}

	batch := w.pending
	w.pending = nil
	if w.sess.emit(Progress{Batch: batch, Total: len(w.paths), CurrentDir: w.currentDir}) {
		metrics.ScanBatchesEmitted.Inc()
	}
}

// statRoot maps root stat failures onto the scan error taxonomy.
func statRoot(l listing.Lister, root string) error {
	info, err := l.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrRootNotFound, root)
	case err != nil:
		return fmt.Errorf("%w: %s: %v", ErrRootUnreadable, root, err)
	case !info.IsDir:
		return fmt.Errorf("%w: %s", ErrRootNotDirectory, root)
	}
	return nil
}
