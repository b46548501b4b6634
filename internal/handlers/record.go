package handlers

import (
	"sync"

	"media-catalog/internal/scan"
)

// scanRecord drains a session as it runs so the scan never waits on an HTTP
// client, and replays the progress history to any number of readers.
type scanRecord struct {
	sess *scan.Session

	mu      sync.Mutex
	events  []scan.Progress
	result  *scan.Result
	changed chan struct{}
}

func newScanRecord(sess *scan.Session) *scanRecord {
	rec := &scanRecord{sess: sess, changed: make(chan struct{})}
	go rec.pump()
	return rec
}

func (rec *scanRecord) pump() {
	for p := range rec.sess.Events() {
		rec.mu.Lock()
		rec.events = append(rec.events, p)
		rec.notifyLocked()
		rec.mu.Unlock()
	}

	res := <-rec.sess.Result()

	rec.mu.Lock()
	rec.events = rebaseBatches(rec.events, res.Paths)
	rec.result = &res
	rec.notifyLocked()
	rec.mu.Unlock()
}

// rebaseBatches returns a copy of events whose batches are windows into
// paths, so a finished record holds each matched path once. Readers of the
// previous slice are unaffected.
func rebaseBatches(events []scan.Progress, paths []string) []scan.Progress {
	rebased := make([]scan.Progress, len(events))
	for i, p := range events {
		start := p.Total - len(p.Batch)
		if start >= 0 && p.Total <= len(paths) {
			p.Batch = paths[start:p.Total:p.Total]
		}
		rebased[i] = p
	}
	return rebased
}

func (rec *scanRecord) notifyLocked() {
	close(rec.changed)
	rec.changed = make(chan struct{})
}

// since returns events from index from onward, the result once finished,
// and a channel closed on the next change.
func (rec *scanRecord) since(from int) ([]scan.Progress, *scan.Result, <-chan struct{}) {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	var events []scan.Progress
	if from < len(rec.events) {
		events = rec.events[from:len(rec.events):len(rec.events)]
	}
	return events, rec.result, rec.changed
}
