package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"media-catalog/internal/catalog"
	"media-catalog/internal/logging"
	"media-catalog/internal/scan"
	"media-catalog/internal/streaming"
)

// StartScanRequest is the body of POST /api/scans. Category is a shortcut
// for every extension of that category; when both are given they are merged.
type StartScanRequest struct {
	Root       string   `json:"root"`
	Extensions []string `json:"extensions"`
	Category   string   `json:"category"`
	MaxDepth   *int     `json:"maxDepth"`
	MaxResults *int     `json:"maxResults"`
}

// ScanStatus describes a session.
type ScanStatus struct {
	ID         string      `json:"id"`
	State      string      `json:"state"`
	Root       string      `json:"root"`
	Extensions []string    `json:"extensions"`
	Found      int         `json:"found"`
	StartedAt  time.Time   `json:"startedAt"`
	Result     *ScanResult `json:"result,omitempty"`
}

// ScanResult is the terminal outcome of a session.
type ScanResult struct {
	State       string   `json:"state"`
	Paths       []string `json:"paths"`
	Count       int      `json:"count"`
	SkippedDirs int      `json:"skippedDirs"`
	DurationMs  int64    `json:"durationMs"`
	Error       string   `json:"error,omitempty"`
}

// scanEvent is one NDJSON line of GET /api/scans/{id}/events.
type scanEvent struct {
	Type string `json:"type"`
	*scan.Progress
	Result *ScanResult `json:"result,omitempty"`
}

func newScanResult(res scan.Result) *ScanResult {
	out := &ScanResult{
		State:       res.State.String(),
		Paths:       res.Paths,
		Count:       len(res.Paths),
		SkippedDirs: res.SkippedDirs,
		DurationMs:  res.Duration.Milliseconds(),
	}
	if out.Paths == nil {
		out.Paths = []string{}
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}

func (h *Handlers) scanStatus(rec *scanRecord) ScanStatus {
	req := rec.sess.Request()
	status := ScanStatus{
		ID:         rec.sess.ID(),
		State:      rec.sess.State().String(),
		Root:       req.Root,
		Extensions: req.Extensions.Sorted(),
		Found:      rec.sess.Found(),
		StartedAt:  rec.sess.StartedAt(),
	}
	if _, res, _ := rec.since(0); res != nil {
		status.Result = newScanResult(*res)
		status.State = res.State.String()
	}
	return status
}

// buildScanRequest turns the body and query of POST /api/scans into a
// scan.Request.
func (h *Handlers) buildScanRequest(r *http.Request) (scan.Request, error) {
	var body StartScanRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return scan.Request{}, fmt.Errorf("%w: invalid JSON body: %v", scan.ErrInvalidRequest, err)
		}
	}

	query := r.URL.Query()
	if v := query.Get("category"); v != "" {
		body.Category = v
	}
	if v := query.Get("root"); v != "" {
		body.Root = v
	}

	exts := catalog.NewExtensionSet(body.Extensions...)
	if body.Category != "" {
		category, ok := catalog.ParseCategory(body.Category)
		if !ok {
			return scan.Request{}, fmt.Errorf("%w: unknown category %q", scan.ErrInvalidRequest, body.Category)
		}
		for _, ext := range h.classifier.ExtensionsFor(category) {
			exts[ext] = struct{}{}
		}
	}

	root := h.mediaRoot
	if body.Root != "" {
		resolved, err := h.resolvePath(body.Root)
		if err != nil {
			return scan.Request{}, err
		}
		root = resolved
	}

	req := scan.Request{
		Root:       root,
		Extensions: exts,
		MaxDepth:   h.maxDepth,
		MaxResults: h.maxResults,
	}
	if body.MaxDepth != nil {
		req.MaxDepth = *body.MaxDepth
	}
	if body.MaxResults != nil {
		req.MaxResults = *body.MaxResults
	}
	return req, nil
}

// StartScan starts a scan and returns its status with 202 Accepted
func (h *Handlers) StartScan(w http.ResponseWriter, r *http.Request) {
	req, err := h.buildScanRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	// The session outlives this request; it ends by completion or DELETE.
	sess, err := h.scans.Start(context.Background(), req)
	if err != nil {
		logging.Debug("StartScan rejected: %v", err)
		writeError(w, err)
		return
	}

	rec := h.track(sess)

	w.Header().Set("Location", "/api/scans/"+sess.ID())
	writeJSON(w, http.StatusAccepted, h.scanStatus(rec))
}

// GetScan returns the status of a session, including its result once finished
func (h *Handlers) GetScan(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.session(mux.Vars(r)["id"])
	if !ok {
		writeJSONError(w, http.StatusNotFound, "scan not found")
		return
	}

	writeJSON(w, http.StatusOK, h.scanStatus(rec))
}

// ScanEvents streams a session as newline-delimited JSON: every progress
// event from the start, then one result line.
func (h *Handlers) ScanEvents(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.session(mux.Vars(r)["id"])
	if !ok {
		writeJSONError(w, http.StatusNotFound, "scan not found")
		return
	}

	stream := streaming.NewEventStream(r.Context(), w, h.streamConfig)
	defer stream.Close()

	next := 0
	for {
		events, result, changed := rec.since(next)
		for i := range events {
			if err := stream.Send(scanEvent{Type: "progress", Progress: &events[i]}); err != nil {
				logging.Debug("ScanEvents %s: %v", rec.sess.ID(), err)
				return
			}
		}
		next += len(events)

		if result != nil {
			if err := stream.Send(scanEvent{Type: "result", Result: newScanResult(*result)}); err != nil {
				logging.Debug("ScanEvents %s: %v", rec.sess.ID(), err)
			}
			return
		}

		if err := stream.Wait(changed); err != nil {
			logging.Debug("ScanEvents %s: %v", rec.sess.ID(), err)
			return
		}
	}
}

// CancelScan requests cancellation. Cancelling a finished session is a no-op.
func (h *Handlers) CancelScan(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.session(mux.Vars(r)["id"])
	if !ok {
		writeJSONError(w, http.StatusNotFound, "scan not found")
		return
	}

	rec.sess.Cancel()
	w.WriteHeader(http.StatusNoContent)
}
