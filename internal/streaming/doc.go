/*
Package streaming writes newline-delimited JSON event streams over HTTP.

# Overview

Slow or disconnected clients can hold a handler goroutine for as long as a
stream stays open. [EventStream] bounds every write with a deadline set
through [http.ResponseController], watches the request context for
disconnects, and flushes after each event so progress reaches the client as
it is produced.

# Usage

	func (h *Handlers) ScanEvents(w http.ResponseWriter, r *http.Request) {
		stream := streaming.NewEventStream(r.Context(), w, streaming.DefaultConfig())
		defer stream.Close()

		for {
			events, result, changed := rec.since(next)
			for _, ev := range events {
				if err := stream.Send(ev); err != nil {
					return
				}
			}
			if result != nil {
				_ = stream.Send(result)
				return
			}
			if err := stream.Wait(changed); err != nil {
				return
			}
		}
	}

# Errors

  - [ErrClientGone]: the request context ended
  - [ErrWriteTimeout]: a write missed its deadline or MaxDuration passed
  - [ErrStreamClosed]: Send after Close

Middleware wrapping the ResponseWriter must implement Unwrap so the
ResponseController reaches the connection; writers that support neither
deadlines nor flushing are written to without them.
*/
package streaming
