// Package scan implements the recursive scan engine.
//
// A [Coordinator] admits at most one [Session] at a time. Each session walks
// its root depth-first on its own goroutine, delivers [Progress] batches on
// [Session.Events] and exactly one terminal [Result] on [Session.Result]:
//
//	sess, err := coord.Start(ctx, scan.Request{
//	    Root:       "/media",
//	    Extensions: catalog.NewExtensionSet("jpg", "png"),
//	    MaxDepth:   10,
//	    MaxResults: 5000,
//	})
//	if errors.Is(err, scan.ErrAlreadyRunning) {
//	    // retry later, or cancel the active session first
//	}
//	for p := range sess.Events() {
//	    render(p.Batch)
//	}
//	res := <-sess.Result()
//
// Progress batches carry only paths matched since the previous batch.
// Result.Paths always carries the full list in discovery order and is
// authoritative; Progress.Total lets a consumer check its accumulated prefix.
//
// The events channel is buffered but finite. A consumer that never drains it
// stalls the walk until the session is cancelled; [Session.Wait] drains on the
// caller's behalf.
//
// # Cancellation
//
// [Coordinator.Cancel] and [Session.Cancel] are idempotent. The walk observes
// the request before descending into a subdirectory and before each directory
// entry, so a cancelled session returns a prefix of what an uncancelled run
// over the same tree would have found.
//
// # Errors
//
// Stat or list failures on the root fail the session before any progress is
// emitted. Failures below the root are logged, counted in Result.SkippedDirs
// and otherwise ignored.
package scan
