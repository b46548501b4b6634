// Package handlers exposes the scan engine, preview cache and directory
// listing over HTTP.
//
// Routes:
//
//	POST   /api/scans               start a scan (JSON body or ?category=image)
//	GET    /api/scans/{id}          session status, with the result once finished
//	GET    /api/scans/{id}/events   NDJSON progress events, then one result line
//	DELETE /api/scans/{id}          cancel (idempotent)
//	GET    /api/preview             JPEG preview of ?path within ?width x ?height
//	GET    /api/preview/cache       preview cache counters
//	DELETE /api/preview/cache       clear the preview cache
//	GET    /api/files               directory listing of ?path
//	GET    /api/roots               top-level directories of the media root
//	GET    /api/version             build information
//	GET    /livez, /readyz, /health probes
//
// Request paths may be relative to the media root or absolute inside it.
// Domain errors map to status codes: a second concurrent scan is 409, a
// missing root or source is 404, an undecodable image is 422.
//
// Each started session is drained by the handler as it runs, so a scan
// never stalls waiting for a client and its events can be replayed by any
// number of readers until the session is forgotten.
package handlers
