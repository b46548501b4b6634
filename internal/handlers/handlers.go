package handlers

import (
	"sync"
	"time"

	"media-catalog/internal/catalog"
	"media-catalog/internal/listing"
	"media-catalog/internal/scan"
	"media-catalog/internal/startup"
	"media-catalog/internal/streaming"
	"media-catalog/internal/thumbnail"
)

// maxRetainedSessions bounds how many finished sessions stay addressable.
const maxRetainedSessions = 32

// Handlers serves the catalog API over a scan coordinator, a preview cache
// and a directory lister rooted at the media root.
type Handlers struct {
	scans      *scan.Coordinator
	previews   *thumbnail.Cache
	lister     listing.Lister
	classifier *catalog.Classifier

	mediaRoot    string
	maxDepth     int
	maxResults   int
	previewSize  thumbnail.Dimensions
	streamConfig streaming.Config
	startTime    time.Time

	mu       sync.Mutex
	sessions map[string]*scanRecord
	order    []string
}

// New creates Handlers. Zero ScanMaxDepth or ScanMaxResults in config mean
// no bound.
func New(scans *scan.Coordinator, previews *thumbnail.Cache, lister listing.Lister, classifier *catalog.Classifier, config *startup.Config) *Handlers {
	return &Handlers{
		scans:      scans,
		previews:   previews,
		lister:     lister,
		classifier: classifier,
		mediaRoot:  config.MediaRoot,
		maxDepth:   limitOrUnlimited(config.ScanMaxDepth),
		maxResults: limitOrUnlimited(config.ScanMaxResults),
		previewSize: thumbnail.Dimensions{
			Width:  config.PreviewWidth,
			Height: config.PreviewHeight,
		},
		streamConfig: streaming.DefaultConfig(),
		startTime:    time.Now(),
		sessions:     make(map[string]*scanRecord),
	}
}

func limitOrUnlimited(n int) int {
	if n <= 0 {
		return scan.Unlimited
	}
	return n
}

// track registers sess for later lookup and forgets the oldest finished
// sessions beyond maxRetainedSessions.
func (h *Handlers) track(sess *scan.Session) *scanRecord {
	rec := newScanRecord(sess)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[sess.ID()] = rec
	h.order = append(h.order, sess.ID())

	for len(h.order) > maxRetainedSessions {
		oldest := h.sessions[h.order[0]]
		if oldest != nil && !oldest.sess.State().Terminal() {
			break
		}
		delete(h.sessions, h.order[0])
		h.order = h.order[1:]
	}
	return rec
}

func (h *Handlers) session(id string) (*scanRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rec, ok := h.sessions[id]
	return rec, ok
}
