// Package listing enumerates directories for the scanner and for UI-facing
// directory browsing.
//
// [Lister] is the capability interface the scan engine depends on. Two
// adapters are provided: [OSLister] reads the local filesystem through the
// NFS-tolerant helpers in internal/filesystem, and [BillyLister] reads any
// go-billy filesystem (memfs in tests, chrooted views in production).
//
// [ListDirectory] and [Directories] build presentation records on top of a
// Lister: sorted, classified and with human-readable sizes.
package listing
