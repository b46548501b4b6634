package listing

import (
	"io/fs"
	"sort"
	"time"

	"github.com/go-git/go-billy/v5"

	"media-catalog/internal/filesystem"
	"media-catalog/internal/logging"
)

// Entry is one directory member as reported by a Lister.
type Entry struct {
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Lister lists directories and stats paths. Implementations must be safe for
// concurrent use; a scan and HTTP listings share one Lister.
type Lister interface {
	// Stat describes path itself, following symlinks.
	Stat(path string) (Entry, error)
	// List returns the members of the directory at path.
	List(path string) ([]Entry, error)
}

func entryFromInfo(info fs.FileInfo) Entry {
	return Entry{
		Name:    info.Name(),
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

// OSLister lists the local filesystem. Symlinked directories are reported as
// non-directories so walks never follow them.
type OSLister struct {
	retry filesystem.RetryConfig
}

// NewOSLister creates an OSLister using retry for every stat and readdir.
func NewOSLister(retry filesystem.RetryConfig) *OSLister {
	return &OSLister{retry: retry}
}

// Stat implements Lister.
func (l *OSLister) Stat(path string) (Entry, error) {
	info, err := filesystem.StatWithRetry(path, l.retry)
	if err != nil {
		return Entry{}, err
	}
	return entryFromInfo(info), nil
}

// List implements Lister. Entries that vanish between readdir and stat are
// dropped.
func (l *OSLister) List(path string) ([]Entry, error) {
	dirEntries, err := filesystem.ReadDirWithRetry(path, l.retry)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			logging.Debug("Skipping %s in %s: %v", de.Name(), path, err)
			continue
		}
		entries = append(entries, Entry{
			Name:    de.Name(),
			IsDir:   de.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return entries, nil
}

// BillyLister lists a go-billy filesystem. Entries are returned sorted by
// name since billy implementations do not agree on ordering.
type BillyLister struct {
	fs billy.Filesystem
}

// NewBillyLister wraps fsys.
func NewBillyLister(fsys billy.Filesystem) *BillyLister {
	return &BillyLister{fs: fsys}
}

// Stat implements Lister.
func (l *BillyLister) Stat(path string) (Entry, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		return Entry{}, err
	}
	return entryFromInfo(info), nil
}

// List implements Lister.
func (l *BillyLister) List(path string) ([]Entry, error) {
	infos, err := l.fs.ReadDir(path)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, entryFromInfo(info))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
