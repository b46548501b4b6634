package listing

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"media-catalog/internal/catalog"
)

// ErrInvalidDirectory is returned when a listing target does not exist or is
// not a directory.
var ErrInvalidDirectory = errors.New("invalid directory")

// FileRecord describes one member of a listed directory.
type FileRecord struct {
	Name         string           `json:"name"`
	Path         string           `json:"path"`
	IsDir        bool             `json:"isDirectory"`
	Size         int64            `json:"size"`
	ModTime      time.Time        `json:"-"`
	LastModified int64            `json:"lastModified"`
	Extension    string           `json:"extension"`
	Category     catalog.Category `json:"type"`
	ReadableSize string           `json:"readableSize"`
}

// DirectoryRef names a directory.
type DirectoryRef struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// ListDirectory returns the members of dir as FileRecords, directories first
// and then by name.
func ListDirectory(l Lister, c *catalog.Classifier, dir string) ([]FileRecord, error) {
	if err := requireDirectory(l, dir); err != nil {
		return nil, err
	}

	entries, err := l.List(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	records := make([]FileRecord, 0, len(entries))
	for _, e := range entries {
		rec := FileRecord{
			Name:         e.Name,
			Path:         filepath.Join(dir, e.Name),
			IsDir:        e.IsDir,
			Size:         e.Size,
			ModTime:      e.ModTime,
			LastModified: e.ModTime.UnixMilli(),
		}
		if e.IsDir {
			rec.Category = catalog.CategoryDirectory
		} else {
			rec.Extension = catalog.Extension(e.Name)
			rec.Category = c.Classify(rec.Extension)
			rec.ReadableSize = humanize.IBytes(uint64(max(e.Size, 0)))
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].IsDir != records[j].IsDir {
			return records[i].IsDir
		}
		return records[i].Name < records[j].Name
	})
	return records, nil
}

// Directories returns the immediate subdirectories of root sorted by name.
func Directories(l Lister, root string) ([]DirectoryRef, error) {
	if err := requireDirectory(l, root); err != nil {
		return nil, err
	}

	entries, err := l.List(root)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}

	dirs := make([]DirectoryRef, 0, len(entries))
	for _, e := range entries {
		if e.IsDir {
			dirs = append(dirs, DirectoryRef{Name: e.Name, Path: filepath.Join(root, e.Name)})
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	return dirs, nil
}

func requireDirectory(l Lister, dir string) error {
	info, err := l.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDirectory, dir, err)
	}
	if !info.IsDir {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidDirectory, dir)
	}
	return nil
}
