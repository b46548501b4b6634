package catalog

import (
	"path/filepath"
	"sort"
	"strings"
)

// Category is the semantic kind of a file.
type Category string

const (
	// CategoryDirectory is reported for directories.
	CategoryDirectory Category = "directory"
	// CategoryImage represents image files.
	CategoryImage Category = "image"
	// CategoryVideo represents video files.
	CategoryVideo Category = "video"
	// CategoryAudio represents audio files.
	CategoryAudio Category = "audio"
	// CategoryDocument represents documents and spreadsheets.
	CategoryDocument Category = "document"
	// CategoryArchive represents compressed archives.
	CategoryArchive Category = "zip"
	// CategoryOther is the fallback for unknown extensions.
	CategoryOther Category = "other"
)

// ParseCategory returns the Category named by s, or false if s is not a known
// file category.
func ParseCategory(s string) (Category, bool) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryImage, CategoryVideo, CategoryAudio, CategoryDocument, CategoryArchive, CategoryOther:
		return c, true
	}
	return "", false
}

// Table maps a lower-case extension without dot to its category.
type Table map[string]Category

// DefaultTable returns a fresh copy of the built-in category table.
func DefaultTable() Table {
	t := Table{}
	add := func(c Category, exts ...string) {
		for _, e := range exts {
			t[e] = c
		}
	}
	add(CategoryImage, "jpg", "jpeg", "png", "gif", "bmp", "webp", "tiff", "tif", "svg", "ico", "heic", "heif", "avif")
	add(CategoryVideo, "mp4", "mov", "m4v", "avi", "mkv", "wmv", "flv", "webm", "mpeg", "mpg", "3gp")
	add(CategoryAudio, "mp3", "wav", "ogg", "m4a", "flac", "aac", "wma", "opus")
	add(CategoryDocument, "pdf", "doc", "docx", "txt", "rtf", "md", "odt", "xls", "xlsx", "ods", "csv", "ppt", "pptx", "odp")
	add(CategoryArchive, "zip", "rar", "7z", "tar", "gz", "bz2", "xz")
	return t
}

// Classifier is an immutable extension to category lookup.
type Classifier struct {
	table Table
}

// NewClassifier copies table into a new Classifier. Keys are normalized to
// lower case without a leading dot.
func NewClassifier(table Table) *Classifier {
	normalized := make(Table, len(table))
	for ext, c := range table {
		normalized[NormalizeExtension(ext)] = c
	}
	return &Classifier{table: normalized}
}

// Classify returns the category of ext, CategoryOther when unknown.
func (c *Classifier) Classify(ext string) Category {
	if cat, ok := c.table[NormalizeExtension(ext)]; ok {
		return cat
	}
	return CategoryOther
}

// ClassifyName classifies a file name by its extension.
func (c *Classifier) ClassifyName(name string) Category {
	return c.Classify(Extension(name))
}

// ExtensionsFor returns the sorted extensions mapped to category.
func (c *Classifier) ExtensionsFor(category Category) []string {
	var exts []string
	for ext, cat := range c.table {
		if cat == category {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// Extension returns the lower-case extension of name without the dot.
func Extension(name string) string {
	return NormalizeExtension(filepath.Ext(name))
}

// NormalizeExtension lower-cases ext and strips a single leading dot.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// ExtensionSet is a membership set of normalized extensions.
type ExtensionSet map[string]struct{}

// NewExtensionSet normalizes exts into a set. Empty entries are dropped.
func NewExtensionSet(exts ...string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, e := range exts {
		if n := NormalizeExtension(e); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Contains reports whether ext (already normalized) is in the set.
func (s ExtensionSet) Contains(ext string) bool {
	_, ok := s[ext]
	return ok
}

// Matches reports whether the extension of name is in the set.
func (s ExtensionSet) Matches(name string) bool {
	ext := Extension(name)
	return ext != "" && s.Contains(ext)
}

// Sorted returns the members in lexical order.
func (s ExtensionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
