package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"media-catalog/internal/catalog"
	"media-catalog/internal/metrics"
	"media-catalog/internal/startup"
)

func testConfig(root string) *startup.Config {
	return &startup.Config{
		MediaRoot:         root,
		ScanBatchSize:     10,
		PreviewCacheBytes: 1 << 20,
		PreviewWidth:      64,
		PreviewHeight:     64,
		PreviewQuality:    90,
	}
}

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 200, 100))); err != nil {
		t.Fatal(err)
	}
}

func TestServicesGetStats(t *testing.T) {
	root := t.TempDir()
	writeTestPNG(t, filepath.Join(root, "a.png"))

	svc, err := newServices(testConfig(root))
	if err != nil {
		t.Fatalf("newServices() error = %v", err)
	}
	defer svc.close()

	// Verify the services implement the interface
	var _ metrics.StatsProvider = svc

	stats := svc.GetStats()
	if stats.PreviewCacheEntries != 0 || stats.ScanActive {
		t.Errorf("unexpected initial stats: %+v", stats)
	}
	if stats.PreviewCacheCapacity != 1<<20 {
		t.Errorf("PreviewCacheCapacity = %d, want %d", stats.PreviewCacheCapacity, 1<<20)
	}

	if _, err := svc.previews.Get(t.Context(), filepath.Join(root, "a.png"), 64, 64); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	stats = svc.GetStats()
	if stats.PreviewCacheEntries != 1 {
		t.Errorf("PreviewCacheEntries = %d, want 1", stats.PreviewCacheEntries)
	}
	// 64x32 bitmap at 4 bytes per pixel
	if stats.PreviewCacheBytes != 64*32*4 {
		t.Errorf("PreviewCacheBytes = %d, want %d", stats.PreviewCacheBytes, 64*32*4)
	}
	if svc.codec != "imaging" {
		t.Errorf("codec = %q, want imaging", svc.codec)
	}
}

func TestNewServicesRejectsZeroCapacity(t *testing.T) {
	config := testConfig(t.TempDir())
	config.PreviewCacheBytes = 0

	if _, err := newServices(config); err == nil {
		t.Error("expected error for zero preview cache capacity")
	}
}

func TestScanExtensions(t *testing.T) {
	c := catalog.NewClassifier(catalog.DefaultTable())

	tests := []struct {
		name     string
		exts     []string
		category string
		want     []string
		wantErr  bool
	}{
		{"Explicit", []string{".JPG", "png"}, "", []string{"jpg", "png"}, false},
		{"Category merged", []string{"txt"}, "zip", []string{"7z", "bz2", "gz", "rar", "tar", "txt", "xz", "zip"}, false},
		{"Unknown category", nil, "holograms", nil, true},
		{"Nothing", nil, "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scanExtensions(c, tt.exts, tt.category)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if strings.Join(got.Sorted(), ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got.Sorted(), tt.want)
			}
		})
	}
}

func TestPreviewName(t *testing.T) {
	tests := map[string]string{
		"/media/photo.png":      "photo.preview.jpg",
		"/media/archive.tar.gz": "archive.tar.preview.jpg",
		"/media/noext":          "noext.preview.jpg",
	}
	for in, want := range tests {
		if got := previewName(in); got != want {
			t.Errorf("previewName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScanCommand(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)
	if err := os.Mkdir(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeTestPNG(t, filepath.Join(root, "a.png"))
	writeTestPNG(t, filepath.Join(root, "sub", "b.png"))
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"scan", "--root", root, "--ext", "png", "--quiet"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("scan failed: %v\n%s", err, stderr.String())
	}

	lines := strings.Fields(stdout.String())
	if len(lines) != 2 {
		t.Fatalf("scan printed %v, want 2 paths", lines)
	}
	for _, l := range lines {
		if !strings.HasSuffix(l, ".png") {
			t.Errorf("unexpected path %s", l)
		}
	}
	if !strings.Contains(stderr.String(), "completed: 2 matches") {
		t.Errorf("summary missing from stderr: %q", stderr.String())
	}
}
