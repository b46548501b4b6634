package catalog

import (
	"reflect"
	"testing"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "Lower case", in: "a.png", want: "png"},
		{name: "Upper case", in: "Holiday.JPG", want: "jpg"},
		{name: "Double extension", in: "backup.tar.gz", want: "gz"},
		{name: "No extension", in: "README", want: ""},
		{name: "Dot file", in: ".bashrc", want: "bashrc"},
		{name: "Full path", in: "/root/sub/b.Jpeg", want: "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extension(tt.in); got != tt.want {
				t.Errorf("Extension(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultTable())

	tests := []struct {
		ext  string
		want Category
	}{
		{"png", CategoryImage},
		{".PNG", CategoryImage},
		{"mkv", CategoryVideo},
		{"flac", CategoryAudio},
		{"pdf", CategoryDocument},
		{"7z", CategoryArchive},
		{"xyz", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := c.Classify(tt.ext); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestCustomTableIsNormalized(t *testing.T) {
	c := NewClassifier(Table{".RAW": CategoryImage})

	if got := c.ClassifyName("shot.raw"); got != CategoryImage {
		t.Errorf("ClassifyName = %v, want image", got)
	}
	if got := c.Classify("png"); got != CategoryOther {
		t.Errorf("custom table should not include defaults, got %v", got)
	}
}

func TestExtensionsFor(t *testing.T) {
	c := NewClassifier(Table{"png": CategoryImage, "jpg": CategoryImage, "mp4": CategoryVideo})

	got := c.ExtensionsFor(CategoryImage)
	want := []string{"jpg", "png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtensionsFor(image) = %v, want %v", got, want)
	}
	if got := c.ExtensionsFor(CategoryAudio); len(got) != 0 {
		t.Errorf("ExtensionsFor(audio) = %v, want empty", got)
	}
}

func TestExtensionSet(t *testing.T) {
	set := NewExtensionSet("PNG", ".jpg", "", "  ")

	if len(set) != 2 {
		t.Fatalf("expected 2 members, got %d (%v)", len(set), set.Sorted())
	}
	if !set.Matches("/root/a.png") {
		t.Error("a.png should match")
	}
	if !set.Matches("B.JPG") {
		t.Error("B.JPG should match")
	}
	if set.Matches("c.txt") {
		t.Error("c.txt should not match")
	}
	if set.Matches("png") {
		t.Error("a bare name without extension should not match")
	}
	if got := set.Sorted(); !reflect.DeepEqual(got, []string{"jpg", "png"}) {
		t.Errorf("Sorted() = %v", got)
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := ParseCategory("Image"); !ok || c != CategoryImage {
		t.Errorf("ParseCategory(Image) = %v, %v", c, ok)
	}
	if _, ok := ParseCategory("directory"); ok {
		t.Error("directory is not a file category")
	}
	if _, ok := ParseCategory("bogus"); ok {
		t.Error("bogus should not parse")
	}
}
