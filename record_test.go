package md2site

// Notes:
// - BuildRecord: projection of a finished document, frontmatter flattening
// - emitRecord: path layout <out>/<collection>/<slug>.json, nested slugs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// -----------------------------------------------------------------------------
// TestBuildRecord - Document projection
// -----------------------------------------------------------------------------

func TestBuildRecord(t *testing.T) {
	t.Parallel()

	date := time.Date(2019, 5, 16, 0, 0, 0, 0, time.UTC)
	doc := &Document{
		Collection: "blog",
		SourcePath: "/content/blog/hello.md",
		Slug:       "hello",
		Front: Frontmatter{
			Title: "Hello",
			Date:  date,
			Tags:  []string{"go"},
			Extra: map[string]any{"draft": false},
		},
		Meta: Metadata{Excerpt: "Hi.", Tags: []string{"go"}, Published: date},
		HTML: "<p>Hi.</p>",
	}
	doc.RecordAsset("/static/abc123def456/pic.png")

	got := BuildRecord(doc)

	if got.Collection != "blog" || got.Slug != "hello" {
		t.Errorf("identity = %q/%q", got.Collection, got.Slug)
	}
	if got.SourcePath != "/content/blog/hello.md" {
		t.Errorf("sourcePath = %q", got.SourcePath)
	}
	if got.HTML != "<p>Hi.</p>" {
		t.Errorf("html = %q", got.HTML)
	}
	if !reflect.DeepEqual(got.Assets, []string{"/static/abc123def456/pic.png"}) {
		t.Errorf("assets = %v", got.Assets)
	}
	if got.Frontmatter["title"] != "Hello" {
		t.Errorf("frontmatter title = %v", got.Frontmatter["title"])
	}
	if got.Frontmatter["draft"] != false {
		t.Errorf("frontmatter extra = %v", got.Frontmatter["draft"])
	}
	if got.Meta.Excerpt != "Hi." || !got.Meta.Published.Equal(date) {
		t.Errorf("meta = %+v", got.Meta)
	}
}

// -----------------------------------------------------------------------------
// TestEmitRecord - Artifact layout on disk
// -----------------------------------------------------------------------------

func TestEmitRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		slug string
		want string // relative to outDir
	}{
		{name: "flat slug", slug: "hello", want: filepath.Join("blog", "hello.json")},
		{name: "nested slug", slug: "2019/hello", want: filepath.Join("blog", "2019", "hello.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			outDir := t.TempDir()
			date := time.Date(2019, 5, 16, 0, 0, 0, 0, time.UTC)
			doc := &Document{
				Collection: "blog",
				SourcePath: "/content/blog/hello.md",
				Slug:       tt.slug,
				Front:      Frontmatter{Title: "Hello", Date: date},
				Meta:       Metadata{Excerpt: "Hi.", Published: date},
				HTML:       "<p>Hi.</p>",
			}

			path, err := emitRecord(outDir, doc)
			if err != nil {
				t.Fatalf("emitRecord() error = %v", err)
			}
			if path != filepath.Join(outDir, tt.want) {
				t.Errorf("path = %q, want %q", path, filepath.Join(outDir, tt.want))
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading record: %v", err)
			}
			if !strings.HasSuffix(string(data), "\n") {
				t.Errorf("record missing trailing newline")
			}

			var decoded Record
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("record is not valid JSON: %v", err)
			}
			if decoded.Slug != tt.slug {
				t.Errorf("slug = %q, want %q", decoded.Slug, tt.slug)
			}
			if decoded.HTML != "<p>Hi.</p>" {
				t.Errorf("html = %q", decoded.HTML)
			}
		})
	}
}
