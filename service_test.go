package md2site

// Notes:
// - End-to-end builds over real temp trees: records, feed, manifest
// - Per-document failure isolation: one bad document never stops the rest
// - copy-files declared twice still publishes each asset exactly once
// - Marked inline code spans come out as highlighted <code> elements

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writePost writes a markdown document with frontmatter under dir.
func writePost(t *testing.T, dir, name, frontmatter, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("creating post directory: %v", err)
	}
	content := "---\n" + frontmatter + "---\n\n" + body + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing post: %v", err)
	}
	return path
}

func testInput(srcDir, outDir string) Input {
	return Input{
		Site:      testSite(),
		Sources:   []Source{{Path: srcDir, Collection: "blog"}},
		OutputDir: outDir,
	}
}

// -----------------------------------------------------------------------------
// TestServiceBuild - Full pipeline over a small tree
// -----------------------------------------------------------------------------

func TestServiceBuild(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	outDir := t.TempDir()
	writePost(t, srcDir, "first.md",
		"title: First\ndate: \"2019-05-01\"\n",
		"Hello from the **first** post.")
	writePost(t, srcDir, "second.md",
		"title: Second\ndate: \"2019-05-16\"\ndescription: The newer post.\n",
		"Hello from the second post.")

	input := testInput(srcDir, outDir)
	input.Stages = []StageSpec{{Name: "typography"}}
	input.Feed = &FeedSettings{}
	input.Manifest = &ManifestSettings{
		Name:     "Example Blog",
		StartURL: "/",
		Icon:     "https://example.com/icon.png",
	}

	result, err := NewService().Build(context.Background(), input)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Failed() != 0 {
		t.Fatalf("failed = %d, want 0: %+v", result.Failed(), result.Documents)
	}

	// Records land at <out>/<collection>/<slug>.json.
	for _, slug := range []string{"first", "second"} {
		if _, err := os.Stat(filepath.Join(outDir, "blog", slug+".json")); err != nil {
			t.Errorf("record for %q missing: %v", slug, err)
		}
	}

	// Published is ordered newest first.
	if len(result.Published) != 2 {
		t.Fatalf("published = %d, want 2", len(result.Published))
	}
	if result.Published[0].Slug != "second" || result.Published[1].Slug != "first" {
		t.Errorf("published order = [%s %s], want [second first]",
			result.Published[0].Slug, result.Published[1].Slug)
	}

	// Feed lists entries in the same order.
	if len(result.FeedPaths) != 1 {
		t.Fatalf("feed paths = %v", result.FeedPaths)
	}
	rss, err := os.ReadFile(result.FeedPaths[0])
	if err != nil {
		t.Fatalf("reading feed: %v", err)
	}
	second := strings.Index(string(rss), "<title>Second</title>")
	first := strings.Index(string(rss), "<title>First</title>")
	if second < 0 || first < 0 || second > first {
		t.Errorf("feed order wrong (second at %d, first at %d):\n%s", second, first, rss)
	}
	// The authored description feeds the excerpt.
	if !strings.Contains(string(rss), "The newer post.") {
		t.Errorf("feed missing authored excerpt:\n%s", rss)
	}

	if result.ManifestPath != filepath.Join(outDir, "manifest.webmanifest") {
		t.Errorf("manifest path = %q", result.ManifestPath)
	}
	manifest, err := os.ReadFile(result.ManifestPath)
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	if !strings.Contains(string(manifest), "https://example.com/icon.png") {
		t.Errorf("external icon should pass through:\n%s", manifest)
	}
}

// -----------------------------------------------------------------------------
// TestServiceBuildCopyFilesIdempotent - Duplicate stage, one copy
// -----------------------------------------------------------------------------

func TestServiceBuildCopyFilesIdempotent(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	outDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcDir, "diagram.pdf"), []byte("%PDF-1.4 fake"), 0o600); err != nil {
		t.Fatalf("writing asset: %v", err)
	}
	writePost(t, srcDir, "a.md",
		"title: A\ndate: \"2019-05-01\"\n",
		"See the [diagram](diagram.pdf).")
	writePost(t, srcDir, "b.md",
		"title: B\ndate: \"2019-05-02\"\n",
		"Also the [diagram](diagram.pdf).")

	input := testInput(srcDir, outDir)
	input.Stages = []StageSpec{{Name: "copy-files"}, {Name: "copy-files"}}

	result, err := NewService().Build(context.Background(), input)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Failed() != 0 {
		t.Fatalf("failed = %d: %+v", result.Failed(), result.Documents)
	}

	// Two documents, two stage passes, one physical copy.
	if len(result.Assets) != 1 {
		t.Fatalf("published assets = %d, want 1: %+v", len(result.Assets), result.Assets)
	}
	copies := 0
	err = filepath.WalkDir(filepath.Join(outDir, "static"), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == "diagram.pdf" {
			copies++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking static dir: %v", err)
	}
	if copies != 1 {
		t.Errorf("diagram.pdf copies = %d, want 1", copies)
	}

	// Both documents reference the same published path.
	for _, doc := range result.Published {
		assets := doc.Assets()
		if len(assets) != 1 || !strings.HasPrefix(assets[0], "/static/") {
			t.Errorf("doc %s assets = %v", doc.Slug, assets)
		}
		if !strings.Contains(doc.Body, assets[0]) {
			t.Errorf("doc %s body not rewritten to %s", doc.Slug, assets[0])
		}
	}
}

// -----------------------------------------------------------------------------
// TestServiceBuildMissingDate - Failure isolation
// -----------------------------------------------------------------------------

func TestServiceBuildMissingDate(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	outDir := t.TempDir()
	writePost(t, srcDir, "dated.md",
		"title: Dated\ndate: \"2019-05-16\"\n",
		"Fine.")
	writePost(t, srcDir, "undated.md",
		"title: Undated\n",
		"No date here.")

	input := testInput(srcDir, outDir)
	input.Feed = &FeedSettings{}

	result, err := NewService().Build(context.Background(), input)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Failed() != 1 {
		t.Fatalf("failed = %d, want 1: %+v", result.Failed(), result.Documents)
	}

	var failed *DocumentResult
	for i := range result.Documents {
		if result.Documents[i].Err != nil {
			failed = &result.Documents[i]
		}
	}
	if failed == nil || failed.Slug != "undated" {
		t.Fatalf("failed document = %+v", failed)
	}
	if !errors.Is(failed.Err, ErrMissingDate) {
		t.Errorf("error = %v, want ErrMissingDate", failed.Err)
	}
	var docErr *DocumentError
	if !errors.As(failed.Err, &docErr) || docErr.Slug != "undated" {
		t.Errorf("error should carry document identity: %v", failed.Err)
	}

	// The good document still builds and is the only feed entry.
	if len(result.Published) != 1 || result.Published[0].Slug != "dated" {
		t.Fatalf("published = %+v", result.Published)
	}
	rss, err := os.ReadFile(filepath.Join(outDir, "rss.xml"))
	if err != nil {
		t.Fatalf("reading feed: %v", err)
	}
	if strings.Contains(string(rss), "Undated") {
		t.Errorf("failed document leaked into feed:\n%s", rss)
	}
}

// -----------------------------------------------------------------------------
// TestServiceBuildInlineHighlight - Marked spans become styled code
// -----------------------------------------------------------------------------

func TestServiceBuildInlineHighlight(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	outDir := t.TempDir()
	writePost(t, srcDir, "code.md",
		"title: Code\ndate: \"2019-05-16\"\n",
		"Call `go>fmt.Println(\"hi\")` to print.")

	input := testInput(srcDir, outDir)
	input.Stages = []StageSpec{
		{Name: "highlight", Options: map[string]any{"inlineCodeMarker": ">"}},
	}

	result, err := NewService().Build(context.Background(), input)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Failed() != 0 {
		t.Fatalf("failed = %d: %+v", result.Failed(), result.Documents)
	}

	html := result.Published[0].HTML
	if !strings.Contains(html, `language-go inline-code`) {
		t.Errorf("inline span not promoted:\n%s", html)
	}
	if strings.Contains(html, "go&gt;") || strings.Contains(html, "go>") {
		t.Errorf("marker leaked into output:\n%s", html)
	}
}

// -----------------------------------------------------------------------------
// TestServiceBuildErrors - Build-level error classification
// -----------------------------------------------------------------------------

func TestServiceBuildErrors(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	outDir := t.TempDir()
	writePost(t, srcDir, "post.md", "title: P\ndate: \"2019-05-16\"\n", "Body.")

	tests := []struct {
		name    string
		mutate  func(*Input)
		wantErr error
	}{
		{
			name:    "missing site title",
			mutate:  func(in *Input) { in.Site.Title = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown stage",
			mutate:  func(in *Input) { in.Stages = []StageSpec{{Name: "sparkle"}} },
			wantErr: ErrStageConfiguration,
		},
		{
			name:    "missing source root",
			mutate:  func(in *Input) { in.Sources[0].Path = filepath.Join(srcDir, "nope") },
			wantErr: ErrSourceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			input := testInput(srcDir, outDir)
			tt.mutate(&input)
			if _, err := NewService().Build(context.Background(), input); !errors.Is(err, tt.wantErr) {
				t.Errorf("Build() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestServiceBuildCancelled(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	outDir := t.TempDir()
	writePost(t, srcDir, "post.md", "title: P\ndate: \"2019-05-16\"\n", "Body.")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewService().Build(ctx, testInput(srcDir, outDir)); !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}
