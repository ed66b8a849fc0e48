package md2site

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/hints"
	"github.com/alnah/go-md2site/internal/mdtext"
)

// Raster image extensions stay with the images stage.
var defaultIgnoreExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".ico", ".avif",
}

// copyFilesStage publishes local files referenced by plain markdown
// links and rewrites each destination to the published public path.
// Declaring the stage twice is harmless: rewritten destinations start
// with /static/ and are no longer local, and the store copies each
// distinct source exactly once.
type copyFilesStage struct {
	ignore map[string]bool
}

func newCopyFilesStage(options map[string]any) (Stage, error) {
	opts := newStageOptions("copy-files", options)
	exts := opts.StringSlice("ignoreExtensions", defaultIgnoreExtensions)
	if err := opts.Err(); err != nil {
		return nil, err
	}

	ignore := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		ignore[ext] = true
	}
	return &copyFilesStage{ignore: ignore}, nil
}

func (s *copyFilesStage) Name() string { return "copy-files" }

func (s *copyFilesStage) Transform(ctx context.Context, sc *StageContext, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	segs := mdtext.Split(body)
	for i := range segs {
		if segs[i].Kind != mdtext.KindProse {
			continue
		}
		text, err := s.rewriteLinks(sc, segs[i].Text)
		if err != nil {
			return "", err
		}
		segs[i].Text = text
	}
	return mdtext.Join(segs), nil
}

func (s *copyFilesStage) rewriteLinks(sc *StageContext, prose string) (string, error) {
	var out strings.Builder
	rest := prose
	for {
		idx := strings.IndexByte(rest, '[')
		if idx < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		if idx > 0 && (rest[idx-1] == '!' || rest[idx-1] == '\\') {
			// Image syntax belongs to the images stage; escaped
			// brackets are literal text.
			out.WriteString(rest[:idx+1])
			rest = rest[idx+1:]
			continue
		}
		out.WriteString(rest[:idx])
		rest = rest[idx:]

		link, length, ok := parseInlineLink(rest)
		if !ok || !s.shouldPublish(link.dest) {
			out.WriteByte('[')
			rest = rest[1:]
			continue
		}

		public, err := sc.PublishLocal(link.dest)
		if err != nil {
			if errors.Is(err, assets.ErrNotFound) {
				return "", fmt.Errorf("linked file %q: %w%s", link.dest, err, hints.ForAssetNotFound())
			}
			return "", fmt.Errorf("linked file %q: %w", link.dest, err)
		}
		out.WriteString(renderLink(link.label, public, link.title))
		rest = rest[length:]
	}
}

func (s *copyFilesStage) shouldPublish(dest string) bool {
	return assets.IsLocalRef(dest) && !s.ignore[refExtension(dest)]
}

// refExtension returns the lowercase extension of a reference with any
// query or fragment suffix removed.
func refExtension(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	return strings.ToLower(path.Ext(ref))
}

// renderLink re-emits a markdown link with a rewritten destination.
// Destinations holding spaces or parentheses go in angle brackets.
func renderLink(label, dest, title string) string {
	if strings.ContainsAny(dest, " ()") {
		dest = "<" + dest + ">"
	}
	if title != "" {
		return fmt.Sprintf("[%s](%s %q)", label, dest, title)
	}
	return fmt.Sprintf("[%s](%s)", label, dest)
}
