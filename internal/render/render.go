// Package render converts transformed markdown into HTML fragments and
// provides the fragment-level HTML utilities shared by body transforms
// and excerpt derivation.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrRender indicates markdown to HTML conversion failed.
var ErrRender = errors.New("markdown rendering failed")

// Renderer abstracts markdown to HTML conversion.
type Renderer interface {
	Render(ctx context.Context, content string) (string, error)
}

// Options tune the HTML output. ShowLineNumbers is forwarded from the
// syntax highlighting transform configuration so fenced blocks and
// promoted inline spans share one setting.
type Options struct {
	ShowLineNumbers bool
}

// GoldmarkRenderer converts markdown to an HTML fragment using goldmark
// (pure Go).
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewGoldmarkRenderer creates a GoldmarkRenderer with GFM extensions and
// class-based syntax highlighting.
//
// Raw HTML passthrough is enabled: body transforms run before rendering
// and inject figure, iframe, and code markup that must survive into the
// fragment. Content is the site author's own, not untrusted input.
func NewGoldmarkRenderer(opts Options) *GoldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes so themes ship as stylesheets
					chromahtml.WithLineNumbers(opts.ShowLineNumbers),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Heading IDs for anchors
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			html.WithUnsafe(),
		),
	)
	return &GoldmarkRenderer{md: md}
}

// Render converts markdown to an HTML fragment. Supports context
// cancellation via goroutine + select since goldmark doesn't natively
// take a context.
func (r *GoldmarkRenderer) Render(ctx context.Context, content string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrRender, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

// Compile-time interface check.
var _ Renderer = (*GoldmarkRenderer)(nil)
