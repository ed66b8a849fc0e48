package md2site

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/hints"
	"github.com/alnah/go-md2site/internal/mdtext"
)

// imagesStage publishes local images through the asset store and
// re-emits them as width-capped responsive figures. External images
// pass through as plain markdown.
type imagesStage struct {
	maxWidth       int
	linkToOriginal bool
	wrapperClass   string
}

func newImagesStage(options map[string]any) (Stage, error) {
	opts := newStageOptions("images", options)
	s := &imagesStage{
		maxWidth:       opts.Int("maxWidth", DefaultMaxWidth),
		linkToOriginal: opts.Bool("linkToOriginal", false),
		wrapperClass:   opts.String("wrapperClass", DefaultWrapperClass),
	}
	if err := opts.Err(); err != nil {
		return nil, err
	}
	if s.maxWidth <= 0 {
		return nil, fmt.Errorf("%w: stage images: maxWidth must be positive, got %d",
			ErrStageConfiguration, s.maxWidth)
	}
	if s.wrapperClass == "" {
		return nil, fmt.Errorf("%w: stage images: wrapperClass must not be empty",
			ErrStageConfiguration)
	}
	return s, nil
}

func (s *imagesStage) Name() string { return "images" }

func (s *imagesStage) Transform(ctx context.Context, sc *StageContext, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	segs := mdtext.Split(body)
	for i := range segs {
		if segs[i].Kind != mdtext.KindProse {
			continue
		}
		text, err := s.rewriteImages(sc, segs[i].Text)
		if err != nil {
			return "", err
		}
		segs[i].Text = text
	}
	return mdtext.Join(segs), nil
}

// rewriteImages replaces every local inline image in prose with its
// published figure markup. Unparseable image syntax stays verbatim.
func (s *imagesStage) rewriteImages(sc *StageContext, prose string) (string, error) {
	var out strings.Builder
	rest := prose
	for {
		idx := strings.Index(rest, "![")
		if idx < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		out.WriteString(rest[:idx])
		rest = rest[idx:]

		img, length, ok := parseInlineImage(rest)
		if !ok || !assets.IsLocalRef(img.dest) {
			out.WriteString("![")
			rest = rest[2:]
			continue
		}

		public, err := sc.PublishLocal(img.dest)
		if err != nil {
			if errors.Is(err, assets.ErrNotFound) {
				return "", fmt.Errorf("image %q: %w%s", img.dest, err, hints.ForAssetNotFound())
			}
			return "", fmt.Errorf("image %q: %w", img.dest, err)
		}
		out.WriteString(s.figure(public, img))
		rest = rest[length:]
	}
}

// figure renders the wrapped responsive markup for one published image.
func (s *imagesStage) figure(public string, img inlineLink) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<span class="%s" style="max-width:%dpx">`,
		html.EscapeString(s.wrapperClass), s.maxWidth)
	if s.linkToOriginal {
		fmt.Fprintf(&b, `<a href="%s">`, html.EscapeString(public))
	}
	fmt.Fprintf(&b, `<img src="%s" alt="%s"`, html.EscapeString(public), html.EscapeString(img.label))
	if img.title != "" {
		fmt.Fprintf(&b, ` title="%s"`, html.EscapeString(img.title))
	}
	b.WriteString(` style="width:100%" />`)
	if s.linkToOriginal {
		b.WriteString("</a>")
	}
	b.WriteString("</span>")
	return b.String()
}

// inlineLink is one parsed [label](dest "title") occurrence. For image
// syntax the label holds the alt text.
type inlineLink struct {
	label string
	dest  string
	title string
}

// parseInlineImage parses image syntax at the start of src, which must
// begin with "![". Returns the number of bytes consumed.
func parseInlineImage(src string) (inlineLink, int, bool) {
	link, n, ok := parseInlineLink(src[1:])
	if !ok {
		return inlineLink{}, 0, false
	}
	return link, n + 1, true
}

// parseInlineLink parses link syntax at the start of src, which must
// begin with "[". Labels may nest balanced brackets; destinations may
// nest balanced parentheses. Returns the number of bytes consumed.
func parseInlineLink(src string) (inlineLink, int, bool) {
	depth := 1
	i := 1
	for i < len(src) && depth > 0 {
		switch src[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
		}
		i++
	}
	if depth != 0 || i >= len(src) || src[i] != '(' {
		return inlineLink{}, 0, false
	}
	label := src[1 : i-1]

	depth = 1
	j := i + 1
	for j < len(src) && depth > 0 {
		switch src[j] {
		case '\\':
			j++
		case '(':
			depth++
		case ')':
			depth--
		}
		j++
	}
	if depth != 0 {
		return inlineLink{}, 0, false
	}
	dest, title := splitDestTitle(src[i+1 : j-1])
	if dest == "" {
		return inlineLink{}, 0, false
	}
	return inlineLink{label: label, dest: dest, title: title}, j, true
}

// splitDestTitle separates a link destination from its optional quoted
// title. Angle-bracketed destinations may contain spaces.
func splitDestTitle(inner string) (dest, title string) {
	inner = strings.TrimSpace(inner)
	if strings.HasPrefix(inner, "<") {
		if end := strings.IndexByte(inner, '>'); end >= 0 {
			return inner[1:end], trimTitle(inner[end+1:])
		}
	}
	if i := strings.IndexAny(inner, " \t\n"); i >= 0 {
		return inner[:i], trimTitle(inner[i+1:])
	}
	return inner, ""
}

func trimTitle(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
