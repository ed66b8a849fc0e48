package md2site

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-md2site/internal/mdtext"
	"github.com/alnah/go-md2site/internal/render"
)

const embedItemClass = "embed-responsive-item"

const embedItemStyle = "position:absolute;top:0;left:0;width:100%;height:100%;border:0"

// embeddableElements are wrapped in aspect-preserving containers.
// video and audio stay untouched; they size themselves.
var embeddableElements = map[string]bool{
	"iframe": true,
	"object": true,
	"embed":  true,
}

// embedsStage wraps raw iframe, object and embed elements in a container
// that preserves their aspect ratio at any viewport width. Wrapped
// elements are marked and skipped when the stage runs again.
type embedsStage struct {
	wrapperStyle string
	defaultRatio float64
}

func newEmbedsStage(options map[string]any) (Stage, error) {
	opts := newStageOptions("embeds", options)
	s := &embedsStage{
		wrapperStyle: opts.String("wrapperStyle", ""),
		defaultRatio: opts.Float("defaultAspectRatio", DefaultAspectRatio),
	}
	if err := opts.Err(); err != nil {
		return nil, err
	}
	if s.defaultRatio <= 0 {
		return nil, fmt.Errorf("%w: stage embeds: defaultAspectRatio must be positive, got %v",
			ErrStageConfiguration, s.defaultRatio)
	}
	return s, nil
}

func (s *embedsStage) Name() string { return "embeds" }

func (s *embedsStage) Transform(ctx context.Context, sc *StageContext, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	segs := mdtext.Split(body)
	out := make([]mdtext.Segment, 0, len(segs))
	for i := 0; i < len(segs); i++ {
		seg := segs[i]
		if seg.Kind != mdtext.KindHTMLTag {
			out = append(out, seg)
			continue
		}
		name, closing := tagName(seg.Text)
		if closing || !embeddableElements[name] {
			out = append(out, seg)
			continue
		}

		end, ok := elementEnd(segs, i, name)
		if !ok {
			out = append(out, seg)
			continue
		}
		raw := mdtext.Join(segs[i : end+1])
		wrapped, changed, err := s.wrapElement(raw)
		if err != nil {
			return "", fmt.Errorf("embed %s: %w", name, err)
		}
		if changed {
			out = append(out, mdtext.Segment{Kind: mdtext.KindHTMLTag, Text: wrapped})
		} else {
			out = append(out, segs[i:end+1]...)
		}
		i = end
	}
	return mdtext.Join(out), nil
}

// wrapElement parses one raw element, reads its dimensions and re-emits
// it inside the responsive container. Returns changed=false when the
// element already carries the marker class.
func (s *embedsStage) wrapElement(raw string) (string, bool, error) {
	container, err := render.ParseFragment(raw)
	if err != nil {
		return "", false, err
	}
	node := firstEmbeddable(container)
	if node == nil {
		return "", false, nil
	}
	if hasClass(node, embedItemClass) {
		return "", false, nil
	}

	ratio := s.defaultRatio
	w, wok := attrDimension(node, "width")
	h, hok := attrDimension(node, "height")
	if wok && hok {
		ratio = h / w * 100
	}

	appendAttrValue(node, "class", embedItemClass, " ")
	appendAttrValue(node, "style", embedItemStyle, ";")

	inner, err := render.RenderFragment(container)
	if err != nil {
		return "", false, err
	}

	style := fmt.Sprintf("position:relative;display:block;width:100%%;padding-bottom:%s", formatPercent(ratio))
	if s.wrapperStyle != "" {
		style += ";" + strings.Trim(s.wrapperStyle, ";")
	}
	return fmt.Sprintf(`<div class="embed-responsive" style="%s">%s</div>`, style, inner), true, nil
}

// tagName extracts the lowercase element name from a raw tag and reports
// whether it is a closing tag. Comments and doctypes yield an empty name.
func tagName(tag string) (name string, closing bool) {
	if len(tag) < 2 || tag[0] != '<' {
		return "", false
	}
	rest := tag[1:]
	if strings.HasPrefix(rest, "/") {
		closing = true
		rest = rest[1:]
	}
	end := strings.IndexAny(rest, " \t\n/>")
	if end < 0 {
		end = len(rest)
	}
	return strings.ToLower(rest[:end]), closing
}

// elementEnd returns the index of the segment closing the element opened
// at start. Void and self-closing elements end at their own segment.
func elementEnd(segs []mdtext.Segment, start int, name string) (int, bool) {
	open := segs[start].Text
	if name == "embed" || strings.HasSuffix(open, "/>") {
		return start, true
	}
	depth := 1
	for j := start + 1; j < len(segs); j++ {
		if segs[j].Kind != mdtext.KindHTMLTag {
			continue
		}
		n, closing := tagName(segs[j].Text)
		if n != name {
			continue
		}
		if closing {
			depth--
			if depth == 0 {
				return j, true
			}
		} else if !strings.HasSuffix(segs[j].Text, "/>") {
			depth++
		}
	}
	return 0, false
}

func firstEmbeddable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && embeddableElements[n.Data] {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := firstEmbeddable(c); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// appendAttrValue appends value to the named attribute, creating it when
// absent and joining with sep when present.
func appendAttrValue(n *html.Node, key, value, sep string) {
	for i, attr := range n.Attr {
		if attr.Key != key {
			continue
		}
		existing := strings.TrimRight(attr.Val, sep+" ")
		if existing == "" {
			n.Attr[i].Val = value
		} else {
			n.Attr[i].Val = existing + sep + value
		}
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// attrDimension reads a numeric width or height attribute in pixels.
// Percentages and unparseable values do not count.
func attrDimension(n *html.Node, key string) (float64, bool) {
	for _, attr := range n.Attr {
		if attr.Key != key {
			continue
		}
		val := strings.TrimSpace(attr.Val)
		val = strings.TrimSuffix(val, "px")
		if val == "" || strings.HasSuffix(val, "%") {
			return 0, false
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// formatPercent renders a ratio as a CSS percentage, trimming trailing
// zeros so 56.25 stays "56.25%" and 50.00 becomes "50%".
func formatPercent(ratio float64) string {
	s := strconv.FormatFloat(ratio, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + "%"
}
