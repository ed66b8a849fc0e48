package md2site

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-md2site/internal/mdtext"
)

// Language ids as they appear in fence info strings: go, c++, c#, f90.
var langIDPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_+#.-]*$`)

// highlightStage promotes marked inline code spans to highlighted inline
// code. A span reading `go>fmt.Println()` with marker ">" strips the
// marker, tokenizes the remainder as Go and re-emits it as a styled
// <code> element. Fenced blocks are highlighted by the renderer itself;
// this stage only owns the configuration the renderer needs.
type highlightStage struct {
	marker      string
	lineNumbers bool
}

func newHighlightStage(options map[string]any) (Stage, error) {
	opts := newStageOptions("highlight", options)
	s := &highlightStage{
		marker:      opts.String("inlineCodeMarker", ""),
		lineNumbers: opts.Bool("showLineNumbers", false),
	}
	if err := opts.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *highlightStage) Name() string { return "highlight" }

func (s *highlightStage) Transform(ctx context.Context, sc *StageContext, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.marker == "" {
		return body, nil
	}

	var tokenizeErr error
	out := mdtext.TransformInlineCode(body, func(span, inner string) (string, bool) {
		if tokenizeErr != nil {
			return "", false
		}
		lang, code, ok := splitMarkedCode(inner, s.marker)
		if !ok {
			return "", false
		}
		replaced, err := highlightInline(lang, code)
		if err != nil {
			tokenizeErr = err
			return "", false
		}
		return replaced, true
	})
	if tokenizeErr != nil {
		return "", fmt.Errorf("inline highlight: %w", tokenizeErr)
	}
	return out, nil
}

// splitMarkedCode splits an inline span into language and code around the
// promotion marker. Content before the marker must be a plausible
// language id or empty; anything else leaves the span alone.
func splitMarkedCode(inner, marker string) (lang, code string, ok bool) {
	idx := strings.Index(inner, marker)
	if idx < 0 {
		return "", "", false
	}
	lang = inner[:idx]
	code = inner[idx+len(marker):]
	if code == "" {
		return "", "", false
	}
	if lang != "" && !langIDPattern.MatchString(lang) {
		return "", "", false
	}
	return lang, code, true
}

// highlightInline tokenizes code with chroma and wraps the token spans
// in a <code> element. Token text is entity-escaped by the formatter;
// the code content itself is never modified.
func highlightInline(lang, code string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.PreventSurroundingPre(true),
	)
	var buf strings.Builder
	if err := formatter.Format(&buf, styles.Fallback, iterator); err != nil {
		return "", err
	}

	class := "inline-code"
	if lang != "" {
		class = "language-" + lang + " inline-code"
	}
	return fmt.Sprintf(`<code class="%s">%s</code>`, class, buf.String()), nil
}
