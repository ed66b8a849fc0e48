package md2site

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/alnah/go-md2site/internal/mdtext"
)

const (
	enDash        = "–"
	emDash        = "—"
	ellipsis      = "…"
	leftDouble    = '“'
	rightDouble   = '”'
	leftSingle    = '‘'
	rightSingle   = '’'
	quoteOpeners  = "([{–—"
	dashSeparator = "---"
)

// Thematic breaks and setext underlines are dash runs on their own line.
var dashRulePattern = regexp.MustCompile(`^ {0,3}-+\s*$`)

var dashReplacer = strings.NewReplacer(dashSeparator, emDash, "--", enDash)

// typographyStage converts straight quotes, dash runs and three-dot
// ellipses to their typographic forms. Code, raw HTML tags and link
// destinations keep their exact bytes.
type typographyStage struct {
	quotes   bool
	dashes   bool
	ellipses bool
}

func newTypographyStage(options map[string]any) (Stage, error) {
	opts := newStageOptions("typography", options)
	s := &typographyStage{
		quotes:   opts.Bool("quotes", true),
		dashes:   opts.Bool("dashes", true),
		ellipses: opts.Bool("ellipses", true),
	}
	if err := opts.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *typographyStage) Name() string { return "typography" }

func (s *typographyStage) Transform(ctx context.Context, sc *StageContext, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out := mdtext.TransformProse(body, func(prose string) string {
		masked, stash := mdtext.MaskLinkTargets(prose)
		masked = s.apply(masked)
		return mdtext.UnmaskLinkTargets(masked, stash)
	})
	return out, nil
}

func (s *typographyStage) apply(text string) string {
	if s.dashes {
		text = convertDashes(text)
	}
	if s.ellipses {
		text = strings.ReplaceAll(text, "...", ellipsis)
	}
	if s.quotes {
		text = convertQuotes(text)
	}
	return text
}

// convertDashes rewrites --- and -- inside lines. Lines that are nothing
// but dashes stay intact; they are thematic breaks or setext heading
// underlines, not punctuation.
func convertDashes(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if dashRulePattern.MatchString(line) {
			continue
		}
		lines[i] = dashReplacer.Replace(line)
	}
	return strings.Join(lines, "\n")
}

// convertQuotes chooses curly quote direction from the preceding rune.
// A quote opens after start of text, whitespace or an opening bracket;
// everything else closes, which also covers apostrophes inside words.
func convertQuotes(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i, r := range runes {
		switch r {
		case '"':
			if opensQuote(runes, i) {
				b.WriteRune(leftDouble)
			} else {
				b.WriteRune(rightDouble)
			}
		case '\'':
			if opensQuote(runes, i) {
				b.WriteRune(leftSingle)
			} else {
				b.WriteRune(rightSingle)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func opensQuote(runes []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev := runes[i-1]
	return unicode.IsSpace(prev) || strings.ContainsRune(quoteOpeners, prev)
}
