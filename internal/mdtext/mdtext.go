// Package mdtext segments markdown source into prose and code regions so
// body transforms can honor code-span boundaries. Stages that rewrite
// prose (typography, emoji substitution, reference rewriting) operate on
// prose segments only; code segments pass through byte for byte.
//
// Recognized code regions: fenced blocks (``` or ~~~), inline backtick
// spans, and raw HTML code/pre/script/style elements. Indented code
// blocks are not recognized; content authored for this pipeline uses
// fences.
package mdtext

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind classifies a source segment.
type Kind int

const (
	KindProse Kind = iota
	KindInlineCode
	KindFencedCode
	KindHTMLCode
	KindHTMLTag
)

// IsCode reports whether content of this kind must never be altered by
// prose-level transforms.
func (k Kind) IsCode() bool {
	return k == KindInlineCode || k == KindFencedCode || k == KindHTMLCode
}

// Segment is a contiguous slice of the source. Concatenating the Text of
// all segments in order reproduces the source exactly.
type Segment struct {
	Kind Kind
	Text string
}

// codeElements are raw HTML elements whose content is code-like and
// therefore exempt from prose transforms.
var codeElements = []string{"code", "pre", "script", "style"}

// Split partitions src into prose, code, and raw-tag segments.
func Split(src string) []Segment {
	var segs []Segment
	proseStart := 0

	flush := func(end int) {
		if end > proseStart {
			segs = append(segs, Segment{KindProse, src[proseStart:end]})
		}
	}

	i := 0
	for i < len(src) {
		if atLineStart(src, i) {
			if end, ok := fencedBlock(src, i); ok {
				flush(i)
				segs = append(segs, Segment{KindFencedCode, src[i:end]})
				i, proseStart = end, end
				continue
			}
		}

		switch src[i] {
		case '`':
			if end, ok := inlineSpan(src, i); ok {
				flush(i)
				segs = append(segs, Segment{KindInlineCode, src[i:end]})
				i, proseStart = end, end
				continue
			}
			// Literal backtick run with no closer.
			for i < len(src) && src[i] == '`' {
				i++
			}
		case '<':
			if end, ok := codeElement(src, i); ok {
				flush(i)
				segs = append(segs, Segment{KindHTMLCode, src[i:end]})
				i, proseStart = end, end
				continue
			}
			if end, ok := htmlTag(src, i); ok {
				flush(i)
				segs = append(segs, Segment{KindHTMLTag, src[i:end]})
				i, proseStart = end, end
				continue
			}
			i++
		default:
			i++
		}
	}

	flush(len(src))
	return segs
}

// Join concatenates segments back into source text.
func Join(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

// TransformProse applies fn to every prose segment and returns the
// recombined source. Code and tag segments are untouched.
func TransformProse(src string, fn func(string) string) string {
	segs := Split(src)
	var b strings.Builder
	b.Grow(len(src))
	for _, s := range segs {
		if s.Kind == KindProse {
			b.WriteString(fn(s.Text))
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// TransformInlineCode offers every inline code span to fn. The span is
// the full source slice including backticks; inner is the logical content
// with delimiters and the symmetric CommonMark padding space removed.
// When fn returns ok, its result replaces the whole span.
func TransformInlineCode(src string, fn func(span, inner string) (string, bool)) string {
	segs := Split(src)
	var b strings.Builder
	b.Grow(len(src))
	for _, s := range segs {
		if s.Kind != KindInlineCode {
			b.WriteString(s.Text)
			continue
		}
		if repl, ok := fn(s.Text, InnerCode(s.Text)); ok {
			b.WriteString(repl)
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// InnerCode strips the backtick delimiters from an inline code span and
// removes one leading and trailing space when both are present, matching
// how markdown renderers treat padded spans like `` ` >foo ` ``.
func InnerCode(span string) string {
	n := 0
	for n < len(span) && span[n] == '`' {
		n++
	}
	if n == 0 || len(span) < 2*n {
		return span
	}
	inner := span[n : len(span)-n]
	if len(inner) >= 2 && inner[0] == ' ' && inner[len(inner)-1] == ' ' && strings.TrimSpace(inner) != "" {
		inner = inner[1 : len(inner)-1]
	}
	return inner
}

// Placeholder delimiters from the Unicode private use area; they cannot
// appear in legitimate document content.
const (
	placeholderStart = '\uE000'
	placeholderEnd   = '\uE001'
)

var placeholderPattern = regexp.MustCompile(`\x{E000}(\d+)\x{E001}`)

// MaskLinkTargets replaces markdown link and image destination runs,
// "](dest)" and "](dest "title")", with indexed placeholders so prose
// transforms cannot corrupt URLs or title delimiters. Link labels stay in
// place: they render as visible text and transforms apply to them.
func MaskLinkTargets(prose string) (string, []string) {
	var out strings.Builder
	var stash []string

	i := 0
	for {
		idx := strings.Index(prose[i:], "](")
		if idx < 0 {
			out.WriteString(prose[i:])
			break
		}
		start := i + idx
		end := matchParen(prose, start+1)
		if end < 0 {
			out.WriteString(prose[i : start+2])
			i = start + 2
			continue
		}
		out.WriteString(prose[i:start])
		out.WriteRune(placeholderStart)
		out.WriteString(strconv.Itoa(len(stash)))
		out.WriteRune(placeholderEnd)
		stash = append(stash, prose[start:end])
		i = end
	}

	return out.String(), stash
}

// UnmaskLinkTargets restores destinations stashed by MaskLinkTargets.
func UnmaskLinkTargets(masked string, stash []string) string {
	return placeholderPattern.ReplaceAllStringFunc(masked, func(m string) string {
		digits := m[len(string(placeholderStart)) : len(m)-len(string(placeholderEnd))]
		idx, err := strconv.Atoi(digits)
		if err != nil || idx < 0 || idx >= len(stash) {
			return m
		}
		return stash[idx]
	})
}

func atLineStart(src string, i int) bool {
	return i == 0 || src[i-1] == '\n'
}

// fencedBlock recognizes a fence opener at line start i and returns the
// index just past the closing fence line (or end of input when the fence
// is unterminated, per CommonMark).
func fencedBlock(src string, i int) (end int, ok bool) {
	j := i
	indent := 0
	for j < len(src) && src[j] == ' ' && indent < 3 {
		j++
		indent++
	}
	if j >= len(src) || (src[j] != '`' && src[j] != '~') {
		return 0, false
	}
	marker := src[j]
	runLen := 0
	for j+runLen < len(src) && src[j+runLen] == marker {
		runLen++
	}
	if runLen < 3 {
		return 0, false
	}

	// Skip the rest of the opener line (info string).
	lineEnd := strings.IndexByte(src[j:], '\n')
	if lineEnd < 0 {
		return len(src), true
	}
	pos := j + lineEnd + 1

	for pos < len(src) {
		nextNL := strings.IndexByte(src[pos:], '\n')
		lineStop := len(src)
		if nextNL >= 0 {
			lineStop = pos + nextNL
		}
		if closesFence(src[pos:lineStop], marker, runLen) {
			if nextNL >= 0 {
				return lineStop + 1, true
			}
			return len(src), true
		}
		if nextNL < 0 {
			break
		}
		pos = lineStop + 1
	}
	return len(src), true
}

// closesFence reports whether a line closes a fence opened with runLen
// marker characters: optional indent, at least runLen markers, then only
// trailing spaces.
func closesFence(line string, marker byte, runLen int) bool {
	k := 0
	indent := 0
	for k < len(line) && line[k] == ' ' && indent < 3 {
		k++
		indent++
	}
	count := 0
	for k < len(line) && line[k] == marker {
		k++
		count++
	}
	if count < runLen {
		return false
	}
	return strings.TrimRight(line[k:], " \t") == ""
}

// inlineSpan recognizes an inline code span opened by a backtick run at
// i. The closing run must have the same length; spans never cross blank
// lines.
func inlineSpan(src string, i int) (end int, ok bool) {
	n := 0
	for i+n < len(src) && src[i+n] == '`' {
		n++
	}
	j := i + n
	for j < len(src) {
		switch src[j] {
		case '`':
			m := 0
			for j+m < len(src) && src[j+m] == '`' {
				m++
			}
			if m == n {
				return j + m, true
			}
			j += m
		case '\n':
			if j+1 < len(src) && src[j+1] == '\n' {
				return 0, false
			}
			j++
		default:
			j++
		}
	}
	return 0, false
}

// codeElement recognizes a raw HTML code-like element starting at i and
// returns the index just past its closing tag.
func codeElement(src string, i int) (end int, ok bool) {
	rest := src[i:]
	var name string
	for _, candidate := range codeElements {
		if len(rest) <= len(candidate)+1 {
			continue
		}
		if !strings.EqualFold(rest[1:1+len(candidate)], candidate) {
			continue
		}
		next := rest[1+len(candidate)]
		if next == '>' || next == ' ' || next == '\t' || next == '\n' {
			name = candidate
			break
		}
	}
	if name == "" {
		return 0, false
	}

	openEnd := strings.IndexByte(rest, '>')
	if openEnd < 0 {
		return 0, false
	}
	if openEnd >= 1 && rest[openEnd-1] == '/' {
		// Self-closing; nothing to protect.
		return 0, false
	}

	closer := "</" + name
	body := strings.ToLower(rest[openEnd+1:])
	idx := strings.Index(body, closer)
	if idx < 0 {
		return 0, false
	}
	closeGT := strings.IndexByte(rest[openEnd+1+idx:], '>')
	if closeGT < 0 {
		return 0, false
	}
	return i + openEnd + 1 + idx + closeGT + 1, true
}

// htmlTag recognizes a single raw tag (or comment) starting at i.
func htmlTag(src string, i int) (end int, ok bool) {
	rest := src[i:]
	if len(rest) < 2 {
		return 0, false
	}
	c := rest[1]
	isName := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '/' || c == '!' || c == '?'
	if !isName {
		return 0, false
	}
	if strings.HasPrefix(rest, "<!--") {
		stop := strings.Index(rest, "-->")
		if stop < 0 {
			return 0, false
		}
		return i + stop + 3, true
	}
	gt := strings.IndexByte(rest, '>')
	if gt < 0 {
		return 0, false
	}
	return i + gt + 1, true
}

// matchParen scans from the '(' at openIdx and returns the index just
// past its balanced closing ')', or -1.
func matchParen(s string, openIdx int) int {
	if openIdx >= len(s) || s[openIdx] != '(' {
		return -1
	}
	depth := 0
	for j := openIdx; j < len(s); j++ {
		switch s[j] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return j + 1
			}
		}
	}
	return -1
}
