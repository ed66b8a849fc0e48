package mdtext_test

import (
	"strings"
	"testing"

	"github.com/alnah/go-md2site/internal/mdtext"
)

// Notes:
// - Segmentation is exercised through the public Split/Join/Transform
//   surface; internal scanners (fence, inline span, tag) are covered by
//   the documents below rather than tested in isolation.
// - Pathological HTML (unbalanced quotes inside attributes) is out of
//   scope; authored content never contains it.

// -----------------------------------------------------------------------------
// TestSplitJoinIdentity - Reassembling segments must reproduce the source
// -----------------------------------------------------------------------------

func TestSplitJoinIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"plain prose", "Just a paragraph.\n\nAnd another one.\n"},
		{"inline code", "Use `go build` to compile."},
		{"double backtick span", "A literal `` `tick` `` inside."},
		{"unclosed backtick", "A stray ` backtick."},
		{"fenced block", "Before\n\n```go\nfmt.Println(\"hi\")\n```\n\nAfter\n"},
		{"tilde fence", "~~~\nraw\n~~~\n"},
		{"unterminated fence", "```js\nconsole.log(1)\n"},
		{"indented fence", "  ```\nstill a fence\n  ```\n"},
		{"fence with longer closer", "```\ncode\n`````\ntail\n"},
		{"html code element", "Inline <code>x &lt; y</code> here."},
		{"html pre block", "<pre>\nkeep   spacing\n</pre>\n"},
		{"html comment", "text <!-- note --> more"},
		{"plain tag", `An <img src="a.png"> image.`},
		{"lone angle bracket", "2 < 3 and 5 > 4"},
		{
			"mixed document",
			"# Title\n\nSome `inline` code and a [link](https://example.com).\n\n" +
				"```python\nprint('x')\n```\n\n<pre>block</pre>\n\nDone.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := mdtext.Join(mdtext.Split(tt.src))
			if got != tt.src {
				t.Errorf("Join(Split(src)) = %q, want %q", got, tt.src)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// TestSplitKinds - Segment classification
// -----------------------------------------------------------------------------

func TestSplitKinds(t *testing.T) {
	t.Parallel()

	src := "Intro `span` mid\n\n```\nblock\n```\n<code>raw</code> <b>bold</b> end"
	segs := mdtext.Split(src)

	want := []mdtext.Kind{
		mdtext.KindProse,
		mdtext.KindInlineCode,
		mdtext.KindProse,
		mdtext.KindFencedCode,
		mdtext.KindHTMLCode,
		mdtext.KindProse,
		mdtext.KindHTMLTag,
		mdtext.KindProse,
		mdtext.KindHTMLTag,
		mdtext.KindProse,
	}

	if len(segs) != len(want) {
		t.Fatalf("Split() returned %d segments, want %d: %#v", len(segs), len(want), segs)
	}
	for i, k := range want {
		if segs[i].Kind != k {
			t.Errorf("segment %d kind = %v, want %v (text %q)", i, segs[i].Kind, k, segs[i].Text)
		}
	}
}

func TestKindIsCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind mdtext.Kind
		want bool
	}{
		{mdtext.KindProse, false},
		{mdtext.KindInlineCode, true},
		{mdtext.KindFencedCode, true},
		{mdtext.KindHTMLCode, true},
		{mdtext.KindHTMLTag, false},
	}

	for _, tt := range tests {
		if got := tt.kind.IsCode(); got != tt.want {
			t.Errorf("Kind(%v).IsCode() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

// -----------------------------------------------------------------------------
// TestTransformProse - Transforms apply to prose and never to code
// -----------------------------------------------------------------------------

func TestTransformProse(t *testing.T) {
	t.Parallel()

	src := "say `don't touch` and\n\n```\n\"leave\" -- this\n```\n\nrewrite -- this"
	got := mdtext.TransformProse(src, func(prose string) string {
		return strings.ReplaceAll(prose, "--", "—")
	})

	if strings.Contains(got, "rewrite --") {
		t.Errorf("prose was not transformed: %q", got)
	}
	if !strings.Contains(got, "`don't touch`") {
		t.Errorf("inline code was altered: %q", got)
	}
	if !strings.Contains(got, "\"leave\" -- this") {
		t.Errorf("fenced code was altered: %q", got)
	}
}

// -----------------------------------------------------------------------------
// TestTransformInlineCode - Selective span replacement
// -----------------------------------------------------------------------------

func TestTransformInlineCode(t *testing.T) {
	t.Parallel()

	src := "plain `keep` and `>go code` spans\n\n```\n`>not me`\n```\n"
	got := mdtext.TransformInlineCode(src, func(span, inner string) (string, bool) {
		if !strings.HasPrefix(inner, ">") {
			return "", false
		}
		return "<code>" + inner[1:] + "</code>", true
	})

	if !strings.Contains(got, "`keep`") {
		t.Errorf("unmarked span was replaced: %q", got)
	}
	if !strings.Contains(got, "<code>go code</code>") {
		t.Errorf("marked span was not promoted: %q", got)
	}
	if !strings.Contains(got, "`>not me`") {
		t.Errorf("span inside fenced block was touched: %q", got)
	}
}

func TestInnerCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		span string
		want string
	}{
		{"single backticks", "`go build`", "go build"},
		{"marker span", "`>js let x = 1`", ">js let x = 1"},
		{"double backticks", "``a `tick` b``", "a `tick` b"},
		{"padded per commonmark", "`` `lit` ``", "`lit`"},
		{"all spaces kept", "`  `", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := mdtext.InnerCode(tt.span); got != tt.want {
				t.Errorf("InnerCode(%q) = %q, want %q", tt.span, got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// TestMaskLinkTargets - Destination protection round trip
// -----------------------------------------------------------------------------

func TestMaskLinkTargets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"simple link", `See [the docs](https://example.com/a--b) now.`},
		{"image", `![alt text](./img/photo.png)`},
		{"titled link", `[ref](notes.md "it's 'quoted'")`},
		{"parens in url", `[wiki](https://en.wikipedia.org/wiki/Go_(language))`},
		{"two links", `[a](one.md) and [b](two.md)`},
		{"unbalanced tail", `broken ]( no close`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			masked, stash := mdtext.MaskLinkTargets(tt.src)
			restored := mdtext.UnmaskLinkTargets(masked, stash)
			if restored != tt.src {
				t.Errorf("round trip = %q, want %q", restored, tt.src)
			}
		})
	}
}

func TestMaskLinkTargetsHidesDestinations(t *testing.T) {
	t.Parallel()

	src := `Label [text](https://example.com "don't curl") tail -- here`
	masked, stash := mdtext.MaskLinkTargets(src)

	if strings.Contains(masked, "example.com") {
		t.Errorf("destination leaked into masked text: %q", masked)
	}
	if strings.Contains(masked, "don't curl") {
		t.Errorf("title leaked into masked text: %q", masked)
	}
	if !strings.Contains(masked, "Label [text") {
		t.Errorf("link label must stay visible for transforms: %q", masked)
	}
	if len(stash) != 1 {
		t.Errorf("stash size = %d, want 1", len(stash))
	}

	// A transform over the masked text must not break restoration.
	mangled := strings.ReplaceAll(masked, "--", "—")
	restored := mdtext.UnmaskLinkTargets(mangled, stash)
	if !strings.Contains(restored, `(https://example.com "don't curl")`) {
		t.Errorf("destination not restored intact: %q", restored)
	}
	if !strings.Contains(restored, "tail — here") {
		t.Errorf("prose transform lost during round trip: %q", restored)
	}
}
