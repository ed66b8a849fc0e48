package md2site

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/alnah/go-md2site/internal/mdtext"
)

var shortcodePattern = regexp.MustCompile(`:([a-zA-Z0-9_+-]+):`)

// emojiShortcodes maps GitHub-style shortcode names to their emoji.
// Unlisted names pass through verbatim.
var emojiShortcodes = map[string]string{
	"+1":               "\U0001F44D",
	"-1":               "\U0001F44E",
	"100":              "\U0001F4AF",
	"airplane":         "✈️",
	"art":              "\U0001F3A8",
	"bell":             "\U0001F514",
	"book":             "\U0001F4D6",
	"books":            "\U0001F4DA",
	"bug":              "\U0001F41B",
	"bulb":             "\U0001F4A1",
	"calendar":         "\U0001F4C5",
	"camera":           "\U0001F4F7",
	"chart_upwards":    "\U0001F4C8",
	"checkered_flag":   "\U0001F3C1",
	"clap":             "\U0001F44F",
	"cloud":            "☁️",
	"coffee":           "☕",
	"computer":         "\U0001F4BB",
	"construction":     "\U0001F6A7",
	"cry":              "\U0001F622",
	"dart":             "\U0001F3AF",
	"eyes":             "\U0001F440",
	"fire":             "\U0001F525",
	"folder":           "\U0001F4C1",
	"gear":             "⚙️",
	"gift":             "\U0001F381",
	"globe":            "\U0001F310",
	"grin":             "\U0001F601",
	"hammer":           "\U0001F528",
	"heart":            "❤️",
	"hourglass":        "⏳",
	"house":            "\U0001F3E0",
	"joy":              "\U0001F602",
	"key":              "\U0001F511",
	"laughing":         "\U0001F606",
	"link":             "\U0001F517",
	"lock":             "\U0001F512",
	"mag":              "\U0001F50D",
	"memo":             "\U0001F4DD",
	"moon":             "\U0001F319",
	"muscle":           "\U0001F4AA",
	"package":          "\U0001F4E6",
	"pencil":           "✏️",
	"point_right":      "\U0001F449",
	"pray":             "\U0001F64F",
	"question":         "❓",
	"rainbow":          "\U0001F308",
	"rocket":           "\U0001F680",
	"rotating_light":   "\U0001F6A8",
	"smile":            "\U0001F604",
	"smiley":           "\U0001F603",
	"sparkles":         "✨",
	"star":             "⭐",
	"sunny":            "☀️",
	"tada":             "\U0001F389",
	"thinking":         "\U0001F914",
	"thumbsdown":       "\U0001F44E",
	"thumbsup":         "\U0001F44D",
	"trophy":           "\U0001F3C6",
	"umbrella":         "☂️",
	"warning":          "⚠️",
	"wave":             "\U0001F44B",
	"white_check_mark": "✅",
	"wink":             "\U0001F609",
	"wrench":           "\U0001F527",
	"x":                "❌",
	"zap":              "⚡",
}

// emojiStage replaces :shortcode: tokens in prose with a styled inline
// span around the emoji rune. Code spans and link targets stay as
// written.
type emojiStage struct {
	size  int
	class string
	style string
}

func newEmojiStage(options map[string]any) (Stage, error) {
	opts := newStageOptions("emoji", options)
	size := opts.Int("size", DefaultEmojiSize)
	class := opts.String("class", DefaultEmojiClass)
	styles := opts.StringMap("styles")
	if err := opts.Err(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: stage emoji: size must be positive, got %d",
			ErrStageConfiguration, size)
	}
	return &emojiStage{
		size:  size,
		class: class,
		style: emojiStyle(size, styles),
	}, nil
}

// emojiStyle builds the inline style string once: font-size first, then
// the free-form pairs in sorted key order so output is deterministic.
func emojiStyle(size int, styles map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "font-size:%dpx", size)

	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, ";%s:%s", k, styles[k])
	}
	return b.String()
}

func (s *emojiStage) Name() string { return "emoji" }

func (s *emojiStage) Transform(ctx context.Context, sc *StageContext, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out := mdtext.TransformProse(body, func(prose string) string {
		masked, stash := mdtext.MaskLinkTargets(prose)
		masked = shortcodePattern.ReplaceAllStringFunc(masked, func(token string) string {
			name := token[1 : len(token)-1]
			emoji, ok := emojiShortcodes[name]
			if !ok {
				return token
			}
			return fmt.Sprintf(`<span class="%s" style="%s">%s</span>`,
				html.EscapeString(s.class), html.EscapeString(s.style), emoji)
		})
		return mdtext.UnmaskLinkTargets(masked, stash)
	})
	return out, nil
}
