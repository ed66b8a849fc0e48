package md2site

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2site/internal/hints"
	"github.com/alnah/go-md2site/internal/render"
)

// deriveMetadata fills Document.Meta from the finalized rendered body:
// excerpt, normalized tags and the canonical publish timestamp. Pure and
// deterministic; the same document always derives the same metadata.
//
// Returns ErrMissingDate when the frontmatter carried no date. Documents
// failing here never reach the feed.
func deriveMetadata(doc *Document, excerptLength int) error {
	if doc.Front.Date.IsZero() {
		return fmt.Errorf("%w%s", ErrMissingDate, hints.ForMissingDate())
	}
	if excerptLength <= 0 {
		excerptLength = DefaultExcerptLength
	}

	doc.Meta = Metadata{
		Excerpt:   deriveExcerpt(doc.Front.Description, doc.HTML, excerptLength),
		Tags:      NormalizeTags(doc.Front.Tags),
		Published: doc.Front.Date,
	}
	return nil
}

// deriveExcerpt prefers the authored description. Without one, the
// rendered body is stripped to plain text and cut at a word boundary.
func deriveExcerpt(description, bodyHTML string, limit int) string {
	if d := strings.TrimSpace(description); d != "" {
		return d
	}
	return render.Truncate(render.Text(bodyHTML), limit)
}

// NormalizeTags lower-cases and trims tags, dropping empty values and
// duplicates while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
