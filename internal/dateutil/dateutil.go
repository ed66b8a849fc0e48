// Package dateutil provides strict date parsing for document frontmatter.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate indicates a date value that matches no accepted layout.
var ErrInvalidDate = errors.New("invalid date")

// MaxDateLength limits date string length to prevent abuse.
const MaxDateLength = 64

// DisplayLayout renders timestamps the way post headers and feed
// summaries show them, e.g. "May 16, 2019".
const DisplayLayout = "January 2, 2006"

// canonicalLayouts lists the accepted frontmatter date layouts, most
// specific first. Parsing is strict: a value matching none of these is a
// hard failure, never a silent default.
var canonicalLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseCanonical parses a frontmatter date string into a UTC timestamp.
// Date-only values resolve to midnight UTC. Returns ErrInvalidDate when
// the value is empty, oversized, or matches no accepted layout.
func ParseCanonical(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	if len(trimmed) > MaxDateLength {
		return time.Time{}, fmt.Errorf("%w: value exceeds %d characters", ErrInvalidDate, MaxDateLength)
	}

	for _, layout := range canonicalLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q (accepted: 2006-01-02, 2006-01-02 15:04:05, RFC 3339)", ErrInvalidDate, value)
}

// FormatDisplay renders a timestamp in the human-readable post-header form.
func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}
