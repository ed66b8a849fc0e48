package md2site

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-md2site/internal/dateutil"
	"github.com/alnah/go-md2site/internal/yamlutil"
)

// frontmatterDelimiter opens and closes the metadata block.
const frontmatterDelimiter = "---"

// SplitFrontmatter separates the leading metadata block from the body.
// A document may begin with a "---" line; the block runs to the next
// "---" line. Documents without an opening delimiter have no
// frontmatter and the whole input is body.
// Returns ErrMalformedFrontmatter when an opened block never closes.
func SplitFrontmatter(src string) (frontmatter, body string, err error) {
	first, rest, more := cutLine(src)
	if strings.TrimRight(first, " \t\r") != frontmatterDelimiter {
		return "", src, nil
	}
	if !more {
		return "", "", fmt.Errorf("%w: unterminated frontmatter block", ErrMalformedFrontmatter)
	}

	var block strings.Builder
	for {
		line, tail, hasMore := cutLine(rest)
		if strings.TrimRight(line, " \t\r") == frontmatterDelimiter {
			return block.String(), tail, nil
		}
		block.WriteString(line)
		block.WriteByte('\n')
		if !hasMore {
			return "", "", fmt.Errorf("%w: unterminated frontmatter block", ErrMalformedFrontmatter)
		}
		rest = tail
	}
}

func cutLine(s string) (line, rest string, more bool) {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

// ParseFrontmatter splits and decodes the metadata block into typed
// fields. Unrecognized keys are preserved in Frontmatter.Extra.
//
// Validation:
//   - title is required and must be a non-empty string
//     (ErrMissingRequiredField).
//   - date is required (ErrMissingDate) and must match one of the
//     canonical layouts (ErrMalformedFrontmatter); there is no silent
//     default.
//   - tags must be a sequence of scalars (ErrMalformedFrontmatter).
//
// Parsing is deterministic: the same input yields identical results.
func ParseFrontmatter(src string) (Frontmatter, string, error) {
	block, body, err := SplitFrontmatter(src)
	if err != nil {
		return Frontmatter{}, "", err
	}

	var front Frontmatter
	if strings.TrimSpace(block) != "" {
		raw, err := yamlutil.DecodeMap([]byte(block))
		if err != nil {
			return Frontmatter{}, "", fmt.Errorf("%w: %v", ErrMalformedFrontmatter, err)
		}
		front, err = frontmatterFromMap(raw)
		if err != nil {
			return Frontmatter{}, "", err
		}
	}

	if strings.TrimSpace(front.Title) == "" {
		return Frontmatter{}, "", fmt.Errorf("%w: title", ErrMissingRequiredField)
	}
	if front.Date.IsZero() {
		return Frontmatter{}, "", fmt.Errorf("%w: frontmatter has no date field", ErrMissingDate)
	}
	return front, body, nil
}

func frontmatterFromMap(raw map[string]any) (Frontmatter, error) {
	var front Frontmatter
	for key, value := range raw {
		switch key {
		case "title":
			s, err := stringField(key, value)
			if err != nil {
				return Frontmatter{}, err
			}
			front.Title = s
		case "description":
			s, err := stringField(key, value)
			if err != nil {
				return Frontmatter{}, err
			}
			front.Description = s
		case "date":
			t, err := dateField(value)
			if err != nil {
				return Frontmatter{}, err
			}
			front.Date = t
		case "tags":
			tags, err := tagsField(value)
			if err != nil {
				return Frontmatter{}, err
			}
			front.Tags = tags
		default:
			if front.Extra == nil {
				front.Extra = make(map[string]any)
			}
			front.Extra[key] = value
		}
	}
	return front, nil
}

func stringField(key string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrMalformedFrontmatter, key, value)
	}
	return s, nil
}

func dateField(value any) (time.Time, error) {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return time.Time{}, nil
		}
		t, err := dateutil.ParseCanonical(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: date: %v", ErrMalformedFrontmatter, err)
		}
		return t, nil
	case time.Time:
		return v.UTC(), nil
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("%w: date must be a string, got %T", ErrMalformedFrontmatter, value)
	}
}

func tagsField(value any) ([]string, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: tags must be a sequence, got %T", ErrMalformedFrontmatter, value)
	}
	tags := make([]string, 0, len(list))
	for i, item := range list {
		switch v := item.(type) {
		case string:
			tags = append(tags, v)
		case bool, int, int64, uint64, float64:
			tags = append(tags, fmt.Sprint(v))
		default:
			return nil, fmt.Errorf("%w: tags[%d] must be a scalar, got %T", ErrMalformedFrontmatter, i, item)
		}
	}
	return tags, nil
}
