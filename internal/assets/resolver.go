package assets

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// URI scheme per RFC 3986: ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ) ":".
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

// IsLocalRef reports whether a body reference names a local file the
// store should resolve. Anchors, site-absolute paths, protocol-relative
// URLs and anything carrying a URI scheme (http:, mailto:, data:) are
// not local.
func IsLocalRef(ref string) bool {
	if ref == "" {
		return false
	}
	if strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "/") {
		return false
	}
	return !schemePattern.MatchString(ref)
}

// Resolve maps a markdown file reference to an absolute source path.
// Relative references are tried against the document directory first,
// then against each source root in order; the first existing regular
// file wins. Percent escapes are decoded and query or fragment suffixes
// dropped, so references like "my%20photo.png?raw" resolve.
//
// Returns ErrNotFound when no candidate exists and ErrPathEscape when
// the reference cannot resolve inside any source root.
func (s *Store) Resolve(baseDir, ref string) (string, error) {
	cleaned := cleanRef(ref)
	if cleaned == "" {
		return "", fmt.Errorf("%w: empty reference %q", ErrNotFound, ref)
	}

	candidates := s.candidates(baseDir, cleaned)
	contained := 0
	tried := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		resolved, err := s.containedPath(candidate)
		if err != nil {
			continue
		}
		contained++
		tried = append(tried, resolved)
		if fileutil.FileExists(resolved) {
			return resolved, nil
		}
	}

	if contained == 0 {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, ref)
	}
	return "", fmt.Errorf("%w: %q (tried %s)", ErrNotFound, ref, strings.Join(tried, ", "))
}

// cleanRef strips query and fragment suffixes and decodes percent
// escapes. Markdown destinations use forward slashes regardless of OS.
func cleanRef(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if decoded, err := url.PathUnescape(ref); err == nil {
		ref = decoded
	}
	return filepath.FromSlash(ref)
}

func (s *Store) candidates(baseDir, ref string) []string {
	if filepath.IsAbs(ref) {
		return []string{ref}
	}

	var out []string
	if baseDir != "" {
		out = append(out, filepath.Join(baseDir, ref))
	}
	for _, root := range s.roots {
		out = append(out, filepath.Join(root, ref))
	}
	return out
}

// containedPath resolves candidate to an absolute, symlink-free path and
// verifies it stays inside one of the source roots.
func (s *Store) containedPath(candidate string) (string, error) {
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPathEscape, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	} else if realDir, dirErr := filepath.EvalSymlinks(filepath.Dir(abs)); dirErr == nil {
		// The file may not exist yet; normalizing the parent keeps the
		// containment check comparing real paths.
		abs = filepath.Join(realDir, filepath.Base(abs))
	}

	for _, root := range s.roots {
		if abs == root || strings.HasPrefix(abs, root+string(filepath.Separator)) {
			return abs, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrPathEscape, abs)
}
