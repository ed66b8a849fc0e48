package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// publicPrefix is the URL prefix under which published assets are served.
const publicPrefix = "/static"

// hashLength is the number of hex digits of the content hash used in
// published paths. Twelve digits keep URLs short while making collisions
// across a site's assets implausible.
const hashLength = 12

// PublishedAsset records one file copied into the output tree.
type PublishedAsset struct {
	Source string `json:"source"` // absolute path of the original file
	Public string `json:"public"` // site-relative URL, e.g. /static/a1b2c3d4e5f6/photo.png
}

// Store resolves markdown file references against source roots and copies
// them into the output tree under content-addressed paths. One Store is
// shared by every document in a build; all methods are safe for
// concurrent use.
type Store struct {
	outDir string
	roots  []string

	mu        sync.Mutex
	published map[string]PublishedAsset // keyed by absolute source path
}

// NewStore creates a Store publishing into outDir. Each root must be an
// existing readable directory. References resolve against the document
// directory first, then against roots in order.
// Returns ErrInvalidRoot if outDir is empty or a root is unusable.
func NewStore(outDir string, roots []string) (*Store, error) {
	if outDir == "" {
		return nil, fmt.Errorf("%w: empty output directory", ErrInvalidRoot)
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}

	absRoots := make([]string, 0, len(roots))
	for _, root := range roots {
		abs, err := normalizeRoot(root)
		if err != nil {
			return nil, err
		}
		absRoots = append(absRoots, abs)
	}

	return &Store{
		outDir:    absOut,
		roots:     absRoots,
		published: make(map[string]PublishedAsset),
	}, nil
}

// normalizeRoot resolves a root to an absolute, symlink-free directory
// path so later containment checks compare like with like.
func normalizeRoot(root string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidRoot)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: directory does not exist: %s", ErrInvalidRoot, abs)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: not a directory: %s", ErrInvalidRoot, abs)
	}
	return abs, nil
}

// Publish copies the file at absPath into the output tree and returns its
// public URL. Publishing the same source again returns the first result
// without copying.
func (s *Store) Publish(absPath string) (string, error) {
	s.mu.Lock()
	if a, ok := s.published[absPath]; ok {
		s.mu.Unlock()
		return a.Public, nil
	}
	s.mu.Unlock()

	digest, err := hashFile(absPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPublish, err)
	}

	name := filepath.Base(absPath)
	public := publicPrefix + "/" + digest + "/" + name
	target := filepath.Join(s.outDir, "static", digest, name)

	if err := fileutil.CopyFileAtomic(absPath, target); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPublish, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.published[absPath]; ok {
		// Another goroutine won the race; it wrote identical bytes to
		// the identical target.
		return a.Public, nil
	}
	s.published[absPath] = PublishedAsset{Source: absPath, Public: public}
	return public, nil
}

// Published returns every published asset ordered by public path.
func (s *Store) Published() []PublishedAsset {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PublishedAsset, 0, len(s.published))
	for _, a := range s.published {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Public < out[j].Public })
	return out
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- path resolved within source roots
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil))[:hashLength], nil
}
