package md2site

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Discover walks each source root and returns the identity of every
// markdown document found, in lexical walk order. Content bytes are not
// read here; the service reads them per document on a worker.
//
// Dot-prefixed files and directories are skipped. Each call re-walks the
// current filesystem state, so discovery is restartable.
//
// Returns ErrSourceUnavailable when a root does not exist or is not a
// directory, and ErrDuplicateSlug when two documents in one collection
// derive the same slug.
func Discover(sources []Source) ([]RawDocument, error) {
	var docs []RawDocument
	seen := make(map[string]string) // collection/slug -> source path

	for _, src := range sources {
		root, err := filepath.Abs(src.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, src.Path, err)
		}

		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s does not exist", ErrSourceUnavailable, src.Path)
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, src.Path, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", ErrSourceUnavailable, src.Path)
		}

		walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p != root && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !isMarkdownFile(d.Name()) {
				return nil
			}

			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}

			slug := slugFromRelPath(rel)
			key := src.Collection + "/" + slug
			if prev, dup := seen[key]; dup {
				return fmt.Errorf("%w: %s derived by both %s and %s", ErrDuplicateSlug, key, prev, p)
			}
			seen[key] = p

			docs = append(docs, RawDocument{
				Collection: src.Collection,
				SourcePath: p,
				RelPath:    filepath.ToSlash(rel),
				Slug:       slug,
			})
			return nil
		})
		if walkErr != nil {
			if errors.Is(walkErr, ErrDuplicateSlug) {
				return nil, walkErr
			}
			return nil, fmt.Errorf("%w: walking %s: %v", ErrSourceUnavailable, src.Path, walkErr)
		}
	}

	return docs, nil
}

func isMarkdownFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// slugFromRelPath derives the document slug from its path relative to
// the source root: lower-cased, separators normalized to "/", extension
// stripped, a trailing "index" segment elided so directory-per-post
// layouts ("hello-world/index.md") and flat layouts ("hello-world.md")
// produce the same slug.
func slugFromRelPath(rel string) string {
	p := filepath.ToSlash(rel)
	p = strings.TrimSuffix(p, path.Ext(p))
	if path.Base(p) == "index" {
		if dir := path.Dir(p); dir != "." {
			p = dir
		}
	}
	return strings.ToLower(p)
}
