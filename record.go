package md2site

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// Record is the per-document artifact the external page renderer
// consumes: identity, frontmatter, derived metadata, rendered HTML and
// the published assets the body references.
type Record struct {
	Collection  string         `json:"collection"`
	Slug        string         `json:"slug"`
	SourcePath  string         `json:"sourcePath"`
	Frontmatter map[string]any `json:"frontmatter"`
	Meta        RecordMeta     `json:"meta"`
	HTML        string         `json:"html"`
	Assets      []string       `json:"assets"`
}

// RecordMeta mirrors Metadata with JSON field names.
type RecordMeta struct {
	Excerpt   string    `json:"excerpt"`
	Tags      []string  `json:"tags"`
	Published time.Time `json:"published"`
}

// BuildRecord projects a finished document into its emitted record.
func BuildRecord(doc *Document) Record {
	return Record{
		Collection:  doc.Collection,
		Slug:        doc.Slug,
		SourcePath:  doc.SourcePath,
		Frontmatter: doc.Front.Map(),
		Meta: RecordMeta{
			Excerpt:   doc.Meta.Excerpt,
			Tags:      doc.Meta.Tags,
			Published: doc.Meta.Published,
		},
		HTML:   doc.HTML,
		Assets: doc.Assets(),
	}
}

// emitRecord writes the document record to
// <outDir>/<collection>/<slug>.json atomically and returns the path.
// Nested slugs create intermediate directories.
func emitRecord(outDir string, doc *Document) (string, error) {
	record := BuildRecord(doc)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding record: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(outDir, doc.Collection, filepath.FromSlash(doc.Slug)+".json")
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("writing record: %w", err)
	}
	return path, nil
}
