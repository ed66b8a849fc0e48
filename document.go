package md2site

import (
	"path/filepath"
	"time"
)

// RawDocument identifies a discovered content file before any bytes are
// read. The service reads content lazily, per document, on a worker.
type RawDocument struct {
	Collection string
	SourcePath string // absolute path of the markdown file
	RelPath    string // path relative to the source root, slash separated
	Slug       string // unique within the collection
}

// Frontmatter carries the typed metadata block of a document. Keys the
// pipeline does not interpret ride along in Extra.
type Frontmatter struct {
	Title       string
	Date        time.Time
	Description string
	Tags        []string
	Extra       map[string]any
}

// Map flattens the frontmatter back into a YAML-shaped mapping. Typed
// fields override same-named keys in Extra. Reparsing the marshalled map
// yields an equal Frontmatter.
func (f Frontmatter) Map() map[string]any {
	m := make(map[string]any, len(f.Extra)+4)
	for k, v := range f.Extra {
		m[k] = v
	}
	m["title"] = f.Title
	if !f.Date.IsZero() {
		m["date"] = f.Date.Format(time.RFC3339)
	}
	if f.Description != "" {
		m["description"] = f.Description
	} else {
		delete(m, "description")
	}
	if len(f.Tags) > 0 {
		tags := make([]string, len(f.Tags))
		copy(tags, f.Tags)
		m["tags"] = tags
	} else {
		delete(m, "tags")
	}
	return m
}

// Metadata holds fields derived from the parsed document.
type Metadata struct {
	Excerpt   string
	Tags      []string // normalized: lower-cased, trimmed, deduplicated
	Published time.Time
}

// Document is one content file moving through the pipeline. It is
// created at discovery, mutated only by the frontmatter parser, the
// transform stages and the deriver, and treated as immutable once the
// emitters run.
type Document struct {
	Collection string
	SourcePath string
	RelPath    string
	Slug       string

	Body  string // markdown body, current pipeline state
	Front Frontmatter
	Meta  Metadata
	HTML  string // rendered body, valid after the pipeline completes

	assets []string
}

// SourceDir returns the directory containing the source file. Relative
// asset references resolve against it first.
func (d *Document) SourceDir() string {
	return filepath.Dir(d.SourcePath)
}

// RecordAsset appends a published asset path to the document's asset
// list, keeping insertion order and dropping duplicates. Stages within
// one document run sequentially, so no locking is needed.
func (d *Document) RecordAsset(public string) {
	if public == "" {
		return
	}
	for _, existing := range d.assets {
		if existing == public {
			return
		}
	}
	d.assets = append(d.assets, public)
}

// Assets returns the recorded public asset paths in insertion order.
func (d *Document) Assets() []string {
	out := make([]string, len(d.assets))
	copy(out, d.assets)
	return out
}
