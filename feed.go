package md2site

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// atomFileName is emitted next to the RSS feed when FeedSettings.Atom is
// set.
const atomFileName = "atom.xml"

// sortByPublished orders documents newest first. Ties break on slug so
// repeated builds emit identical feeds.
func sortByPublished(docs []*Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i].Meta.Published, docs[j].Meta.Published
		if !a.Equal(b) {
			return a.After(b)
		}
		return docs[i].Slug < docs[j].Slug
	})
}

// BuildFeed projects the ordered document set into a syndication feed.
// Documents are read, never mutated. The input must already be sorted
// newest first; entry order is preserved as given.
//
// Returns ErrEmptyCollection when settings require at least one entry
// and none exist. Without that requirement an empty feed is valid.
func BuildFeed(site Site, settings FeedSettings, docs []*Document, now time.Time) (*feeds.Feed, error) {
	if settings.RequireItems && len(docs) == 0 {
		return nil, fmt.Errorf("%w: feed requires at least one document", ErrEmptyCollection)
	}

	if settings.Limit > 0 && len(docs) > settings.Limit {
		docs = docs[:settings.Limit]
	}

	feed := &feeds.Feed{
		Title:       site.Title,
		Link:        &feeds.Link{Href: site.URL},
		Description: site.Description,
		Author:      &feeds.Author{Name: site.Author},
		Created:     now,
	}
	for _, doc := range docs {
		link := DocumentURL(site.URL, doc)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       doc.Front.Title,
			Link:        &feeds.Link{Href: link},
			Description: doc.Meta.Excerpt,
			Content:     doc.HTML,
			Created:     doc.Meta.Published,
		})
	}
	return feed, nil
}

// DocumentURL returns the canonical page URL for a document: the site
// base URL joined with the slug, with a trailing slash.
func DocumentURL(baseURL string, doc *Document) string {
	return strings.TrimRight(baseURL, "/") + "/" + doc.Slug + "/"
}

// emitFeed writes the RSS feed, and the Atom variant when configured,
// into outDir. Both writes are atomic. Returns the written paths.
func emitFeed(outDir string, site Site, settings FeedSettings, docs []*Document, now time.Time) ([]string, error) {
	feed, err := BuildFeed(site, settings, docs, now)
	if err != nil {
		return nil, err
	}

	feedPath := settings.Path
	if feedPath == "" {
		feedPath = DefaultFeedPath
	}

	rss, err := feed.ToRss()
	if err != nil {
		return nil, fmt.Errorf("rendering rss feed: %w", err)
	}
	rssPath := filepath.Join(outDir, filepath.FromSlash(feedPath))
	if err := fileutil.WriteFileAtomic(rssPath, []byte(rss)); err != nil {
		return nil, fmt.Errorf("writing %s: %w", feedPath, err)
	}
	paths := []string{rssPath}

	if settings.Atom {
		atom, err := feed.ToAtom()
		if err != nil {
			return nil, fmt.Errorf("rendering atom feed: %w", err)
		}
		atomPath := filepath.Join(outDir, atomFileName)
		if err := fileutil.WriteFileAtomic(atomPath, []byte(atom)); err != nil {
			return nil, fmt.Errorf("writing %s: %w", atomFileName, err)
		}
		paths = append(paths, atomPath)
	}

	return paths, nil
}
