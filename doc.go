// Package md2site turns a tree of markdown blog posts into the
// artifacts a static-site renderer consumes: per-document JSON records,
// published assets, a syndication feed and a web app manifest.
//
// # Quick Start
//
// Create a service and run a build:
//
//	svc := md2site.NewService()
//	result, err := svc.Build(ctx, md2site.Input{
//	    Site:      md2site.Site{Title: "My Blog", Author: "Me", URL: "https://example.com"},
//	    Sources:   []md2site.Source{{Path: "content/blog", Collection: "blog"}},
//	    Stages:    []md2site.StageSpec{{Name: "images"}, {Name: "typography"}},
//	    Feed:      &md2site.FeedSettings{Path: "rss.xml"},
//	    OutputDir: "public",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, doc := range result.Documents {
//	    if doc.Err != nil {
//	        log.Printf("FAILED %s: %v", doc.SourcePath, doc.Err)
//	    }
//	}
//
// # Pipeline
//
// Each document moves through these steps:
//
//  1. Discovery (source roots walked, identity and slug derived)
//  2. Frontmatter parsing (strict YAML metadata, canonical dates)
//  3. Body transforms in configured order (images, embeds, highlight,
//     emoji, typography, copy-files)
//  4. Markdown to HTML rendering via goldmark (GFM, chroma highlighting)
//  5. Metadata derivation (excerpt, normalized tags, publish timestamp)
//  6. Record emission for the external renderer
//
// Documents are processed independently on parallel workers; the feed
// and manifest are emitted after all documents finished, ordered newest
// first. A failing document is reported in the Result and never aborts
// the others.
//
// # Transform stages
//
// Stages are compiled from the configured list by name; duplicates are
// preserved and run in order. Stages that copy files are idempotent, so
// a duplicated copy-files entry is a harmless no-op. See CompileStages
// and StageNames.
package md2site
