package md2site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/render"
)

// DocumentResult reports the outcome for one discovered document.
type DocumentResult struct {
	Collection string
	Slug       string
	SourcePath string
	RecordPath string // empty when the document failed
	Err        error
	Duration   time.Duration
}

// Result holds the outcome of one build. Per-document failures ride
// here; Build returns an error only for build-level conditions.
type Result struct {
	Documents    []DocumentResult
	Published    []*Document // processed documents, newest first
	Assets       []assets.PublishedAsset
	FeedPaths    []string
	ManifestPath string
}

// Failed counts documents that did not complete.
func (r *Result) Failed() int {
	n := 0
	for _, d := range r.Documents {
		if d.Err != nil {
			n++
		}
	}
	return n
}

// Service orchestrates the content pipeline: discover, parse, transform,
// render, derive, emit. One Service handles any number of builds.
type Service struct {
	cfg serviceConfig
}

// NewService creates a Service. Use options to inject a logger or clock.
func NewService(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			logger: slog.New(slog.DiscardHandler),
			now:    time.Now,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build runs the full pipeline for one input.
//
// Configuration problems (ErrInvalidInput, ErrStageConfiguration) and
// missing roots (ErrSourceUnavailable) abort before any document is
// processed. Documents then run independently on parallel workers; a
// failing document is recorded in the result and the rest continue. The
// feed and manifest are emitted after every worker finished, over the
// successfully processed documents ordered newest first.
func (s *Service) Build(ctx context.Context, input Input) (*Result, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	stages, err := CompileStages(input.Stages)
	if err != nil {
		return nil, err
	}
	rawDocs, err := Discover(input.Sources)
	if err != nil {
		return nil, err
	}

	roots := make([]string, len(input.Sources))
	for i, src := range input.Sources {
		roots[i] = src.Path
	}
	store, err := assets.NewStore(input.OutputDir, roots)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	renderer := render.NewGoldmarkRenderer(render.Options{
		ShowLineNumbers: showLineNumbers(input.Stages),
	})

	workers := ResolveWorkers(input.Workers)
	s.cfg.logger.Info("build started",
		"documents", len(rawDocs), "stages", len(stages), "workers", workers)

	results := make([]DocumentResult, len(rawDocs))
	processed := make([]*Document, len(rawDocs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, raw := range rawDocs {
		g.Go(func() error {
			// Stop dispatching once the build is cancelled; in-flight
			// documents already passed this check and finish cleanly.
			if err := gctx.Err(); err != nil {
				results[i] = DocumentResult{
					Collection: raw.Collection,
					Slug:       raw.Slug,
					SourcePath: raw.SourcePath,
					Err:        err,
				}
				return err
			}

			start := time.Now()
			doc, recordPath, err := s.processDocument(gctx, raw, stages, renderer, store, input)
			results[i] = DocumentResult{
				Collection: raw.Collection,
				Slug:       raw.Slug,
				SourcePath: raw.SourcePath,
				RecordPath: recordPath,
				Err:        err,
				Duration:   time.Since(start),
			}
			if err == nil {
				processed[i] = doc
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			s.cfg.logger.Error("document failed",
				"collection", raw.Collection, "slug", raw.Slug, "error", err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	published := make([]*Document, 0, len(processed))
	for _, doc := range processed {
		if doc != nil {
			published = append(published, doc)
		}
	}
	sortByPublished(published)

	result := &Result{
		Documents: results,
		Published: published,
		Assets:    store.Published(),
	}

	if input.Feed != nil {
		paths, err := emitFeed(input.OutputDir, input.Site, *input.Feed, published, s.cfg.now())
		if err != nil {
			return nil, err
		}
		result.FeedPaths = paths
	}
	if input.Manifest != nil {
		iconRef, err := resolveManifestIcon(store, input.Manifest.Icon)
		if err != nil {
			return nil, err
		}
		path, err := emitManifest(input.OutputDir, *input.Manifest, iconRef)
		if err != nil {
			return nil, err
		}
		result.ManifestPath = path
		result.Assets = store.Published()
	}

	s.cfg.logger.Info("build finished",
		"succeeded", len(published), "failed", result.Failed(), "assets", len(result.Assets))
	return result, nil
}

// processDocument runs one document through the whole per-document
// pipeline. Every failure is wrapped in a DocumentError carrying the
// document identity, plus the stage name for stage failures.
func (s *Service) processDocument(
	ctx context.Context,
	raw RawDocument,
	stages []Stage,
	renderer render.Renderer,
	store *assets.Store,
	input Input,
) (*Document, string, error) {
	fail := func(stage string, err error) (*Document, string, error) {
		return nil, "", &DocumentError{
			Collection: raw.Collection,
			Slug:       raw.Slug,
			Stage:      stage,
			Err:        err,
		}
	}

	content, err := os.ReadFile(raw.SourcePath) // #nosec G304 -- path produced by Discover
	if err != nil {
		return fail("", fmt.Errorf("reading source: %w", err))
	}

	front, body, err := ParseFrontmatter(string(content))
	if err != nil {
		return fail("", err)
	}

	doc := &Document{
		Collection: raw.Collection,
		SourcePath: raw.SourcePath,
		RelPath:    raw.RelPath,
		Slug:       raw.Slug,
		Body:       body,
		Front:      front,
	}
	sc := &StageContext{
		Collection:  doc.Collection,
		Slug:        doc.Slug,
		SourceDir:   doc.SourceDir(),
		Assets:      store,
		Logger:      s.cfg.logger,
		RecordAsset: doc.RecordAsset,
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return fail(stage.Name(), err)
		}
		next, err := stage.Transform(ctx, sc, doc.Body)
		if err != nil {
			return fail(stage.Name(), err)
		}
		doc.Body = next
	}

	doc.HTML, err = renderer.Render(ctx, doc.Body)
	if err != nil {
		return fail("", err)
	}
	if err := deriveMetadata(doc, input.ExcerptLength); err != nil {
		return fail("", err)
	}

	recordPath, err := emitRecord(input.OutputDir, doc)
	if err != nil {
		return fail("", err)
	}

	s.cfg.logger.Debug("document processed",
		"collection", doc.Collection, "slug", doc.Slug, "assets", len(doc.Assets()))
	return doc, recordPath, nil
}

// showLineNumbers reads the highlight stage option the renderer shares,
// so fenced blocks and promoted inline spans follow one setting. With
// several highlight entries the last one wins.
func showLineNumbers(specs []StageSpec) bool {
	show := false
	for _, spec := range specs {
		if spec.Name != "highlight" {
			continue
		}
		if v, ok := spec.Options["showLineNumbers"].(bool); ok {
			show = v
		}
	}
	return show
}

// resolveManifestIcon publishes a local icon through the asset store and
// returns its public path. External references pass through untouched.
func resolveManifestIcon(store *assets.Store, icon string) (string, error) {
	if icon == "" || !assets.IsLocalRef(icon) {
		return icon, nil
	}
	abs, err := store.Resolve(".", icon)
	if err != nil {
		return "", fmt.Errorf("manifest icon %q: %w", icon, err)
	}
	public, err := store.Publish(abs)
	if err != nil {
		return "", fmt.Errorf("manifest icon %q: %w", icon, err)
	}
	return public, nil
}
