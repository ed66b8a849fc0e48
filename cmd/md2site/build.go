package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/hints"
)

// runBuild executes the build command and returns an exit code.
func runBuild(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseBuildFlags(args)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}
	if len(positional) > 0 {
		fmt.Fprintf(env.Stderr, "unexpected argument: %s\n\n", positional[0])
		printBuildUsage(env.Stderr)
		return ExitUsage
	}

	logger := newLogger(env.Stderr, flags.common)
	warnUnknownEnvVars(env.Stderr, env.Environ())

	cfg, path, err := resolveConfig(flags.common.config, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "md2site: %v\n", err)
		return exitCodeFor(err)
	}
	if path != "" {
		logger.Debug("config loaded", "path", path)
	}

	applyEnvConfig(loadEnvConfig(env), cfg)
	mergeBuildFlags(cfg, flags)

	svc := md2site.NewService(md2site.WithLogger(logger), md2site.WithNow(env.Now))
	result, err := svc.Build(ctx, buildInput(cfg))
	if err != nil {
		if errors.Is(err, md2site.ErrInvalidInput) && path == "" {
			// Without a config file the input came from flags and env
			// alone, so point at the lookup order.
			err = fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths()))
		}
		fmt.Fprintf(env.Stderr, "md2site: %v\n", err)
		return exitCodeFor(err)
	}

	reportResult(env.Stdout, result, flags.common.quiet)
	if result.Failed() > 0 {
		return ExitContent
	}
	return ExitSuccess
}

// newLogger builds the slog logger the library receives: text handler on
// stderr, level chosen by the verbosity flags.
func newLogger(w io.Writer, flags commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case flags.quiet:
		level = slog.LevelError
	case flags.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveConfig loads the config file with the precedence --config flag,
// then MD2SITE_CONFIG, then the standard search paths. An explicitly
// named file must exist; a missing default config falls back to
// defaults.
func resolveConfig(flagPath string, env *Environment) (*config.Config, string, error) {
	path := flagPath
	if path == "" {
		path = env.Getenv("MD2SITE_CONFIG")
	}
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	cfg, found, err := config.LoadDefault()
	if err != nil {
		return nil, "", err
	}
	return cfg, found, nil
}

// mergeBuildFlags applies command-line overrides onto the config.
// Flags always win.
func mergeBuildFlags(cfg *config.Config, flags *buildFlags) {
	if flags.output != "" {
		cfg.Output = flags.output
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.site.title != "" {
		cfg.Site.Title = flags.site.title
	}
	if flags.site.author != "" {
		cfg.Site.Author = flags.site.author
	}
	if flags.site.siteURL != "" {
		cfg.Site.SiteURL = flags.site.siteURL
	}
	if flags.noFeed {
		cfg.Feed = nil
	}
	if flags.noManifest {
		cfg.Manifest = nil
	}
}

// buildInput maps the file configuration onto the library input.
func buildInput(cfg *config.Config) md2site.Input {
	input := md2site.Input{
		Site: md2site.Site{
			Title:       cfg.Site.Title,
			Author:      cfg.Site.Author,
			Description: cfg.Site.Description,
			URL:         cfg.Site.SiteURL,
			Social:      socialMap(cfg.Site.Social),
		},
		OutputDir:     cfg.Output,
		ExcerptLength: cfg.ExcerptLength,
		Workers:       cfg.Workers,
	}

	for _, src := range cfg.Sources {
		input.Sources = append(input.Sources, md2site.Source{
			Path:       src.Path,
			Collection: src.Collection,
		})
	}
	for _, t := range cfg.Transforms {
		input.Stages = append(input.Stages, md2site.StageSpec{
			Name:    t.Name,
			Options: t.Options,
		})
	}
	if cfg.Feed != nil {
		input.Feed = &md2site.FeedSettings{
			Path:         cfg.Feed.Path,
			Atom:         cfg.Feed.Atom,
			Limit:        cfg.Feed.Limit,
			RequireItems: cfg.Feed.RequireItems,
		}
	}
	if cfg.Manifest != nil {
		input.Manifest = &md2site.ManifestSettings{
			Name:            cfg.Manifest.Name,
			ShortName:       cfg.Manifest.ShortName,
			StartURL:        cfg.Manifest.StartURL,
			BackgroundColor: cfg.Manifest.BackgroundColor,
			ThemeColor:      cfg.Manifest.ThemeColor,
			Display:         cfg.Manifest.Display,
			Icon:            cfg.Manifest.Icon,
		}
	}
	return input
}

// socialMap keeps only the platforms with a configured handle.
func socialMap(social config.SocialConfig) map[string]string {
	m := make(map[string]string, 2)
	if social.Twitter != "" {
		m["twitter"] = social.Twitter
	}
	if social.GitHub != "" {
		m["github"] = social.GitHub
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// reportResult prints the per-document outcome and the build summary.
func reportResult(w io.Writer, result *md2site.Result, quiet bool) {
	succeeded := 0
	for _, doc := range result.Documents {
		if doc.Err != nil {
			fmt.Fprintf(w, "FAILED %s: %v\n", doc.SourcePath, doc.Err)
			continue
		}
		succeeded++
		if !quiet {
			fmt.Fprintf(w, "OK %s/%s -> %s (%s)\n",
				doc.Collection, doc.Slug, doc.RecordPath, doc.Duration.Round(time.Millisecond))
		}
	}

	if !quiet {
		for _, path := range result.FeedPaths {
			fmt.Fprintf(w, "feed: %s\n", path)
		}
		if result.ManifestPath != "" {
			fmt.Fprintf(w, "manifest: %s\n", result.ManifestPath)
		}
		if len(result.Assets) > 0 {
			fmt.Fprintf(w, "assets: %d published\n", len(result.Assets))
		}
	}
	fmt.Fprintf(w, "%d succeeded, %d failed\n", succeeded, result.Failed())
}
