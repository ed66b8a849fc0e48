package md2site

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Transform option defaults.
const (
	DefaultMaxWidth      = 590
	DefaultWrapperClass  = "resp-image-wrapper"
	DefaultAspectRatio   = 56.25
	DefaultEmojiSize     = 64
	DefaultEmojiClass    = "emoji-icon"
	DefaultExcerptLength = 140
	DefaultFeedPath      = "rss.xml"
)

// Manifest display modes.
const (
	DisplayStandalone = "standalone"
	DisplayMinimalUI  = "minimal-ui"
	DisplayBrowser    = "browser"
	DisplayFullscreen = "fullscreen"
)

var (
	collectionPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	hexColorPattern   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// Site holds the blog identity used by the feed and manifest emitters.
type Site struct {
	Title       string
	Author      string
	Description string
	URL         string            // absolute http(s) base URL, no trailing slash required
	Social      map[string]string // platform -> handle or URL, passthrough
}

// Validate checks that required site fields are present and well formed.
func (s Site) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Title, validation.Required),
		validation.Field(&s.Author, validation.Required),
		validation.Field(&s.URL, validation.Required, is.URL),
	)
}

// Source pairs a content root directory with the collection name its
// documents belong to.
type Source struct {
	Path       string
	Collection string
}

// Validate checks that the source is usable. Collection names become
// output directory names and must stay path-safe.
func (s Source) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Path, validation.Required),
		validation.Field(&s.Collection, validation.Required,
			validation.Match(collectionPattern).Error("must be lowercase letters, digits, '-' or '_'")),
	)
}

// StageSpec names one transform in the configured order together with
// its options. Duplicate names are allowed and compiled independently.
type StageSpec struct {
	Name    string
	Options map[string]any
}

// Validate checks the spec names a stage. Option values are validated
// later, when the stage list is compiled.
func (s StageSpec) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
	)
}

// FeedSettings configure the syndication feed emitter.
type FeedSettings struct {
	Path         string // output file, default rss.xml
	Atom         bool   // also emit atom.xml
	Limit        int    // max entries, 0 = all
	RequireItems bool   // fail with ErrEmptyCollection when no entries
}

// Validate checks feed settings bounds.
func (f FeedSettings) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Limit, validation.Min(0)),
	)
}

// ManifestSettings configure the web app manifest emitter.
type ManifestSettings struct {
	Name            string
	ShortName       string
	StartURL        string
	BackgroundColor string
	ThemeColor      string
	Display         string
	Icon            string // path or public URL of the icon asset
}

// Validate checks manifest fields against the web app manifest grammar.
func (m ManifestSettings) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required),
		validation.Field(&m.StartURL, validation.Required),
		validation.Field(&m.BackgroundColor,
			validation.Match(hexColorPattern).Error("must be #rgb or #rrggbb")),
		validation.Field(&m.ThemeColor,
			validation.Match(hexColorPattern).Error("must be #rgb or #rrggbb")),
		validation.Field(&m.Display,
			validation.In(DisplayStandalone, DisplayMinimalUI, DisplayBrowser, DisplayFullscreen)),
	)
}

// Input contains build parameters.
type Input struct {
	Site          Site
	Sources       []Source
	Stages        []StageSpec // ordered; duplicates preserved
	Feed          *FeedSettings
	Manifest      *ManifestSettings
	OutputDir     string
	ExcerptLength int // characters, 0 = DefaultExcerptLength
	Workers       int // 0 = auto
}

// Validate checks that the input describes a runnable build.
func (in Input) Validate() error {
	if err := in.Site.Validate(); err != nil {
		return fmt.Errorf("%w: site: %v", ErrInvalidInput, err)
	}
	if len(in.Sources) == 0 {
		return fmt.Errorf("%w: at least one source is required", ErrInvalidInput)
	}
	for i, src := range in.Sources {
		if err := src.Validate(); err != nil {
			return fmt.Errorf("%w: sources[%d]: %v", ErrInvalidInput, i, err)
		}
	}
	for i, spec := range in.Stages {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("%w: transforms[%d]: %v", ErrInvalidInput, i, err)
		}
	}
	if in.OutputDir == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalidInput)
	}
	if in.ExcerptLength < 0 {
		return fmt.Errorf("%w: excerptLength must not be negative", ErrInvalidInput)
	}
	if in.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidInput)
	}
	if in.Feed != nil {
		if err := in.Feed.Validate(); err != nil {
			return fmt.Errorf("%w: feed: %v", ErrInvalidInput, err)
		}
	}
	if in.Manifest != nil {
		if err := in.Manifest.Validate(); err != nil {
			return fmt.Errorf("%w: manifest: %v", ErrInvalidInput, err)
		}
	}
	return nil
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the logger used for build progress and stage
// diagnostics. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.cfg.logger = l
		}
	}
}

// WithNow overrides the clock, used by tests for deterministic feed
// timestamps.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.cfg.now = now
		}
	}
}
