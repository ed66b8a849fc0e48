// Package config loads the site configuration file. The YAML decode is
// strict, so unknown keys fail instead of being silently dropped; value
// validation happens later, when the config is turned into a build
// input.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2site/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
)

// appName names the per-user config directory under os.UserConfigDir.
const appName = "md2site"

// defaultBaseName is the config file looked up in the working directory.
const defaultBaseName = "md2site"

// Config mirrors the site configuration file.
type Config struct {
	Site          SiteConfig        `yaml:"site"`
	Sources       []SourceConfig    `yaml:"sources"`
	Transforms    []TransformConfig `yaml:"transforms"`
	Feed          *FeedConfig       `yaml:"feed"`
	Manifest      *ManifestConfig   `yaml:"manifest"`
	Output        string            `yaml:"output"`
	ExcerptLength int               `yaml:"excerptLength"`
	Workers       int               `yaml:"workers"`
}

// SiteConfig holds the blog identity.
type SiteConfig struct {
	Title       string       `yaml:"title"`
	Author      string       `yaml:"author"`
	Description string       `yaml:"description"`
	SiteURL     string       `yaml:"siteUrl"`
	Social      SocialConfig `yaml:"social"`
}

// SocialConfig holds social platform handles.
type SocialConfig struct {
	Twitter string `yaml:"twitter"`
	GitHub  string `yaml:"github"`
}

// SourceConfig pairs a content root with its collection name.
type SourceConfig struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
}

// TransformConfig names one stage in the ordered transform list.
// Repeating a name is allowed; each entry compiles independently.
type TransformConfig struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options"`
}

// FeedConfig holds feed emitter settings.
type FeedConfig struct {
	Path         string `yaml:"path"`
	Atom         bool   `yaml:"atom"`
	Limit        int    `yaml:"limit"`
	RequireItems bool   `yaml:"requireItems"`
}

// ManifestConfig holds web app manifest settings.
type ManifestConfig struct {
	Name            string `yaml:"name"`
	ShortName       string `yaml:"shortName"`
	StartURL        string `yaml:"startUrl"`
	BackgroundColor string `yaml:"backgroundColor"`
	ThemeColor      string `yaml:"themeColor"`
	Display         string `yaml:"display"`
	Icon            string `yaml:"icon"`
}

// DefaultConfig returns the configuration used when no file exists.
// Flags and environment variables fill in the rest.
func DefaultConfig() *Config {
	return &Config{Output: "public"}
}

// Load reads and parses the config file at path. The path must exist;
// there is no silent fallback when the user asked for a specific file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	if cfg.Output == "" {
		cfg.Output = DefaultConfig().Output
	}
	return &cfg, nil
}

// LoadDefault searches the standard locations, working directory first,
// then the user config directory, and loads the first file found. When
// nothing exists it returns DefaultConfig with an empty path; a missing
// default config is not an error.
func LoadDefault() (*Config, string, error) {
	for _, path := range SearchPaths() {
		if !fileExists(path) {
			continue
		}
		cfg, err := Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	return DefaultConfig(), "", nil
}

// SearchPaths lists the candidate config locations in lookup order.
func SearchPaths() []string {
	extensions := []string{".yaml", ".yml"}

	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, defaultBaseName+ext)
	}
	if userDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userDir, appName, "config"+ext))
		}
	}
	return paths
}

// DescribeSearchPaths renders the lookup order for error messages.
func DescribeSearchPaths() string {
	return strings.Join(SearchPaths(), ", ")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
