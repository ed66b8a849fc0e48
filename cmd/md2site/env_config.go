package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alnah/go-md2site/internal/config"
)

// envConfig holds configuration read from MD2SITE_* environment
// variables. Provides CI-friendly overrides without a YAML file; a .env
// file in the working directory is loaded automatically at startup.
type envConfig struct {
	ConfigPath string // MD2SITE_CONFIG: config file path
	Output     string // MD2SITE_OUTPUT: output directory
	SiteURL    string // MD2SITE_SITE_URL: absolute site base URL
	Title      string // MD2SITE_TITLE: site title
	Author     string // MD2SITE_AUTHOR: site author
	Workers    int    // MD2SITE_WORKERS: parallel workers
}

// knownEnvVars lists valid MD2SITE_* environment variables. Used to
// detect typos and warn about unknown names.
var knownEnvVars = map[string]bool{
	"MD2SITE_CONFIG":   true,
	"MD2SITE_OUTPUT":   true,
	"MD2SITE_SITE_URL": true,
	"MD2SITE_TITLE":    true,
	"MD2SITE_AUTHOR":   true,
	"MD2SITE_WORKERS":  true,
}

// loadEnvConfig reads the recognized MD2SITE_* values.
func loadEnvConfig(env *Environment) *envConfig {
	cfg := &envConfig{
		ConfigPath: env.Getenv("MD2SITE_CONFIG"),
		Output:     env.Getenv("MD2SITE_OUTPUT"),
		SiteURL:    env.Getenv("MD2SITE_SITE_URL"),
		Title:      env.Getenv("MD2SITE_TITLE"),
		Author:     env.Getenv("MD2SITE_AUTHOR"),
	}

	if workers := env.Getenv("MD2SITE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for every unrecognized MD2SITE_*
// variable. Catches typos like MD2SITE_AUTOR.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, entry := range environ {
		if !strings.HasPrefix(entry, "MD2SITE_") {
			continue
		}
		name := strings.SplitN(entry, "=", 2)[0]
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays environment values onto the loaded config.
// A value applies only where the config left it empty, preserving the
// precedence CLI flags > env vars > config file > defaults (flags are
// merged later and overwrite unconditionally).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Output != "" && (cfg.Output == "" || cfg.Output == config.DefaultConfig().Output) {
		cfg.Output = env.Output
	}
	if env.SiteURL != "" && cfg.Site.SiteURL == "" {
		cfg.Site.SiteURL = env.SiteURL
	}
	if env.Title != "" && cfg.Site.Title == "" {
		cfg.Site.Title = env.Title
	}
	if env.Author != "" && cfg.Site.Author == "" {
		cfg.Site.Author = env.Author
	}
	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
}
