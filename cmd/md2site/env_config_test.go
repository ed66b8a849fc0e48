package main

// Notes:
// - MD2SITE_* values fill config gaps only; a configured value stays
// - Unknown MD2SITE_* names produce a typo warning

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alnah/go-md2site/internal/config"
)

// ----------------------------------------------------------------------
// TestLoadEnvConfig

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(map[string]string{
		"MD2SITE_CONFIG":   "ci.yaml",
		"MD2SITE_OUTPUT":   "dist",
		"MD2SITE_SITE_URL": "https://example.com",
		"MD2SITE_TITLE":    "Blog",
		"MD2SITE_AUTHOR":   "Jane",
		"MD2SITE_WORKERS":  "8",
	})

	got := loadEnvConfig(env)
	want := envConfig{
		ConfigPath: "ci.yaml",
		Output:     "dist",
		SiteURL:    "https://example.com",
		Title:      "Blog",
		Author:     "Jane",
		Workers:    8,
	}
	if *got != want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", *got, want)
	}
}

func TestLoadEnvConfigBadWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{name: "not a number", value: "many"},
		{name: "zero", value: "0"},
		{name: "negative", value: "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv(map[string]string{"MD2SITE_WORKERS": tt.value})
			if got := loadEnvConfig(env); got.Workers != 0 {
				t.Errorf("Workers = %d, want 0 for %q", got.Workers, tt.value)
			}
		})
	}
}

// ----------------------------------------------------------------------
// TestWarnUnknownEnvVars

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"MD2SITE_OUTPUT=dist",
		"MD2SITE_AUTOR=typo",
		"PATH=/usr/bin",
	})

	out := buf.String()
	if !strings.Contains(out, "MD2SITE_AUTOR") {
		t.Errorf("typo not flagged: %q", out)
	}
	if strings.Contains(out, "MD2SITE_OUTPUT") || strings.Contains(out, "PATH") {
		t.Errorf("known or unrelated variables flagged: %q", out)
	}
}

// ----------------------------------------------------------------------
// TestApplyEnvConfig

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  envConfig
		cfg  config.Config
		want config.Config
	}{
		{
			name: "fills empty fields",
			env:  envConfig{Output: "dist", SiteURL: "https://e.com", Title: "B", Author: "J", Workers: 4},
			cfg:  *config.DefaultConfig(),
			want: config.Config{
				Site:    config.SiteConfig{Title: "B", Author: "J", SiteURL: "https://e.com"},
				Output:  "dist",
				Workers: 4,
			},
		},
		{
			name: "config file wins over env",
			env:  envConfig{Output: "dist", Title: "FromEnv", Workers: 4},
			cfg: config.Config{
				Site:    config.SiteConfig{Title: "FromFile"},
				Output:  "site-out",
				Workers: 2,
			},
			want: config.Config{
				Site:    config.SiteConfig{Title: "FromFile"},
				Output:  "site-out",
				Workers: 2,
			},
		},
		{
			name: "env output replaces the default",
			env:  envConfig{Output: "dist"},
			cfg:  *config.DefaultConfig(),
			want: config.Config{Output: "dist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.cfg
			applyEnvConfig(&tt.env, &cfg)
			if cfg.Site != tt.want.Site || cfg.Output != tt.want.Output || cfg.Workers != tt.want.Workers {
				t.Errorf("applyEnvConfig() = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}
