package main

import (
	"errors"
	"os"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
)

// Exit codes for the md2site CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, custom < 126.
const (
	ExitSuccess = 0 // Build completed, every document succeeded
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or stage configuration
	ExitIO      = 3 // Missing source root, permission denied, write failure
	ExitContent = 4 // One or more documents failed
)

// exitCodeFor maps an error to its exit code. Uses errors.Is, so every
// error path must wrap sentinels with fmt.Errorf("%w", ...).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Content errors (exit 4): per-document failures.
	if errors.Is(err, md2site.ErrMalformedFrontmatter) ||
		errors.Is(err, md2site.ErrMissingRequiredField) ||
		errors.Is(err, md2site.ErrMissingDate) ||
		errors.Is(err, md2site.ErrAssetNotFound) ||
		errors.Is(err, md2site.ErrDuplicateSlug) {
		return ExitContent
	}

	// I/O errors (exit 3).
	if errors.Is(err, md2site.ErrSourceUnavailable) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config errors (exit 2).
	if errors.Is(err, md2site.ErrStageConfiguration) ||
		errors.Is(err, md2site.ErrInvalidInput) ||
		errors.Is(err, md2site.ErrEmptyCollection) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
