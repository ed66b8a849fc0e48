package md2site

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// manifestFileName is the conventional web app manifest file name.
const manifestFileName = "manifest.webmanifest"

// webManifest is the JSON shape of the emitted manifest. Field names
// follow the web app manifest spelling, snake_case included.
type webManifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name,omitempty"`
	StartURL        string `json:"start_url"`
	BackgroundColor string `json:"background_color,omitempty"`
	ThemeColor      string `json:"theme_color,omitempty"`
	Display         string `json:"display,omitempty"`
	Icon            string `json:"icon,omitempty"`
}

// BuildManifest projects manifest settings into the emitted JSON shape.
// iconRef is the resolved icon reference, either the published public
// path of a local icon or the configured URL passed through.
func BuildManifest(settings ManifestSettings, iconRef string) webManifest {
	shortName := settings.ShortName
	if shortName == "" {
		shortName = settings.Name
	}
	startURL := settings.StartURL
	if startURL == "" {
		startURL = "/"
	}
	return webManifest{
		Name:            settings.Name,
		ShortName:       shortName,
		StartURL:        startURL,
		BackgroundColor: settings.BackgroundColor,
		ThemeColor:      settings.ThemeColor,
		Display:         settings.Display,
		Icon:            iconRef,
	}
}

// emitManifest writes the manifest JSON into outDir with two-space
// indentation and a trailing newline, atomically. Returns the written
// path.
func emitManifest(outDir string, settings ManifestSettings, iconRef string) (string, error) {
	manifest := BuildManifest(settings, iconRef)

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(outDir, manifestFileName)
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("writing %s: %w", manifestFileName, err)
	}
	return path, nil
}
