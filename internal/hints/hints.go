// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/md2site/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/md2site) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/md2site") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForSourceNotFound returns hints for missing content roots.
func ForSourceNotFound() string {
	return format("sources[].path is relative to the working directory; check the spelling and that the directory exists")
}

// ForStageNotFound returns hints listing the registered transform names.
func ForStageNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForAssetNotFound returns hints for unresolvable body references.
func ForAssetNotFound() string {
	return format("references resolve against the document directory first, then each source root")
}

// ForMissingDate returns a hint for documents without a date.
func ForMissingDate() string {
	return format(`add date: "YYYY-MM-DD" to the frontmatter`)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
