package md2site

import (
	"errors"
	"fmt"

	"github.com/alnah/go-md2site/internal/assets"
)

// Sentinel errors for library operations.
var (
	// ErrSourceUnavailable indicates a configured source root does not
	// exist or is not a readable directory. Fatal for the build.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedFrontmatter indicates the frontmatter block cannot be
	// parsed: unterminated delimiter, YAML syntax error, non-mapping
	// document, unparseable date, or a malformed tags list.
	ErrMalformedFrontmatter = errors.New("malformed frontmatter")

	// ErrMissingRequiredField indicates a required frontmatter field is
	// absent or empty.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrMissingDate indicates the document has no date. Documents
	// without a date never reach the feed.
	ErrMissingDate = errors.New("missing date")

	// ErrDuplicateSlug indicates two documents in the same collection
	// derive the same slug and would overwrite each other's records.
	// Fatal at discovery.
	ErrDuplicateSlug = errors.New("duplicate slug")

	// ErrStageConfiguration indicates the configured transform list
	// cannot be compiled: unknown stage name, unknown option key, or an
	// invalid option value. Fatal before any document is processed.
	ErrStageConfiguration = errors.New("invalid stage configuration")

	// ErrEmptyCollection indicates the feed requires at least one entry
	// and none were available.
	ErrEmptyCollection = errors.New("empty collection")

	// ErrInvalidInput indicates the build input failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

// ErrAssetNotFound indicates a local reference in a document body does
// not resolve to a file. Per-document fatal; there is no lenient mode.
var ErrAssetNotFound = assets.ErrNotFound

// DocumentError attaches document identity, and the stage name when the
// failure happened inside a transform, to a per-document failure.
type DocumentError struct {
	Collection string
	Slug       string
	Stage      string
	Err        error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s/%s: stage %s: %v", e.Collection, e.Slug, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s/%s: %v", e.Collection, e.Slug, e.Err)
}

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *DocumentError) Unwrap() error {
	return e.Err
}
