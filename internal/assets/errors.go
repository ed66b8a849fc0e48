package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrNotFound indicates a referenced file does not exist in the
	// document directory or any configured source root.
	ErrNotFound = errors.New("asset not found")

	// ErrInvalidRoot indicates a configured source root is not a valid
	// readable directory.
	ErrInvalidRoot = errors.New("invalid source root")

	// ErrPathEscape indicates a reference resolves outside every
	// configured source root.
	ErrPathEscape = errors.New("reference escapes source roots")

	// ErrPublish indicates an I/O failure while hashing or copying an
	// asset into the output tree.
	ErrPublish = errors.New("failed to publish asset")
)
