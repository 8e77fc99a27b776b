package registry

import "errors"

// Sentinel errors for the registry package.
// Callers match on these with errors.Is; I/O failures from the filesystem
// are wrapped rather than replaced so the underlying cause stays visible.
var (
	// ErrUnknownKey indicates the requested logical key is not configured.
	ErrUnknownKey = errors.New("unknown path key")

	// ErrPathTraversal indicates a child name would escape its base directory
	// (e.g. ".." segments walking above the base, or an absolute path pointing
	// elsewhere). Traversal is always rejected, never clamped.
	ErrPathTraversal = errors.New("path escapes base directory")

	// ErrNotADirectory indicates a resolved path exists on disk but is a file
	// where a directory was required.
	ErrNotADirectory = errors.New("path exists but is not a directory")

	// ErrNotExist indicates a resolved path does not exist on disk.
	// Only returned by operations that are documented to touch the filesystem.
	ErrNotExist = errors.New("path does not exist")

	// ErrEmptyHome indicates the registry was constructed without a home directory.
	ErrEmptyHome = errors.New("home directory must not be empty")

	// ErrEmptyKey indicates a configured entry has an empty logical key.
	ErrEmptyKey = errors.New("path key must not be empty")

	// ErrEmptyValue indicates a configured entry has an empty path value.
	ErrEmptyValue = errors.New("path value must not be empty")
)
