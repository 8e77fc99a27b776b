// Package registry resolves logical path keys ("uploads", "cache") against a
// configured home directory into absolute, lexically normalized filesystem
// locations. Resolution never touches the filesystem; directory creation and
// writability probes go through an injected afero.Fs.
package registry

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/nvollmar/roost/internal/cachemanager"
	"github.com/nvollmar/roost/internal/log"
)

// Registry maps logical keys to filesystem locations. Home and the entry set
// are fixed at construction; Resolve and ResolveChild are pure computations
// and safe for unsynchronized concurrent use. EnsureDirectory relies on the
// filesystem's own idempotent create semantics rather than in-process locks.
type Registry struct {
	home    string
	entries map[string]string
	fs      afero.Fs
	cache   cachemanager.CacheManager[string, string]
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithFs overrides the filesystem provider (default: the OS filesystem).
// Resolution is unaffected; only EnsureDirectory, Check and RealPath consult it.
func WithFs(fs afero.Fs) Option {
	return func(r *Registry) { r.fs = fs }
}

// WithCache installs a resolved-path cache. The cache lives exactly as long
// as the Registry instance, so rebuilding the registry is the only
// invalidation - entries never go stale while an instance is alive because
// home and entries are immutable.
func WithCache(cache cachemanager.CacheManager[string, string]) Option {
	return func(r *Registry) { r.cache = cache }
}

// New builds a Registry from a home directory and a key -> path-spec map.
// home is made absolute against the current working directory and lexically
// normalized once. Entries are validated eagerly: empty keys or values are
// rejected here rather than on first use. Construction performs no other
// filesystem access and cannot fail because a directory is missing.
func New(home string, entries map[string]string, opts ...Option) (*Registry, error) {
	if home == "" {
		return nil, ErrEmptyHome
	}
	for key, value := range entries {
		if key == "" {
			return nil, fmt.Errorf("entry %q: %w", value, ErrEmptyKey)
		}
		if value == "" {
			return nil, fmt.Errorf("entry %q: %w", key, ErrEmptyValue)
		}
	}

	absHome, err := filepath.Abs(home)
	if err != nil {
		return nil, fmt.Errorf("resolving home %q: %w", home, err)
	}

	r := &Registry{
		home:    absHome,
		entries: maps.Clone(entries),
		fs:      afero.NewOsFs(),
	}
	if r.entries == nil {
		r.entries = make(map[string]string)
	}
	for _, opt := range opts {
		opt(r)
	}

	log.Debug(log.CatRegistry, "Registry constructed", "home", absHome, "entries", len(r.entries))
	return r, nil
}

// Home returns the absolute, normalized home directory.
func (r *Registry) Home() string {
	return r.home
}

// Keys returns the configured logical keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve returns the absolute, normalized path for a logical key.
// Absolute path specs override home entirely; relative specs are joined onto
// it. Normalization is lexical only - no filesystem access, no symlink
// resolution. The only error condition is an unknown key.
func (r *Registry) Resolve(key string) (string, error) {
	if r.cache != nil {
		if path, ok := r.cache.Get(context.Background(), key); ok {
			return path, nil
		}
	}

	raw, ok := r.entries[key]
	if !ok {
		return "", fmt.Errorf("resolve %q: %w", key, ErrUnknownKey)
	}

	var path string
	if filepath.IsAbs(raw) {
		path = filepath.Clean(raw)
	} else {
		path = filepath.Join(r.home, raw)
	}

	if r.cache != nil {
		r.cache.Set(context.Background(), key, path, cachemanager.NoExpiration)
	}
	return path, nil
}

// EnsureDirectory resolves a key and creates the directory (and any missing
// ancestors) if it does not already exist. Idempotent: an existing directory
// is success, and concurrent calls for the same key are safe because MkdirAll
// does not error on "already exists". Fails with ErrNotADirectory when the
// resolved path exists as a file.
func (r *Registry) EnsureDirectory(key string) (string, error) {
	path, err := r.Resolve(key)
	if err != nil {
		return "", err
	}

	info, err := r.fs.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return path, nil
	case err == nil:
		return "", fmt.Errorf("%s: %w", path, ErrNotADirectory)
	case !os.IsNotExist(err):
		return "", fmt.Errorf("checking %s: %w", path, err)
	}

	if err := r.fs.MkdirAll(path, 0o750); err != nil {
		log.ErrorErr(log.CatRegistry, "Failed to create directory", err, "key", key, "path", path)
		return "", fmt.Errorf("creating directory %s: %w", path, err)
	}

	log.Info(log.CatRegistry, "Created directory", "key", key, "path", path)
	return path, nil
}

// ResolveChild joins an untrusted child name onto the directory a key
// resolves to and verifies containment: the result must be the base itself or
// a descendant of it under path-segment semantics (never a naive string
// prefix, so /a/b is not treated as a prefix of /a/bc). Any input that would
// escape the base fails with ErrPathTraversal - escapes are rejected, never
// silently rewritten.
//
// An empty child name or "." resolves to the base itself. The containment
// comparison is byte-exact (case-sensitive) on every platform; on
// case-insensitive filesystems this is stricter than the OS, which only ever
// rejects more. Purely lexical: no filesystem access, no symlink resolution.
func (r *Registry) ResolveChild(dirKey, childName string) (string, error) {
	base, err := r.Resolve(dirKey)
	if err != nil {
		return "", err
	}

	var candidate string
	if filepath.IsAbs(childName) {
		candidate = filepath.Clean(childName)
	} else {
		candidate = filepath.Join(base, childName)
	}

	if !contained(base, candidate) {
		return "", fmt.Errorf("child %q of %q: %w", childName, dirKey, ErrPathTraversal)
	}
	return candidate, nil
}

// contained reports whether candidate equals base or is a lexical descendant
// of it. Both arguments must already be absolute and cleaned.
func contained(base, candidate string) bool {
	rel, err := filepath.Rel(base, candidate)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// RealPath resolves a key and returns its physical path with symlinks
// resolved. This is the only operation that follows symlinks; Resolve and
// ResolveChild never do. Fails with ErrNotExist when the path is absent.
func (r *Registry) RealPath(key string) (string, error) {
	path, err := r.Resolve(key)
	if err != nil {
		return "", err
	}

	if _, err := r.fs.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", path, ErrNotExist)
		}
		return "", fmt.Errorf("checking %s: %w", path, err)
	}

	// Symlinks only exist on the real filesystem; in-memory backends have no
	// link concept, so the lexical path already is the physical one.
	if _, ok := r.fs.(*afero.OsFs); !ok {
		return path, nil
	}

	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", path, err)
	}
	return real, nil
}

// Status describes the on-disk state of a resolved key.
type Status struct {
	Path     string
	Exists   bool
	Dir      bool
	Writable bool
}

// Check resolves a key and reports whether the path exists, is a directory,
// and is writable. Writability is probed by creating and removing a temp file
// inside the directory, since permission bits alone lie under ACLs and
// read-only mounts.
func (r *Registry) Check(key string) (Status, error) {
	path, err := r.Resolve(key)
	if err != nil {
		return Status{}, err
	}

	status := Status{Path: path}
	info, err := r.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return status, nil
		}
		return status, fmt.Errorf("checking %s: %w", path, err)
	}

	status.Exists = true
	status.Dir = info.IsDir()
	if status.Dir {
		status.Writable = r.probeWritable(path)
	}
	return status, nil
}

func (r *Registry) probeWritable(dir string) bool {
	f, err := afero.TempFile(r.fs, dir, ".roost-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = r.fs.Remove(name)
	return true
}
