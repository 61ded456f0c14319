// filepath: internal/storage/disk.go
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
)

const (
	tempPrefix = ".lanupload-"
	tempSuffix = ".tmp"
)

// DiskStore writes files into a single directory. Each write goes to a
// hidden temp file first and is renamed over the destination when complete,
// so readers see either the old or the new content. Writers of the same
// name are serialized.
type DiskStore struct {
	root  string
	locks *keyedMutex
}

// NewDiskStore creates the root directory if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("could not resolve storage root %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("could not create storage root %q: %w", abs, err)
	}
	return &DiskStore{root: abs, locks: newKeyedMutex()}, nil
}

// Root is the absolute storage directory.
func (s *DiskStore) Root() string { return s.root }

func (s *DiskStore) Location() string { return "disk:" + s.root }

// Write streams r into root/name.
func (s *DiskStore) Write(ctx context.Context, name string, r io.Reader) (int64, error) {
	path, err := s.resolve(name)
	if err != nil {
		return 0, err
	}

	unlock := s.locks.Lock(name)
	defer unlock()

	tmpPath := filepath.Join(s.root, tempPrefix+ulid.Make().String()+tempSuffix)
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("could not create file: %w", err)
	}

	size, err := io.Copy(f, contextReader{ctx: ctx, r: r})
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("could not write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("could not close file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("could not move file into place: %w", err)
	}

	return size, nil
}

// TempFiles returns the set of in-flight write files, for housekeeping.
func (s *DiskStore) TempFiles() TempDir {
	return TempDir{Dir: s.root, Prefix: tempPrefix, Suffix: tempSuffix}
}

// IsReservedName reports whether name collides with the temp files of
// in-flight disk writes.
func IsReservedName(name string) bool {
	return strings.HasPrefix(name, tempPrefix) && strings.HasSuffix(name, tempSuffix)
}

// resolve maps a flat name into the root and refuses anything that escapes it.
func (s *DiskStore) resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if IsReservedName(name) {
		return "", fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	}

	path := filepath.Clean(filepath.Join(s.root, name))
	if filepath.Dir(path) != s.root {
		return "", fmt.Errorf("%w: potential path traversal in %q", ErrInvalidName, name)
	}
	return path, nil
}
