// filepath: internal/storage/temp.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TempFile is a leftover temporary file.
type TempFile struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// TempDir identifies temporary files in Dir by name prefix and suffix.
// Files left behind by a crash are never renamed, so they can be found and
// removed by age.
type TempDir struct {
	Dir    string
	Prefix string
	Suffix string
}

func (t TempDir) String() string {
	return filepath.Join(t.Dir, t.Prefix+"*"+t.Suffix)
}

// Stale lists matching files last modified before cutoff.
func (t TempDir) Stale(cutoff time.Time) ([]TempFile, error) {
	entries, err := os.ReadDir(t.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not list %s: %w", t.Dir, err)
	}

	var stale []TempFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, t.Prefix) || !strings.HasSuffix(name, t.Suffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed meanwhile
		}
		if info.ModTime().Before(cutoff) {
			stale = append(stale, TempFile{
				Path:    filepath.Join(t.Dir, name),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
		}
	}
	return stale, nil
}

// Remove deletes a file previously returned by Stale.
func (t TempDir) Remove(f TempFile) error {
	if filepath.Dir(f.Path) != filepath.Clean(t.Dir) {
		return fmt.Errorf("%w: %s is outside %s", ErrInvalidName, f.Path, t.Dir)
	}
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
