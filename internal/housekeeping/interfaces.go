// filepath: internal/housekeeping/interfaces.go
package housekeeping

import (
	"lanupload/internal/storage"
	"time"
)

// Target is a place where temporary files may be left behind.
// storage.TempDir satisfies it.
type Target interface {
	Stale(cutoff time.Time) ([]storage.TempFile, error)
	Remove(f storage.TempFile) error
	String() string
}

var _ Target = storage.TempDir{}
