// filepath: internal/storage/store.go
// Package storage persists uploaded files under a flat, already sanitized name.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidName is returned when a name would resolve outside the store.
var ErrInvalidName = errors.New("invalid storage name")

// Store writes a complete payload under name, replacing any previous
// content. Implementations never expose a partially written file.
type Store interface {
	Write(ctx context.Context, name string, r io.Reader) (int64, error)
	// Location describes where files end up, for logs and the info endpoint.
	Location() string
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
