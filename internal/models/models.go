// filepath: internal/models/models.go
// Package models contains the core data structures for the application.
package models

import (
	"fmt"
	"time"
)

// ClientErrorKind is a rejection the client can fix by retrying differently.
type ClientErrorKind int

const (
	FileTooLarge ClientErrorKind = iota + 1
	BodyTruncated
	NoFileProvided
)

func (k ClientErrorKind) String() string {
	switch k {
	case FileTooLarge:
		return "file_too_large"
	case BodyTruncated:
		return "body_truncated"
	case NoFileProvided:
		return "no_file_provided"
	default:
		return fmt.Sprintf("client_error(%d)", int(k))
	}
}

// UploadResult is the outcome of one upload request: either a stored file
// or a rejection. The zero value is neither and is only returned next to an error.
type UploadResult struct {
	Name      string          `json:"name,omitempty"`
	Size      int64           `json:"size,omitempty"`
	Rejection ClientErrorKind `json:"-"`
}

// Stored reports a committed file under name.
func Stored(name string, size int64) UploadResult {
	return UploadResult{Name: name, Size: size}
}

// Rejected reports a client error; nothing was written.
func Rejected(kind ClientErrorKind) UploadResult {
	return UploadResult{Rejection: kind}
}

// IsStored is true when a file was written.
func (r UploadResult) IsStored() bool {
	return r.Rejection == 0 && r.Name != ""
}

// Info represents general information about the service.
type Info struct {
	ServiceName   string    `json:"service_name"`
	Version       string    `json:"version"`
	UptimeSince   time.Time `json:"uptime_since"`
	Storage       string    `json:"storage"`
	MaxTotalBytes int64     `json:"max_total_bytes"`
	MaxFileBytes  int64     `json:"max_file_bytes"`
	UploadURL     string    `json:"upload_url,omitempty"`
}

// SweepReport summarizes one housekeeping run.
type SweepReport struct {
	FilesDeleted    int    `json:"files_deleted"`
	SpaceFreedBytes int64  `json:"space_freed_bytes"`
	Message         string `json:"message"`
}
