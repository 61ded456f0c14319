// filepath: internal/services/interfaces.go
package services

import (
	"context"
	"io"
	"lanupload/internal/models"
)

// Auditor defines the interface for recording notable events.
type Auditor interface {
	// Log records an event.
	// ctx: context to trace request IDs (if available)
	// action: what happened (e.g., "upload.stored", "upload.rejected")
	// actor: who did it (remote address)
	// resource: what was affected (the stored file name)
	// details: structured metadata about the event
	Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{})
}

// InfoService defines the interface for the info service.
type InfoService interface {
	GetInfo() models.Info
}

// UploadService decodes one multipart request body and commits its file.
type UploadService interface {
	Commit(ctx context.Context, contentType string, body io.Reader) (models.UploadResult, error)
}

// HousekeepingService defines the interface for the housekeeping service.
type HousekeepingService interface {
	Start()
	Stop()
	TriggerSweep() (*models.SweepReport, error)
}
