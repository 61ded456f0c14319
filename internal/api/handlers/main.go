// filepath: internal/api/handlers/main.go
package handlers

import (
	"lanupload/internal/metrics"
	"lanupload/internal/services"
)

// Handlers holds the shared dependencies of the HTTP handlers.
type Handlers struct {
	Info         services.InfoService
	Uploads      services.UploadService
	Housekeeping services.HousekeepingService
	Auditor      services.Auditor
	Metrics      *metrics.Metrics // may be nil
}

// NewHandlers creates a new instance of Handlers with its dependencies.
func NewHandlers(
	info services.InfoService,
	uploads services.UploadService,
	housekeeping services.HousekeepingService,
	auditor services.Auditor,
	m *metrics.Metrics,
) *Handlers {
	return &Handlers{
		Info:         info,
		Uploads:      uploads,
		Housekeeping: housekeeping,
		Auditor:      auditor,
		Metrics:      m,
	}
}
