// filepath: internal/services/info_service.go
package services

import (
	"lanupload/internal/formdata"
	"lanupload/internal/models"
	"time"
)

var _ InfoService = (*infoService)(nil)

type infoService struct {
	Version   string
	StartTime time.Time
	Storage   string
	Limits    formdata.Limits
	UploadURL string
}

// NewInfoService creates a new InfoService.
func NewInfoService(version string, startTime time.Time, storage string, limits formdata.Limits, uploadURL string) *infoService {
	return &infoService{
		Version:   version,
		StartTime: startTime,
		Storage:   storage,
		Limits:    limits,
		UploadURL: uploadURL,
	}
}

// GetInfo retrieves the application information.
func (s *infoService) GetInfo() models.Info {
	return models.Info{
		ServiceName:   "lanupload",
		Version:       s.Version,
		UptimeSince:   s.StartTime,
		Storage:       s.Storage,
		MaxTotalBytes: s.Limits.MaxTotalBytes,
		MaxFileBytes:  s.Limits.MaxFileBytes,
		UploadURL:     s.UploadURL,
	}
}
