// filepath: internal/services/mocks/upload_mock.go
package mocks

import (
	"context"
	"io"
	"lanupload/internal/models"
	"lanupload/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockUploadService is a mock implementation of services.UploadService.
// It drains the body so handlers see the same I/O pattern as in production.
type MockUploadService struct {
	mock.Mock
}

var _ services.UploadService = (*MockUploadService)(nil)

func (m *MockUploadService) Commit(ctx context.Context, contentType string, body io.Reader) (models.UploadResult, error) {
	io.Copy(io.Discard, body)
	args := m.Called(ctx, contentType)
	return args.Get(0).(models.UploadResult), args.Error(1)
}
