// filepath: internal/api/handlers/main_test.go
package handlers

import (
	"lanupload/internal/metrics"
	"lanupload/internal/models"
	"lanupload/internal/services/mocks"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

func testInfo() models.Info {
	return models.Info{
		ServiceName:   "lanupload",
		Version:       "test",
		UptimeSince:   time.Now(),
		Storage:       "disk:/tmp/drop",
		MaxTotalBytes: 1000,
		MaxFileBytes:  1000,
	}
}

// setupHandlerTestAPI creates a test server with mocked services.
func setupHandlerTestAPI(t *testing.T) (*httptest.Server, *mocks.MockUploadService, *mocks.MockAuditor, func()) {
	t.Helper()

	uploadSvc := new(mocks.MockUploadService)
	auditor := new(mocks.MockAuditor)
	infoSvc := new(mocks.MockInfoService)
	infoSvc.On("GetInfo").Return(testInfo())

	h := NewHandlers(infoSvc, uploadSvc, nil, auditor, metrics.New())

	r := mux.NewRouter()
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/upload", h.UploadFile).Methods("POST")
	r.HandleFunc("/api/info", h.GetInfo).Methods("GET")
	r.HandleFunc("/health", HealthCheck).Methods("GET")

	server := httptest.NewServer(r)
	return server, uploadSvc, auditor, server.Close
}
