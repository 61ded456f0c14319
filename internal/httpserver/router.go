package httpserver

import (
	"lanupload/internal/api/handlers"
	"lanupload/internal/metrics"
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter configures the main router.
// maxBody caps the raw size of upload request bodies; 0 disables the cap.
func SetupRouter(h *handlers.Handlers, m *metrics.Metrics, maxBody int64) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware, AccessLogMiddleware, RecoveryMiddleware, MetricsMiddleware(m))
	r.NotFoundHandler = notFoundHandler()

	// Upload page
	r.HandleFunc("/", h.Index).Methods("GET")
	r.Handle("/upload", MaxBytes(maxBody)(http.HandlerFunc(h.UploadFile))).Methods("POST")

	// Service endpoints
	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
	r.HandleFunc("/api/info", h.GetInfo).Methods("GET")
	r.HandleFunc("/api/housekeeping", h.TriggerHousekeeping).Methods("POST")
	r.Handle("/metrics", m.Handler()).Methods("GET")
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	return r
}
