// filepath: internal/api/handlers/utils.go
package handlers

import (
	"lanupload/internal/logging"
	"net/http"
)

// logRequestError logs err with the request id of r.
func logRequestError(r *http.Request, err error, msg string) {
	logging.FromContext(r.Context()).WithError(err).Error(msg)
}
