// filepath: internal/services/service_errors.go
package services

import "errors"

// Standard errors returned by the service layer.
var (
	ErrMalformedRequest = errors.New("malformed upload request")
	ErrStorage          = errors.New("storage write failed")
	ErrTransport        = errors.New("reading request body failed")
)
