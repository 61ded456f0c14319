// filepath: internal/api/handlers/upload_handler.go
package handlers

import (
	"errors"
	"lanupload/internal/logging"
	"lanupload/internal/models"
	"lanupload/internal/services"
	"lanupload/internal/shared"
	"net/http"
)

// Client-visible texts of the upload endpoint.
const (
	msgFileTooLarge   = "The file is too large."
	msgBodyTruncated  = "The request body seems too large or was cut off."
	msgNoFileProvided = "Please input a file."
	msgMalformed      = "Malformed upload request."
	msgUploadFailed   = "The file could not be stored."
)

// rejectionResponse maps a client error onto its status code and message.
func rejectionResponse(kind models.ClientErrorKind) (int, string) {
	switch kind {
	case models.FileTooLarge:
		return http.StatusRequestEntityTooLarge, msgFileTooLarge
	case models.BodyTruncated:
		return http.StatusBadRequest, msgBodyTruncated
	default:
		return http.StatusBadRequest, msgNoFileProvided
	}
}

// Index serves the upload page.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	respondWithPage(w, http.StatusOK, h.page(""))
}

// @Summary Upload a file
// @Description Accepts one file in the multipart field "file" and stores it under its base name, replacing any file of the same name. Further "file" fields are ignored.
// @Description Size limits are enforced while the body streams in.
// @Tags upload
// @Accept  mpfd
// @Produce  html
// @Param   file  formData  file  true  "File to store"
// @Success 200 {string} string "Upload page confirming the stored name"
// @Failure 400 {string} string "No file, truncated body or malformed request"
// @Failure 413 {string} string "The file is too large."
// @Failure 500 {string} string "Storage failure"
// @Router /upload [post]
func (h *Handlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.FromContext(ctx)

	result, err := h.Uploads.Commit(ctx, r.Header.Get("Content-Type"), r.Body)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMalformedRequest):
			logRequestError(r, err, "Malformed upload request")
			h.Metrics.ObserveUpload("malformed_request", 0)
			respondWithText(w, http.StatusBadRequest, msgMalformed)
		default:
			logRequestError(r, err, "Upload failed")
			h.Metrics.ObserveUpload("failed", 0)
			respondWithText(w, http.StatusInternalServerError, msgUploadFailed)
		}
		return
	}

	if !result.IsStored() {
		code, message := rejectionResponse(result.Rejection)
		log.WithField("reason", result.Rejection.String()).Warn("Upload rejected")
		h.Metrics.ObserveUpload(result.Rejection.String(), 0)
		h.Auditor.Log(ctx, "upload.rejected", r.RemoteAddr, "", map[string]interface{}{
			"reason": result.Rejection.String(),
		})
		respondWithText(w, code, message)
		return
	}

	h.Metrics.ObserveUpload("stored", result.Size)
	h.Auditor.Log(ctx, "upload.stored", r.RemoteAddr, result.Name, map[string]interface{}{
		"size": result.Size,
	})
	respondWithPage(w, http.StatusOK, h.page(result.Name))
}

func (h *Handlers) page(uploaded string) pageData {
	return pageData{
		Uploaded:    uploaded,
		MaxFileSize: shared.FormatBytes(h.Info.GetInfo().MaxFileBytes),
	}
}
