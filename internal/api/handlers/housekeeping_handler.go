// filepath: internal/api/handlers/housekeeping_handler.go
package handlers

import (
	"net/http"
)

// @Summary Trigger a temp-file sweep
// @Description Removes stale temporary files left by interrupted writes and spilled form fields, without waiting for the next scheduled run.
// @Tags housekeeping
// @Produce  json
// @Success 200 {object} models.SweepReport
// @Failure 500 {object} ErrorResponse "Housekeeping failed"
// @Router /api/housekeeping [post]
func (h *Handlers) TriggerHousekeeping(w http.ResponseWriter, r *http.Request) {
	report, err := h.Housekeeping.TriggerSweep()
	if err != nil {
		logRequestError(r, err, "Housekeeping failed")
		respondWithError(w, http.StatusInternalServerError, "Housekeeping failed.")
		return
	}

	h.Auditor.Log(r.Context(), "housekeeping.sweep", r.RemoteAddr, "", map[string]interface{}{
		"files_deleted":     report.FilesDeleted,
		"space_freed_bytes": report.SpaceFreedBytes,
	})
	respondWithJSON(w, http.StatusOK, report)
}
