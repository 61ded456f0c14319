// filepath: internal/housekeeping/tasks.go
package housekeeping

import (
	"errors"
	"fmt"
	"lanupload/internal/logging"
	"lanupload/internal/models"
	"lanupload/internal/shared"
	"time"
)

// Dependencies defines what the housekeeping tasks work on.
type Dependencies struct {
	Targets  []Target
	Interval time.Duration
	MaxAge   time.Duration
	// Observe, when set, receives the report of every completed sweep.
	Observe func(*models.SweepReport)
}

// Sweep removes temp files older than MaxAge from every target.
// A failing target does not stop the others; their errors are joined.
func Sweep(deps Dependencies, now time.Time) (*models.SweepReport, error) {
	report := &models.SweepReport{}

	if deps.MaxAge <= 0 {
		report.Message = "Housekeeping skipped (max age is 0)."
		return report, nil
	}
	cutoff := now.Add(-deps.MaxAge)

	var errs []error
	for _, target := range deps.Targets {
		stale, err := target.Stale(cutoff)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", target, err))
			continue
		}
		for _, f := range stale {
			if err := target.Remove(f); err != nil {
				logging.Log.Warnf("Housekeeping: Failed to delete temp file %s: %v", f.Path, err)
				continue
			}
			report.FilesDeleted++
			report.SpaceFreedBytes += f.Size
		}
	}

	report.Message = fmt.Sprintf("Housekeeping complete. %d temp files deleted, freeing %s.",
		report.FilesDeleted, shared.FormatBytes(report.SpaceFreedBytes))
	if deps.Observe != nil {
		deps.Observe(report)
	}

	return report, errors.Join(errs...)
}
