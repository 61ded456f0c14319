// filepath: internal/services/housekeeping_service.go
package services

import (
	"lanupload/internal/housekeeping"
	"lanupload/internal/models"
	"time"
)

var _ HousekeepingService = (*housekeepingService)(nil)

// housekeepingService manages the lifecycle of the background temp-file
// sweeper and provides a method for manual triggering.
type housekeepingService struct {
	worker     *housekeeping.Service
	workerDeps housekeeping.Dependencies
}

// NewHousekeepingService sweeps targets every interval, removing temp files
// older than maxAge. An interval of 0 disables the background worker.
// observe may be nil.
func NewHousekeepingService(targets []housekeeping.Target, interval, maxAge time.Duration, observe func(*models.SweepReport)) *housekeepingService {
	return &housekeepingService{
		workerDeps: housekeeping.Dependencies{
			Targets:  targets,
			Interval: interval,
			MaxAge:   maxAge,
			Observe:  observe,
		},
	}
}

// Start begins the background housekeeping worker.
func (s *housekeepingService) Start() {
	if s.workerDeps.Interval <= 0 {
		return
	}
	s.worker = housekeeping.NewService(s.workerDeps)
	s.worker.Start()
}

// Stop terminates the background housekeeping worker.
func (s *housekeepingService) Stop() {
	if s.worker != nil {
		s.worker.Stop()
		s.worker = nil
	}
}

// TriggerSweep runs one sweep immediately.
func (s *housekeepingService) TriggerSweep() (*models.SweepReport, error) {
	return housekeeping.Sweep(s.workerDeps, time.Now())
}
