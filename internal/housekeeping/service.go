// filepath: internal/housekeeping/service.go
package housekeeping

import (
	"lanupload/internal/logging"
	"sync"
	"time"
)

const (
	// DefaultCheckInterval is used when no interval is configured.
	DefaultCheckInterval = 1 * time.Hour
	// MinCheckInterval is the minimum time between checks to prevent busy-looping.
	MinCheckInterval = 1 * time.Minute
)

// Service provides the background worker for automated housekeeping.
type Service struct {
	Deps     Dependencies
	timer    *time.Timer
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewService creates a new housekeeping service instance.
func NewService(deps Dependencies) *Service {
	return &Service{
		Deps:   deps,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start kicks off the background housekeeping service.
func (s *Service) Start() {
	logging.Log.Info("Starting background housekeeping service.")
	s.timer = time.NewTimer(0) // Fire immediately on start

	go func() {
		defer close(s.done)
		for {
			select {
			case <-s.timer.C:
				s.runChecks()
				nextRun := s.scheduleNextRun()
				s.timer.Reset(nextRun)
				logging.Log.Debugf("Next housekeeping check scheduled in %v.", nextRun)
			case <-s.stopCh:
				s.timer.Stop()
				return
			}
		}
	}()
}

// Stop terminates the background housekeeping service and waits for a
// running sweep to finish.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		logging.Log.Info("Stopping background housekeeping service.")
		close(s.stopCh)
		if s.timer != nil {
			<-s.done
		}
	})
}

// scheduleNextRun calculates the duration until the next housekeeping event.
func (s *Service) scheduleNextRun() time.Duration {
	interval := s.Deps.Interval
	if interval <= 0 {
		return DefaultCheckInterval
	}
	if interval < MinCheckInterval {
		return MinCheckInterval
	}
	return interval
}

// runChecks sweeps every target once.
func (s *Service) runChecks() {
	logging.Log.Debug("Housekeeping service: Checking temp files...")
	report, err := Sweep(s.Deps, time.Now())
	if err != nil {
		logging.Log.Errorf("Housekeeping run failed: %v", err)
		return
	}
	if report.FilesDeleted > 0 {
		logging.Log.Info(report.Message)
	}
}
