package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"townbank/domain/apperrors"
	"townbank/domain/entities"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// CycleAdvancer is the operation the scheduler triggers
type CycleAdvancer interface {
	AdvanceCycle(ctx context.Context, requesterID *int64, direction string) (*entities.CycleResult, error)
}

// CycleScheduler ends the day and the night on cron schedules, acting as the system
type CycleScheduler struct {
	cron     *cron.Cron
	advancer CycleAdvancer
}

// NewCycleScheduler creates a scheduler in the given IANA time zone
func NewCycleScheduler(advancer CycleAdvancer, timezone string) (*CycleScheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", timezone, err)
	}

	return &CycleScheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		advancer: advancer,
	}, nil
}

// Schedule registers the end-of-day and end-of-night specs; an empty spec is skipped
func (s *CycleScheduler) Schedule(ctx context.Context, endDaySpec, endNightSpec string) (int, error) {
	jobs := 0
	for direction, spec := range map[entities.CycleDirection]string{
		entities.CycleDirectionEndDay:   endDaySpec,
		entities.CycleDirectionEndNight: endNightSpec,
	} {
		if spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(spec, s.job(ctx, direction)); err != nil {
			return jobs, fmt.Errorf("invalid cron spec %q for %s: %w", spec, direction, err)
		}
		jobs++
	}
	return jobs, nil
}

func (s *CycleScheduler) job(ctx context.Context, direction entities.CycleDirection) func() {
	return func() {
		logger := log.WithField("direction", direction)
		logger.Info("[CRON] Advancing cycle")

		result, err := s.advancer.AdvanceCycle(ctx, nil, string(direction))
		if err != nil {
			// A manual transition may already have happened
			if errors.Is(err, apperrors.ErrCycleAlreadyInState) {
				logger.Info("[CRON] Cycle already in requested phase")
				return
			}
			logger.WithError(err).Error("[CRON] Failed to advance cycle")
			return
		}

		if result.Payroll != nil {
			logger = logger.WithFields(log.Fields{
				"paid":      result.Payroll.AccountsPaid,
				"totalPaid": result.Payroll.TotalPaid,
			})
		}
		logger.Info("[CRON] Cycle advanced")
	}
}

// Start runs the scheduler in the background
func (s *CycleScheduler) Start() {
	s.cron.Start()
	log.Info("Cycle scheduler started")
}

// Stop waits for running jobs to finish
func (s *CycleScheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("Cycle scheduler stopped")
}
