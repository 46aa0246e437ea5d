package infra

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"papertrader/internal/usecase"
)

// Scheduler is the periodic driver for the engine: a fast cadence for
// candidate-generation cycles and a slow cadence for graduation checks.
// It only fires the engine; the engine itself decides whether it is running.
type Scheduler struct {
	cron    *cron.Cron
	engine  *usecase.PaperTradingService
	started bool
}

// NewScheduler creates a new Scheduler around the trading engine
func NewScheduler(engine *usecase.PaperTradingService) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		engine: engine,
	}
}

// Start registers the periodic jobs and starts the cron runner
func (s *Scheduler) Start(scanInterval, graduationGap time.Duration) error {
	if s.started {
		return nil
	}

	scanSpec := everySpec(scanInterval)
	_, err := s.cron.AddFunc(scanSpec, func() {
		ctx := context.Background()
		if err := s.engine.RunCycle(ctx); err != nil {
			log.Printf("ERROR: Scheduled trading cycle failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register scan job: %w", err)
	}

	gradSpec := everySpec(graduationGap)
	_, err = s.cron.AddFunc(gradSpec, func() {
		s.engine.EvaluateGraduation(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to register graduation job: %w", err)
	}

	s.cron.Start()
	s.started = true
	log.Printf("[OK] Scheduler started (scan %s | graduation check %s)", scanSpec, gradSpec)
	return nil
}

// Stop stops the cron runner. A job already in flight finishes its pass;
// pending trade resolutions are owned by the engine and are unaffected.
func (s *Scheduler) Stop() {
	if !s.started {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.started = false
	log.Println("[OK] Scheduler stopped")
}

// RunNow triggers one candidate-generation pass outside the cadence
func (s *Scheduler) RunNow() error {
	return s.engine.RunCycle(context.Background())
}

// everySpec converts a duration to a six-field cron spec. Sub-minute
// intervals use the seconds field; anything longer rounds to whole minutes.
func everySpec(interval time.Duration) string {
	if interval < time.Minute {
		secs := int(interval.Seconds())
		if secs < 1 {
			secs = 1
		}
		return fmt.Sprintf("*/%d * * * * *", secs)
	}

	mins := int(interval.Minutes())
	if mins < 1 {
		mins = 1
	}
	return fmt.Sprintf("0 */%d * * * *", mins)
}
