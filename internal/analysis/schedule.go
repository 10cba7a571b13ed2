package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/JaimeStill/regtriage/pkg/lifecycle"
)

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule parses a standard 5-field cron expression
// (minute hour day-of-month month day-of-week) or a descriptor such as @daily.
func ParseSchedule(expr string) (cron.Schedule, error) {
	sched, err := scheduleParser.Parse(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, expr, err)
	}
	return sched, nil
}

// Start registers the periodic run with the lifecycle coordinator. An empty
// schedule disables it.
func (s *system) Start(lc *lifecycle.Coordinator) error {
	expr := strings.TrimSpace(s.cfg.Schedule)
	if expr == "" {
		s.logger.Info("scheduled analysis disabled")
		return nil
	}

	sched, err := ParseSchedule(expr)
	if err != nil {
		return err
	}

	lc.Go(func(ctx context.Context) {
		s.logger.Info("scheduled analysis started", "schedule", expr)
		s.loop(ctx, sched)
		s.logger.Info("scheduled analysis stopped")
	})

	return nil
}

func (s *system) loop(ctx context.Context, sched cron.Schedule) {
	for {
		now := s.now()
		next := sched.Next(now)
		s.logger.Debug("next scheduled analysis", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		report, err := s.Run(ctx)
		if err != nil {
			s.logger.Error("scheduled analysis failed", "error", err)
			continue
		}
		s.logger.Info("scheduled analysis complete",
			"total", report.TotalCases,
			"records", report.FilteredCases,
		)
	}
}
