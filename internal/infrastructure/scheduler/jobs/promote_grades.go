// Package jobs contains implementations of scheduled jobs for CeyAcc.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/application/command"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROMOTE GRADES JOB
// ══════════════════════════════════════════════════════════════════════════════

// PromoteGradesJob advances every incomplete student one grade at the
// start of each academic year. The run is idempotent: the handler
// records the year it applied, so an extra trigger in the same year
// is a no-op. That makes it safe to schedule aggressively and to fire
// manually after a missed window.
type PromoteGradesJob struct {
	handler *command.PromoteGradesHandler
	logger  *slog.Logger

	lastResult atomic.Value // *command.PromoteGradesResult
}

// NewPromoteGradesJob creates a new grade promotion job.
func NewPromoteGradesJob(handler *command.PromoteGradesHandler, logger *slog.Logger) *PromoteGradesJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &PromoteGradesJob{
		handler: handler,
		logger:  logger,
	}
}

// Name returns the job name.
func (j *PromoteGradesJob) Name() string {
	return "promote_grades"
}

// Description returns a human-readable description.
func (j *PromoteGradesJob) Description() string {
	return "Advances all incomplete students one grade for the new academic year"
}

// Run executes the promotion for the current academic year.
func (j *PromoteGradesJob) Run(ctx context.Context) error {
	year := timeutil.AcademicYear(timeutil.Now())

	result, err := j.handler.Handle(ctx, command.PromoteGradesCommand{AcademicYear: year})
	if err != nil {
		return fmt.Errorf("promote grades for %d: %w", year, err)
	}

	j.lastResult.Store(result)

	if result.AlreadyRan {
		j.logger.Info("grade promotion skipped, year already applied",
			"academic_year", year,
		)
		return nil
	}

	j.logger.Info("grade promotion run finished",
		"academic_year", year,
		"total", result.Total,
		"advanced", result.Advanced,
		"completed", result.Completed,
		"duration", result.Duration.String(),
	)
	return nil
}

// LastResult returns the result of the most recent run, or nil.
func (j *PromoteGradesJob) LastResult() *command.PromoteGradesResult {
	v := j.lastResult.Load()
	if v == nil {
		return nil
	}
	return v.(*command.PromoteGradesResult)
}
