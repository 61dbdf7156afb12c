package command

import (
	"context"
	"fmt"
	"time"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROMOTE GRADES COMMAND
// Advances every incomplete student one academic year. Runs once per year
// at the start of January; the year marker in storage makes a duplicate
// fire a no-op, so a missed or repeated trigger is always safe.
// ══════════════════════════════════════════════════════════════════════════════

// PromoteGradesCommand contains the data for a promotion run.
type PromoteGradesCommand struct {
	// AcademicYear identifies the run, normally the calendar year the
	// promotion fires in. One run per year is ever applied.
	AcademicYear int
}

// Validate validates the command.
func (c PromoteGradesCommand) Validate() error {
	if c.AcademicYear < 2000 || c.AcademicYear > 3000 {
		return fmt.Errorf("promote_grades: implausible academic year %d", c.AcademicYear)
	}
	return nil
}

// PromoteGradesResult summarizes a promotion run.
type PromoteGradesResult struct {
	// AcademicYear is the year the run was recorded under.
	AcademicYear int

	// AlreadyRan is true when a run for this year had already been
	// applied and nothing was written.
	AlreadyRan bool

	// Total is the number of incomplete records examined.
	Total int

	// Advanced is the number of students who moved up a grade.
	Advanced int

	// Completed is the number of students who finished the final grade.
	Completed int

	// Duration is how long the run took.
	Duration time.Duration
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// PromoteGradesHandler handles the PromoteGradesCommand.
type PromoteGradesHandler struct {
	records user.StudentRecordRepository
	log     *logger.Logger
}

// NewPromoteGradesHandler creates a new PromoteGradesHandler.
func NewPromoteGradesHandler(records user.StudentRecordRepository, log *logger.Logger) *PromoteGradesHandler {
	return &PromoteGradesHandler{records: records, log: log}
}

// Handle executes the promotion run.
func (h *PromoteGradesHandler) Handle(ctx context.Context, cmd PromoteGradesCommand) (*PromoteGradesResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &PromoteGradesResult{AcademicYear: cmd.AcademicYear}

	incomplete, err := h.records.ListIncomplete(ctx)
	if err != nil {
		return nil, fmt.Errorf("promote_grades: list incomplete students: %w", err)
	}
	result.Total = len(incomplete)

	promoted := make([]*user.StudentRecord, 0, len(incomplete))
	for _, rec := range incomplete {
		switch rec.Promote() {
		case user.PromotionAdvanced:
			result.Advanced++
			promoted = append(promoted, rec)
		case user.PromotionCompleted:
			result.Completed++
			promoted = append(promoted, rec)
		case user.PromotionNone:
			// ListIncomplete should never hand us these.
		}
	}

	applied, err := h.records.SavePromotions(ctx, promoted, cmd.AcademicYear)
	if err != nil {
		return nil, fmt.Errorf("promote_grades: save promotions: %w", err)
	}

	result.Duration = time.Since(start)

	if !applied {
		result.AlreadyRan = true
		result.Advanced = 0
		result.Completed = 0
		h.log.Info("grade promotion already applied for this year",
			logger.Int("academic_year", cmd.AcademicYear),
		)
		return result, nil
	}

	h.log.Info("grade promotion applied",
		logger.Int("academic_year", cmd.AcademicYear),
		logger.Int("total", result.Total),
		logger.Int("advanced", result.Advanced),
		logger.Int("completed", result.Completed),
		logger.Latency(result.Duration),
	)

	return result, nil
}
