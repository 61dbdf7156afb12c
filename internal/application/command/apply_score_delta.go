// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/logger"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPLY SCORE DELTA COMMAND
// Shifts a user's engagement score in response to a platform interaction.
// Scoring is a side effect of the interaction: the interaction itself must
// never fail because the score could not move, so this handler reports
// failures in the result instead of returning an error.
// ══════════════════════════════════════════════════════════════════════════════

// ApplyScoreDeltaCommand contains the data to shift a user's score.
type ApplyScoreDeltaCommand struct {
	// UserID is the user whose score moves.
	UserID user.UserID

	// Action is the interaction that triggered the shift.
	Action scoring.Action

	// Reverse negates the delta. Used when an interaction is withdrawn,
	// for example a removed reaction.
	Reverse bool
}

// Validate validates the command.
func (c ApplyScoreDeltaCommand) Validate() error {
	if !c.UserID.IsValid() {
		return errors.New("apply_score_delta: user_id is required")
	}
	if !c.Action.IsValid() {
		return fmt.Errorf("apply_score_delta: unknown action: %s", c.Action)
	}
	return nil
}

// ScoreUpdateResult describes what happened to the score.
// Applied is false when the shift could not be made; the reason is kept
// for logging but callers are free to ignore it.
type ScoreUpdateResult struct {
	// Applied is true when the score actually moved.
	Applied bool

	// UserID is the affected user.
	UserID user.UserID

	// Action is the triggering interaction.
	Action scoring.Action

	// Delta is the applied shift, already negated for reversals.
	Delta int

	// NewScore is the score after the shift, valid only when Applied.
	NewScore float64

	// Tier is the level the new score resolves to, valid only when Applied.
	Tier scoring.Tier

	// FailureReason explains why the shift was skipped.
	FailureReason string

	// AppliedAt is when the shift happened.
	AppliedAt time.Time
}

// ScoreLeaderboard receives score updates for the ranking cache.
// Implementations live in infrastructure/persistence/redis.
type ScoreLeaderboard interface {
	// SetScore records a user's current score in the ranking.
	SetScore(ctx context.Context, userID int64, score float64) error
}

// ProfileInvalidator drops a cached profile after its score moved.
type ProfileInvalidator interface {
	Invalidate(ctx context.Context, id int64) error
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ApplyScoreDeltaHandler handles the ApplyScoreDeltaCommand.
type ApplyScoreDeltaHandler struct {
	userRepo    user.Repository
	points      *scoring.PointsTable
	catalogue   *scoring.Catalogue
	leaderboard ScoreLeaderboard
	profiles    ProfileInvalidator
	retrier     *retry.Retrier
	log         *logger.Logger
}

// NewApplyScoreDeltaHandler creates a new ApplyScoreDeltaHandler.
// The leaderboard may be nil when the ranking cache is disabled.
func NewApplyScoreDeltaHandler(
	userRepo user.Repository,
	points *scoring.PointsTable,
	catalogue *scoring.Catalogue,
	leaderboard ScoreLeaderboard,
	log *logger.Logger,
) *ApplyScoreDeltaHandler {
	return &ApplyScoreDeltaHandler{
		userRepo:    userRepo,
		points:      points,
		catalogue:   catalogue,
		leaderboard: leaderboard,
		retrier:     retry.CacheRetrier(),
		log:         log,
	}
}

// WithProfileInvalidator attaches a profile cache to invalidate after
// each applied shift. Optional.
func (h *ApplyScoreDeltaHandler) WithProfileInvalidator(inv ProfileInvalidator) *ApplyScoreDeltaHandler {
	h.profiles = inv
	return h
}

// Handle executes the score shift. It never returns an error: a shift
// that cannot be applied comes back with Applied=false so the triggering
// interaction proceeds regardless.
func (h *ApplyScoreDeltaHandler) Handle(ctx context.Context, cmd ApplyScoreDeltaCommand) *ScoreUpdateResult {
	result := &ScoreUpdateResult{
		UserID:    cmd.UserID,
		Action:    cmd.Action,
		AppliedAt: time.Now().UTC(),
	}

	if err := cmd.Validate(); err != nil {
		result.FailureReason = err.Error()
		h.log.Warn("score update skipped",
			logger.UserID(int64(cmd.UserID)),
			logger.Action(cmd.Action.String()),
			logger.Err(err),
		)
		return result
	}

	delta, err := h.points.Delta(cmd.Action)
	if err != nil {
		result.FailureReason = err.Error()
		h.log.Warn("score update skipped",
			logger.UserID(int64(cmd.UserID)),
			logger.Action(cmd.Action.String()),
			logger.Err(err),
		)
		return result
	}
	if cmd.Reverse {
		delta = -delta
	}
	result.Delta = delta

	newScore, err := h.userRepo.AddScore(ctx, cmd.UserID, float64(delta))
	if err != nil {
		result.FailureReason = err.Error()
		h.log.Warn("score update failed",
			logger.UserID(int64(cmd.UserID)),
			logger.Action(cmd.Action.String()),
			logger.ScoreDelta(delta),
			logger.Err(err),
		)
		return result
	}

	result.Applied = true
	result.NewScore = newScore
	result.Tier = h.catalogue.Resolve(newScore)

	h.log.Debug("score updated",
		logger.UserID(int64(cmd.UserID)),
		logger.Action(cmd.Action.String()),
		logger.ScoreDelta(delta),
		logger.Score(newScore),
		logger.String("tier", result.Tier.Name),
	)

	// Best effort: the ranking cache is rebuilt periodically anyway.
	if h.leaderboard != nil {
		err := h.retrier.Do(ctx, func(ctx context.Context) error {
			return h.leaderboard.SetScore(ctx, int64(cmd.UserID), newScore)
		})
		if err != nil {
			h.log.Warn("leaderboard sync failed",
				logger.UserID(int64(cmd.UserID)),
				logger.Err(err),
			)
		}
	}

	if h.profiles != nil {
		if err := h.profiles.Invalidate(ctx, int64(cmd.UserID)); err != nil {
			h.log.Warn("profile cache invalidation failed",
				logger.UserID(int64(cmd.UserID)),
				logger.Err(err),
			)
		}
	}

	return result
}

// Apply is a convenience wrapper used by interaction handlers.
func (h *ApplyScoreDeltaHandler) Apply(ctx context.Context, id user.UserID, action scoring.Action) *ScoreUpdateResult {
	return h.Handle(ctx, ApplyScoreDeltaCommand{UserID: id, Action: action})
}

// Revert undoes an earlier shift for the same action.
func (h *ApplyScoreDeltaHandler) Revert(ctx context.Context, id user.UserID, action scoring.Action) *ScoreUpdateResult {
	return h.Handle(ctx, ApplyScoreDeltaCommand{UserID: id, Action: action, Reverse: true})
}

// ScoreUpdater is the narrow interface interaction handlers depend on.
type ScoreUpdater interface {
	Apply(ctx context.Context, id user.UserID, action scoring.Action) *ScoreUpdateResult
	Revert(ctx context.Context, id user.UserID, action scoring.Action) *ScoreUpdateResult
}
