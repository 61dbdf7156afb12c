package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD LEADERBOARD JOB
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardRebuilder replaces the cached ranking wholesale.
type LeaderboardRebuilder interface {
	Rebuild(ctx context.Context, entries []scoring.RankedScore) error
}

// RebuildLeaderboardJob reloads the Redis score ranking from Postgres.
// Per-interaction writes keep the cache current; this job reconciles
// any drift from dropped writes or cache restarts.
type RebuildLeaderboardJob struct {
	users     user.Repository
	rebuilder LeaderboardRebuilder
	logger    *slog.Logger

	// MaxEntries caps how many users are loaded into the ranking.
	MaxEntries int

	lastStats atomic.Value // *RebuildStats
}

// RebuildStats contains statistics from a rebuild run.
type RebuildStats struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	TotalUsers  int
}

// NewRebuildLeaderboardJob creates a new rebuild leaderboard job.
func NewRebuildLeaderboardJob(users user.Repository, rebuilder LeaderboardRebuilder, logger *slog.Logger) *RebuildLeaderboardJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &RebuildLeaderboardJob{
		users:      users,
		rebuilder:  rebuilder,
		logger:     logger,
		MaxEntries: 10000,
	}
}

// Name returns the job name.
func (j *RebuildLeaderboardJob) Name() string {
	return "rebuild_leaderboard"
}

// Description returns a human-readable description.
func (j *RebuildLeaderboardJob) Description() string {
	return "Reloads the cached score ranking from the database"
}

// Run executes the rebuild.
func (j *RebuildLeaderboardJob) Run(ctx context.Context) error {
	startedAt := time.Now()

	users, err := j.users.TopByScore(ctx, j.MaxEntries)
	if err != nil {
		return fmt.Errorf("load scores: %w", err)
	}

	entries := make([]scoring.RankedScore, len(users))
	for i, u := range users {
		entries[i] = scoring.RankedScore{
			UserID: int64(u.ID),
			Score:  float64(u.SystemScore),
		}
	}

	if err := j.rebuilder.Rebuild(ctx, entries); err != nil {
		return fmt.Errorf("rebuild ranking: %w", err)
	}

	stats := &RebuildStats{
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
		TotalUsers:  len(entries),
	}
	stats.Duration = stats.CompletedAt.Sub(stats.StartedAt)
	j.lastStats.Store(stats)

	j.logger.Info("leaderboard rebuilt",
		"users", stats.TotalUsers,
		"duration", stats.Duration.String(),
	)
	return nil
}

// LastStats returns statistics from the most recent run, or nil.
func (j *RebuildLeaderboardJob) LastStats() *RebuildStats {
	v := j.lastStats.Load()
	if v == nil {
		return nil
	}
	return v.(*RebuildStats)
}
