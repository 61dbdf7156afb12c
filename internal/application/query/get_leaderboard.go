package query

import (
	"context"
	"fmt"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Top users by engagement score. Served from the Redis ranking cache when
// available, falling back to the database when the cache is cold or down.
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardReader reads the ranking cache.
// Implementations live in infrastructure/persistence/redis.
type LeaderboardReader interface {
	// Top returns up to limit entries ordered by score descending.
	Top(ctx context.Context, limit int) ([]scoring.RankedScore, error)
}

// GetLeaderboardQuery contains the leaderboard parameters.
type GetLeaderboardQuery struct {
	Limit int
}

// Validate normalizes the query.
func (q *GetLeaderboardQuery) Validate() error {
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return nil
}

// LeaderboardEntryDTO is one row of the leaderboard.
type LeaderboardEntryDTO struct {
	Rank   int     `json:"rank"`
	UserID int64   `json:"user_id"`
	Name   string  `json:"name"`
	School string  `json:"school,omitempty"`
	Score  float64 `json:"score"`
	Level  TierDTO `json:"level"`
}

// GetLeaderboardHandler handles the GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	users     user.Repository
	reader    LeaderboardReader
	catalogue *scoring.Catalogue
	log       *logger.Logger
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler.
// The reader may be nil when the ranking cache is disabled.
func NewGetLeaderboardHandler(
	users user.Repository,
	reader LeaderboardReader,
	catalogue *scoring.Catalogue,
	log *logger.Logger,
) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{
		users:     users,
		reader:    reader,
		catalogue: catalogue,
		log:       log,
	}
}

// Handle executes the leaderboard lookup.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) ([]LeaderboardEntryDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if h.reader != nil {
		entries, err := h.fromCache(ctx, q.Limit)
		if err == nil {
			return entries, nil
		}
		h.log.Warn("leaderboard cache read failed, falling back to database",
			logger.Err(err),
		)
	}

	return h.fromDatabase(ctx, q.Limit)
}

func (h *GetLeaderboardHandler) fromCache(ctx context.Context, limit int) ([]LeaderboardEntryDTO, error) {
	ranked, err := h.reader.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("leaderboard cache is empty")
	}

	entries := make([]LeaderboardEntryDTO, 0, len(ranked))
	for i, r := range ranked {
		u, err := h.users.GetByID(ctx, user.UserID(r.UserID))
		if err != nil {
			// A cached entry for a deleted user; skip it.
			continue
		}
		entries = append(entries, h.toEntry(i+1, u, r.Score))
	}
	return entries, nil
}

func (h *GetLeaderboardHandler) fromDatabase(ctx context.Context, limit int) ([]LeaderboardEntryDTO, error) {
	users, err := h.users.TopByScore(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntryDTO, 0, len(users))
	for i, u := range users {
		entries = append(entries, h.toEntry(i+1, u, u.SystemScore.Float()))
	}
	return entries, nil
}

func (h *GetLeaderboardHandler) toEntry(rank int, u *user.User, score float64) LeaderboardEntryDTO {
	tier := h.catalogue.Resolve(score)
	return LeaderboardEntryDTO{
		Rank:   rank,
		UserID: int64(u.ID),
		Name:   u.Name,
		School: u.School,
		Score:  score,
		Level: TierDTO{
			ID:       tier.ID,
			Name:     tier.Name,
			Icon:     tier.Icon,
			MaxLimit: tier.MaxLimit,
		},
	}
}
