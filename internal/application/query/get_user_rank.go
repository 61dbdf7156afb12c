package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET USER RANK QUERY
// Answers "where do I stand": the user's position on the engagement
// leaderboard plus the resolved level. Served from the ranking cache
// when available, otherwise computed in the database.
// ══════════════════════════════════════════════════════════════════════════════

// GetUserRankQuery contains the rank lookup parameters.
type GetUserRankQuery struct {
	UserID user.UserID
}

// Validate validates the query.
func (q GetUserRankQuery) Validate() error {
	if !q.UserID.IsValid() {
		return errors.New("get_user_rank: user_id is required")
	}
	return nil
}

// UserRankDTO is the rank view of a single user.
type UserRankDTO struct {
	UserID int64 `json:"user_id"`

	// Rank is the 1-based leaderboard position.
	Rank int `json:"rank"`

	// TotalRanked is the number of users on the board.
	TotalRanked int `json:"total_ranked"`

	// Percentile is the share of users at or below this position,
	// 100 meaning first place.
	Percentile float64 `json:"percentile"`

	Score float64 `json:"score"`
	Level TierDTO `json:"level"`
}

// RankReader reads positions from the ranking cache.
// Implementations live in infrastructure/persistence/redis.
type RankReader interface {
	// Rank returns the 0-based position of the user, or an error when
	// the user is not ranked.
	Rank(ctx context.Context, userID int64) (int64, error)

	// Size returns the number of ranked users.
	Size(ctx context.Context) (int64, error)
}

// GetUserRankHandler handles the GetUserRankQuery.
type GetUserRankHandler struct {
	users     user.Repository
	ranker    RankReader
	catalogue *scoring.Catalogue
	log       *logger.Logger
}

// NewGetUserRankHandler creates a new GetUserRankHandler.
// The ranker may be nil when the ranking cache is disabled.
func NewGetUserRankHandler(
	users user.Repository,
	ranker RankReader,
	catalogue *scoring.Catalogue,
	log *logger.Logger,
) *GetUserRankHandler {
	return &GetUserRankHandler{
		users:     users,
		ranker:    ranker,
		catalogue: catalogue,
		log:       log,
	}
}

// Handle executes the rank lookup.
func (h *GetUserRankHandler) Handle(ctx context.Context, q GetUserRankQuery) (*UserRankDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetByID(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_user_rank: %w", err)
	}

	rank, total, err := h.lookupRank(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_user_rank: %w", err)
	}

	score := u.SystemScore.Float()
	tier := h.catalogue.Resolve(score)

	dto := &UserRankDTO{
		UserID:      int64(u.ID),
		Rank:        rank,
		TotalRanked: total,
		Score:       score,
		Level: TierDTO{
			ID:       tier.ID,
			Name:     tier.Name,
			Icon:     tier.Icon,
			MaxLimit: tier.MaxLimit,
		},
	}
	if total > 0 {
		dto.Percentile = float64(total-rank+1) / float64(total) * 100
	}

	return dto, nil
}

func (h *GetUserRankHandler) lookupRank(ctx context.Context, id user.UserID) (int, int, error) {
	if h.ranker != nil {
		pos, err := h.ranker.Rank(ctx, int64(id))
		if err == nil {
			var size int64
			if size, err = h.ranker.Size(ctx); err == nil {
				return int(pos) + 1, int(size), nil
			}
		}
		h.log.Warn("rank cache read failed, falling back to database",
			logger.UserID(int64(id)),
			logger.Err(err),
		)
	}

	return h.users.ScoreRank(ctx, id)
}
