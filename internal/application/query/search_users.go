package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH USERS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// SearchUsersQuery contains user search parameters. An empty term lists
// users unfiltered.
type SearchUsersQuery struct {
	Term   string
	Role   user.Role
	Offset int
	Limit  int
}

// Validate normalizes the query.
func (q *SearchUsersQuery) Validate() error {
	q.Term = strings.TrimSpace(q.Term)
	if q.Role != 0 && !q.Role.IsValid() {
		return user.ErrInvalidRole
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return nil
}

// UserSummaryDTO is one search result.
type UserSummaryDTO struct {
	UserID int64   `json:"user_id"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	School string  `json:"school,omitempty"`
	Score  float64 `json:"score"`
	Level  TierDTO `json:"level"`
}

// SearchUsersHandler handles the SearchUsersQuery.
type SearchUsersHandler struct {
	users     user.Repository
	catalogue *scoring.Catalogue
}

// NewSearchUsersHandler creates a new SearchUsersHandler.
func NewSearchUsersHandler(users user.Repository, catalogue *scoring.Catalogue) *SearchUsersHandler {
	return &SearchUsersHandler{users: users, catalogue: catalogue}
}

// Handle returns active users matching the term, each with their level.
func (h *SearchUsersHandler) Handle(ctx context.Context, q SearchUsersQuery) ([]UserSummaryDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	opts := user.DefaultListOptions().
		WithOffset(q.Offset).
		WithLimit(q.Limit).
		WithSearch(q.Term)
	if q.Role != 0 {
		opts = opts.WithRole(q.Role)
	}

	users, err := h.users.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("search_users: %w", err)
	}

	out := make([]UserSummaryDTO, 0, len(users))
	for _, u := range users {
		tier := h.catalogue.Resolve(u.SystemScore.Float())
		out = append(out, UserSummaryDTO{
			UserID: int64(u.ID),
			Name:   u.Name,
			Role:   u.Role.String(),
			School: u.School,
			Score:  u.SystemScore.Float(),
			Level: TierDTO{
				ID:       tier.ID,
				Name:     tier.Name,
				Icon:     tier.Icon,
				MaxLimit: tier.MaxLimit,
			},
		})
	}
	return out, nil
}
