// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET USER PROFILE QUERY
// Returns an account with its engagement level resolved and the
// role-specific record attached.
// ══════════════════════════════════════════════════════════════════════════════

// GetUserProfileQuery contains the profile lookup parameters.
type GetUserProfileQuery struct {
	UserID user.UserID
}

// Validate validates the query.
func (q GetUserProfileQuery) Validate() error {
	if !q.UserID.IsValid() {
		return errors.New("get_user_profile: user_id is required")
	}
	return nil
}

// TierDTO is the level a score resolves to.
type TierDTO struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Icon     string  `json:"icon"`
	MaxLimit float64 `json:"max_limit"`
}

// UserProfileDTO is the full profile view.
type UserProfileDTO struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Role   string  `json:"role"`
	School string  `json:"school,omitempty"`
	Score  float64 `json:"score"`
	Level  TierDTO `json:"level"`

	// Student fields, present only for students.
	Grade       *int  `json:"grade,omitempty"`
	IsCompleted *bool `json:"is_completed,omitempty"`

	// Teacher fields, present only for teachers.
	Subject       string `json:"subject,omitempty"`
	Qualification string `json:"qualification,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// UserCache is an optional read-through cache for user entities.
// A failed cache read falls back to the database; a failed write is
// ignored because the entry expires on its own.
type UserCache interface {
	Get(ctx context.Context, id int64) (*user.User, error)
	Set(ctx context.Context, u *user.User) error
}

// GetUserProfileHandler handles the GetUserProfileQuery.
type GetUserProfileHandler struct {
	users     user.Repository
	records   user.StudentRecordRepository
	profiles  user.TeacherProfileRepository
	catalogue *scoring.Catalogue
	cache     UserCache
}

// NewGetUserProfileHandler creates a new GetUserProfileHandler.
func NewGetUserProfileHandler(
	users user.Repository,
	records user.StudentRecordRepository,
	profiles user.TeacherProfileRepository,
	catalogue *scoring.Catalogue,
) *GetUserProfileHandler {
	return &GetUserProfileHandler{
		users:     users,
		records:   records,
		profiles:  profiles,
		catalogue: catalogue,
	}
}

// WithCache attaches a read-through user cache. Optional.
func (h *GetUserProfileHandler) WithCache(cache UserCache) *GetUserProfileHandler {
	h.cache = cache
	return h
}

// Handle executes the profile lookup.
func (h *GetUserProfileHandler) Handle(ctx context.Context, q GetUserProfileQuery) (*UserProfileDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	u, err := h.lookupUser(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_user_profile: %w", err)
	}

	tier := h.catalogue.Resolve(u.SystemScore.Float())
	dto := &UserProfileDTO{
		ID:     int64(u.ID),
		Name:   u.Name,
		Email:  u.Email.String(),
		Role:   u.Role.String(),
		School: u.School,
		Score:  u.SystemScore.Float(),
		Level: TierDTO{
			ID:       tier.ID,
			Name:     tier.Name,
			Icon:     tier.Icon,
			MaxLimit: tier.MaxLimit,
		},
		CreatedAt: u.CreatedAt,
	}

	switch u.Role {
	case user.RoleStudent:
		// A missing record just means the student fields stay empty.
		if rec, err := h.records.GetByUserID(ctx, u.ID); err == nil {
			dto.Grade = rec.Grade
			completed := rec.IsCompleted
			dto.IsCompleted = &completed
		}
	case user.RoleTeacher:
		if prof, err := h.profiles.GetByUserID(ctx, u.ID); err == nil {
			dto.Subject = prof.Subject
			dto.Qualification = prof.Qualification
		}
	}

	return dto, nil
}

func (h *GetUserProfileHandler) lookupUser(ctx context.Context, id user.UserID) (*user.User, error) {
	if h.cache != nil {
		if u, err := h.cache.Get(ctx, int64(id)); err == nil {
			return u, nil
		}
	}

	u, err := h.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.cache != nil {
		_ = h.cache.Set(ctx, u)
	}
	return u, nil
}
