package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PROFILE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// UpdateProfileCommand contains the replacement profile fields. Users may
// only update their own profile; the transport layer enforces that by
// taking the user from the token.
type UpdateProfileCommand struct {
	UserID user.UserID
	Name   string
	School string

	// Teacher-only, ignored for other roles.
	Subject       string
	Qualification string
}

// Validate validates the command.
func (c UpdateProfileCommand) Validate() error {
	if !c.UserID.IsValid() {
		return errors.New("update_profile: user_id is required")
	}
	if c.Name == "" {
		return user.ErrInvalidName
	}
	return nil
}

// UpdateProfileHandler handles the UpdateProfileCommand.
type UpdateProfileHandler struct {
	users    user.Repository
	profiles user.TeacherProfileRepository
	cache    ProfileInvalidator
	log      *logger.Logger
}

// NewUpdateProfileHandler creates a new UpdateProfileHandler.
func NewUpdateProfileHandler(users user.Repository, profiles user.TeacherProfileRepository, log *logger.Logger) *UpdateProfileHandler {
	if log == nil {
		log = logger.Default()
	}
	return &UpdateProfileHandler{users: users, profiles: profiles, log: log}
}

// WithProfileInvalidator attaches a cache invalidator so stale profile
// reads disappear after an update.
func (h *UpdateProfileHandler) WithProfileInvalidator(inv ProfileInvalidator) *UpdateProfileHandler {
	h.cache = inv
	return h
}

// Handle updates the account and, for teachers, the subject profile.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("update_profile: %w", err)
	}

	if err := u.UpdateDetails(cmd.Name, cmd.School); err != nil {
		return nil, err
	}

	if err := h.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update_profile: %w", err)
	}

	if u.IsTeacher() && (cmd.Subject != "" || cmd.Qualification != "") {
		profile, err := h.profiles.GetByUserID(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("update_profile: %w", err)
		}
		if cmd.Subject != "" {
			profile.Subject = cmd.Subject
		}
		if cmd.Qualification != "" {
			profile.Qualification = cmd.Qualification
		}
		if err := h.profiles.Update(ctx, profile); err != nil {
			return nil, fmt.Errorf("update_profile: %w", err)
		}
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, int64(u.ID)); err != nil {
			// The stale entry expires on its own.
			h.log.Warn("profile cache invalidation failed",
				logger.UserID(int64(u.ID)),
				logger.Err(err),
			)
		}
	}

	return u, nil
}
