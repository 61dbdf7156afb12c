package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/logger"
)

// ErrInvalidCredentials is returned on a wrong email or password.
// The two cases are indistinguishable on purpose.
var ErrInvalidCredentials = errors.New("authenticate_user: invalid credentials")

// AuthenticateUserCommand contains login credentials.
type AuthenticateUserCommand struct {
	Email    string
	Password string
}

// Validate validates the command.
func (c AuthenticateUserCommand) Validate() error {
	if c.Email == "" || c.Password == "" {
		return ErrInvalidCredentials
	}
	return nil
}

// AuthenticateUserHandler verifies credentials against the stored hash.
type AuthenticateUserHandler struct {
	users  user.Repository
	hasher PasswordHasher
	log    *logger.Logger
}

// NewAuthenticateUserHandler creates a new AuthenticateUserHandler.
func NewAuthenticateUserHandler(users user.Repository, hasher PasswordHasher, log *logger.Logger) *AuthenticateUserHandler {
	return &AuthenticateUserHandler{users: users, hasher: hasher, log: log}
}

// Handle verifies the credentials and returns the account.
func (h *AuthenticateUserHandler) Handle(ctx context.Context, cmd AuthenticateUserCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetByEmail(ctx, user.Email(cmd.Email).Normalize())
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate_user: lookup: %w", err)
	}

	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	if err := h.hasher.Compare(u.PasswordHash, cmd.Password); err != nil {
		h.log.Warn("failed login attempt", logger.Email(u.Email.String()))
		return nil, ErrInvalidCredentials
	}

	return u, nil
}
