package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER USER COMMAND
// Creates an account with the role-specific record attached: a student
// record for students, a teacher profile for teachers. Every account
// starts at the initial engagement score.
// ══════════════════════════════════════════════════════════════════════════════

// PasswordHasher abstracts the password hash scheme.
// The bcrypt implementation lives in infrastructure/auth.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// RegisterUserCommand contains the data to create an account.
type RegisterUserCommand struct {
	Name     string
	Email    string
	Password string
	Role     user.Role
	School   string

	// Grade is the student's current grade, nil when unknown.
	// Ignored for non-students.
	Grade *int

	// Subject and Qualification describe a teacher.
	// Ignored for non-teachers.
	Subject       string
	Qualification string
}

// Validate validates the command.
func (c RegisterUserCommand) Validate() error {
	if c.Name == "" {
		return errors.New("register_user: name is required")
	}
	if c.Email == "" {
		return errors.New("register_user: email is required")
	}
	if len(c.Password) < 8 {
		return errors.New("register_user: password must be at least 8 chars")
	}
	if !c.Role.IsValid() {
		return user.ErrInvalidRole
	}
	return nil
}

// RegisterUserResult contains the created account.
type RegisterUserResult struct {
	User         *user.User
	RegisteredAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RegisterUserHandler handles the RegisterUserCommand.
type RegisterUserHandler struct {
	users    user.Repository
	records  user.StudentRecordRepository
	profiles user.TeacherProfileRepository
	hasher   PasswordHasher
	log      *logger.Logger
}

// NewRegisterUserHandler creates a new RegisterUserHandler.
func NewRegisterUserHandler(
	users user.Repository,
	records user.StudentRecordRepository,
	profiles user.TeacherProfileRepository,
	hasher PasswordHasher,
	log *logger.Logger,
) *RegisterUserHandler {
	return &RegisterUserHandler{
		users:    users,
		records:  records,
		profiles: profiles,
		hasher:   hasher,
		log:      log,
	}
}

// Handle executes the registration.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*RegisterUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("register_user: hash password: %w", err)
	}

	u, err := user.NewUser(user.NewUserParams{
		Name:         cmd.Name,
		Email:        user.Email(cmd.Email),
		PasswordHash: hash,
		Role:         cmd.Role,
		School:       cmd.School,
	})
	if err != nil {
		return nil, err
	}

	if err := h.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("register_user: create user: %w", err)
	}

	switch u.Role {
	case user.RoleStudent:
		rec, err := user.NewStudentRecord(u.ID, cmd.Grade)
		if err != nil {
			return nil, err
		}
		if err := h.records.Create(ctx, rec); err != nil {
			return nil, fmt.Errorf("register_user: create student record: %w", err)
		}
	case user.RoleTeacher:
		prof, err := user.NewTeacherProfile(u.ID, cmd.Subject, cmd.Qualification)
		if err != nil {
			return nil, err
		}
		if err := h.profiles.Create(ctx, prof); err != nil {
			return nil, fmt.Errorf("register_user: create teacher profile: %w", err)
		}
	}

	h.log.Info("user registered",
		logger.UserID(int64(u.ID)),
		logger.Email(u.Email.String()),
		logger.String("role", u.Role.String()),
	)

	return &RegisterUserResult{User: u, RegisteredAt: u.CreatedAt}, nil
}
