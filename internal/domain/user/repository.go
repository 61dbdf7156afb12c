package user

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// These interfaces define the storage contract for users.
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines CRUD and score operations for users.
type Repository interface {
	// ─────────────────────────────────────────────────────────────────────────
	// CRUD Operations
	// ─────────────────────────────────────────────────────────────────────────

	// Create inserts a new user and assigns its ID.
	// Returns ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, u *User) error

	// GetByID returns a user by internal ID.
	// Returns ErrUserNotFound when no such user exists.
	GetByID(ctx context.Context, id UserID) (*User, error)

	// GetByEmail returns a user by normalized email.
	// Returns ErrUserNotFound when no such user exists.
	GetByEmail(ctx context.Context, email Email) (*User, error)

	// Update persists mutable user fields.
	// Returns ErrUserNotFound when no such user exists.
	Update(ctx context.Context, u *User) error

	// Deactivate soft-deletes a user.
	Deactivate(ctx context.Context, id UserID) error

	// ─────────────────────────────────────────────────────────────────────────
	// Score Operations
	// ─────────────────────────────────────────────────────────────────────────

	// AddScore atomically shifts the user's score by delta and returns the
	// new value. The read-modify-write runs inside the database so two
	// concurrent interactions never lose a delta.
	// Returns ErrUserNotFound when no such user exists.
	AddScore(ctx context.Context, id UserID, delta float64) (float64, error)

	// TopByScore returns up to limit active users ordered by score
	// descending. Ties are broken by id ascending for a stable order.
	TopByScore(ctx context.Context, limit int) ([]*User, error)

	// ScoreRank returns the 1-based rank of the user among active users
	// ordered by score descending, and the total number of ranked users.
	// Returns ErrUserNotFound when no such active user exists.
	ScoreRank(ctx context.Context, id UserID) (rank int, total int, err error)

	// ─────────────────────────────────────────────────────────────────────────
	// Listing
	// ─────────────────────────────────────────────────────────────────────────

	// List returns users with pagination.
	List(ctx context.Context, opts ListOptions) ([]*User, error)

	// Count returns the total number of active users.
	Count(ctx context.Context) (int, error)
}

// ListOptions holds pagination parameters for user listings.
type ListOptions struct {
	// Offset - number of records to skip.
	Offset int

	// Limit - maximum number of records to return.
	Limit int

	// Role - filter by role; zero means all roles.
	Role Role

	// Search - case-insensitive substring match on name or school;
	// empty means no filter.
	Search string

	// IncludeInactive - include deactivated accounts.
	IncludeInactive bool
}

// DefaultListOptions returns the standard listing parameters.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset: 0,
		Limit:  50,
	}
}

// WithOffset sets the offset.
func (o ListOptions) WithOffset(offset int) ListOptions {
	o.Offset = offset
	return o
}

// WithLimit sets the limit.
func (o ListOptions) WithLimit(limit int) ListOptions {
	o.Limit = limit
	return o
}

// WithRole filters by role.
func (o ListOptions) WithRole(r Role) ListOptions {
	o.Role = r
	return o
}

// WithSearch filters by a name or school substring.
func (o ListOptions) WithSearch(term string) ListOptions {
	o.Search = term
	return o
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT RECORD REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// StudentRecordRepository defines storage operations for academic records.
type StudentRecordRepository interface {
	// Create inserts a fresh student record.
	Create(ctx context.Context, rec *StudentRecord) error

	// GetByUserID returns the record for a student.
	// Returns ErrUserNotFound when no record exists.
	GetByUserID(ctx context.Context, id UserID) (*StudentRecord, error)

	// ListIncomplete returns every record whose student has not yet
	// completed the final grade.
	ListIncomplete(ctx context.Context) ([]*StudentRecord, error)

	// SavePromotions persists a batch of promoted records together with a
	// marker for the given academic year, all in one transaction. When a
	// marker for the year already exists nothing is written and the first
	// return value is false. This makes the yearly promotion run safe to
	// fire twice.
	SavePromotions(ctx context.Context, records []*StudentRecord, academicYear int) (bool, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER PROFILE REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// TeacherProfileRepository defines storage operations for teacher profiles.
type TeacherProfileRepository interface {
	// Create inserts a teacher profile.
	Create(ctx context.Context, p *TeacherProfile) error

	// GetByUserID returns the profile for a teacher.
	// Returns ErrUserNotFound when no profile exists.
	GetByUserID(ctx context.Context, id UserID) (*TeacherProfile, error)

	// Update persists profile changes.
	Update(ctx context.Context, p *TeacherProfile) error
}
