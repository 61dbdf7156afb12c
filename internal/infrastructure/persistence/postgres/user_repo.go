package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements user.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

const userColumns = `id, name, email, password_hash, role_id, school,
	   system_score, is_active, created_at, updated_at`

// Create creates a new user and assigns its ID.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role_id, school,
						   system_score, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		u.Name,
		u.Email.String(),
		u.PasswordHash,
		int(u.Role),
		u.School,
		u.SystemScore.Float(),
		u.IsActive,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID returns a user by internal ID.
func (r *UserRepository) GetByID(ctx context.Context, id user.UserID) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	row := r.conn.QueryRow(ctx, query, int64(id))
	return r.scanUser(row)
}

// GetByEmail returns a user by normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	row := r.conn.QueryRow(ctx, query, email.Normalize().String())
	return r.scanUser(row)
}

// Update persists mutable user fields.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users SET
			name = $1,
			email = $2,
			password_hash = $3,
			school = $4,
			system_score = $5,
			is_active = $6,
			updated_at = $7
		WHERE id = $8
	`

	result, err := r.conn.Exec(ctx, query,
		u.Name,
		u.Email.String(),
		u.PasswordHash,
		u.School,
		u.SystemScore.Float(),
		u.IsActive,
		u.UpdatedAt,
		int64(u.ID),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// Deactivate soft-deletes a user.
func (r *UserRepository) Deactivate(ctx context.Context, id user.UserID) error {
	result, err := r.conn.Exec(ctx,
		`UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`,
		int64(id),
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// AddScore atomically shifts a user's score and returns the new value.
// The arithmetic runs inside the UPDATE so concurrent deltas never lose
// each other.
func (r *UserRepository) AddScore(ctx context.Context, id user.UserID, delta float64) (float64, error) {
	query := `
		UPDATE users
		SET system_score = system_score + $1, updated_at = NOW()
		WHERE id = $2 AND is_active
		RETURNING system_score
	`

	var newScore float64
	err := r.conn.QueryRow(ctx, query, delta, int64(id)).Scan(&newScore)
	if err != nil {
		if IsNoRows(err) {
			return 0, user.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to add score: %w", err)
	}

	return newScore, nil
}

// TopByScore returns active users ordered by score descending.
func (r *UserRepository) TopByScore(ctx context.Context, limit int) ([]*user.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE is_active
		ORDER BY system_score DESC, id ASC
		LIMIT $1
	`, userColumns)

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top users: %w", err)
	}
	defer rows.Close()

	return r.scanUsers(rows)
}

// ScoreRank returns the user's 1-based position by score and the total
// number of active users. The window runs over the same ordering as
// TopByScore so the two views always agree.
func (r *UserRepository) ScoreRank(ctx context.Context, id user.UserID) (int, int, error) {
	query := `
		SELECT rank, total FROM (
			SELECT id,
				   RANK() OVER (ORDER BY system_score DESC, id ASC) AS rank,
				   COUNT(*) OVER () AS total
			FROM users
			WHERE is_active
		) ranked
		WHERE id = $1
	`

	var rank, total int
	err := r.conn.QueryRow(ctx, query, int64(id)).Scan(&rank, &total)
	if err != nil {
		if IsNoRows(err) {
			return 0, 0, user.ErrUserNotFound
		}
		return 0, 0, fmt.Errorf("failed to query score rank: %w", err)
	}

	return rank, total, nil
}

// List returns users with pagination.
func (r *UserRepository) List(ctx context.Context, opts user.ListOptions) ([]*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE TRUE`, userColumns)
	args := []interface{}{}
	argPos := 1

	if !opts.IncludeInactive {
		query += " AND is_active"
	}
	if opts.Role != 0 {
		query += fmt.Sprintf(" AND role_id = $%d", argPos)
		args = append(args, int(opts.Role))
		argPos++
	}
	if opts.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR school ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+opts.Search+"%")
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY id ASC OFFSET $%d LIMIT $%d", argPos, argPos+1)
	args = append(args, opts.Offset, opts.Limit)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	return r.scanUsers(rows)
}

// Count returns the total number of active users.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_active`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *UserRepository) scanUser(row pgx.Row) (*user.User, error) {
	var (
		u      user.User
		email  string
		roleID int
		score  float64
	)

	err := row.Scan(
		&u.ID,
		&u.Name,
		&email,
		&u.PasswordHash,
		&roleID,
		&u.School,
		&score,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	u.Email = user.Email(email)
	u.Role = user.Role(roleID)
	u.SystemScore = user.Score(score)

	return &u, nil
}

func (r *UserRepository) scanUsers(rows pgx.Rows) ([]*user.User, error) {
	var users []*user.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
