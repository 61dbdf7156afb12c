package postgres

import (
	"context"
	"fmt"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// TeacherProfileRepository implements user.TeacherProfileRepository.
type TeacherProfileRepository struct {
	conn *Connection
}

// NewTeacherProfileRepository creates a new TeacherProfileRepository.
func NewTeacherProfileRepository(conn *Connection) *TeacherProfileRepository {
	return &TeacherProfileRepository{conn: conn}
}

// Create inserts a teacher profile.
func (r *TeacherProfileRepository) Create(ctx context.Context, p *user.TeacherProfile) error {
	query := `
		INSERT INTO teacher_profiles (user_id, subject, qualification, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query,
		int64(p.UserID),
		p.Subject,
		p.Qualification,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create teacher profile: %w", err)
	}
	return nil
}

// GetByUserID returns the profile for a teacher.
func (r *TeacherProfileRepository) GetByUserID(ctx context.Context, id user.UserID) (*user.TeacherProfile, error) {
	query := `
		SELECT user_id, subject, qualification, updated_at
		FROM teacher_profiles
		WHERE user_id = $1
	`

	p := &user.TeacherProfile{}
	err := r.conn.QueryRow(ctx, query, int64(id)).Scan(
		&p.UserID,
		&p.Subject,
		&p.Qualification,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get teacher profile: %w", err)
	}
	return p, nil
}

// Update persists profile changes.
func (r *TeacherProfileRepository) Update(ctx context.Context, p *user.TeacherProfile) error {
	query := `
		UPDATE teacher_profiles
		SET subject = $1, qualification = $2, updated_at = $3
		WHERE user_id = $4
	`

	result, err := r.conn.Exec(ctx, query,
		p.Subject,
		p.Qualification,
		p.UpdatedAt,
		int64(p.UserID),
	)
	if err != nil {
		return fmt.Errorf("failed to update teacher profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
