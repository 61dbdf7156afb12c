package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT RECORD REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRecordRepository implements user.StudentRecordRepository.
type StudentRecordRepository struct {
	conn *Connection
}

// NewStudentRecordRepository creates a new StudentRecordRepository.
func NewStudentRecordRepository(conn *Connection) *StudentRecordRepository {
	return &StudentRecordRepository{conn: conn}
}

// Create inserts a fresh student record.
func (r *StudentRecordRepository) Create(ctx context.Context, rec *user.StudentRecord) error {
	query := `
		INSERT INTO student_records (user_id, grade, is_completed, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query,
		int64(rec.UserID),
		rec.Grade,
		rec.IsCompleted,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create student record: %w", err)
	}
	return nil
}

// GetByUserID returns the record for a student.
func (r *StudentRecordRepository) GetByUserID(ctx context.Context, id user.UserID) (*user.StudentRecord, error) {
	query := `
		SELECT user_id, grade, is_completed, updated_at
		FROM student_records
		WHERE user_id = $1
	`

	rec := &user.StudentRecord{}
	err := r.conn.QueryRow(ctx, query, int64(id)).Scan(
		&rec.UserID,
		&rec.Grade,
		&rec.IsCompleted,
		&rec.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get student record: %w", err)
	}
	return rec, nil
}

// ListIncomplete returns every record whose student has not completed
// the final grade.
func (r *StudentRecordRepository) ListIncomplete(ctx context.Context) ([]*user.StudentRecord, error) {
	query := `
		SELECT user_id, grade, is_completed, updated_at
		FROM student_records
		WHERE NOT is_completed
		ORDER BY user_id
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomplete records: %w", err)
	}
	defer rows.Close()

	var records []*user.StudentRecord
	for rows.Next() {
		rec := &user.StudentRecord{}
		if err := rows.Scan(&rec.UserID, &rec.Grade, &rec.IsCompleted, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan student record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SavePromotions persists a batch of promoted records and the year
// marker in one transaction. The marker insert uses ON CONFLICT DO
// NOTHING: when it inserts zero rows another run already happened for
// this year and the whole batch is discarded by rolling back.
func (r *StudentRecordRepository) SavePromotions(ctx context.Context, records []*user.StudentRecord, academicYear int) (bool, error) {
	applied := false

	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		advanced, completed := 0, 0
		for _, rec := range records {
			if rec.IsCompleted {
				completed++
			} else {
				advanced++
			}
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO promotion_runs (academic_year, advanced, completed)
			VALUES ($1, $2, $3)
			ON CONFLICT (academic_year) DO NOTHING
		`, academicYear, advanced, completed)
		if err != nil {
			return fmt.Errorf("failed to record promotion run: %w", err)
		}
		if tag.RowsAffected() == 0 {
			// Another run won the year; keep the records untouched.
			return nil
		}
		applied = true

		for _, rec := range records {
			_, err := tx.Exec(ctx, `
				UPDATE student_records
				SET grade = $1, is_completed = $2, updated_at = $3
				WHERE user_id = $4
			`, rec.Grade, rec.IsCompleted, rec.UpdatedAt, int64(rec.UserID))
			if err != nil {
				return fmt.Errorf("failed to save promotion for user %d: %w", rec.UserID, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}
