package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/assessment"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSESSMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AssessmentRepository implements assessment.Repository for PostgreSQL.
type AssessmentRepository struct {
	conn *Connection
}

// NewAssessmentRepository creates a new AssessmentRepository.
func NewAssessmentRepository(conn *Connection) *AssessmentRepository {
	return &AssessmentRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// Quizzes
// ─────────────────────────────────────────────────────────────────────────────

// CreateQuiz inserts a quiz and assigns its ID.
func (r *AssessmentRepository) CreateQuiz(ctx context.Context, q *assessment.Quiz) error {
	query := `
		INSERT INTO quizzes (user_id, title, question, description, answers,
							 correct_answer, media_urls, visible, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		q.UserID,
		q.Title,
		q.Question,
		q.Description,
		q.Answers,
		q.CorrectAnswer,
		q.MediaURLs,
		q.Visible,
		q.CreatedAt,
	).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

// GetQuiz returns a quiz by ID.
func (r *AssessmentRepository) GetQuiz(ctx context.Context, id int64) (*assessment.Quiz, error) {
	query := `
		SELECT id, user_id, title, question, description, answers,
			   correct_answer, media_urls, visible, created_at
		FROM quizzes
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanQuiz(row)
}

// ListQuizzes returns visible quizzes newest first.
func (r *AssessmentRepository) ListQuizzes(ctx context.Context, offset, limit int) ([]*assessment.Quiz, error) {
	query := `
		SELECT id, user_id, title, question, description, answers,
			   correct_answer, media_urls, visible, created_at
		FROM quizzes
		WHERE visible
		ORDER BY created_at DESC, id DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []*assessment.Quiz
	for rows.Next() {
		q, err := r.scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// DeleteQuiz removes a quiz.
func (r *AssessmentRepository) DeleteQuiz(ctx context.Context, id int64) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	if result.RowsAffected() == 0 {
		return assessment.ErrQuizNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

// CreateCourse inserts a course with its question bank in one transaction.
func (r *AssessmentRepository) CreateCourse(ctx context.Context, c *assessment.Course) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO courses (user_id, title, description, thumbnail_url,
								 media_urls, resource_urls, marks_for_pass,
								 applicable_grade, applicable_level, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`,
			c.UserID,
			c.Title,
			c.Description,
			c.ThumbnailURL,
			c.MediaURLs,
			c.ResourceURLs,
			c.MarksForPass,
			c.ApplicableGrade,
			c.ApplicableLevel,
			c.CreatedAt,
		).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("failed to create course: %w", err)
		}

		for i := range c.Questions {
			q := &c.Questions[i]
			q.CourseID = c.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO course_questions (course_id, question, answers,
											  correct_answer, marks)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, q.CourseID, q.Question, q.Answers, q.CorrectAnswer, q.Marks).Scan(&q.ID)
			if err != nil {
				return fmt.Errorf("failed to create course question: %w", err)
			}
		}
		return nil
	})
}

// GetCourse returns a course with its question bank.
func (r *AssessmentRepository) GetCourse(ctx context.Context, id int64) (*assessment.Course, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT id, user_id, title, description, thumbnail_url, media_urls,
			   resource_urls, marks_for_pass, applicable_grade, applicable_level,
			   created_at
		FROM courses
		WHERE id = $1
	`, id)

	c, err := r.scanCourse(row)
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ctx, `
		SELECT id, course_id, question, answers, correct_answer, marks
		FROM course_questions
		WHERE course_id = $1
		ORDER BY id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query course questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q assessment.CourseQuestion
		if err := rows.Scan(&q.ID, &q.CourseID, &q.Question, &q.Answers, &q.CorrectAnswer, &q.Marks); err != nil {
			return nil, fmt.Errorf("failed to scan course question: %w", err)
		}
		c.Questions = append(c.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return c, nil
}

// ListCourses returns courses newest first, questions not loaded.
func (r *AssessmentRepository) ListCourses(ctx context.Context, offset, limit int) ([]*assessment.Course, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, user_id, title, description, thumbnail_url, media_urls,
			   resource_urls, marks_for_pass, applicable_grade, applicable_level,
			   created_at
		FROM courses
		ORDER BY created_at DESC, id DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*assessment.Course
	for rows.Next() {
		c, err := r.scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// DeleteCourse removes a course; its question bank cascades.
func (r *AssessmentRepository) DeleteCourse(ctx context.Context, id int64) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if result.RowsAffected() == 0 {
		return assessment.ErrCourseNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Exam papers
// ─────────────────────────────────────────────────────────────────────────────

// CreateExamPaper inserts an exam paper and assigns its ID.
func (r *AssessmentRepository) CreateExamPaper(ctx context.Context, p *assessment.ExamPaper) error {
	query := `
		INSERT INTO exam_papers (user_id, subject, grade, school, semester,
								 year, exam_type, description, media_urls, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		p.UserID,
		p.Subject,
		p.Grade,
		p.School,
		p.Semester,
		p.Year,
		p.ExamType,
		p.Description,
		p.MediaURLs,
		p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create exam paper: %w", err)
	}
	return nil
}

// GetExamPaper returns an exam paper by ID.
func (r *AssessmentRepository) GetExamPaper(ctx context.Context, id int64) (*assessment.ExamPaper, error) {
	query := `
		SELECT id, user_id, subject, grade, school, semester, year,
			   exam_type, description, media_urls, created_at
		FROM exam_papers
		WHERE id = $1
	`

	p := &assessment.ExamPaper{}
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Subject, &p.Grade, &p.School,
		&p.Semester, &p.Year, &p.ExamType, &p.Description, &p.MediaURLs,
		&p.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, assessment.ErrExamPaperNotFound
		}
		return nil, fmt.Errorf("failed to get exam paper: %w", err)
	}
	return p, nil
}

// ListExamPapers returns papers newest first, optionally filtered by grade.
func (r *AssessmentRepository) ListExamPapers(ctx context.Context, grade int, offset, limit int) ([]*assessment.ExamPaper, error) {
	query := `
		SELECT id, user_id, subject, grade, school, semester, year,
			   exam_type, description, media_urls, created_at
		FROM exam_papers
	`
	args := []interface{}{}
	argPos := 1

	if grade > 0 {
		query += fmt.Sprintf(" WHERE grade = $%d", argPos)
		args = append(args, grade)
		argPos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC OFFSET $%d LIMIT $%d", argPos, argPos+1)
	args = append(args, offset, limit)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exam papers: %w", err)
	}
	defer rows.Close()

	var papers []*assessment.ExamPaper
	for rows.Next() {
		p := &assessment.ExamPaper{}
		err := rows.Scan(&p.ID, &p.UserID, &p.Subject, &p.Grade, &p.School,
			&p.Semester, &p.Year, &p.ExamType, &p.Description, &p.MediaURLs,
			&p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exam paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// DeleteExamPaper removes an exam paper.
func (r *AssessmentRepository) DeleteExamPaper(ctx context.Context, id int64) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM exam_papers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exam paper: %w", err)
	}
	if result.RowsAffected() == 0 {
		return assessment.ErrExamPaperNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *AssessmentRepository) scanQuiz(row pgx.Row) (*assessment.Quiz, error) {
	q := &assessment.Quiz{}
	err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.Title,
		&q.Question,
		&q.Description,
		&q.Answers,
		&q.CorrectAnswer,
		&q.MediaURLs,
		&q.Visible,
		&q.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, assessment.ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to scan quiz: %w", err)
	}
	return q, nil
}

func (r *AssessmentRepository) scanCourse(row pgx.Row) (*assessment.Course, error) {
	c := &assessment.Course{}
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Title,
		&c.Description,
		&c.ThumbnailURL,
		&c.MediaURLs,
		&c.ResourceURLs,
		&c.MarksForPass,
		&c.ApplicableGrade,
		&c.ApplicableLevel,
		&c.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, assessment.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	return c, nil
}
