package assessment

import (
	"context"
)

// Repository defines storage operations for learning material.
type Repository interface {
	// CreateQuiz inserts a quiz and assigns its ID.
	CreateQuiz(ctx context.Context, q *Quiz) error

	// GetQuiz returns a quiz by ID.
	// Returns ErrQuizNotFound when no such quiz exists.
	GetQuiz(ctx context.Context, id int64) (*Quiz, error)

	// ListQuizzes returns visible quizzes newest first.
	ListQuizzes(ctx context.Context, offset, limit int) ([]*Quiz, error)

	// DeleteQuiz removes a quiz.
	// Returns ErrQuizNotFound when no such quiz exists.
	DeleteQuiz(ctx context.Context, id int64) error

	// CreateCourse inserts a course with its question bank in one
	// transaction and assigns all IDs.
	CreateCourse(ctx context.Context, c *Course) error

	// GetCourse returns a course with its questions.
	// Returns ErrCourseNotFound when no such course exists.
	GetCourse(ctx context.Context, id int64) (*Course, error)

	// ListCourses returns courses newest first, questions not loaded.
	ListCourses(ctx context.Context, offset, limit int) ([]*Course, error)

	// DeleteCourse removes a course together with its question bank.
	// Returns ErrCourseNotFound when no such course exists.
	DeleteCourse(ctx context.Context, id int64) error

	// CreateExamPaper inserts an exam paper and assigns its ID.
	CreateExamPaper(ctx context.Context, p *ExamPaper) error

	// GetExamPaper returns an exam paper by ID.
	// Returns ErrExamPaperNotFound when no such paper exists.
	GetExamPaper(ctx context.Context, id int64) (*ExamPaper, error)

	// ListExamPapers returns papers newest first, optionally filtered by
	// grade (0 means all grades).
	ListExamPapers(ctx context.Context, grade int, offset, limit int) ([]*ExamPaper, error)

	// DeleteExamPaper removes an exam paper.
	// Returns ErrExamPaperNotFound when no such paper exists.
	DeleteExamPaper(ctx context.Context, id int64) error
}
