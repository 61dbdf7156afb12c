package query

import (
	"context"
	"fmt"
	"time"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/assessment"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSESSMENT QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// ListAssessmentsQuery contains listing parameters shared by quizzes,
// courses and exam papers.
type ListAssessmentsQuery struct {
	Offset int
	Limit  int

	// Grade filters exam papers; 0 means all grades. Ignored elsewhere.
	Grade int
}

// Validate normalizes the query.
func (q *ListAssessmentsQuery) Validate() error {
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Grade < 0 || q.Grade > 13 {
		q.Grade = 0
	}
	return nil
}

// QuizDTO is one quiz listing entry. The correct answer index is never
// exposed through listings.
type QuizDTO struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Question    string    `json:"question"`
	Description string    `json:"description,omitempty"`
	Answers     []string  `json:"answers"`
	MediaURLs   []string  `json:"media_urls,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CourseDTO is one course listing entry, question bank not included.
type CourseDTO struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	MarksForPass    int       `json:"marks_for_pass"`
	ApplicableGrade string    `json:"applicable_grade,omitempty"`
	ApplicableLevel string    `json:"applicable_level,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ExamPaperDTO is one exam paper listing entry.
type ExamPaperDTO struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Subject     string    `json:"subject"`
	Grade       int       `json:"grade"`
	School      string    `json:"school,omitempty"`
	Semester    string    `json:"semester,omitempty"`
	Year        string    `json:"year,omitempty"`
	ExamType    string    `json:"exam_type,omitempty"`
	Description string    `json:"description,omitempty"`
	MediaURLs   []string  `json:"media_urls,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListAssessmentsHandler handles assessment read operations.
type ListAssessmentsHandler struct {
	store assessment.Repository
}

// NewListAssessmentsHandler creates a new ListAssessmentsHandler.
func NewListAssessmentsHandler(store assessment.Repository) *ListAssessmentsHandler {
	return &ListAssessmentsHandler{store: store}
}

// ListQuizzes returns visible quizzes newest first.
func (h *ListAssessmentsHandler) ListQuizzes(ctx context.Context, q ListAssessmentsQuery) ([]QuizDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	quizzes, err := h.store.ListQuizzes(ctx, q.Offset, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list_quizzes: %w", err)
	}

	out := make([]QuizDTO, 0, len(quizzes))
	for _, z := range quizzes {
		out = append(out, QuizDTO{
			ID:          z.ID,
			UserID:      z.UserID,
			Title:       z.Title,
			Question:    z.Question,
			Description: z.Description,
			Answers:     z.Answers,
			MediaURLs:   z.MediaURLs,
			CreatedAt:   z.CreatedAt,
		})
	}
	return out, nil
}

// GetQuiz returns one quiz. The correct answer index stays hidden so the
// quiz can be taken through the client.
func (h *ListAssessmentsHandler) GetQuiz(ctx context.Context, id int64) (*QuizDTO, error) {
	if id <= 0 {
		return nil, assessment.ErrQuizNotFound
	}

	z, err := h.store.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	return &QuizDTO{
		ID:          z.ID,
		UserID:      z.UserID,
		Title:       z.Title,
		Question:    z.Question,
		Description: z.Description,
		Answers:     z.Answers,
		MediaURLs:   z.MediaURLs,
		CreatedAt:   z.CreatedAt,
	}, nil
}

// ListCourses returns courses newest first.
func (h *ListAssessmentsHandler) ListCourses(ctx context.Context, q ListAssessmentsQuery) ([]CourseDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	courses, err := h.store.ListCourses(ctx, q.Offset, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list_courses: %w", err)
	}

	out := make([]CourseDTO, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseDTO{
			ID:              c.ID,
			UserID:          c.UserID,
			Title:           c.Title,
			Description:     c.Description,
			ThumbnailURL:    c.ThumbnailURL,
			MarksForPass:    c.MarksForPass,
			ApplicableGrade: c.ApplicableGrade,
			ApplicableLevel: c.ApplicableLevel,
			CreatedAt:       c.CreatedAt,
		})
	}
	return out, nil
}

// GetCourse returns a full course with its question bank.
func (h *ListAssessmentsHandler) GetCourse(ctx context.Context, id int64) (*assessment.Course, error) {
	if id <= 0 {
		return nil, assessment.ErrCourseNotFound
	}
	return h.store.GetCourse(ctx, id)
}

// GetExamPaper returns one exam paper.
func (h *ListAssessmentsHandler) GetExamPaper(ctx context.Context, id int64) (*ExamPaperDTO, error) {
	if id <= 0 {
		return nil, assessment.ErrExamPaperNotFound
	}

	p, err := h.store.GetExamPaper(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExamPaperDTO{
		ID:          p.ID,
		UserID:      p.UserID,
		Subject:     p.Subject,
		Grade:       p.Grade,
		School:      p.School,
		Semester:    p.Semester,
		Year:        p.Year,
		ExamType:    p.ExamType,
		Description: p.Description,
		MediaURLs:   p.MediaURLs,
		CreatedAt:   p.CreatedAt,
	}, nil
}

// ListExamPapers returns papers newest first, optionally filtered by grade.
func (h *ListAssessmentsHandler) ListExamPapers(ctx context.Context, q ListAssessmentsQuery) ([]ExamPaperDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	papers, err := h.store.ListExamPapers(ctx, q.Grade, q.Offset, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list_exam_papers: %w", err)
	}

	out := make([]ExamPaperDTO, 0, len(papers))
	for _, p := range papers {
		out = append(out, ExamPaperDTO{
			ID:          p.ID,
			UserID:      p.UserID,
			Subject:     p.Subject,
			Grade:       p.Grade,
			School:      p.School,
			Semester:    p.Semester,
			Year:        p.Year,
			ExamType:    p.ExamType,
			Description: p.Description,
			MediaURLs:   p.MediaURLs,
			CreatedAt:   p.CreatedAt,
		})
	}
	return out, nil
}
