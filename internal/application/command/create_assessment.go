package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/assessment"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSESSMENT COMMANDS
// Quizzes, courses and exam papers. Quiz and course creation award score
// to the publishing teacher; sharing an exam paper does not.
// ══════════════════════════════════════════════════════════════════════════════

// CreateQuizCommand contains the data to publish a quiz.
type CreateQuizCommand struct {
	UserID        user.UserID
	Title         string
	Question      string
	Description   string
	Answers       []string
	CorrectAnswer int
	MediaURLs     []string
	Visible       bool
}

// Validate validates the command.
func (c CreateQuizCommand) Validate() error {
	if !c.UserID.IsValid() {
		return errors.New("create_quiz: user_id is required")
	}
	return nil
}

// CreateQuizResult contains the published quiz and the score outcome.
type CreateQuizResult struct {
	Quiz  *assessment.Quiz
	Score *ScoreUpdateResult
}

// CreateCourseCommand contains the data to publish a course.
type CreateCourseCommand struct {
	UserID          user.UserID
	Title           string
	Description     string
	ThumbnailURL    string
	MediaURLs       []string
	ResourceURLs    []string
	MarksForPass    int
	ApplicableGrade string
	ApplicableLevel string
	Questions       []assessment.NewCourseQuestion
}

// Validate validates the command.
func (c CreateCourseCommand) Validate() error {
	if !c.UserID.IsValid() {
		return errors.New("create_course: user_id is required")
	}
	return nil
}

// CreateCourseResult contains the published course and the score outcome.
type CreateCourseResult struct {
	Course *assessment.Course
	Score  *ScoreUpdateResult
}

// ShareExamPaperCommand contains the data to share an exam paper.
type ShareExamPaperCommand struct {
	UserID      user.UserID
	Subject     string
	Grade       int
	School      string
	Semester    string
	Year        string
	ExamType    string
	Description string
	MediaURLs   []string
}

// Validate validates the command.
func (c ShareExamPaperCommand) Validate() error {
	if !c.UserID.IsValid() {
		return errors.New("share_exam_paper: user_id is required")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AssessmentHandler handles quiz, course and exam paper publishing.
type AssessmentHandler struct {
	store  assessment.Repository
	scores ScoreUpdater
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(store assessment.Repository, scores ScoreUpdater) *AssessmentHandler {
	return &AssessmentHandler{store: store, scores: scores}
}

// CreateQuiz stores a quiz and awards score to its author.
func (h *AssessmentHandler) CreateQuiz(ctx context.Context, cmd CreateQuizCommand) (*CreateQuizResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	quiz, err := assessment.NewQuiz(assessment.NewQuizParams{
		UserID:        int64(cmd.UserID),
		Title:         cmd.Title,
		Question:      cmd.Question,
		Description:   cmd.Description,
		Answers:       cmd.Answers,
		CorrectAnswer: cmd.CorrectAnswer,
		MediaURLs:     cmd.MediaURLs,
		Visible:       cmd.Visible,
	})
	if err != nil {
		return nil, err
	}

	if err := h.store.CreateQuiz(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create_quiz: %w", err)
	}

	score := h.scores.Apply(ctx, cmd.UserID, scoring.ActionQuizCreated)

	return &CreateQuizResult{Quiz: quiz, Score: score}, nil
}

// CreateCourse stores a course with its question bank and awards score
// to its author.
func (h *AssessmentHandler) CreateCourse(ctx context.Context, cmd CreateCourseCommand) (*CreateCourseResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	course, err := assessment.NewCourse(assessment.NewCourseParams{
		UserID:          int64(cmd.UserID),
		Title:           cmd.Title,
		Description:     cmd.Description,
		ThumbnailURL:    cmd.ThumbnailURL,
		MediaURLs:       cmd.MediaURLs,
		ResourceURLs:    cmd.ResourceURLs,
		MarksForPass:    cmd.MarksForPass,
		ApplicableGrade: cmd.ApplicableGrade,
		ApplicableLevel: cmd.ApplicableLevel,
		Questions:       cmd.Questions,
	})
	if err != nil {
		return nil, err
	}

	if err := h.store.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("create_course: %w", err)
	}

	score := h.scores.Apply(ctx, cmd.UserID, scoring.ActionCourseCreated)

	return &CreateCourseResult{Course: course, Score: score}, nil
}

// ShareExamPaper stores an exam paper. No score is awarded for papers.
func (h *AssessmentHandler) ShareExamPaper(ctx context.Context, cmd ShareExamPaperCommand) (*assessment.ExamPaper, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	paper, err := assessment.NewExamPaper(assessment.NewExamPaperParams{
		UserID:      int64(cmd.UserID),
		Subject:     cmd.Subject,
		Grade:       cmd.Grade,
		School:      cmd.School,
		Semester:    cmd.Semester,
		Year:        cmd.Year,
		ExamType:    cmd.ExamType,
		Description: cmd.Description,
		MediaURLs:   cmd.MediaURLs,
	})
	if err != nil {
		return nil, err
	}

	if err := h.store.CreateExamPaper(ctx, paper); err != nil {
		return nil, fmt.Errorf("share_exam_paper: %w", err)
	}

	return paper, nil
}

// DeleteQuiz removes a quiz. Only the author or an admin may delete it.
// The score earned for publishing is not taken back.
func (h *AssessmentHandler) DeleteQuiz(ctx context.Context, quizID int64, actorID user.UserID, actorRole user.Role) error {
	if quizID <= 0 || !actorID.IsValid() {
		return errors.New("delete_quiz: quiz_id and actor are required")
	}

	quiz, err := h.store.GetQuiz(ctx, quizID)
	if err != nil {
		return fmt.Errorf("delete_quiz: %w", err)
	}
	if !canModify(quiz.UserID, actorID, actorRole) {
		return ErrNotOwner
	}

	if err := h.store.DeleteQuiz(ctx, quizID); err != nil {
		return fmt.Errorf("delete_quiz: %w", err)
	}
	return nil
}

// DeleteCourse removes a course with its question bank. Only the author
// or an admin may delete it.
func (h *AssessmentHandler) DeleteCourse(ctx context.Context, courseID int64, actorID user.UserID, actorRole user.Role) error {
	if courseID <= 0 || !actorID.IsValid() {
		return errors.New("delete_course: course_id and actor are required")
	}

	course, err := h.store.GetCourse(ctx, courseID)
	if err != nil {
		return fmt.Errorf("delete_course: %w", err)
	}
	if !canModify(course.UserID, actorID, actorRole) {
		return ErrNotOwner
	}

	if err := h.store.DeleteCourse(ctx, courseID); err != nil {
		return fmt.Errorf("delete_course: %w", err)
	}
	return nil
}

// DeleteExamPaper removes an exam paper. Only the sharer or an admin may
// delete it.
func (h *AssessmentHandler) DeleteExamPaper(ctx context.Context, paperID int64, actorID user.UserID, actorRole user.Role) error {
	if paperID <= 0 || !actorID.IsValid() {
		return errors.New("delete_exam_paper: paper_id and actor are required")
	}

	paper, err := h.store.GetExamPaper(ctx, paperID)
	if err != nil {
		return fmt.Errorf("delete_exam_paper: %w", err)
	}
	if !canModify(paper.UserID, actorID, actorRole) {
		return ErrNotOwner
	}

	if err := h.store.DeleteExamPaper(ctx, paperID); err != nil {
		return fmt.Errorf("delete_exam_paper: %w", err)
	}
	return nil
}
