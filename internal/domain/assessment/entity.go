// Package assessment contains the learning material model: quizzes,
// courses with question banks, and past exam papers.
package assessment

import (
	"errors"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// QUIZ
// ══════════════════════════════════════════════════════════════════════════════

// Quiz is a single-question assessment with up to five answer options.
// CorrectAnswer is the 1-based index into Answers.
type Quiz struct {
	ID            int64
	UserID        int64
	Title         string
	Question      string
	Description   string
	Answers       []string
	CorrectAnswer int
	MediaURLs     []string
	Visible       bool
	CreatedAt     time.Time
}

// MaxQuizAnswers bounds the answer options on a quiz.
const MaxQuizAnswers = 5

// ══════════════════════════════════════════════════════════════════════════════
// COURSE
// ══════════════════════════════════════════════════════════════════════════════

// Course is a learning unit with a question bank and a pass mark.
type Course struct {
	ID              int64
	UserID          int64
	Title           string
	Description     string
	ThumbnailURL    string
	MediaURLs       []string
	ResourceURLs    []string
	MarksForPass    int
	ApplicableGrade string
	ApplicableLevel string
	Questions       []CourseQuestion
	CreatedAt       time.Time
}

// CourseQuestion is one entry in a course's question bank.
// CorrectAnswer is the 1-based index into Answers.
type CourseQuestion struct {
	ID            int64
	CourseID      int64
	Question      string
	Answers       []string
	CorrectAnswer int
	Marks         int
}

// MaxCourseMediaURLs and MaxCourseResourceURLs bound course attachments.
const (
	MaxCourseMediaURLs    = 15
	MaxCourseResourceURLs = 5
)

// ══════════════════════════════════════════════════════════════════════════════
// EXAM PAPER
// ══════════════════════════════════════════════════════════════════════════════

// ExamPaper is a shared past paper.
type ExamPaper struct {
	ID          int64
	UserID      int64
	Subject     string
	Grade       int
	School      string
	Semester    string
	Year        string
	ExamType    string
	Description string
	MediaURLs   []string
	CreatedAt   time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrCourseNotFound    = errors.New("course not found")
	ErrExamPaperNotFound = errors.New("exam paper not found")

	ErrInvalidQuizTitle     = errors.New("invalid quiz title: must be 1-255 chars")
	ErrInvalidQuestion      = errors.New("question must not be empty")
	ErrTooFewAnswers        = errors.New("at least two answer options are required")
	ErrTooManyAnswers       = errors.New("too many answer options")
	ErrCorrectOutOfRange    = errors.New("correct answer index is out of range")
	ErrInvalidCourseTitle   = errors.New("invalid course title: must be 1-255 chars")
	ErrNoQuestions          = errors.New("course must contain at least one question")
	ErrInvalidMarks         = errors.New("marks must be positive")
	ErrInvalidSubject       = errors.New("subject must not be empty")
	ErrTooManyAttachments   = errors.New("too many media attachments")
	ErrInvalidPaperGrade    = errors.New("invalid exam paper grade")
	ErrInvalidPassThreshold = errors.New("pass mark must not be negative")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORIES
// ══════════════════════════════════════════════════════════════════════════════

// NewQuizParams holds the parameters for creating a quiz.
type NewQuizParams struct {
	UserID        int64
	Title         string
	Question      string
	Description   string
	Answers       []string
	CorrectAnswer int
	MediaURLs     []string
	Visible       bool
}

// NewQuiz validates and builds a quiz.
func NewQuiz(p NewQuizParams) (*Quiz, error) {
	title := strings.TrimSpace(p.Title)
	if len(title) == 0 || len(title) > 255 {
		return nil, ErrInvalidQuizTitle
	}
	if strings.TrimSpace(p.Question) == "" {
		return nil, ErrInvalidQuestion
	}

	answers := trimNonEmpty(p.Answers)
	if len(answers) < 2 {
		return nil, ErrTooFewAnswers
	}
	if len(answers) > MaxQuizAnswers {
		return nil, ErrTooManyAnswers
	}
	if p.CorrectAnswer < 1 || p.CorrectAnswer > len(answers) {
		return nil, ErrCorrectOutOfRange
	}

	return &Quiz{
		UserID:        p.UserID,
		Title:         title,
		Question:      strings.TrimSpace(p.Question),
		Description:   strings.TrimSpace(p.Description),
		Answers:       answers,
		CorrectAnswer: p.CorrectAnswer,
		MediaURLs:     trimNonEmpty(p.MediaURLs),
		Visible:       p.Visible,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// NewCourseParams holds the parameters for creating a course.
type NewCourseParams struct {
	UserID          int64
	Title           string
	Description     string
	ThumbnailURL    string
	MediaURLs       []string
	ResourceURLs    []string
	MarksForPass    int
	ApplicableGrade string
	ApplicableLevel string
	Questions       []NewCourseQuestion
}

// NewCourseQuestion holds one question for a new course.
type NewCourseQuestion struct {
	Question      string
	Answers       []string
	CorrectAnswer int
	Marks         int
}

// NewCourse validates and builds a course with its question bank.
func NewCourse(p NewCourseParams) (*Course, error) {
	title := strings.TrimSpace(p.Title)
	if len(title) == 0 || len(title) > 255 {
		return nil, ErrInvalidCourseTitle
	}
	if len(p.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	if len(p.MediaURLs) > MaxCourseMediaURLs || len(p.ResourceURLs) > MaxCourseResourceURLs {
		return nil, ErrTooManyAttachments
	}
	if p.MarksForPass < 0 {
		return nil, ErrInvalidPassThreshold
	}

	questions := make([]CourseQuestion, 0, len(p.Questions))
	for _, q := range p.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, ErrInvalidQuestion
		}
		answers := trimNonEmpty(q.Answers)
		if len(answers) < 2 {
			return nil, ErrTooFewAnswers
		}
		if q.CorrectAnswer < 1 || q.CorrectAnswer > len(answers) {
			return nil, ErrCorrectOutOfRange
		}
		if q.Marks <= 0 {
			return nil, ErrInvalidMarks
		}
		questions = append(questions, CourseQuestion{
			Question:      strings.TrimSpace(q.Question),
			Answers:       answers,
			CorrectAnswer: q.CorrectAnswer,
			Marks:         q.Marks,
		})
	}

	return &Course{
		UserID:          p.UserID,
		Title:           title,
		Description:     strings.TrimSpace(p.Description),
		ThumbnailURL:    strings.TrimSpace(p.ThumbnailURL),
		MediaURLs:       trimNonEmpty(p.MediaURLs),
		ResourceURLs:    trimNonEmpty(p.ResourceURLs),
		MarksForPass:    p.MarksForPass,
		ApplicableGrade: strings.TrimSpace(p.ApplicableGrade),
		ApplicableLevel: strings.TrimSpace(p.ApplicableLevel),
		Questions:       questions,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// NewExamPaperParams holds the parameters for sharing an exam paper.
type NewExamPaperParams struct {
	UserID      int64
	Subject     string
	Grade       int
	School      string
	Semester    string
	Year        string
	ExamType    string
	Description string
	MediaURLs   []string
}

// NewExamPaper validates and builds an exam paper.
func NewExamPaper(p NewExamPaperParams) (*ExamPaper, error) {
	if strings.TrimSpace(p.Subject) == "" {
		return nil, ErrInvalidSubject
	}
	if p.Grade < 1 || p.Grade > 13 {
		return nil, ErrInvalidPaperGrade
	}
	if len(p.MediaURLs) > 3 {
		return nil, ErrTooManyAttachments
	}

	return &ExamPaper{
		UserID:      p.UserID,
		Subject:     strings.TrimSpace(p.Subject),
		Grade:       p.Grade,
		School:      strings.TrimSpace(p.School),
		Semester:    strings.TrimSpace(p.Semester),
		Year:        strings.TrimSpace(p.Year),
		ExamType:    strings.ToLower(strings.TrimSpace(p.ExamType)),
		Description: strings.TrimSpace(p.Description),
		MediaURLs:   trimNonEmpty(p.MediaURLs),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// TotalMarks returns the sum of the question bank's marks.
func (c *Course) TotalMarks() int {
	total := 0
	for _, q := range c.Questions {
		total += q.Marks
	}
	return total
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
