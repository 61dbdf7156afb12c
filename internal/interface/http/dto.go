package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is the shared request validator. Struct tags on the request
// DTOs below declare the wire-level constraints; domain rules stay in
// the domain layer.
var validate = validator.New()

// decodeAndValidate decodes a JSON body into dst and runs validation.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("request body is not valid JSON")
	}
	return validate.Struct(dst)
}

// validationDetails flattens validator errors into one message.
func validationDetails(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += "; "
		}
		msg += fe.Field() + " failed " + fe.Tag()
	}
	return msg
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH
// ══════════════════════════════════════════════════════════════════════════════

// RegisterRequest is the body of POST /api/v1/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     int    `json:"role" validate:"required,oneof=1 2 3"`
	School   string `json:"school" validate:"max=300"`

	// Student-only.
	Grade *int `json:"grade" validate:"omitempty,min=1,max=13"`

	// Teacher-only.
	Subject       string `json:"subject" validate:"max=200"`
	Qualification string `json:"qualification" validate:"max=300"`
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the body of PUT /api/v1/users/me.
type UpdateProfileRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	School string `json:"school" validate:"max=300"`

	// Teacher-only.
	Subject       string `json:"subject" validate:"max=200"`
	Qualification string `json:"qualification" validate:"max=300"`
}

// AuthResponse is the payload returned on register and login.
type AuthResponse struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Token  string `json:"token,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// FEED
// ══════════════════════════════════════════════════════════════════════════════

// CreatePostRequest is the body of POST /api/v1/posts.
type CreatePostRequest struct {
	Title       string `json:"title" validate:"required,max=300"`
	Description string `json:"description" validate:"max=5000"`
	MediaLink   string `json:"media_link" validate:"omitempty,url"`
	MediaType   string `json:"media_type" validate:"omitempty,oneof=image video document"`
	IsPublic    *bool  `json:"is_public"`
}

// UpdatePostRequest is the body of PUT /api/v1/posts/{id}. All fields
// replace their current values.
type UpdatePostRequest struct {
	Title       string `json:"title" validate:"required,max=300"`
	Description string `json:"description" validate:"max=5000"`
	MediaLink   string `json:"media_link" validate:"omitempty,url"`
	MediaType   string `json:"media_type" validate:"omitempty,oneof=image video document"`
	IsPublic    *bool  `json:"is_public"`
}

// AddCommentRequest is the body of POST /api/v1/posts/{id}/comments.
type AddCommentRequest struct {
	Body            string `json:"body" validate:"required,max=2000"`
	ParentCommentID *int64 `json:"parent_comment_id" validate:"omitempty,gt=0"`
}

// ReactRequest is the body of POST /api/v1/posts/{id}/reactions.
type ReactRequest struct {
	Kind string `json:"kind" validate:"max=50"`
}

// ══════════════════════════════════════════════════════════════════════════════
// EVENTS
// ══════════════════════════════════════════════════════════════════════════════

// CreateEventRequest is the body of POST /api/v1/events.
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,max=300"`
	Description string    `json:"description" validate:"max=5000"`
	Location    string    `json:"location" validate:"max=300"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	MediaURLs   []string  `json:"media_urls" validate:"max=5,dive,url"`
}

// MarkInterestRequest is the body of POST /api/v1/events/{id}/interests.
type MarkInterestRequest struct {
	Type string `json:"type" validate:"omitempty,oneof=INTERESTED GOING"`
}

// ══════════════════════════════════════════════════════════════════════════════
// ASSESSMENTS
// ══════════════════════════════════════════════════════════════════════════════

// CreateQuizRequest is the body of POST /api/v1/quizzes.
type CreateQuizRequest struct {
	Title         string   `json:"title" validate:"required,max=300"`
	Question      string   `json:"question" validate:"required,max=2000"`
	Description   string   `json:"description" validate:"max=5000"`
	Answers       []string `json:"answers" validate:"required,min=2,max=5,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"required,min=1,max=5"`
	MediaURLs     []string `json:"media_urls" validate:"max=5,dive,url"`
	Visible       *bool    `json:"visible"`
}

// CourseQuestionRequest is one question in a course request.
type CourseQuestionRequest struct {
	Question      string   `json:"question" validate:"required,max=2000"`
	Answers       []string `json:"answers" validate:"required,min=2,max=5,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"required,min=1,max=5"`
	Marks         int      `json:"marks" validate:"required,gt=0"`
}

// CreateCourseRequest is the body of POST /api/v1/courses.
type CreateCourseRequest struct {
	Title           string                  `json:"title" validate:"required,max=300"`
	Description     string                  `json:"description" validate:"max=5000"`
	ThumbnailURL    string                  `json:"thumbnail_url" validate:"omitempty,url"`
	MediaURLs       []string                `json:"media_urls" validate:"max=15,dive,url"`
	ResourceURLs    []string                `json:"resource_urls" validate:"max=5,dive,url"`
	MarksForPass    int                     `json:"marks_for_pass" validate:"min=0"`
	ApplicableGrade string                  `json:"applicable_grade" validate:"max=50"`
	ApplicableLevel string                  `json:"applicable_level" validate:"max=50"`
	Questions       []CourseQuestionRequest `json:"questions" validate:"dive"`
}

// ShareExamPaperRequest is the body of POST /api/v1/exam-papers.
type ShareExamPaperRequest struct {
	Subject     string   `json:"subject" validate:"required,max=200"`
	Grade       int      `json:"grade" validate:"required,min=1,max=13"`
	School      string   `json:"school" validate:"max=300"`
	Semester    string   `json:"semester" validate:"max=50"`
	Year        string   `json:"year" validate:"max=10"`
	ExamType    string   `json:"exam_type" validate:"max=100"`
	Description string   `json:"description" validate:"max=5000"`
	MediaURLs   []string `json:"media_urls" validate:"max=3,dive,url"`
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN
// ══════════════════════════════════════════════════════════════════════════════

// RunPromotionRequest is the body of POST /api/v1/admin/promotions.
// AcademicYear 0 means the current academic year.
type RunPromotionRequest struct {
	AcademicYear int `json:"academic_year" validate:"omitempty,min=2000,max=3000"`
}
