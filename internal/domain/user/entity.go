// Package user contains the core user model of the CeyAcc platform.
// Pure business logic - no external dependencies live here.
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// UserID is the internal numeric identifier of a user.
type UserID int64

// IsValid reports whether the UserID is positive.
func (id UserID) IsValid() bool {
	return id > 0
}

// Email is a normalized user email address.
type Email string

// IsValid performs a light sanity check. Full validation happens at the
// transport layer; the domain only guards against garbage.
func (e Email) IsValid() bool {
	s := string(e)
	at := strings.IndexByte(s, '@')
	return len(s) >= 5 && len(s) <= 254 && at > 0 && at < len(s)-3
}

// String returns the string form of the email.
func (e Email) String() string {
	return string(e)
}

// Normalize lowercases and trims the email.
func (e Email) Normalize() Email {
	return Email(strings.ToLower(strings.TrimSpace(string(e))))
}

// Score is the engagement score of a user.
// New users start at InitialScore; every platform interaction moves it.
type Score float64

// InitialScore is the score assigned to every freshly registered user.
const InitialScore Score = 10.0

// Add returns the score shifted by delta. Scores may go negative when
// unlikes outweigh contributions; no floor is applied.
func (s Score) Add(delta float64) Score {
	return s + Score(delta)
}

// Float returns the score as a float64.
func (s Score) Float() float64 {
	return float64(s)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Role identifies what kind of account a user holds.
// The numeric values are stable and stored in the database.
type Role int

const (
	// RoleStudent - a school student progressing through grades 1-13.
	RoleStudent Role = 1
	// RoleTeacher - a teacher with a subject profile.
	RoleTeacher Role = 2
	// RoleAdmin - a platform administrator.
	RoleAdmin Role = 3
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns a human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleTeacher:
		return "teacher"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER
// ══════════════════════════════════════════════════════════════════════════════

// User is the central account entity of the platform.
type User struct {
	// ID - internal identifier, assigned by the database.
	ID UserID

	// Name - display name, 1-150 chars.
	Name string

	// Email - unique, normalized to lowercase.
	Email Email

	// PasswordHash - bcrypt hash of the password. Never the plaintext.
	PasswordHash string

	// Role - student, teacher or admin.
	Role Role

	// School - name of the user's school.
	School string

	// SystemScore - engagement score, starts at InitialScore.
	SystemScore Score

	// IsActive - soft-delete flag; inactive users cannot log in.
	IsActive bool

	// CreatedAt - record creation time (UTC).
	CreatedAt time.Time

	// UpdatedAt - last modification time (UTC).
	UpdatedAt time.Time
}

// StudentRecord tracks a student's academic progression.
// Grade runs 1-13; a nil Grade means the student was registered before
// their grade was captured.
type StudentRecord struct {
	// UserID - owning user (must have RoleStudent).
	UserID UserID

	// Grade - current grade, 1-13, or nil when never set.
	Grade *int

	// IsCompleted - true once the student has finished grade 13.
	IsCompleted bool

	// UpdatedAt - last modification time (UTC).
	UpdatedAt time.Time
}

// TeacherProfile holds the teacher-specific attributes of a user.
type TeacherProfile struct {
	// UserID - owning user (must have RoleTeacher).
	UserID UserID

	// Subject - the subject the teacher teaches.
	Subject string

	// Qualification - free-form qualification text.
	Qualification string

	// UpdatedAt - last modification time (UTC).
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidEmail - malformed email address.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidName - display name out of bounds.
	ErrInvalidName = errors.New("invalid name: must be 1-150 chars")

	// ErrInvalidRole - unknown role value.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidGrade - grade outside 1-13.
	ErrInvalidGrade = errors.New("invalid grade: must be 1-13")

	// ErrUserNotFound - no user with the given identifier.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken - another account already uses this email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserInactive - the account has been deactivated.
	ErrUserInactive = errors.New("user account is inactive")

	// ErrNotAStudent - operation requires a student account.
	ErrNotAStudent = errors.New("user is not a student")

	// ErrNotATeacher - operation requires a teacher account.
	ErrNotATeacher = errors.New("user is not a teacher")

	// ErrAlreadyCompleted - the student has already finished school.
	ErrAlreadyCompleted = errors.New("student has already completed school")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// MaxGrade is the final school grade; promotion past it completes the student.
const MaxGrade = 13

// NewUserParams holds the parameters for creating a new user.
type NewUserParams struct {
	Name         string
	Email        Email
	PasswordHash string
	Role         Role
	School       string
}

// NewUser creates a new user with all fields validated.
// The score starts at InitialScore regardless of role.
func NewUser(params NewUserParams) (*User, error) {
	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 150 {
		return nil, ErrInvalidName
	}

	email := params.Email.Normalize()
	if !email.IsValid() {
		return nil, ErrInvalidEmail
	}

	if params.PasswordHash == "" {
		return nil, errors.New("password hash is required")
	}

	if !params.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	now := time.Now().UTC()

	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		School:       strings.TrimSpace(params.School),
		SystemScore:  InitialScore,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewStudentRecord creates a student record. Grade may be nil when
// unknown at registration time.
func NewStudentRecord(userID UserID, grade *int) (*StudentRecord, error) {
	if !userID.IsValid() {
		return nil, errors.New("user id is required")
	}

	if grade != nil && (*grade < 1 || *grade > MaxGrade) {
		return nil, ErrInvalidGrade
	}

	return &StudentRecord{
		UserID:    userID,
		Grade:     grade,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// NewTeacherProfile creates a teacher profile.
func NewTeacherProfile(userID UserID, subject, qualification string) (*TeacherProfile, error) {
	if !userID.IsValid() {
		return nil, errors.New("user id is required")
	}

	return &TeacherProfile{
		UserID:        userID,
		Subject:       strings.TrimSpace(subject),
		Qualification: strings.TrimSpace(qualification),
		UpdatedAt:     time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// ApplyScoreDelta shifts the user's score and updates the timestamp.
func (u *User) ApplyScoreDelta(delta float64) Score {
	u.SystemScore = u.SystemScore.Add(delta)
	u.UpdatedAt = time.Now().UTC()
	return u.SystemScore
}

// UpdateDetails replaces the user's display name and school after
// validating them.
func (u *User) UpdateDetails(name, school string) error {
	name = strings.TrimSpace(name)
	if len(name) == 0 || len(name) > 150 {
		return ErrInvalidName
	}
	u.Name = name
	u.School = strings.TrimSpace(school)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Deactivate soft-deletes the account.
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
}

// Reactivate restores a deactivated account.
func (u *User) Reactivate() {
	u.IsActive = true
	u.UpdatedAt = time.Now().UTC()
}

// IsStudent reports whether the user holds a student account.
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsTeacher reports whether the user holds a teacher account.
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// IsAdmin reports whether the user holds an admin account.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// String returns a loggable representation. The password hash is omitted.
func (u *User) String() string {
	return fmt.Sprintf(
		"User{ID: %d, Email: %s, Role: %s, Score: %.2f}",
		u.ID, u.Email, u.Role, u.SystemScore,
	)
}

// PromotionOutcome describes what Promote did to a student record.
type PromotionOutcome int

const (
	// PromotionNone - nothing changed (already completed).
	PromotionNone PromotionOutcome = iota
	// PromotionAdvanced - the grade moved forward.
	PromotionAdvanced
	// PromotionCompleted - the student finished the final grade.
	PromotionCompleted
)

// String returns the outcome name for logging.
func (o PromotionOutcome) String() string {
	switch o {
	case PromotionAdvanced:
		return "advanced"
	case PromotionCompleted:
		return "completed"
	default:
		return "none"
	}
}

// Promote advances the student one academic year.
//
// An unset grade is first normalized to 1 and then advanced, so a student
// registered without a grade lands in grade 2 after their first promotion.
// A student already past the penultimate grade is marked completed instead
// of advancing. Completed students are never touched.
func (r *StudentRecord) Promote() PromotionOutcome {
	if r.IsCompleted {
		return PromotionNone
	}

	if r.Grade == nil {
		g := 1
		r.Grade = &g
	}

	now := time.Now().UTC()
	if *r.Grade < MaxGrade {
		next := *r.Grade + 1
		r.Grade = &next
		r.UpdatedAt = now
		return PromotionAdvanced
	}

	r.IsCompleted = true
	r.UpdatedAt = now
	return PromotionCompleted
}
