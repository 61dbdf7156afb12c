// Package scoring contains the engagement scoring model: the catalogue of
// score-bearing actions and the level tiers users are placed into.
package scoring

import (
	"errors"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTIONS
// ══════════════════════════════════════════════════════════════════════════════

// Action identifies a score-bearing platform interaction.
type Action string

const (
	// ActionCommentPosted - a user commented on a post.
	ActionCommentPosted Action = "comment_posted"
	// ActionPostCreated - a user published a post.
	ActionPostCreated Action = "post_created"
	// ActionEventCreated - a user created an event.
	ActionEventCreated Action = "event_created"
	// ActionEventInterest - a user marked interest in an event.
	ActionEventInterest Action = "event_interest"
	// ActionPostReacted - a user reacted to a post.
	ActionPostReacted Action = "post_reacted"
	// ActionQuizCreated - a teacher published a quiz.
	ActionQuizCreated Action = "quiz_created"
	// ActionCourseCreated - a teacher published a course.
	ActionCourseCreated Action = "course_created"
)

// IsValid reports whether the action is part of the catalogue.
func (a Action) IsValid() bool {
	switch a {
	case ActionCommentPosted, ActionPostCreated, ActionEventCreated,
		ActionEventInterest, ActionPostReacted, ActionQuizCreated,
		ActionCourseCreated:
		return true
	default:
		return false
	}
}

// String returns the action name.
func (a Action) String() string {
	return string(a)
}

// ErrUnknownAction - the action is not in the points table.
var ErrUnknownAction = errors.New("unknown scoring action")

// ══════════════════════════════════════════════════════════════════════════════
// POINTS TABLE
// ══════════════════════════════════════════════════════════════════════════════

// PointsTable maps actions to score deltas. Deltas may be negative, for
// example when a reaction is withdrawn.
type PointsTable struct {
	points map[Action]int
}

// NewPointsTable builds a table from an explicit action->delta map.
func NewPointsTable(points map[Action]int) *PointsTable {
	cp := make(map[Action]int, len(points))
	for a, p := range points {
		cp[a] = p
	}
	return &PointsTable{points: cp}
}

// DefaultPointsTable returns the platform's standard deltas.
func DefaultPointsTable() *PointsTable {
	return NewPointsTable(map[Action]int{
		ActionCommentPosted: 5,
		ActionPostCreated:   10,
		ActionEventCreated:  15,
		ActionEventInterest: 2,
		ActionPostReacted:   1,
		ActionQuizCreated:   10,
		ActionCourseCreated: 15,
	})
}

// Delta returns the score delta for an action.
// Returns ErrUnknownAction for actions outside the table.
func (t *PointsTable) Delta(a Action) (int, error) {
	p, ok := t.points[a]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAction, a)
	}
	return p, nil
}

// Actions returns every action the table knows about.
func (t *PointsTable) Actions() []Action {
	out := make([]Action, 0, len(t.points))
	for a := range t.points {
		out = append(out, a)
	}
	return out
}
