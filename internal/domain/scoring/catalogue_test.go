package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAction_IsValid(t *testing.T) {
	valid := []Action{
		ActionCommentPosted,
		ActionPostCreated,
		ActionEventCreated,
		ActionEventInterest,
		ActionPostReacted,
		ActionQuizCreated,
		ActionCourseCreated,
	}
	for _, a := range valid {
		assert.True(t, a.IsValid(), "action %s should be valid", a)
	}

	assert.False(t, Action("").IsValid())
	assert.False(t, Action("login").IsValid())
	assert.False(t, Action("POST_CREATED").IsValid())
}

func TestDefaultPointsTable_Deltas(t *testing.T) {
	table := DefaultPointsTable()

	tests := []struct {
		action Action
		delta  int
	}{
		{ActionCommentPosted, 5},
		{ActionPostCreated, 10},
		{ActionEventCreated, 15},
		{ActionEventInterest, 2},
		{ActionPostReacted, 1},
		{ActionQuizCreated, 10},
		{ActionCourseCreated, 15},
	}

	for _, tt := range tests {
		delta, err := table.Delta(tt.action)
		assert.NoError(t, err)
		assert.Equal(t, tt.delta, delta, "delta for %s", tt.action)
	}
}

func TestPointsTable_UnknownAction(t *testing.T) {
	table := DefaultPointsTable()

	_, err := table.Delta(Action("made_coffee"))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestNewPointsTable_CopiesInput(t *testing.T) {
	src := map[Action]int{ActionPostCreated: 10}
	table := NewPointsTable(src)

	src[ActionPostCreated] = 999

	delta, err := table.Delta(ActionPostCreated)
	assert.NoError(t, err)
	assert.Equal(t, 10, delta)
}

func TestPointsTable_Actions(t *testing.T) {
	table := NewPointsTable(map[Action]int{
		ActionPostCreated:   10,
		ActionCommentPosted: 5,
	})

	assert.ElementsMatch(t, []Action{ActionPostCreated, ActionCommentPosted}, table.Actions())
}
