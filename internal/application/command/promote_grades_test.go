package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

type fakeRecordRepo struct {
	user.StudentRecordRepository

	incomplete []*user.StudentRecord
	listErr    error

	saved      []*user.StudentRecord
	savedYear  int
	alreadyRan bool
	saveErr    error
}

func (f *fakeRecordRepo) ListIncomplete(context.Context) ([]*user.StudentRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.incomplete, nil
}

func (f *fakeRecordRepo) SavePromotions(_ context.Context, records []*user.StudentRecord, year int) (bool, error) {
	if f.saveErr != nil {
		return false, f.saveErr
	}
	if f.alreadyRan {
		return false, nil
	}
	f.saved = records
	f.savedYear = year
	return true, nil
}

func record(id int64, grade int) *user.StudentRecord {
	return &user.StudentRecord{UserID: user.UserID(id), Grade: &grade}
}

func TestPromoteGrades_AdvancesAndCompletes(t *testing.T) {
	ungraded := &user.StudentRecord{UserID: 4}
	repo := &fakeRecordRepo{
		incomplete: []*user.StudentRecord{
			record(1, 5),
			record(2, 12),
			record(3, 13),
			ungraded,
		},
	}
	h := NewPromoteGradesHandler(repo, testLogger())

	result, err := h.Handle(context.Background(), PromoteGradesCommand{AcademicYear: 2026})
	require.NoError(t, err)

	assert.False(t, result.AlreadyRan)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 3, result.Advanced)
	assert.Equal(t, 1, result.Completed)

	assert.Equal(t, 2026, repo.savedYear)
	require.Len(t, repo.saved, 4)

	assert.Equal(t, 6, *repo.saved[0].Grade)
	assert.Equal(t, 13, *repo.saved[1].Grade)
	assert.True(t, repo.saved[2].IsCompleted)
	require.NotNil(t, ungraded.Grade)
	assert.Equal(t, 2, *ungraded.Grade, "unset grade normalizes to 1 before advancing")
}

func TestPromoteGrades_AlreadyRanIsANoOp(t *testing.T) {
	repo := &fakeRecordRepo{
		incomplete: []*user.StudentRecord{record(1, 5)},
		alreadyRan: true,
	}
	h := NewPromoteGradesHandler(repo, testLogger())

	result, err := h.Handle(context.Background(), PromoteGradesCommand{AcademicYear: 2026})
	require.NoError(t, err)

	assert.True(t, result.AlreadyRan)
	assert.Zero(t, result.Advanced)
	assert.Zero(t, result.Completed)
}

func TestPromoteGrades_EmptyCohort(t *testing.T) {
	repo := &fakeRecordRepo{}
	h := NewPromoteGradesHandler(repo, testLogger())

	result, err := h.Handle(context.Background(), PromoteGradesCommand{AcademicYear: 2026})
	require.NoError(t, err)

	assert.Zero(t, result.Total)
	assert.Equal(t, 2026, repo.savedYear, "the year marker is written even with nothing to promote")
}

func TestPromoteGrades_Validation(t *testing.T) {
	h := NewPromoteGradesHandler(&fakeRecordRepo{}, testLogger())

	_, err := h.Handle(context.Background(), PromoteGradesCommand{AcademicYear: 123})
	assert.Error(t, err)
}

func TestPromoteGrades_StorageErrors(t *testing.T) {
	h := NewPromoteGradesHandler(&fakeRecordRepo{listErr: errors.New("boom")}, testLogger())
	_, err := h.Handle(context.Background(), PromoteGradesCommand{AcademicYear: 2026})
	assert.Error(t, err)

	h = NewPromoteGradesHandler(&fakeRecordRepo{saveErr: errors.New("boom")}, testLogger())
	_, err = h.Handle(context.Background(), PromoteGradesCommand{AcademicYear: 2026})
	assert.Error(t, err)
}
