package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeAccountRepo struct {
	user.Repository

	account *user.User
	updated *user.User
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id user.UserID) (*user.User, error) {
	if f.account == nil || f.account.ID != id {
		return nil, user.ErrUserNotFound
	}
	return f.account, nil
}

func (f *fakeAccountRepo) Update(_ context.Context, u *user.User) error {
	f.updated = u
	return nil
}

type fakeProfileRepo struct {
	profile *user.TeacherProfile
	updated *user.TeacherProfile
}

func (f *fakeProfileRepo) Create(_ context.Context, p *user.TeacherProfile) error {
	f.profile = p
	return nil
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, id user.UserID) (*user.TeacherProfile, error) {
	if f.profile == nil || f.profile.UserID != id {
		return nil, user.ErrUserNotFound
	}
	return f.profile, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, p *user.TeacherProfile) error {
	f.updated = p
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestUpdateProfile_Student(t *testing.T) {
	accounts := &fakeAccountRepo{account: &user.User{
		ID:   user.UserID(5),
		Name: "Nimal",
		Role: user.RoleStudent,
	}}
	profiles := &fakeProfileRepo{}
	h := NewUpdateProfileHandler(accounts, profiles, testLogger())

	u, err := h.Handle(context.Background(), UpdateProfileCommand{
		UserID: user.UserID(5),
		Name:   "  Nimal Perera  ",
		School: "Ananda College",
	})

	require.NoError(t, err)
	assert.Equal(t, "Nimal Perera", u.Name)
	assert.Equal(t, "Ananda College", u.School)
	require.NotNil(t, accounts.updated)
	assert.Nil(t, profiles.updated, "students have no subject profile")
}

func TestUpdateProfile_TeacherSubject(t *testing.T) {
	accounts := &fakeAccountRepo{account: &user.User{
		ID:   user.UserID(8),
		Name: "Amaya",
		Role: user.RoleTeacher,
	}}
	profiles := &fakeProfileRepo{profile: &user.TeacherProfile{
		UserID:  user.UserID(8),
		Subject: "Mathematics",
	}}
	h := NewUpdateProfileHandler(accounts, profiles, testLogger())

	_, err := h.Handle(context.Background(), UpdateProfileCommand{
		UserID:        user.UserID(8),
		Name:          "Amaya",
		Subject:       "Physics",
		Qualification: "BSc (Hons)",
	})

	require.NoError(t, err)
	require.NotNil(t, profiles.updated)
	assert.Equal(t, "Physics", profiles.updated.Subject)
	assert.Equal(t, "BSc (Hons)", profiles.updated.Qualification)
}

func TestUpdateProfile_BlankName(t *testing.T) {
	h := NewUpdateProfileHandler(&fakeAccountRepo{}, &fakeProfileRepo{}, testLogger())

	_, err := h.Handle(context.Background(), UpdateProfileCommand{
		UserID: user.UserID(5),
	})

	assert.ErrorIs(t, err, user.ErrInvalidName)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	h := NewUpdateProfileHandler(&fakeAccountRepo{}, &fakeProfileRepo{}, testLogger())

	_, err := h.Handle(context.Background(), UpdateProfileCommand{
		UserID: user.UserID(5),
		Name:   "Nimal",
	})

	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUpdateProfile_InvalidatesCache(t *testing.T) {
	accounts := &fakeAccountRepo{account: &user.User{
		ID:   user.UserID(5),
		Name: "Nimal",
		Role: user.RoleStudent,
	}}
	inv := &fakeInvalidator{}
	h := NewUpdateProfileHandler(accounts, &fakeProfileRepo{}, testLogger()).WithProfileInvalidator(inv)

	_, err := h.Handle(context.Background(), UpdateProfileCommand{
		UserID: user.UserID(5),
		Name:   "Nimal",
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{5}, inv.invalidated)
}
