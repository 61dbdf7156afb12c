package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeAccountStore struct {
	user.Repository

	users     map[user.Email]*user.User
	nextID    user.UserID
	createErr error
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{users: make(map[user.Email]*user.User), nextID: 1}
}

func (f *fakeAccountStore) Create(_ context.Context, u *user.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[u.Email]; ok {
		return user.ErrEmailTaken
	}
	u.ID = f.nextID
	f.nextID++
	f.users[u.Email] = u
	return nil
}

func (f *fakeAccountStore) GetByEmail(_ context.Context, email user.Email) (*user.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

type recordCreator struct {
	user.StudentRecordRepository
	created *user.StudentRecord
}

func (r *recordCreator) Create(_ context.Context, rec *user.StudentRecord) error {
	r.created = rec
	return nil
}

type profileCreator struct {
	user.TeacherProfileRepository
	created *user.TeacherProfile
}

func (p *profileCreator) Create(_ context.Context, prof *user.TeacherProfile) error {
	p.created = prof
	return nil
}

func TestRegisterUser_Student(t *testing.T) {
	store := newFakeAccountStore()
	records := &recordCreator{}
	h := NewRegisterUserHandler(store, records, &profileCreator{}, fakeHasher{}, testLogger())

	grade := 10
	result, err := h.Handle(context.Background(), RegisterUserCommand{
		Name:     "Amaya Perera",
		Email:    "amaya@school.lk",
		Password: "s3cret-pass",
		Role:     user.RoleStudent,
		School:   "Royal College",
		Grade:    &grade,
	})
	require.NoError(t, err)

	assert.Equal(t, user.InitialScore, result.User.SystemScore)
	assert.Equal(t, "hashed:s3cret-pass", result.User.PasswordHash)

	require.NotNil(t, records.created)
	assert.Equal(t, result.User.ID, records.created.UserID)
	assert.Equal(t, 10, *records.created.Grade)
}

func TestRegisterUser_Teacher(t *testing.T) {
	store := newFakeAccountStore()
	profiles := &profileCreator{}
	h := NewRegisterUserHandler(store, &recordCreator{}, profiles, fakeHasher{}, testLogger())

	result, err := h.Handle(context.Background(), RegisterUserCommand{
		Name:          "Nimal Silva",
		Email:         "nimal@school.lk",
		Password:      "s3cret-pass",
		Role:          user.RoleTeacher,
		Subject:       "Mathematics",
		Qualification: "BSc",
	})
	require.NoError(t, err)

	require.NotNil(t, profiles.created)
	assert.Equal(t, result.User.ID, profiles.created.UserID)
	assert.Equal(t, "Mathematics", profiles.created.Subject)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	store := newFakeAccountStore()
	h := NewRegisterUserHandler(store, &recordCreator{}, &profileCreator{}, fakeHasher{}, testLogger())

	cmd := RegisterUserCommand{
		Name:     "Amaya",
		Email:    "amaya@school.lk",
		Password: "s3cret-pass",
		Role:     user.RoleAdmin,
	}

	_, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestRegisterUser_Validation(t *testing.T) {
	h := NewRegisterUserHandler(newFakeAccountStore(), &recordCreator{}, &profileCreator{}, fakeHasher{}, testLogger())

	tests := []struct {
		name string
		cmd  RegisterUserCommand
	}{
		{"missing name", RegisterUserCommand{Email: "a@b.lk", Password: "12345678", Role: user.RoleStudent}},
		{"missing email", RegisterUserCommand{Name: "A", Password: "12345678", Role: user.RoleStudent}},
		{"short password", RegisterUserCommand{Name: "A", Email: "a@b.lk", Password: "short", Role: user.RoleStudent}},
		{"bad role", RegisterUserCommand{Name: "A", Email: "a@b.lk", Password: "12345678", Role: user.Role(9)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), tt.cmd)
			assert.Error(t, err)
		})
	}
}

func TestAuthenticateUser(t *testing.T) {
	store := newFakeAccountStore()
	reg := NewRegisterUserHandler(store, &recordCreator{}, &profileCreator{}, fakeHasher{}, testLogger())
	h := NewAuthenticateUserHandler(store, fakeHasher{}, testLogger())

	_, err := reg.Handle(context.Background(), RegisterUserCommand{
		Name:     "Amaya",
		Email:    "amaya@school.lk",
		Password: "s3cret-pass",
		Role:     user.RoleAdmin,
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		u, err := h.Handle(context.Background(), AuthenticateUserCommand{
			Email:    "amaya@school.lk",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.Equal(t, user.Email("amaya@school.lk"), u.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := h.Handle(context.Background(), AuthenticateUserCommand{
			Email:    "amaya@school.lk",
			Password: "wrong-pass",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email looks identical to wrong password", func(t *testing.T) {
		_, err := h.Handle(context.Background(), AuthenticateUserCommand{
			Email:    "ghost@school.lk",
			Password: "s3cret-pass",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		store.users["amaya@school.lk"].Deactivate()
		defer store.users["amaya@school.lk"].Reactivate()

		_, err := h.Handle(context.Background(), AuthenticateUserCommand{
			Email:    "amaya@school.lk",
			Password: "s3cret-pass",
		})
		assert.ErrorIs(t, err, user.ErrUserInactive)
	})
}
