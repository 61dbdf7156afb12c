package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(NewUserParams{
		Name:         "  Amaya Perera ",
		Email:        Email("Amaya.Perera@School.LK"),
		PasswordHash: "$2a$12$hash",
		Role:         RoleStudent,
		School:       "Royal College",
	})
	require.NoError(t, err)

	assert.Equal(t, "Amaya Perera", u.Name)
	assert.Equal(t, Email("amaya.perera@school.lk"), u.Email)
	assert.Equal(t, InitialScore, u.SystemScore)
	assert.True(t, u.IsActive)
	assert.True(t, u.IsStudent())
}

func TestNewUser_Validation(t *testing.T) {
	base := NewUserParams{
		Name:         "Amaya",
		Email:        Email("amaya@school.lk"),
		PasswordHash: "hash",
		Role:         RoleStudent,
	}

	tests := []struct {
		name    string
		mutate  func(*NewUserParams)
		wantErr error
	}{
		{"empty name", func(p *NewUserParams) { p.Name = "   " }, ErrInvalidName},
		{"malformed email", func(p *NewUserParams) { p.Email = "not-an-email" }, ErrInvalidEmail},
		{"unknown role", func(p *NewUserParams) { p.Role = Role(9) }, ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := base
			tt.mutate(&params)
			_, err := NewUser(params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("missing password hash", func(t *testing.T) {
		params := base
		params.PasswordHash = ""
		_, err := NewUser(params)
		assert.Error(t, err)
	})
}

func TestScore_Add(t *testing.T) {
	s := InitialScore

	assert.Equal(t, Score(15), s.Add(5))
	assert.Equal(t, Score(-2), s.Add(-12), "no floor on negative scores")
}

func TestNewStudentRecord_GradeBounds(t *testing.T) {
	grade := 5
	rec, err := NewStudentRecord(UserID(1), &grade)
	require.NoError(t, err)
	assert.Equal(t, 5, *rec.Grade)

	_, err = NewStudentRecord(UserID(1), nil)
	assert.NoError(t, err, "grade may be unknown at registration")

	zero := 0
	_, err = NewStudentRecord(UserID(1), &zero)
	assert.ErrorIs(t, err, ErrInvalidGrade)

	fourteen := 14
	_, err = NewStudentRecord(UserID(1), &fourteen)
	assert.ErrorIs(t, err, ErrInvalidGrade)
}

func TestStudentRecord_Promote(t *testing.T) {
	t.Run("advances a normal grade", func(t *testing.T) {
		grade := 7
		rec := &StudentRecord{UserID: 1, Grade: &grade}

		assert.Equal(t, PromotionAdvanced, rec.Promote())
		assert.Equal(t, 8, *rec.Grade)
		assert.False(t, rec.IsCompleted)
	})

	t.Run("unset grade lands in grade 2", func(t *testing.T) {
		rec := &StudentRecord{UserID: 1}

		assert.Equal(t, PromotionAdvanced, rec.Promote())
		require.NotNil(t, rec.Grade)
		assert.Equal(t, 2, *rec.Grade)
	})

	t.Run("penultimate grade reaches the final grade", func(t *testing.T) {
		grade := 12
		rec := &StudentRecord{UserID: 1, Grade: &grade}

		assert.Equal(t, PromotionAdvanced, rec.Promote())
		assert.Equal(t, MaxGrade, *rec.Grade)
		assert.False(t, rec.IsCompleted)
	})

	t.Run("final grade completes", func(t *testing.T) {
		grade := 13
		rec := &StudentRecord{UserID: 1, Grade: &grade}

		assert.Equal(t, PromotionCompleted, rec.Promote())
		assert.Equal(t, 13, *rec.Grade)
		assert.True(t, rec.IsCompleted)
	})

	t.Run("completed students are never touched", func(t *testing.T) {
		grade := 13
		rec := &StudentRecord{UserID: 1, Grade: &grade, IsCompleted: true}

		assert.Equal(t, PromotionNone, rec.Promote())
		assert.Equal(t, 13, *rec.Grade)
	})
}

func TestEmail_IsValid(t *testing.T) {
	assert.True(t, Email("a@bc.de").IsValid())
	assert.False(t, Email("@no-local.part").IsValid())
	assert.False(t, Email("a@b").IsValid())
	assert.False(t, Email("").IsValid())
}

func TestUser_String_OmitsPasswordHash(t *testing.T) {
	u := &User{ID: 7, Email: "x@y.lk", Role: RoleTeacher, PasswordHash: "secret-hash"}

	assert.NotContains(t, u.String(), "secret-hash")
}
