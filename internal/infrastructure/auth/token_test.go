package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

func testAccount() *user.User {
	return &user.User{ID: 42, Email: "amaya@school.lk", Role: user.RoleTeacher}
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour, "ceyacc-backend")

	token, err := tm.Issue(testAccount())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, role, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID(42), id)
	assert.Equal(t, user.RoleTeacher, role)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour, "ceyacc-backend")
	verifier := NewTokenManager("secret-b", time.Hour, "ceyacc-backend")

	token, err := issuer.Issue(testAccount())
	require.NoError(t, err)

	_, _, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute, "ceyacc-backend")

	token, err := tm.Issue(testAccount())
	require.NoError(t, err)

	_, _, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour, "ceyacc-backend")

	_, _, err := tm.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = tm.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
