package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

type fakeUserLister struct {
	user.Repository

	users    []*user.User
	lastOpts user.ListOptions
}

func (f *fakeUserLister) List(_ context.Context, opts user.ListOptions) ([]*user.User, error) {
	f.lastOpts = opts
	return f.users, nil
}

func TestSearchUsers_TermAndRolePassThrough(t *testing.T) {
	repo := &fakeUserLister{users: []*user.User{testUser(1, "amaya", 150)}}
	h := NewSearchUsersHandler(repo, scoring.NewCatalogue(scoring.DefaultTiers()))

	out, err := h.Handle(context.Background(), SearchUsersQuery{
		Term: "  amaya ",
		Role: user.RoleStudent,
	})
	require.NoError(t, err)

	assert.Equal(t, "amaya", repo.lastOpts.Search, "term is trimmed before it reaches storage")
	assert.Equal(t, user.RoleStudent, repo.lastOpts.Role)
	assert.Equal(t, 20, repo.lastOpts.Limit)

	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].UserID)
	assert.Equal(t, "student", out[0].Role)
	assert.Equal(t, 150.0, out[0].Score)
	assert.Equal(t, "Apprentice", out[0].Level.Name)
}

func TestSearchUsers_InvalidRole(t *testing.T) {
	repo := &fakeUserLister{}
	h := NewSearchUsersHandler(repo, scoring.NewCatalogue(scoring.DefaultTiers()))

	_, err := h.Handle(context.Background(), SearchUsersQuery{Role: user.Role(9)})

	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestSearchUsers_LimitCap(t *testing.T) {
	repo := &fakeUserLister{}
	h := NewSearchUsersHandler(repo, scoring.NewCatalogue(scoring.DefaultTiers()))

	out, err := h.Handle(context.Background(), SearchUsersQuery{Limit: 5000})
	require.NoError(t, err)

	assert.Equal(t, 100, repo.lastOpts.Limit)
	assert.Empty(t, out)
}
