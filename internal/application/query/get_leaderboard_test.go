package query

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes shared by the query tests
// ─────────────────────────────────────────────────────────────────────────────

type fakeUserReader struct {
	user.Repository

	byID map[user.UserID]*user.User
	top  []*user.User

	rank    int
	total   int
	rankErr error
}

func (f *fakeUserReader) GetByID(_ context.Context, id user.UserID) (*user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserReader) TopByScore(_ context.Context, limit int) ([]*user.User, error) {
	if limit > len(f.top) {
		limit = len(f.top)
	}
	return f.top[:limit], nil
}

func (f *fakeUserReader) ScoreRank(_ context.Context, _ user.UserID) (int, int, error) {
	if f.rankErr != nil {
		return 0, 0, f.rankErr
	}
	return f.rank, f.total, nil
}

type fakeRankedReader struct {
	entries []scoring.RankedScore
	err     error
}

func (f *fakeRankedReader) Top(_ context.Context, limit int) ([]scoring.RankedScore, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	return f.entries[:limit], nil
}

func testUser(id int64, name string, score float64) *user.User {
	return &user.User{
		ID:          user.UserID(id),
		Name:        name,
		Email:       user.Email(name + "@school.lk"),
		Role:        user.RoleStudent,
		SystemScore: user.Score(score),
		IsActive:    true,
	}
}

func queryLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestGetLeaderboard_FromCache(t *testing.T) {
	users := &fakeUserReader{byID: map[user.UserID]*user.User{
		1: testUser(1, "amaya", 150),
		2: testUser(2, "nimal", 90),
	}}
	reader := &fakeRankedReader{entries: []scoring.RankedScore{
		{UserID: 1, Score: 150},
		{UserID: 2, Score: 90},
	}}
	h := NewGetLeaderboardHandler(users, reader, scoring.NewCatalogue(scoring.DefaultTiers()), queryLogger())

	entries, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, int64(1), entries[0].UserID)
	assert.Equal(t, 150.0, entries[0].Score)
	assert.Equal(t, "Apprentice", entries[0].Level.Name)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestGetLeaderboard_CacheSkipsDeletedUsers(t *testing.T) {
	users := &fakeUserReader{byID: map[user.UserID]*user.User{
		2: testUser(2, "nimal", 90),
	}}
	reader := &fakeRankedReader{entries: []scoring.RankedScore{
		{UserID: 1, Score: 150}, // no longer exists
		{UserID: 2, Score: 90},
	}}
	h := NewGetLeaderboardHandler(users, reader, scoring.NewCatalogue(scoring.DefaultTiers()), queryLogger())

	entries, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].UserID)
}

func TestGetLeaderboard_FallsBackToDatabase(t *testing.T) {
	users := &fakeUserReader{top: []*user.User{
		testUser(1, "amaya", 150),
		testUser(2, "nimal", 90),
	}}

	t.Run("no cache configured", func(t *testing.T) {
		h := NewGetLeaderboardHandler(users, nil, scoring.NewCatalogue(scoring.DefaultTiers()), queryLogger())

		entries, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("cache read fails", func(t *testing.T) {
		reader := &fakeRankedReader{err: errors.New("redis down")}
		h := NewGetLeaderboardHandler(users, reader, scoring.NewCatalogue(scoring.DefaultTiers()), queryLogger())

		entries, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func TestGetLeaderboard_LevelCarriesSeededID(t *testing.T) {
	users := &fakeUserReader{top: []*user.User{testUser(1, "amaya", 150)}}
	ladder := scoring.DefaultTiers()
	for i := range ladder {
		ladder[i].ID = int64(i + 1)
	}
	h := NewGetLeaderboardHandler(users, nil, scoring.NewCatalogue(ladder), queryLogger())

	entries, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "Apprentice", entries[0].Level.Name)
	assert.Equal(t, int64(2), entries[0].Level.ID)
}

func TestGetLeaderboard_LimitNormalization(t *testing.T) {
	users := &fakeUserReader{top: []*user.User{testUser(1, "amaya", 150)}}
	h := NewGetLeaderboardHandler(users, nil, scoring.NewCatalogue(scoring.DefaultTiers()), queryLogger())

	_, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: -5})
	assert.NoError(t, err, "non-positive limit normalizes to the default")
}
