package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

type fakeRanker struct {
	pos     int64
	size    int64
	rankErr error
	sizeErr error
}

func (f *fakeRanker) Rank(_ context.Context, _ int64) (int64, error) {
	if f.rankErr != nil {
		return 0, f.rankErr
	}
	return f.pos, nil
}

func (f *fakeRanker) Size(_ context.Context) (int64, error) {
	if f.sizeErr != nil {
		return 0, f.sizeErr
	}
	return f.size, nil
}

func TestGetUserRank_FromCache(t *testing.T) {
	users := &fakeUserReader{byID: map[user.UserID]*user.User{
		7: testUser(7, "amaya", 350),
	}}
	ranker := &fakeRanker{pos: 4, size: 100}
	h := NewGetUserRankHandler(users, ranker, scoring.NewCatalogue(scoring.DefaultTiers()), queryLogger())

	dto, err := h.Handle(context.Background(), GetUserRankQuery{UserID: 7})
	require.NoError(t, err)

	assert.Equal(t, int64(7), dto.UserID)
	assert.Equal(t, 5, dto.Rank, "cache position is 0-based")
	assert.Equal(t, 100, dto.TotalRanked)
	assert.Equal(t, 96.0, dto.Percentile)
	assert.Equal(t, 350.0, dto.Score)
	assert.Equal(t, "Code Knight", dto.Level.Name)
}

func TestGetUserRank_FallsBackToDatabase(t *testing.T) {
	users := &fakeUserReader{
		byID:  map[user.UserID]*user.User{7: testUser(7, "amaya", 350)},
		rank:  2,
		total: 10,
	}

	t.Run("no cache configured", func(t *testing.T) {
		h := NewGetUserRankHandler(users, nil, scoring.NewCatalogue(scoring.DefaultTiers()), queryLogger())

		dto, err := h.Handle(context.Background(), GetUserRankQuery{UserID: 7})
		require.NoError(t, err)
		assert.Equal(t, 2, dto.Rank)
		assert.Equal(t, 10, dto.TotalRanked)
	})

	t.Run("user not in the cached ranking", func(t *testing.T) {
		ranker := &fakeRanker{rankErr: errors.New("cache miss")}
		h := NewGetUserRankHandler(users, ranker, scoring.NewCatalogue(scoring.DefaultTiers()), queryLogger())

		dto, err := h.Handle(context.Background(), GetUserRankQuery{UserID: 7})
		require.NoError(t, err)
		assert.Equal(t, 2, dto.Rank)
	})

	t.Run("size read fails", func(t *testing.T) {
		ranker := &fakeRanker{pos: 4, sizeErr: errors.New("redis down")}
		h := NewGetUserRankHandler(users, ranker, scoring.NewCatalogue(scoring.DefaultTiers()), queryLogger())

		dto, err := h.Handle(context.Background(), GetUserRankQuery{UserID: 7})
		require.NoError(t, err)
		assert.Equal(t, 2, dto.Rank)
	})
}

func TestGetUserRank_UnknownUser(t *testing.T) {
	users := &fakeUserReader{byID: map[user.UserID]*user.User{}}
	h := NewGetUserRankHandler(users, nil, scoring.NewCatalogue(scoring.DefaultTiers()), queryLogger())

	_, err := h.Handle(context.Background(), GetUserRankQuery{UserID: 99})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestGetUserRank_Validation(t *testing.T) {
	h := NewGetUserRankHandler(&fakeUserReader{}, nil, scoring.NewCatalogue(scoring.DefaultTiers()), queryLogger())

	_, err := h.Handle(context.Background(), GetUserRankQuery{})
	assert.Error(t, err)
}
