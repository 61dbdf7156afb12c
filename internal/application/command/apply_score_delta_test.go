package command

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	user.Repository

	score    float64
	addErr   error
	lastID   user.UserID
	lastDiff float64
}

func (f *fakeUserRepo) AddScore(_ context.Context, id user.UserID, delta float64) (float64, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	f.lastID = id
	f.lastDiff = delta
	f.score += delta
	return f.score, nil
}

type fakeLeaderboard struct {
	err    error
	userID int64
	score  float64
	calls  int
}

func (f *fakeLeaderboard) SetScore(_ context.Context, userID int64, score float64) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.userID = userID
	f.score = score
	return nil
}

type fakeInvalidator struct {
	invalidated []int64
	err         error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.invalidated = append(f.invalidated, id)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})
}

func newScoreHandler(repo *fakeUserRepo, board ScoreLeaderboard) *ApplyScoreDeltaHandler {
	return NewApplyScoreDeltaHandler(
		repo,
		scoring.DefaultPointsTable(),
		scoring.NewCatalogue(scoring.DefaultTiers()),
		board,
		testLogger(),
	)
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestApplyScoreDelta_Applied(t *testing.T) {
	repo := &fakeUserRepo{score: 10}
	board := &fakeLeaderboard{}
	h := newScoreHandler(repo, board)

	result := h.Apply(context.Background(), user.UserID(42), scoring.ActionPostCreated)

	require.True(t, result.Applied)
	assert.Equal(t, 10, result.Delta)
	assert.Equal(t, 20.0, result.NewScore)
	assert.Equal(t, "Novice Scout", result.Tier.Name)
	assert.Equal(t, user.UserID(42), repo.lastID)

	// The ranking cache saw the new score.
	assert.Equal(t, int64(42), board.userID)
	assert.Equal(t, 20.0, board.score)
}

func TestApplyScoreDelta_Reverse(t *testing.T) {
	repo := &fakeUserRepo{score: 10}
	h := newScoreHandler(repo, nil)

	result := h.Revert(context.Background(), user.UserID(1), scoring.ActionPostReacted)

	require.True(t, result.Applied)
	assert.Equal(t, -1, result.Delta)
	assert.Equal(t, 9.0, result.NewScore)
}

func TestApplyScoreDelta_NeverReturnsError(t *testing.T) {
	tests := []struct {
		name string
		cmd  ApplyScoreDeltaCommand
		repo *fakeUserRepo
	}{
		{
			name: "missing user id",
			cmd:  ApplyScoreDeltaCommand{Action: scoring.ActionPostCreated},
			repo: &fakeUserRepo{},
		},
		{
			name: "unknown action",
			cmd:  ApplyScoreDeltaCommand{UserID: 1, Action: scoring.Action("made_coffee")},
			repo: &fakeUserRepo{},
		},
		{
			name: "storage failure",
			cmd:  ApplyScoreDeltaCommand{UserID: 1, Action: scoring.ActionPostCreated},
			repo: &fakeUserRepo{addErr: errors.New("connection reset")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newScoreHandler(tt.repo, nil)

			result := h.Handle(context.Background(), tt.cmd)

			require.NotNil(t, result)
			assert.False(t, result.Applied)
			assert.NotEmpty(t, result.FailureReason)
		})
	}
}

func TestApplyScoreDelta_LeaderboardFailureIsSoft(t *testing.T) {
	repo := &fakeUserRepo{score: 10}
	board := &fakeLeaderboard{err: errors.New("redis down")}
	h := newScoreHandler(repo, board)

	result := h.Apply(context.Background(), user.UserID(1), scoring.ActionCommentPosted)

	assert.True(t, result.Applied, "score shift survives a dead ranking cache")
	assert.Equal(t, 15.0, result.NewScore)
}

type lockedUserRepo struct {
	user.Repository

	mu    sync.Mutex
	score float64
}

func (f *lockedUserRepo) AddScore(_ context.Context, _ user.UserID, delta float64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.score += delta
	return f.score, nil
}

func TestApplyScoreDelta_ConcurrentDeltasAllLand(t *testing.T) {
	// In production the serialization lives in the single
	// UPDATE ... SET score = score + $1 ... RETURNING statement; the
	// mutex here stands in for that row lock.
	repo := &lockedUserRepo{}
	h := NewApplyScoreDeltaHandler(
		repo,
		scoring.DefaultPointsTable(),
		scoring.NewCatalogue(scoring.DefaultTiers()),
		nil,
		testLogger(),
	)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := h.Apply(context.Background(), user.UserID(1), scoring.ActionPostReacted)
			assert.True(t, result.Applied)
		}()
	}
	wg.Wait()

	assert.Equal(t, 100.0, repo.score, "every +1 delta lands exactly once")
}

func TestApplyScoreDelta_InvalidatesProfileCache(t *testing.T) {
	repo := &fakeUserRepo{score: 10}
	inv := &fakeInvalidator{}
	h := newScoreHandler(repo, nil).WithProfileInvalidator(inv)

	h.Apply(context.Background(), user.UserID(9), scoring.ActionEventCreated)

	assert.Equal(t, []int64{9}, inv.invalidated)
}

func TestApplyScoreDelta_InvalidationFailureIsSoft(t *testing.T) {
	repo := &fakeUserRepo{score: 10}
	inv := &fakeInvalidator{err: errors.New("redis down")}
	h := newScoreHandler(repo, nil).WithProfileInvalidator(inv)

	result := h.Apply(context.Background(), user.UserID(9), scoring.ActionEventCreated)

	assert.True(t, result.Applied)
}
