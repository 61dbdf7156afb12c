package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/content"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeReactionRepo struct {
	content.Repository

	existingKind string
	updatedKind  string
	deleted      bool
}

func (f *fakeReactionRepo) CreateReaction(_ context.Context, r *content.Reaction) error {
	if f.existingKind != "" {
		return content.ErrAlreadyReacted
	}
	r.ID = 1
	return nil
}

func (f *fakeReactionRepo) UpdateReactionKind(_ context.Context, _, _ int64, kind string) error {
	f.updatedKind = kind
	return nil
}

func (f *fakeReactionRepo) DeleteReaction(_ context.Context, _, _ int64) error {
	if f.existingKind == "" {
		return content.ErrReactionNotFound
	}
	f.existingKind = ""
	f.deleted = true
	return nil
}

type fakeScoreUpdater struct {
	applied  []scoring.Action
	reverted []scoring.Action
}

func (f *fakeScoreUpdater) Apply(_ context.Context, _ user.UserID, action scoring.Action) *ScoreUpdateResult {
	f.applied = append(f.applied, action)
	return &ScoreUpdateResult{Applied: true}
}

func (f *fakeScoreUpdater) Revert(_ context.Context, _ user.UserID, action scoring.Action) *ScoreUpdateResult {
	f.reverted = append(f.reverted, action)
	return &ScoreUpdateResult{Applied: true}
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestReact_FirstReactionAwardsScore(t *testing.T) {
	repo := &fakeReactionRepo{}
	scores := &fakeScoreUpdater{}
	h := NewEngagePostHandler(repo, scores)

	result, err := h.React(context.Background(), ReactToPostCommand{
		PostID: 7,
		UserID: user.UserID(42),
		Kind:   "like",
	})

	require.NoError(t, err)
	require.NotNil(t, result.Score)
	assert.Equal(t, []scoring.Action{scoring.ActionPostReacted}, scores.applied)
}

func TestReact_SecondReactionReplacesKind(t *testing.T) {
	repo := &fakeReactionRepo{existingKind: "like"}
	scores := &fakeScoreUpdater{}
	h := NewEngagePostHandler(repo, scores)

	result, err := h.React(context.Background(), ReactToPostCommand{
		PostID: 7,
		UserID: user.UserID(42),
		Kind:   "love",
	})

	require.NoError(t, err)
	assert.Equal(t, "love", repo.updatedKind)
	assert.Nil(t, result.Score, "changing the kind earns nothing")
	assert.Empty(t, scores.applied)
}

func TestUnreact_RevertsScore(t *testing.T) {
	repo := &fakeReactionRepo{existingKind: "like"}
	scores := &fakeScoreUpdater{}
	h := NewEngagePostHandler(repo, scores)

	_, err := h.Unreact(context.Background(), 7, user.UserID(42))

	require.NoError(t, err)
	assert.True(t, repo.deleted)
	assert.Equal(t, []scoring.Action{scoring.ActionPostReacted}, scores.reverted)
}

func TestUnreact_MissingReactionMovesNoScore(t *testing.T) {
	repo := &fakeReactionRepo{}
	scores := &fakeScoreUpdater{}
	h := NewEngagePostHandler(repo, scores)

	for i := 0; i < 5; i++ {
		_, err := h.Unreact(context.Background(), 7, user.UserID(42))
		assert.ErrorIs(t, err, content.ErrReactionNotFound)
	}

	assert.Empty(t, scores.reverted, "nothing to remove means nothing to take back")
}

func TestUnreact_SecondCallFails(t *testing.T) {
	repo := &fakeReactionRepo{existingKind: "like"}
	scores := &fakeScoreUpdater{}
	h := NewEngagePostHandler(repo, scores)

	_, err := h.Unreact(context.Background(), 7, user.UserID(42))
	require.NoError(t, err)

	_, err = h.Unreact(context.Background(), 7, user.UserID(42))
	assert.ErrorIs(t, err, content.ErrReactionNotFound)
	assert.Len(t, scores.reverted, 1)
}
