package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/content"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeContentRepo struct {
	content.Repository

	post    *content.Post
	comment *content.Comment

	updated        *content.Post
	deletedPost    int64
	deletedComment int64
}

func (f *fakeContentRepo) GetPost(_ context.Context, id int64) (*content.Post, error) {
	if f.post == nil || f.post.ID != id {
		return nil, content.ErrPostNotFound
	}
	return f.post, nil
}

func (f *fakeContentRepo) UpdatePost(_ context.Context, p *content.Post) error {
	f.updated = p
	return nil
}

func (f *fakeContentRepo) DeletePost(_ context.Context, id int64) error {
	f.deletedPost = id
	return nil
}

func (f *fakeContentRepo) GetComment(_ context.Context, id int64) (*content.Comment, error) {
	if f.comment == nil || f.comment.ID != id {
		return nil, content.ErrCommentNotFound
	}
	return f.comment, nil
}

func (f *fakeContentRepo) DeleteComment(_ context.Context, id int64) error {
	f.deletedComment = id
	return nil
}

func ownedPost(postID, ownerID int64) *content.Post {
	return &content.Post{
		ID:        postID,
		UserID:    ownerID,
		Title:     "Fractions revision sheet",
		MediaType: content.MediaTypeNone,
		IsPublic:  true,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestUpdatePost_ByAuthor(t *testing.T) {
	repo := &fakeContentRepo{post: ownedPost(7, 42)}
	h := NewManageFeedHandler(repo)

	post, err := h.UpdatePost(context.Background(), UpdatePostCommand{
		PostID:    7,
		ActorID:   user.UserID(42),
		ActorRole: user.RoleStudent,
		Title:     "Fractions revision sheet v2",
		MediaType: content.MediaTypeNone,
		IsPublic:  false,
	})

	require.NoError(t, err)
	assert.Equal(t, "Fractions revision sheet v2", post.Title)
	assert.False(t, post.IsPublic)
	require.NotNil(t, repo.updated)
	assert.Equal(t, int64(7), repo.updated.ID)
}

func TestUpdatePost_NotOwner(t *testing.T) {
	repo := &fakeContentRepo{post: ownedPost(7, 42)}
	h := NewManageFeedHandler(repo)

	_, err := h.UpdatePost(context.Background(), UpdatePostCommand{
		PostID:    7,
		ActorID:   user.UserID(99),
		ActorRole: user.RoleTeacher,
		Title:     "Hijacked",
		MediaType: content.MediaTypeNone,
	})

	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Nil(t, repo.updated)
}

func TestUpdatePost_BlankTitleRejected(t *testing.T) {
	repo := &fakeContentRepo{post: ownedPost(7, 42)}
	h := NewManageFeedHandler(repo)

	_, err := h.UpdatePost(context.Background(), UpdatePostCommand{
		PostID:    7,
		ActorID:   user.UserID(42),
		ActorRole: user.RoleStudent,
		Title:     "   ",
		MediaType: content.MediaTypeNone,
	})

	assert.ErrorIs(t, err, content.ErrInvalidTitle)
}

func TestDeletePost_AdminOverride(t *testing.T) {
	repo := &fakeContentRepo{post: ownedPost(7, 42)}
	h := NewManageFeedHandler(repo)

	err := h.DeletePost(context.Background(), 7, user.UserID(1), user.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, int64(7), repo.deletedPost)
}

func TestDeletePost_NotOwner(t *testing.T) {
	repo := &fakeContentRepo{post: ownedPost(7, 42)}
	h := NewManageFeedHandler(repo)

	err := h.DeletePost(context.Background(), 7, user.UserID(99), user.RoleStudent)

	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Zero(t, repo.deletedPost)
}

func TestDeletePost_Missing(t *testing.T) {
	repo := &fakeContentRepo{}
	h := NewManageFeedHandler(repo)

	err := h.DeletePost(context.Background(), 7, user.UserID(42), user.RoleStudent)

	assert.ErrorIs(t, err, content.ErrPostNotFound)
}

func TestDeleteComment_ByAuthor(t *testing.T) {
	repo := &fakeContentRepo{comment: &content.Comment{ID: 3, PostID: 7, UserID: 42, Body: "nice one"}}
	h := NewManageFeedHandler(repo)

	err := h.DeleteComment(context.Background(), 3, user.UserID(42), user.RoleStudent)

	require.NoError(t, err)
	assert.Equal(t, int64(3), repo.deletedComment)
}

func TestDeleteComment_NotOwner(t *testing.T) {
	repo := &fakeContentRepo{comment: &content.Comment{ID: 3, PostID: 7, UserID: 42, Body: "nice one"}}
	h := NewManageFeedHandler(repo)

	err := h.DeleteComment(context.Background(), 3, user.UserID(99), user.RoleStudent)

	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Zero(t, repo.deletedComment)
}
