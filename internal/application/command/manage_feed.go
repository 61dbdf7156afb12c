package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/content"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// FEED MANAGEMENT COMMANDS
// Editing and removal of posts and comments. Only the author or an admin
// may touch an item.
// ══════════════════════════════════════════════════════════════════════════════

// ErrNotOwner - the caller is neither the author nor an admin.
var ErrNotOwner = errors.New("only the author may modify this")

// UpdatePostCommand contains the replacement fields for a post.
type UpdatePostCommand struct {
	PostID      int64
	ActorID     user.UserID
	ActorRole   user.Role
	Title       string
	Description string
	MediaLink   string
	MediaType   content.MediaType
	IsPublic    bool
}

// Validate validates the command.
func (c UpdatePostCommand) Validate() error {
	if c.PostID <= 0 {
		return errors.New("update_post: post_id is required")
	}
	if !c.ActorID.IsValid() {
		return errors.New("update_post: actor is required")
	}
	return nil
}

// ManageFeedHandler handles post and comment updates and removals.
type ManageFeedHandler struct {
	posts content.Repository
}

// NewManageFeedHandler creates a new ManageFeedHandler.
func NewManageFeedHandler(posts content.Repository) *ManageFeedHandler {
	return &ManageFeedHandler{posts: posts}
}

// UpdatePost replaces a post's mutable fields.
func (h *ManageFeedHandler) UpdatePost(ctx context.Context, cmd UpdatePostCommand) (*content.Post, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	post, err := h.posts.GetPost(ctx, cmd.PostID)
	if err != nil {
		return nil, fmt.Errorf("update_post: %w", err)
	}
	if !canModify(post.UserID, cmd.ActorID, cmd.ActorRole) {
		return nil, ErrNotOwner
	}

	if err := post.Edit(cmd.Title, cmd.Description, cmd.MediaLink, cmd.MediaType, cmd.IsPublic); err != nil {
		return nil, err
	}

	if err := h.posts.UpdatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("update_post: %w", err)
	}
	return post, nil
}

// DeletePost removes a post together with its comments and reactions.
// The score earned for posting is not taken back.
func (h *ManageFeedHandler) DeletePost(ctx context.Context, postID int64, actorID user.UserID, actorRole user.Role) error {
	if postID <= 0 || !actorID.IsValid() {
		return errors.New("delete_post: post_id and actor are required")
	}

	post, err := h.posts.GetPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("delete_post: %w", err)
	}
	if !canModify(post.UserID, actorID, actorRole) {
		return ErrNotOwner
	}

	if err := h.posts.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("delete_post: %w", err)
	}
	return nil
}

// DeleteComment removes a comment together with its replies.
func (h *ManageFeedHandler) DeleteComment(ctx context.Context, commentID int64, actorID user.UserID, actorRole user.Role) error {
	if commentID <= 0 || !actorID.IsValid() {
		return errors.New("delete_comment: comment_id and actor are required")
	}

	comment, err := h.posts.GetComment(ctx, commentID)
	if err != nil {
		return fmt.Errorf("delete_comment: %w", err)
	}
	if !canModify(comment.UserID, actorID, actorRole) {
		return ErrNotOwner
	}

	if err := h.posts.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete_comment: %w", err)
	}
	return nil
}

// canModify reports whether the actor owns the item or is an admin.
func canModify(ownerID int64, actorID user.UserID, actorRole user.Role) bool {
	return ownerID == int64(actorID) || actorRole == user.RoleAdmin
}
