package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/content"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// POST ENGAGEMENT COMMANDS
// Comments and reactions. Both award score to the engaging user; removing
// a reaction takes the awarded point back.
// ══════════════════════════════════════════════════════════════════════════════

// AddCommentCommand contains the data to comment on a post.
type AddCommentCommand struct {
	PostID          int64
	UserID          user.UserID
	Body            string
	ParentCommentID *int64
}

// Validate validates the command.
func (c AddCommentCommand) Validate() error {
	if c.PostID <= 0 {
		return errors.New("add_comment: post_id is required")
	}
	if !c.UserID.IsValid() {
		return errors.New("add_comment: user_id is required")
	}
	if c.Body == "" {
		return content.ErrEmptyComment
	}
	return nil
}

// AddCommentResult contains the stored comment and the score outcome.
type AddCommentResult struct {
	Comment *content.Comment
	Score   *ScoreUpdateResult
}

// ReactToPostCommand contains the data to react to a post.
type ReactToPostCommand struct {
	PostID int64
	UserID user.UserID
	Kind   string
}

// Validate validates the command.
func (c ReactToPostCommand) Validate() error {
	if c.PostID <= 0 {
		return errors.New("react_to_post: post_id is required")
	}
	if !c.UserID.IsValid() {
		return errors.New("react_to_post: user_id is required")
	}
	return nil
}

// ReactToPostResult contains the stored reaction and the score outcome.
// Score is nil when an existing reaction only changed kind.
type ReactToPostResult struct {
	Reaction *content.Reaction
	Score    *ScoreUpdateResult
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// EngagePostHandler handles comments and reactions on posts.
type EngagePostHandler struct {
	posts  content.Repository
	scores ScoreUpdater
}

// NewEngagePostHandler creates a new EngagePostHandler.
func NewEngagePostHandler(posts content.Repository, scores ScoreUpdater) *EngagePostHandler {
	return &EngagePostHandler{posts: posts, scores: scores}
}

// AddComment stores a comment and awards score to its author.
func (h *EngagePostHandler) AddComment(ctx context.Context, cmd AddCommentCommand) (*AddCommentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	comment, err := content.NewComment(cmd.PostID, int64(cmd.UserID), cmd.Body, cmd.ParentCommentID)
	if err != nil {
		return nil, err
	}

	if err := h.posts.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("add_comment: %w", err)
	}

	score := h.scores.Apply(ctx, cmd.UserID, scoring.ActionCommentPosted)

	return &AddCommentResult{Comment: comment, Score: score}, nil
}

// React stores a reaction and awards score to the reacting user.
// Reacting again replaces the reaction kind; the score is only awarded
// for the first reaction.
func (h *EngagePostHandler) React(ctx context.Context, cmd ReactToPostCommand) (*ReactToPostResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	reaction := content.NewReaction(cmd.PostID, int64(cmd.UserID), cmd.Kind)

	if err := h.posts.CreateReaction(ctx, reaction); err != nil {
		if errors.Is(err, content.ErrAlreadyReacted) {
			if err := h.posts.UpdateReactionKind(ctx, cmd.PostID, int64(cmd.UserID), cmd.Kind); err != nil {
				return nil, fmt.Errorf("react_to_post: %w", err)
			}
			return &ReactToPostResult{Reaction: reaction}, nil
		}
		return nil, fmt.Errorf("react_to_post: %w", err)
	}

	score := h.scores.Apply(ctx, cmd.UserID, scoring.ActionPostReacted)

	return &ReactToPostResult{Reaction: reaction, Score: score}, nil
}

// Unreact removes a reaction and takes the awarded score back. The score
// only moves when a reaction was actually removed; unreacting a post the
// user never reacted to returns content.ErrReactionNotFound untouched.
func (h *EngagePostHandler) Unreact(ctx context.Context, postID int64, userID user.UserID) (*ScoreUpdateResult, error) {
	if postID <= 0 || !userID.IsValid() {
		return nil, errors.New("unreact: post_id and user_id are required")
	}

	if err := h.posts.DeleteReaction(ctx, postID, int64(userID)); err != nil {
		return nil, fmt.Errorf("unreact: %w", err)
	}

	return h.scores.Revert(ctx, userID, scoring.ActionPostReacted), nil
}
