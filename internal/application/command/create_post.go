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
// CREATE POST COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CreatePostCommand contains the data to publish a post.
type CreatePostCommand struct {
	UserID      user.UserID
	Title       string
	Description string
	MediaLink   string
	MediaType   content.MediaType
	IsPublic    bool
}

// Validate validates the command.
func (c CreatePostCommand) Validate() error {
	if !c.UserID.IsValid() {
		return errors.New("create_post: user_id is required")
	}
	if c.Title == "" {
		return content.ErrInvalidTitle
	}
	return nil
}

// CreatePostResult contains the published post and the score outcome.
type CreatePostResult struct {
	Post  *content.Post
	Score *ScoreUpdateResult
}

// CreatePostHandler handles the CreatePostCommand.
type CreatePostHandler struct {
	posts  content.Repository
	scores ScoreUpdater
}

// NewCreatePostHandler creates a new CreatePostHandler.
func NewCreatePostHandler(posts content.Repository, scores ScoreUpdater) *CreatePostHandler {
	return &CreatePostHandler{posts: posts, scores: scores}
}

// Handle executes the command. The score update is a side effect: its
// failure never fails the post.
func (h *CreatePostHandler) Handle(ctx context.Context, cmd CreatePostCommand) (*CreatePostResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	post, err := content.NewPost(int64(cmd.UserID), cmd.Title, cmd.Description, cmd.MediaLink, cmd.MediaType, cmd.IsPublic)
	if err != nil {
		return nil, err
	}

	if err := h.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create_post: %w", err)
	}

	score := h.scores.Apply(ctx, cmd.UserID, scoring.ActionPostCreated)

	return &CreatePostResult{Post: post, Score: score}, nil
}
