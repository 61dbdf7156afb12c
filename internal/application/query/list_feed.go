package query

import (
	"context"
	"fmt"
	"time"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/content"
)

// ══════════════════════════════════════════════════════════════════════════════
// FEED QUERIES
// Post listings with engagement counts, and per-post comment threads.
// ══════════════════════════════════════════════════════════════════════════════

// ListPostsQuery contains feed pagination parameters.
type ListPostsQuery struct {
	Offset int
	Limit  int
}

// Validate normalizes the query.
func (q *ListPostsQuery) Validate() error {
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return nil
}

// PostDTO is one feed entry.
type PostDTO struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	MediaLink   string    `json:"media_link,omitempty"`
	MediaType   string    `json:"media_type,omitempty"`
	Reactions   int       `json:"reactions"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommentDTO is one comment in a post's thread.
type CommentDTO struct {
	ID              int64     `json:"id"`
	PostID          int64     `json:"post_id"`
	UserID          int64     `json:"user_id"`
	Body            string    `json:"body"`
	ParentCommentID *int64    `json:"parent_comment_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ListFeedHandler handles feed read operations.
type ListFeedHandler struct {
	posts content.Repository
}

// NewListFeedHandler creates a new ListFeedHandler.
func NewListFeedHandler(posts content.Repository) *ListFeedHandler {
	return &ListFeedHandler{posts: posts}
}

// ListPosts returns public posts newest first.
func (h *ListFeedHandler) ListPosts(ctx context.Context, q ListPostsQuery) ([]PostDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	posts, err := h.posts.ListPosts(ctx, q.Offset, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list_posts: %w", err)
	}

	out := make([]PostDTO, 0, len(posts))
	for _, p := range posts {
		reactions, err := h.posts.CountReactions(ctx, p.ID)
		if err != nil {
			reactions = 0
		}
		out = append(out, PostDTO{
			ID:          p.ID,
			UserID:      p.UserID,
			Title:       p.Title,
			Description: p.Description,
			MediaLink:   p.MediaLink,
			MediaType:   string(p.MediaType),
			Reactions:   reactions,
			CreatedAt:   p.CreatedAt,
		})
	}
	return out, nil
}

// GetPost returns one post with its reaction count.
func (h *ListFeedHandler) GetPost(ctx context.Context, id int64) (*PostDTO, error) {
	if id <= 0 {
		return nil, content.ErrPostNotFound
	}

	p, err := h.posts.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	reactions, err := h.posts.CountReactions(ctx, p.ID)
	if err != nil {
		reactions = 0
	}

	return &PostDTO{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Description: p.Description,
		MediaLink:   p.MediaLink,
		MediaType:   string(p.MediaType),
		Reactions:   reactions,
		CreatedAt:   p.CreatedAt,
	}, nil
}

// ListComments returns a post's comments oldest first.
func (h *ListFeedHandler) ListComments(ctx context.Context, postID int64) ([]CommentDTO, error) {
	if postID <= 0 {
		return nil, content.ErrPostNotFound
	}

	comments, err := h.posts.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list_comments: %w", err)
	}

	out := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentDTO{
			ID:              c.ID,
			PostID:          c.PostID,
			UserID:          c.UserID,
			Body:            c.Body,
			ParentCommentID: c.ParentCommentID,
			CreatedAt:       c.CreatedAt,
		})
	}
	return out, nil
}
