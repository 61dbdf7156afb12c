package content

import (
	"context"
)

// Repository defines storage operations for the social feed.
type Repository interface {
	// CreatePost inserts a post and assigns its ID.
	CreatePost(ctx context.Context, p *Post) error

	// GetPost returns a post by ID.
	// Returns ErrPostNotFound when no such post exists.
	GetPost(ctx context.Context, id int64) (*Post, error)

	// ListPosts returns public posts newest first with pagination.
	ListPosts(ctx context.Context, offset, limit int) ([]*Post, error)

	// ListPostsByUser returns a user's posts newest first.
	ListPostsByUser(ctx context.Context, userID int64, offset, limit int) ([]*Post, error)

	// UpdatePost persists mutable post fields.
	// Returns ErrPostNotFound when no such post exists.
	UpdatePost(ctx context.Context, p *Post) error

	// DeletePost removes a post together with its comments and reactions.
	DeletePost(ctx context.Context, id int64) error

	// CreateComment inserts a comment and assigns its ID.
	// Returns ErrPostNotFound when the post does not exist, and
	// ErrCommentNotFound when the parent comment does not exist.
	CreateComment(ctx context.Context, c *Comment) error

	// GetComment returns a comment by ID.
	// Returns ErrCommentNotFound when no such comment exists.
	GetComment(ctx context.Context, id int64) (*Comment, error)

	// ListComments returns a post's comments oldest first.
	ListComments(ctx context.Context, postID int64) ([]*Comment, error)

	// DeleteComment removes a comment together with its replies.
	DeleteComment(ctx context.Context, id int64) error

	// CreateReaction inserts a reaction.
	// Returns ErrAlreadyReacted when the user already reacted to the post.
	CreateReaction(ctx context.Context, r *Reaction) error

	// UpdateReactionKind replaces the kind of a user's existing reaction
	// on a post. Updating a reaction that does not exist is a no-op.
	UpdateReactionKind(ctx context.Context, postID, userID int64, kind string) error

	// DeleteReaction removes a user's reaction from a post.
	// Returns ErrReactionNotFound when no such reaction exists.
	DeleteReaction(ctx context.Context, postID, userID int64) error

	// CountReactions returns a post's reaction count.
	CountReactions(ctx context.Context, postID int64) (int, error)
}
