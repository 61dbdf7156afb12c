package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/content"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONTENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ContentRepository implements content.Repository for PostgreSQL.
type ContentRepository struct {
	conn *Connection
}

// NewContentRepository creates a new ContentRepository.
func NewContentRepository(conn *Connection) *ContentRepository {
	return &ContentRepository{conn: conn}
}

// CreatePost inserts a post and assigns its ID.
func (r *ContentRepository) CreatePost(ctx context.Context, p *content.Post) error {
	query := `
		INSERT INTO posts (user_id, title, description, media_link, media_type,
						   is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		p.UserID,
		p.Title,
		p.Description,
		p.MediaLink,
		string(p.MediaType),
		p.IsPublic,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetPost returns a post by ID.
func (r *ContentRepository) GetPost(ctx context.Context, id int64) (*content.Post, error) {
	query := `
		SELECT id, user_id, title, description, media_link, media_type,
			   is_public, created_at, updated_at
		FROM posts
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanPost(row)
}

// ListPosts returns public posts newest first.
func (r *ContentRepository) ListPosts(ctx context.Context, offset, limit int) ([]*content.Post, error) {
	query := `
		SELECT id, user_id, title, description, media_link, media_type,
			   is_public, created_at, updated_at
		FROM posts
		WHERE is_public
		ORDER BY created_at DESC, id DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	return r.scanPosts(rows)
}

// ListPostsByUser returns a user's posts newest first.
func (r *ContentRepository) ListPostsByUser(ctx context.Context, userID int64, offset, limit int) ([]*content.Post, error) {
	query := `
		SELECT id, user_id, title, description, media_link, media_type,
			   is_public, created_at, updated_at
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.conn.Query(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list user posts: %w", err)
	}
	defer rows.Close()

	return r.scanPosts(rows)
}

// UpdatePost persists mutable post fields.
func (r *ContentRepository) UpdatePost(ctx context.Context, p *content.Post) error {
	query := `
		UPDATE posts
		SET title = $2, description = $3, media_link = $4, media_type = $5,
			is_public = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.conn.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.MediaLink,
		string(p.MediaType),
		p.IsPublic,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return content.ErrPostNotFound
	}
	return nil
}

// DeletePost removes a post; comments and reactions cascade.
func (r *ContentRepository) DeletePost(ctx context.Context, id int64) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return content.ErrPostNotFound
	}
	return nil
}

// CreateComment inserts a comment and assigns its ID.
func (r *ContentRepository) CreateComment(ctx context.Context, c *content.Comment) error {
	query := `
		INSERT INTO comments (post_id, user_id, body, parent_comment_id,
							  created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		c.PostID,
		c.UserID,
		c.Body,
		c.ParentCommentID,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return content.ErrPostNotFound
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetComment returns a comment by ID.
func (r *ContentRepository) GetComment(ctx context.Context, id int64) (*content.Comment, error) {
	query := `
		SELECT id, post_id, user_id, body, parent_comment_id, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	c := &content.Comment{}
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.PostID, &c.UserID, &c.Body,
		&c.ParentCommentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, content.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

// ListComments returns a post's comments oldest first.
func (r *ContentRepository) ListComments(ctx context.Context, postID int64) ([]*content.Comment, error) {
	query := `
		SELECT id, post_id, user_id, body, parent_comment_id, created_at, updated_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.conn.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*content.Comment
	for rows.Next() {
		c := &content.Comment{}
		err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Body,
			&c.ParentCommentID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment; replies cascade.
func (r *ContentRepository) DeleteComment(ctx context.Context, id int64) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return content.ErrCommentNotFound
	}
	return nil
}

// CreateReaction inserts a reaction.
func (r *ContentRepository) CreateReaction(ctx context.Context, reaction *content.Reaction) error {
	query := `
		INSERT INTO post_reactions (post_id, user_id, kind, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		reaction.PostID,
		reaction.UserID,
		reaction.Kind,
		reaction.CreatedAt,
	).Scan(&reaction.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return content.ErrAlreadyReacted
		}
		if IsForeignKeyViolation(err) {
			return content.ErrPostNotFound
		}
		return fmt.Errorf("failed to create reaction: %w", err)
	}
	return nil
}

// UpdateReactionKind replaces the kind of a user's existing reaction.
// Missing reaction is a no-op.
func (r *ContentRepository) UpdateReactionKind(ctx context.Context, postID, userID int64, kind string) error {
	_, err := r.conn.Exec(ctx,
		`UPDATE post_reactions SET kind = $3 WHERE post_id = $1 AND user_id = $2`,
		postID, userID, kind,
	)
	if err != nil {
		return fmt.Errorf("failed to update reaction: %w", err)
	}
	return nil
}

// DeleteReaction removes a user's reaction.
func (r *ContentRepository) DeleteReaction(ctx context.Context, postID, userID int64) error {
	result, err := r.conn.Exec(ctx,
		`DELETE FROM post_reactions WHERE post_id = $1 AND user_id = $2`,
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return content.ErrReactionNotFound
	}
	return nil
}

// CountReactions returns a post's reaction count.
func (r *ContentRepository) CountReactions(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM post_reactions WHERE post_id = $1`, postID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reactions: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *ContentRepository) scanPost(row pgx.Row) (*content.Post, error) {
	p := &content.Post{}
	var mediaType string

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Description,
		&p.MediaLink,
		&mediaType,
		&p.IsPublic,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, content.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	p.MediaType = content.MediaType(mediaType)
	return p, nil
}

func (r *ContentRepository) scanPosts(rows pgx.Rows) ([]*content.Post, error) {
	var posts []*content.Post
	for rows.Next() {
		p, err := r.scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
