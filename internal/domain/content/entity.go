// Package content contains the social feed model: posts, comments and
// reactions.
package content

import (
	"errors"
	"strings"
	"time"
)

// MediaType identifies what kind of media a post carries.
type MediaType string

const (
	MediaTypeNone  MediaType = ""
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeDoc   MediaType = "document"
)

// IsValid reports whether the media type is known. The empty type is
// valid and means a text-only post.
func (m MediaType) IsValid() bool {
	switch m {
	case MediaTypeNone, MediaTypeImage, MediaTypeVideo, MediaTypeDoc:
		return true
	default:
		return false
	}
}

// Post is a feed entry published by a user.
type Post struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	MediaLink   string
	MediaType   MediaType
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Comment is a reply on a post. ParentCommentID is set for threaded
// replies and nil for top-level comments.
type Comment struct {
	ID              int64
	PostID          int64
	UserID          int64
	Body            string
	ParentCommentID *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Reaction records one user's reaction on a post. A user holds at most
// one reaction per post.
type Reaction struct {
	ID        int64
	PostID    int64
	UserID    int64
	Kind      string
	CreatedAt time.Time
}

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrInvalidTitle     = errors.New("invalid title: must be 1-255 chars")
	ErrEmptyComment     = errors.New("comment body must not be empty")
	ErrAlreadyReacted   = errors.New("user has already reacted to this post")
	ErrReactionNotFound = errors.New("reaction not found")
)

// NewPost validates and builds a post.
func NewPost(userID int64, title, description, mediaLink string, mediaType MediaType, isPublic bool) (*Post, error) {
	title = strings.TrimSpace(title)
	if len(title) == 0 || len(title) > 255 {
		return nil, ErrInvalidTitle
	}
	if !mediaType.IsValid() {
		return nil, errors.New("invalid media type")
	}

	now := time.Now().UTC()
	return &Post{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(description),
		MediaLink:   mediaLink,
		MediaType:   mediaType,
		IsPublic:    isPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Edit replaces the post's mutable fields after validating them.
func (p *Post) Edit(title, description, mediaLink string, mediaType MediaType, isPublic bool) error {
	title = strings.TrimSpace(title)
	if len(title) == 0 || len(title) > 255 {
		return ErrInvalidTitle
	}
	if !mediaType.IsValid() {
		return errors.New("invalid media type")
	}

	p.Title = title
	p.Description = strings.TrimSpace(description)
	p.MediaLink = mediaLink
	p.MediaType = mediaType
	p.IsPublic = isPublic
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// NewComment validates and builds a comment.
func NewComment(postID, userID int64, body string, parentID *int64) (*Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyComment
	}

	now := time.Now().UTC()
	return &Comment{
		PostID:          postID,
		UserID:          userID,
		Body:            body,
		ParentCommentID: parentID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// NewReaction builds a reaction. Kind defaults to "like".
func NewReaction(postID, userID int64, kind string) *Reaction {
	kind = strings.TrimSpace(strings.ToLower(kind))
	if kind == "" {
		kind = "like"
	}
	return &Reaction{
		PostID:    postID,
		UserID:    userID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}
