package query

import (
	"context"
	"fmt"
	"time"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/event"
)

// ListEventsQuery contains event listing parameters.
type ListEventsQuery struct {
	// After bounds the listing to events starting at or after this
	// instant; zero means now.
	After  time.Time
	Offset int
	Limit  int
}

// Validate normalizes the query.
func (q *ListEventsQuery) Validate() error {
	if q.After.IsZero() {
		q.After = time.Now().UTC()
	}
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

// EventDTO is one event listing entry.
type EventDTO struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	MediaURLs   []string  `json:"media_urls,omitempty"`
	Interested  int       `json:"interested"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListEventsHandler handles event read operations.
type ListEventsHandler struct {
	events event.Repository
}

// NewListEventsHandler creates a new ListEventsHandler.
func NewListEventsHandler(events event.Repository) *ListEventsHandler {
	return &ListEventsHandler{events: events}
}

// Get returns one event with its interest count.
func (h *ListEventsHandler) Get(ctx context.Context, id int64) (*EventDTO, error) {
	if id <= 0 {
		return nil, event.ErrEventNotFound
	}

	e, err := h.events.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	interested, err := h.events.CountInterests(ctx, e.ID)
	if err != nil {
		interested = 0
	}

	return &EventDTO{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		MediaURLs:   e.MediaURLs,
		Interested:  interested,
		CreatedAt:   e.CreatedAt,
	}, nil
}

// Handle returns upcoming events soonest first.
func (h *ListEventsHandler) Handle(ctx context.Context, q ListEventsQuery) ([]EventDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	events, err := h.events.ListUpcoming(ctx, q.After, q.Offset, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list_events: %w", err)
	}

	out := make([]EventDTO, 0, len(events))
	for _, e := range events {
		interested, err := h.events.CountInterests(ctx, e.ID)
		if err != nil {
			interested = 0
		}
		out = append(out, EventDTO{
			ID:          e.ID,
			UserID:      e.UserID,
			Title:       e.Title,
			Description: e.Description,
			Location:    e.Location,
			StartsAt:    e.StartsAt,
			MediaURLs:   e.MediaURLs,
			Interested:  interested,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out, nil
}
