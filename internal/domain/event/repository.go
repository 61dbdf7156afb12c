package event

import (
	"context"
	"time"
)

// Repository defines storage operations for events and interests.
type Repository interface {
	// CreateEvent inserts an event and assigns its ID.
	CreateEvent(ctx context.Context, e *Event) error

	// GetEvent returns an event by ID.
	// Returns ErrEventNotFound when no such event exists.
	GetEvent(ctx context.Context, id int64) (*Event, error)

	// ListUpcoming returns events starting at or after the given instant,
	// soonest first.
	ListUpcoming(ctx context.Context, after time.Time, offset, limit int) ([]*Event, error)

	// DeleteEvent removes an event together with its interests.
	DeleteEvent(ctx context.Context, id int64) error

	// CreateInterest inserts an interest record.
	// Returns ErrAlreadyInterested when the user already marked this event.
	CreateInterest(ctx context.Context, i *Interest) error

	// CountInterests returns an event's interest count.
	CountInterests(ctx context.Context, eventID int64) (int, error)
}
