package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/event"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// EventRepository implements event.Repository for PostgreSQL.
type EventRepository struct {
	conn *Connection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(conn *Connection) *EventRepository {
	return &EventRepository{conn: conn}
}

// CreateEvent inserts an event and assigns its ID.
func (r *EventRepository) CreateEvent(ctx context.Context, e *event.Event) error {
	query := `
		INSERT INTO events (user_id, title, description, location, starts_at,
							media_urls, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		e.UserID,
		e.Title,
		e.Description,
		e.Location,
		e.StartsAt,
		e.MediaURLs,
		e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetEvent returns an event by ID.
func (r *EventRepository) GetEvent(ctx context.Context, id int64) (*event.Event, error) {
	query := `
		SELECT id, user_id, title, description, location, starts_at,
			   media_urls, created_at
		FROM events
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanEvent(row)
}

// ListUpcoming returns events starting at or after the given instant.
func (r *EventRepository) ListUpcoming(ctx context.Context, after time.Time, offset, limit int) ([]*event.Event, error) {
	query := `
		SELECT id, user_id, title, description, location, starts_at,
			   media_urls, created_at
		FROM events
		WHERE starts_at >= $1
		ORDER BY starts_at ASC, id ASC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.conn.Query(ctx, query, after, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*event.Event
	for rows.Next() {
		e, err := r.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteEvent removes an event; interests cascade.
func (r *EventRepository) DeleteEvent(ctx context.Context, id int64) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// CreateInterest inserts an interest record.
func (r *EventRepository) CreateInterest(ctx context.Context, i *event.Interest) error {
	query := `
		INSERT INTO event_interests (event_id, user_id, interest_type, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		i.EventID,
		i.UserID,
		string(i.Type),
		i.CreatedAt,
	).Scan(&i.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return event.ErrAlreadyInterested
		}
		if IsForeignKeyViolation(err) {
			return event.ErrEventNotFound
		}
		return fmt.Errorf("failed to create interest: %w", err)
	}
	return nil
}

// CountInterests returns an event's interest count.
func (r *EventRepository) CountInterests(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_interests WHERE event_id = $1`, eventID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count interests: %w", err)
	}
	return count, nil
}

func (r *EventRepository) scanEvent(row pgx.Row) (*event.Event, error) {
	e := &event.Event{}
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Title,
		&e.Description,
		&e.Location,
		&e.StartsAt,
		&e.MediaURLs,
		&e.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	return e, nil
}
