package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/event"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/scoring"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVENT COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// CreateEventCommand contains the data to create an event.
type CreateEventCommand struct {
	UserID      user.UserID
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	MediaURLs   []string
}

// Validate validates the command.
func (c CreateEventCommand) Validate() error {
	if !c.UserID.IsValid() {
		return errors.New("create_event: user_id is required")
	}
	if c.Title == "" {
		return event.ErrInvalidEventTitle
	}
	if c.StartsAt.IsZero() {
		return errors.New("create_event: start time is required")
	}
	return nil
}

// CreateEventResult contains the created event and the score outcome.
type CreateEventResult struct {
	Event *event.Event
	Score *ScoreUpdateResult
}

// MarkInterestCommand contains the data to mark interest in an event.
type MarkInterestCommand struct {
	EventID int64
	UserID  user.UserID
	Type    event.InterestType
}

// Validate validates the command.
func (c MarkInterestCommand) Validate() error {
	if c.EventID <= 0 {
		return errors.New("mark_interest: event_id is required")
	}
	if !c.UserID.IsValid() {
		return errors.New("mark_interest: user_id is required")
	}
	return nil
}

// MarkInterestResult contains the stored interest and the score outcome.
type MarkInterestResult struct {
	Interest *event.Interest
	Score    *ScoreUpdateResult
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// EventHandler handles event creation and interest marking.
type EventHandler struct {
	events event.Repository
	scores ScoreUpdater
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events event.Repository, scores ScoreUpdater) *EventHandler {
	return &EventHandler{events: events, scores: scores}
}

// Create stores an event and awards score to its creator.
func (h *EventHandler) Create(ctx context.Context, cmd CreateEventCommand) (*CreateEventResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ev, err := event.NewEvent(int64(cmd.UserID), cmd.Title, cmd.Description, cmd.Location, cmd.StartsAt, cmd.MediaURLs)
	if err != nil {
		return nil, err
	}

	if err := h.events.CreateEvent(ctx, ev); err != nil {
		return nil, fmt.Errorf("create_event: %w", err)
	}

	score := h.scores.Apply(ctx, cmd.UserID, scoring.ActionEventCreated)

	return &CreateEventResult{Event: ev, Score: score}, nil
}

// MarkInterest stores an interest record and awards score to the user.
// Returns event.ErrAlreadyInterested when the user already marked this event.
func (h *EventHandler) MarkInterest(ctx context.Context, cmd MarkInterestCommand) (*MarkInterestResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	interest, err := event.NewInterest(cmd.EventID, int64(cmd.UserID), cmd.Type)
	if err != nil {
		return nil, err
	}

	if err := h.events.CreateInterest(ctx, interest); err != nil {
		return nil, fmt.Errorf("mark_interest: %w", err)
	}

	score := h.scores.Apply(ctx, cmd.UserID, scoring.ActionEventInterest)

	return &MarkInterestResult{Interest: interest, Score: score}, nil
}

// Delete removes an event together with its interests. Only the creator
// or an admin may delete an event.
func (h *EventHandler) Delete(ctx context.Context, eventID int64, actorID user.UserID, actorRole user.Role) error {
	if eventID <= 0 || !actorID.IsValid() {
		return errors.New("delete_event: event_id and actor are required")
	}

	ev, err := h.events.GetEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("delete_event: %w", err)
	}
	if !canModify(ev.UserID, actorID, actorRole) {
		return ErrNotOwner
	}

	if err := h.events.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("delete_event: %w", err)
	}
	return nil
}
