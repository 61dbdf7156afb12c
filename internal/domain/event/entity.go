// Package event contains the school event model.
package event

import (
	"errors"
	"strings"
	"time"
)

// MaxMediaURLs bounds the number of media attachments on an event.
const MaxMediaURLs = 5

// Event is a school happening users can mark interest in.
type Event struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	MediaURLs   []string
	CreatedAt   time.Time
}

// InterestType is how a user relates to an event.
type InterestType string

const (
	InterestInterested InterestType = "INTERESTED"
	InterestGoing      InterestType = "GOING"
)

// IsValid reports whether the interest type is known.
func (t InterestType) IsValid() bool {
	return t == InterestInterested || t == InterestGoing
}

// Interest records one user's interest in an event.
type Interest struct {
	ID        int64
	EventID   int64
	UserID    int64
	Type      InterestType
	CreatedAt time.Time
}

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrInvalidEventTitle  = errors.New("invalid event title: must be 1-255 chars")
	ErrTooManyMediaURLs   = errors.New("too many media urls")
	ErrAlreadyInterested  = errors.New("user has already marked interest in this event")
	ErrInvalidInterest    = errors.New("invalid interest type")
	ErrEventInPast        = errors.New("event start time is in the past")
	ErrInterestNotAllowed = errors.New("interest cannot be recorded for this event")
)

// NewEvent validates and builds an event.
func NewEvent(userID int64, title, description, location string, startsAt time.Time, mediaURLs []string) (*Event, error) {
	title = strings.TrimSpace(title)
	if len(title) == 0 || len(title) > 255 {
		return nil, ErrInvalidEventTitle
	}
	if len(mediaURLs) > MaxMediaURLs {
		return nil, ErrTooManyMediaURLs
	}

	urls := make([]string, 0, len(mediaURLs))
	for _, u := range mediaURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}

	return &Event{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Location:    strings.TrimSpace(location),
		StartsAt:    startsAt.UTC(),
		MediaURLs:   urls,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// NewInterest builds an interest record. Type defaults to INTERESTED.
func NewInterest(eventID, userID int64, t InterestType) (*Interest, error) {
	if t == "" {
		t = InterestInterested
	}
	if !t.IsValid() {
		return nil, ErrInvalidInterest
	}
	return &Interest{
		EventID:   eventID,
		UserID:    userID,
		Type:      t,
		CreatedAt: time.Now().UTC(),
	}, nil
}
