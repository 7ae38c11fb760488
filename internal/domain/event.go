package domain

import (
	"context"
	"time"
)

// RecurrencePattern controls how event occurrences repeat.
type RecurrencePattern string

// Supported recurrence patterns.
const (
	RecurrenceNone    RecurrencePattern = "None"
	RecurrenceDaily   RecurrencePattern = "Daily"
	RecurrenceWeekly  RecurrencePattern = "Weekly"
	RecurrenceMonthly RecurrencePattern = "Monthly"
)

// Valid reports whether p is one of the supported patterns.
func (p RecurrencePattern) Valid() bool {
	switch p {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// Event is a recurring activity template (e.g. a weekly workshop series).
// Concrete scheduled instances live in event_occurrences.
// swagger:model Event
type Event struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	EventType         string            `json:"event_type"`
	Description       string            `json:"description"`
	RecurrencePattern RecurrencePattern `json:"recurrence_pattern"`
	DefaultCapacity   int               `json:"default_capacity"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// EventWithOccurrences bundles an event with its scheduled occurrences.
type EventWithOccurrences struct {
	Event       *Event        `json:"event"`
	Occurrences []*Occurrence `json:"occurrences"`
}

// EventRepository defines storage operations for event templates.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
}

// CreateEventRequest carries the event template plus the schedule of its
// first occurrence and the recurrence bounds.
type CreateEventRequest struct {
	Event Event

	FirstStartDate       time.Time
	FirstEndDate         time.Time
	StartTime            string
	EndTime              string
	Location             string
	RepeatUntil          time.Time
	RegistrationLeadDays int
}

// CreateEventResult reports what event creation produced.
type CreateEventResult struct {
	Event                *Event        `json:"event"`
	Occurrences          []*Occurrence `json:"occurrences"`
	RegistrationsCreated int64         `json:"registrations_created"`
}

// EventService owns the event template lifecycle: creation with occurrence
// generation and registration fan-out, edits, and cascading deletes.
type EventService interface {
	CreateEvent(ctx context.Context, caller Identity, req *CreateEventRequest) (*CreateEventResult, error)
	UpdateEvent(ctx context.Context, caller Identity, event *Event) (*Event, error)
	GetEvent(ctx context.Context, eventID int64) (*EventWithOccurrences, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	// AddOccurrence inserts one occurrence and fans out default registrations
	// for every existing participant. Returns the occurrence and the number of
	// registrations created.
	AddOccurrence(ctx context.Context, caller Identity, occ *Occurrence) (*Occurrence, int64, error)
	UpdateOccurrence(ctx context.Context, caller Identity, occ *Occurrence) (*Occurrence, error)
	// DeleteEvent removes the event, its occurrences, and all dependent
	// registrations and surveys in one transaction.
	DeleteEvent(ctx context.Context, caller Identity, eventID int64) error
	// DeleteOccurrence removes one occurrence and its dependent registrations
	// and surveys in one transaction.
	DeleteOccurrence(ctx context.Context, caller Identity, occurrenceID int64) error
}
