package domain

import (
	"context"
	"time"
)

// Registration statuses. The strings match the values the original data set
// carries, inconsistent casing included, so existing rows read back unchanged.
const (
	StatusNotAttending     = "Not attending"
	StatusPlanningToAttend = "Planning to attend"
	StatusRegistered       = "registered"
)

// Registration links one Participant to one Occurrence. At most one row per
// (participant, occurrence) pair, enforced by a unique constraint.
// swagger:model Registration
type Registration struct {
	ID            int64      `json:"id"`
	ParticipantID int64      `json:"participant_id"`
	OccurrenceID  int64      `json:"occurrence_id"`
	Status        string     `json:"status"`
	Attended      bool       `json:"attended"`
	CheckinAt     *time.Time `json:"checkin_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// RegistrationWithOccurrence bundles a registration with its occurrence and
// the owning event's name, for account and check-in views.
type RegistrationWithOccurrence struct {
	Registration *Registration `json:"registration"`
	Occurrence   *Occurrence   `json:"occurrence"`
	EventName    string        `json:"event_name"`
}

// RegistrationRepository defines storage operations for registrations,
// including the bulk fan-out inserts.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id int64) (*Registration, error)
	GetByParticipantAndOccurrence(ctx context.Context, participantID, occurrenceID int64) (*Registration, error)
	ListByParticipantID(ctx context.Context, participantID int64) ([]*RegistrationWithOccurrence, error)
	ListByOccurrenceID(ctx context.Context, occurrenceID int64) ([]*Registration, error)
	UpdateStatus(ctx context.Context, registrationID int64, status string) error
	// CheckIn marks the registration attended with the given timestamp.
	CheckIn(ctx context.Context, registrationID int64, at time.Time) error

	// FanOutOccurrence creates one default registration per existing
	// participant for the given occurrence, as a single batched insert.
	// Conflicting pairs are skipped; returns the number of rows created.
	FanOutOccurrence(ctx context.Context, occurrenceID int64) (int64, error)
	// FanOutParticipant creates one default registration per occurrence whose
	// registration deadline is on or after asOf, as a single batched insert.
	// Conflicting pairs are skipped; returns the number of rows created.
	FanOutParticipant(ctx context.Context, participantID int64, asOf time.Time) (int64, error)
}

// AttendanceService owns registration state: explicit self-registration,
// status changes by the owning parent, and manager check-in.
type AttendanceService interface {
	// Register registers a participant for an occurrence with status
	// "registered". Idempotent: returns (reg, false, nil) when the pair
	// already exists.
	Register(ctx context.Context, caller Identity, participantID, occurrenceID int64) (*Registration, bool, error)
	SetStatus(ctx context.Context, caller Identity, registrationID int64, status string) error
	// CheckIn marks attendance and creates the blank survey for the
	// registration if one does not exist yet. Manager only.
	CheckIn(ctx context.Context, caller Identity, registrationID int64) (*Registration, error)
	ListForParticipant(ctx context.Context, caller Identity, participantID int64) ([]*RegistrationWithOccurrence, error)
	ListForOccurrence(ctx context.Context, caller Identity, occurrenceID int64) ([]*Registration, error)
}
