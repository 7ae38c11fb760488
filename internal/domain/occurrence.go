package domain

import (
	"context"
	"time"
)

// DeadlineTime is the fixed time-of-day at which registration closes on the
// deadline date.
const DeadlineTime = "23:59"

// Occurrence is one concrete scheduled instance of an Event. Dates and
// times-of-day are stored separately, matching the schedule-entry shape of
// the registration forms ("15:04" strings for times).
// swagger:model Occurrence
type Occurrence struct {
	ID           int64     `json:"id"`
	EventID      int64     `json:"event_id"`
	StartDate    time.Time `json:"start_date"`
	StartTime    string    `json:"start_time"`
	EndDate      time.Time `json:"end_date"`
	EndTime      string    `json:"end_time"`
	Location     string    `json:"location"`
	Capacity     int       `json:"capacity"`
	DeadlineDate time.Time `json:"registration_deadline_date"`
	DeadlineTime string    `json:"registration_deadline_time"`
	CreatedAt    time.Time `json:"created_at"`
}

// OccurrenceRepository defines storage operations for event occurrences.
type OccurrenceRepository interface {
	Create(ctx context.Context, occ *Occurrence) error
	// CreateBatch inserts all occurrences in a single multi-row statement and
	// fills in their generated ids.
	CreateBatch(ctx context.Context, occs []*Occurrence) error
	GetByID(ctx context.Context, id int64) (*Occurrence, error)
	ListByEventID(ctx context.Context, eventID int64) ([]*Occurrence, error)
	// ListOpen returns occurrences whose registration deadline is on or after
	// the given date.
	ListOpen(ctx context.Context, asOf time.Time) ([]*Occurrence, error)
	Update(ctx context.Context, occ *Occurrence) error
}
