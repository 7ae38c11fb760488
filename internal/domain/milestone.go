package domain

import (
	"context"
	"time"
)

// Milestone statuses are free text; these are the values the forms offer.
const (
	MilestoneNotStarted = "Not Started"
	MilestoneInProgress = "In Progress"
	MilestoneCompleted  = "Completed"
)

// Milestone is a personal goal tracked for one participant, independent of
// events. Deleted with the participant cascade.
// swagger:model Milestone
type Milestone struct {
	ID            int64      `json:"id"`
	ParticipantID int64      `json:"participant_id"`
	Title         string     `json:"title"`
	Date          *time.Time `json:"date,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MilestoneRepository defines storage operations for milestones.
type MilestoneRepository interface {
	Create(ctx context.Context, m *Milestone) error
	GetByID(ctx context.Context, id int64) (*Milestone, error)
	ListByParticipantID(ctx context.Context, participantID int64) ([]*Milestone, error)
	Update(ctx context.Context, m *Milestone) error
	Delete(ctx context.Context, id int64) error
}

// MilestoneService owns milestone CRUD with parent-ownership checks.
type MilestoneService interface {
	Add(ctx context.Context, caller Identity, m *Milestone) (*Milestone, error)
	Update(ctx context.Context, caller Identity, m *Milestone) (*Milestone, error)
	Delete(ctx context.Context, caller Identity, milestoneID int64) error
	ListForParticipant(ctx context.Context, caller Identity, participantID int64) ([]*Milestone, error)
}
