package domain

import (
	"context"
	"time"
)

// Participant represents an enrolled child, owned by exactly one parent.
// Registrations join on the participant id; email is a mutable contact
// attribute, not an identity key.
// swagger:model Participant
type Participant struct {
	ID               int64      `json:"id"`
	ParentID         int64      `json:"parent_id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Email            string     `json:"email"`
	DOB              *time.Time `json:"dob,omitempty"`
	Grade            string     `json:"grade"`
	SchoolOrEmployer string     `json:"school_or_employer"`
	FieldOfInterest  string     `json:"field_of_interest"`
	GraduationStatus string     `json:"graduation_status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ParticipantRepository defines storage operations for participants.
type ParticipantRepository interface {
	Create(ctx context.Context, p *Participant) error
	GetByID(ctx context.Context, id int64) (*Participant, error)
	ListByParentID(ctx context.Context, parentID int64) ([]*Participant, error)
	Update(ctx context.Context, p *Participant) error
}

// SignUpRequest carries everything needed to create a full account:
// login credential, parent profile, and the first participant.
type SignUpRequest struct {
	Username string
	Password string

	Parent      Parent
	Participant Participant
}

// SignUpResult reports the rows created during signup.
type SignUpResult struct {
	Token               string       `json:"token"`
	Login               *Login       `json:"login"`
	Parent              *Parent      `json:"parent"`
	Participant         *Participant `json:"participant"`
	RegistrationsCreated int64       `json:"registrations_created"`
}

// EnrollmentService owns the account and participant lifecycle, including the
// registration fan-out on participant creation and the cascading deletes.
type EnrollmentService interface {
	SignUp(ctx context.Context, req *SignUpRequest) (*SignUpResult, error)
	AddParticipant(ctx context.Context, caller Identity, p *Participant) (*Participant, int64, error)
	UpdateParticipant(ctx context.Context, caller Identity, p *Participant) (*Participant, error)
	UpdateParent(ctx context.Context, caller Identity, parent *Parent) (*Parent, error)
	GetAccount(ctx context.Context, caller Identity, userID int64) (*Parent, []*Participant, error)
	// DeleteParticipant removes a participant with all dependent surveys,
	// registrations, and milestones in one transaction.
	DeleteParticipant(ctx context.Context, caller Identity, participantID int64) error
	// DeleteParentAccount removes the parent, all participants and their
	// dependents, and the login credential in one transaction. Manager only.
	DeleteParentAccount(ctx context.Context, caller Identity, userID int64) error
}
