package domain

import "context"

// CascadeRepository executes the multi-table cascading deletes. Each method
// runs in a single transaction, deleting leaves first (surveys, then
// registrations, then milestones where applicable) so no orphaned rows are
// ever visible; any failure rolls the whole cascade back.
//
// Authorization is a precondition: services verify the caller before
// invoking any of these.
type CascadeRepository interface {
	// DeleteEvent removes the event, its occurrences, and all registrations
	// and surveys that reference them.
	DeleteEvent(ctx context.Context, eventID int64) error
	// DeleteOccurrence removes one occurrence with its registrations and
	// surveys.
	DeleteOccurrence(ctx context.Context, occurrenceID int64) error
	// DeleteParticipant removes one participant with their registrations,
	// surveys, and milestones.
	DeleteParticipant(ctx context.Context, participantID int64) error
	// DeleteParentAccount removes the parent row, every participant under it
	// with their dependents, and finally the login credential.
	DeleteParentAccount(ctx context.Context, userID int64) error
}
