package domain

import (
	"context"
	"time"
)

// Donation is a one-off gift recorded from the public donation form.
// swagger:model Donation
type Donation struct {
	ID            int64      `json:"id"`
	DonorName     string     `json:"donor_name"`
	DonorEmail    string     `json:"donor_email"`
	AmountCents   int64      `json:"amount_cents"`
	Message       string     `json:"message"`
	ThankYouSentAt *time.Time `json:"thank_you_sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// DonationRepository defines storage operations for donations.
type DonationRepository interface {
	Create(ctx context.Context, d *Donation) error
	GetByID(ctx context.Context, id int64) (*Donation, error)
	List(ctx context.Context, p PaginationParams) ([]*Donation, int, error)
	MarkThankYouSent(ctx context.Context, id int64, at time.Time) error
}

// DonationService records donations and sends thank-you mail.
type DonationService interface {
	Record(ctx context.Context, d *Donation) (*Donation, error)
	List(ctx context.Context, caller Identity, p PaginationParams) ([]*Donation, int, error)
	// SendThankYou emails the donor and stamps the donation. Manager only.
	SendThankYou(ctx context.Context, caller Identity, donationID int64) error
}
