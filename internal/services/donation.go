package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ellarises/internal/domain"
)

type donationService struct {
	donationRepo domain.DonationRepository
	emailSvc     domain.EmailService
}

// NewDonationService creates a DonationService. emailSvc may be nil, in which
// case SendThankYou fails.
func NewDonationService(donationRepo domain.DonationRepository, emailSvc domain.EmailService) domain.DonationService {
	return &donationService{
		donationRepo: donationRepo,
		emailSvc:     emailSvc,
	}
}

func (s *donationService) Record(ctx context.Context, d *domain.Donation) (*domain.Donation, error) {
	if d.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: donation amount must be positive", domain.ErrInvalidInput)
	}
	email := strings.TrimSpace(strings.ToLower(d.DonorEmail))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid donor email", domain.ErrInvalidInput)
	}
	d.DonorEmail = email
	d.CreatedAt = time.Now()
	if err := s.donationRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}
	return d, nil
}

func (s *donationService) List(ctx context.Context, caller domain.Identity, p domain.PaginationParams) ([]*domain.Donation, int, error) {
	if !caller.IsManager() {
		return nil, 0, domain.ErrForbidden
	}
	donations, total, err := s.donationRepo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list donations: %w", err)
	}
	if donations == nil {
		donations = []*domain.Donation{}
	}
	return donations, total, nil
}

func (s *donationService) SendThankYou(ctx context.Context, caller domain.Identity, donationID int64) error {
	if !caller.IsManager() {
		return domain.ErrForbidden
	}
	if s.emailSvc == nil {
		return fmt.Errorf("no email service configured")
	}
	donation, err := s.donationRepo.GetByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get donation: %w", err)
	}
	if err := s.emailSvc.SendDonationThankYou(ctx, &domain.DonationThankYouEmailData{
		Email:       donation.DonorEmail,
		DonorName:   donation.DonorName,
		AmountCents: donation.AmountCents,
	}); err != nil {
		return fmt.Errorf("send thank-you email: %w", err)
	}
	if err := s.donationRepo.MarkThankYouSent(ctx, donationID, time.Now()); err != nil {
		return fmt.Errorf("mark thank-you sent: %w", err)
	}
	return nil
}
