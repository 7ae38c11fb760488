package domain

import (
	"context"
	"fmt"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeMessageEmailData holds data for the welcome email sent on signup.
type WelcomeMessageEmailData struct {
	Email     string
	FirstName string
	Language  string // optional, for future locale/templates
}

// DonationThankYouEmailData holds data for the donation thank-you email.
type DonationThankYouEmailData struct {
	Email       string
	DonorName   string
	AmountCents int64
}

// AmountDollars formats the donation amount for display in templates.
func (d *DonationThankYouEmailData) AmountDollars() string {
	return fmt.Sprintf("$%d.%02d", d.AmountCents/100, d.AmountCents%100)
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendDonationThankYou(ctx context.Context, data *DonationThankYouEmailData) error
}
