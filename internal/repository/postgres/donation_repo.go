package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ellarises/internal/domain"
)

type donationRepository struct {
	DB *sql.DB
}

func NewDonationRepository(db *sql.DB) domain.DonationRepository {
	return &donationRepository{
		DB: db,
	}
}

func (r *donationRepository) Create(ctx context.Context, d *domain.Donation) error {
	query := `
		INSERT INTO donations (donor_name, donor_email, amount_cents, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING donation_id
	`
	return r.DB.QueryRowContext(ctx, query, d.DonorName, d.DonorEmail, d.AmountCents, d.Message, d.CreatedAt).
		Scan(&d.ID)
}

func (r *donationRepository) GetByID(ctx context.Context, id int64) (*domain.Donation, error) {
	query := `
		SELECT donation_id, donor_name, donor_email, amount_cents, message, thank_you_sent_at, created_at
		FROM donations
		WHERE donation_id = $1
	`
	d := &domain.Donation{}
	var sentAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&d.ID, &d.DonorName, &d.DonorEmail, &d.AmountCents, &d.Message, &sentAt, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if sentAt.Valid {
		d.ThankYouSentAt = &sentAt.Time
	}
	return d, nil
}

func (r *donationRepository) List(ctx context.Context, p domain.PaginationParams) ([]*domain.Donation, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM donations`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT donation_id, donor_name, donor_email, amount_cents, message, thank_you_sent_at, created_at
		FROM donations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var donations []*domain.Donation
	for rows.Next() {
		d := &domain.Donation{}
		var sentAt sql.NullTime
		if err := rows.Scan(&d.ID, &d.DonorName, &d.DonorEmail, &d.AmountCents, &d.Message, &sentAt, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		if sentAt.Valid {
			d.ThankYouSentAt = &sentAt.Time
		}
		donations = append(donations, d)
	}
	return donations, total, rows.Err()
}

func (r *donationRepository) MarkThankYouSent(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE donations SET thank_you_sent_at = $2 WHERE donation_id = $1`
	result, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
