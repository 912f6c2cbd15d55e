package repository

import (
	"context"

	"github.com/spec-kit/event-staffing-service/internal/domain"
)

// DonationRepository persists gift records logged at event desks.
type DonationRepository interface {
	Create(ctx context.Context, donation *domain.Donation) error
	ListByEvent(ctx context.Context, eventID string) ([]domain.Donation, error)
}

type donationRepository struct {
	db DBTX
}

// NewDonationRepository instantiates the repository.
func NewDonationRepository(db DBTX) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	const query = `
        INSERT INTO donations (event_id, donor_name, donor_phone, gift_item, amount, notes, status, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		donation.EventID,
		donation.DonorName,
		donation.DonorPhone,
		donation.GiftItem,
		donation.Amount,
		donation.Notes,
		donation.Status,
		donation.CreatedBy,
	).Scan(&donation.ID, &donation.CreatedAt)
}

func (r *donationRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Donation, error) {
	const query = `
        SELECT id, event_id, donor_name, donor_phone, gift_item, amount, notes, status, created_by, created_at
        FROM donations WHERE event_id=$1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Donation
	for rows.Next() {
		var donation domain.Donation
		if err := rows.Scan(
			&donation.ID,
			&donation.EventID,
			&donation.DonorName,
			&donation.DonorPhone,
			&donation.GiftItem,
			&donation.Amount,
			&donation.Notes,
			&donation.Status,
			&donation.CreatedBy,
			&donation.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, donation)
	}
	return result, rows.Err()
}
