package domain

import "time"

// DonationStatus enumerates lifecycle states for logged gifts.
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "PENDING"
	DonationStatusConfirmed DonationStatus = "CONFIRMED"
)

// Donation records a gift logged at an event desk.
type Donation struct {
	ID         string
	EventID    string
	DonorName  string
	DonorPhone *string
	GiftItem   *string
	Amount     int64
	Notes      *string
	Status     DonationStatus
	CreatedBy  string
	CreatedAt  time.Time
}
