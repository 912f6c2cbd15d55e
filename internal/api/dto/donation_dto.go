package dto

import "time"

// DonationRequest payload for recording a gift.
type DonationRequest struct {
	DonorName  string  `json:"donor_name"`
	DonorPhone *string `json:"donor_phone,omitempty"`
	GiftItem   *string `json:"gift_item,omitempty"`
	Amount     int64   `json:"amount"`
	Notes      *string `json:"notes,omitempty"`
	SendSMS    bool    `json:"send_sms"`
}

// DonationResponse is a stored donation.
type DonationResponse struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	DonorName  string    `json:"donor_name"`
	DonorPhone *string   `json:"donor_phone,omitempty"`
	GiftItem   *string   `json:"gift_item,omitempty"`
	Amount     int64     `json:"amount"`
	Notes      *string   `json:"notes,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
