package events

import (
	"time"

	"github.com/spec-kit/event-staffing-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCreated          EventType = "event_created"
	EventUpdated          EventType = "event_updated"
	EventRosterReconciled EventType = "roster_reconciled"
	EventDonationRecorded EventType = "donation_recorded"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EventID   string      `json:"event_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// EventCreatedPayload payload.
type EventCreatedPayload struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// EventUpdatedPayload payload.
type EventUpdatedPayload struct {
	Title        string `json:"title"`
	ImageChanged bool   `json:"image_changed"`
}

// RosterReconciledPayload payload.
type RosterReconciledPayload struct {
	Role     domain.Role `json:"role"`
	Created  int         `json:"created"`
	Updated  int         `json:"updated"`
	Detached int         `json:"detached"`
}

// DonationRecordedPayload payload.
type DonationRecordedPayload struct {
	DonationID string `json:"donation_id"`
	Amount     int64  `json:"amount"`
}
