package domain

import "time"

// Event is the aggregate for a staffed occasion. Mutated only by its owner.
type Event struct {
	ID        string
	Title     string
	Location  *string
	Date      *time.Time
	Type      string
	ImageURL  *string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
