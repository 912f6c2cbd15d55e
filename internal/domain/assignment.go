package domain

import "time"

// Assignment is the many-to-many edge linking a staff account to an
// event. Destroyed only via explicit detachment, never cascaded from
// roster edits.
type Assignment struct {
	EventID   string
	UserID    string
	CreatedAt time.Time
}
