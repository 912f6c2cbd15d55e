package dto

import "time"

// RosterEntryRequest is one desired roster member in a create/update
// request. ID is empty for members not yet provisioned.
type RosterEntryRequest struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// RosterMemberResponse is a roster member in API responses. The
// password hash never leaves the service.
type RosterMemberResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

// EventResponse is the scalar event representation.
type EventResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Location  *string    `json:"location,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
	Type      string     `json:"type"`
	ImageURL  *string    `json:"image_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// EventDetailResponse includes both role groups.
type EventDetailResponse struct {
	EventResponse
	Presenters    []RosterMemberResponse `json:"presenters"`
	DeskOperators []RosterMemberResponse `json:"desk_operators"`
}

// TemplateResponse carries the current message template.
type TemplateResponse struct {
	Content string `json:"content"`
}
