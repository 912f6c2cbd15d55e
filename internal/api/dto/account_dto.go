package dto

import "time"

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProvisionOwnerRequest payload for admin owner provisioning.
type ProvisionOwnerRequest struct {
	Username  string     `json:"username"`
	Password  string     `json:"password"`
	Phone     string     `json:"phone"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// OwnerResponse is an owner account in admin listings.
type OwnerResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Phone     *string    `json:"phone,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ProvisionedCredentialsResponse returns plaintext credentials exactly
// once, for out-of-band delivery.
type ProvisionedCredentialsResponse struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StaffRosterResponse is a provisioned staff member with the shadow
// secret, for the owner's credential-delivery view.
type StaffRosterResponse struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
	SentCredentials bool   `json:"sent_credentials"`
	EventID         string `json:"event_id,omitempty"`
	EventTitle      string `json:"event_title,omitempty"`
}

// SentCredentialsRequest marks a staff member's credentials delivered.
type SentCredentialsRequest struct {
	StaffID         string `json:"staff_id"`
	SentCredentials bool   `json:"sent_credentials"`
}
