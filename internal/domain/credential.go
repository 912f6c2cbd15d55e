package domain

import "time"

// CredentialShadow stores the last-set plaintext secret for a staff
// account so owners can re-send credentials. Storing the plaintext is a
// known defect; the remediation is to keep only the hash and deliver
// the secret out-of-band exactly once.
type CredentialShadow struct {
	ID        string
	UserID    string
	Secret    string
	UpdatedAt time.Time
}
