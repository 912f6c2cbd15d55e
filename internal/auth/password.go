package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"
)

// HashSecret hashes a plaintext secret with the configured cost. The
// hash must exist before any account row referencing it becomes
// visible, so callers hash before inserting.
func HashSecret(plaintext string, cost int) (string, error) {
	if strings.TrimSpace(plaintext) == "" {
		return "", apperrors.NewValidationError("secret must not be empty", nil)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CompareSecret verifies a plaintext secret against its hashed value in
// constant time.
func CompareSecret(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
