package repository

import (
	"context"

	"github.com/spec-kit/event-staffing-service/internal/domain"
)

// CredentialRepository persists the plaintext credential shadow kept
// alongside each staff account's hash.
type CredentialRepository interface {
	Upsert(ctx context.Context, userID, secret string) error
	GetByUserID(ctx context.Context, userID string) (*domain.CredentialShadow, error)
}

type credentialRepository struct {
	db DBTX
}

// NewCredentialRepository instantiates the repository.
func NewCredentialRepository(db DBTX) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Upsert(ctx context.Context, userID, secret string) error {
	const query = `
        INSERT INTO credential_shadows (user_id, secret)
        VALUES ($1,$2)
        ON CONFLICT (user_id) DO UPDATE SET secret=EXCLUDED.secret, updated_at=NOW()`

	_, err := r.db.Exec(ctx, query, userID, secret)
	return err
}

func (r *credentialRepository) GetByUserID(ctx context.Context, userID string) (*domain.CredentialShadow, error) {
	const query = `
        SELECT id, user_id, secret, updated_at
        FROM credential_shadows WHERE user_id=$1`

	var shadow domain.CredentialShadow
	if err := r.db.QueryRow(ctx, query, userID).Scan(
		&shadow.ID,
		&shadow.UserID,
		&shadow.Secret,
		&shadow.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &shadow, nil
}
