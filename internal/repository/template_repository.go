package repository

import (
	"context"

	"github.com/spec-kit/event-staffing-service/internal/domain"
)

// TemplateRepository stores append-only message template revisions.
// Rows are immutable once created; there is no update or delete path.
type TemplateRepository interface {
	Append(ctx context.Context, revision *domain.TemplateRevision) error
	Latest(ctx context.Context, eventID string) (*domain.TemplateRevision, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.TemplateRevision, error)
}

type templateRepository struct {
	db DBTX
}

// NewTemplateRepository instantiates the repository.
func NewTemplateRepository(db DBTX) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Append(ctx context.Context, revision *domain.TemplateRevision) error {
	const query = `
        INSERT INTO sms_template_revisions (event_id, content, created_by)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		revision.EventID,
		revision.Content,
		revision.CreatedBy,
	).Scan(&revision.ID, &revision.CreatedAt)
}

func (r *templateRepository) Latest(ctx context.Context, eventID string) (*domain.TemplateRevision, error) {
	const query = `
        SELECT id, event_id, content, created_by, created_at
        FROM sms_template_revisions WHERE event_id=$1
        ORDER BY created_at DESC, id DESC LIMIT 1`

	var revision domain.TemplateRevision
	if err := r.db.QueryRow(ctx, query, eventID).Scan(
		&revision.ID,
		&revision.EventID,
		&revision.Content,
		&revision.CreatedBy,
		&revision.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &revision, nil
}

func (r *templateRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.TemplateRevision, error) {
	const query = `
        SELECT id, event_id, content, created_by, created_at
        FROM sms_template_revisions WHERE event_id=$1
        ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TemplateRevision
	for rows.Next() {
		var revision domain.TemplateRevision
		if err := rows.Scan(
			&revision.ID,
			&revision.EventID,
			&revision.Content,
			&revision.CreatedBy,
			&revision.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, revision)
	}
	return result, rows.Err()
}
