package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-staffing-service/internal/domain"
)

// EventRepository handles persistence for events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Event, error)
	ListByAssignee(ctx context.Context, userID string) ([]domain.Event, error)
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
}

type eventRepository struct {
	db DBTX
}

// NewEventRepository instantiates the repository.
func NewEventRepository(db DBTX) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (title, location, event_date, type, image_url, owner_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		event.Title,
		event.Location,
		event.Date,
		event.Type,
		event.ImageURL,
		event.OwnerID,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE events
        SET title=$1, location=$2, event_date=$3, type=$4, image_url=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.db.Exec(ctx, query,
		event.Title,
		event.Location,
		event.Date,
		event.Type,
		event.ImageURL,
		event.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	const query = `
        SELECT id, title, location, event_date, type, image_url, owner_id, created_at, updated_at
        FROM events WHERE id=$1`

	var event domain.Event
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Location,
		&event.Date,
		&event.Type,
		&event.ImageURL,
		&event.OwnerID,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Event, error) {
	const query = `
        SELECT id, title, location, event_date, type, image_url, owner_id, created_at, updated_at
        FROM events WHERE owner_id=$1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListByAssignee returns the events a user is assigned to, in
// assignment order.
func (r *eventRepository) ListByAssignee(ctx context.Context, userID string) ([]domain.Event, error) {
	const query = `
        SELECT e.id, e.title, e.location, e.event_date, e.type, e.image_url, e.owner_id, e.created_at, e.updated_at
        FROM events e
        JOIN event_assignments a ON a.event_id = e.id
        WHERE a.user_id=$1
        ORDER BY a.created_at ASC, e.id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]domain.Event, error) {
	var result []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Location,
			&event.Date,
			&event.Type,
			&event.ImageURL,
			&event.OwnerID,
			&event.CreatedAt,
			&event.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM events WHERE owner_id=$1`, ownerID)
	return err
}
