package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-staffing-service/internal/domain"
	"github.com/spec-kit/event-staffing-service/internal/events"
	"github.com/spec-kit/event-staffing-service/internal/repository"
	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"
)

// DonationService records and lists gifts for event staff.
type DonationService struct {
	store      repository.Store
	templates  *TemplateService
	dispatcher events.Dispatcher
}

// NewDonationService constructs the service.
func NewDonationService(store repository.Store, templates *TemplateService, dispatcher events.Dispatcher) *DonationService {
	return &DonationService{store: store, templates: templates, dispatcher: dispatcher}
}

// DonationInput describes a gift to record.
type DonationInput struct {
	DonorName       string
	DonorPhone      *string
	GiftItem        *string
	Amount          int64
	Notes           *string
	RequestTemplate bool
}

// RecordResult bundles the stored donation with the current template
// content when the caller asked for it (client-side SMS composition).
type RecordResult struct {
	Donation *domain.Donation
	Template string
}

// Record logs a donation for an event. Only desk operators assigned to
// the event may record.
func (s *DonationService) Record(ctx context.Context, actor *domain.User, eventID string, input DonationInput) (*RecordResult, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if actor.Role != domain.RoleDeskOperator {
		return nil, apperrors.NewForbidden("desk operator role required")
	}
	if err := s.requireAssigned(ctx, eventID, actor.ID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.DonorName) == "" {
		return nil, apperrors.NewValidationError("donor name is required", nil)
	}

	donation := &domain.Donation{
		EventID:    eventID,
		DonorName:  input.DonorName,
		DonorPhone: input.DonorPhone,
		GiftItem:   input.GiftItem,
		Amount:     input.Amount,
		Notes:      input.Notes,
		Status:     domain.DonationStatusPending,
		CreatedBy:  actor.ID,
	}
	if err := s.store.Donations().Create(ctx, donation); err != nil {
		return nil, apperrors.NewStorageError("record donation", err)
	}

	result := &RecordResult{Donation: donation}
	if input.RequestTemplate {
		template, err := s.templates.Current(ctx, eventID)
		if err != nil {
			return nil, err
		}
		result.Template = template
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventDonationRecorded,
			EventID:   eventID,
			Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
			Timestamp: time.Now(),
			Payload:   events.DonationRecordedPayload{DonationID: donation.ID, Amount: donation.Amount},
		})
	}
	return result, nil
}

// List returns an event's donations for assigned staff.
func (s *DonationService) List(ctx context.Context, actor *domain.User, eventID string) ([]domain.Donation, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !domain.IsStaffRole(actor.Role) {
		return nil, apperrors.NewForbidden("staff role required")
	}
	if err := s.requireAssigned(ctx, eventID, actor.ID); err != nil {
		return nil, err
	}

	donations, err := s.store.Donations().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return donations, nil
}

func (s *DonationService) requireAssigned(ctx context.Context, eventID, userID string) error {
	assigned, err := s.store.Assignments().IsAssigned(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewForbidden("not assigned to this event")
		}
		return apperrors.MapError(err)
	}
	if !assigned {
		return apperrors.NewForbidden("not assigned to this event")
	}
	return nil
}
