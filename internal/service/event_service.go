package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/event-staffing-service/internal/domain"
	"github.com/spec-kit/event-staffing-service/internal/events"
	"github.com/spec-kit/event-staffing-service/internal/repository"
	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"
)

// EventService is the top-level entry point for event creation and
// update. An update sequences image staging, the scalar attribute
// update, the template append and both roster reconciliations; all
// relational steps share one transaction, the object-store step runs
// before it.
type EventService struct {
	store      repository.Store
	images     *ImageReplacer
	templates  *TemplateService
	reconciler *StaffingReconciler
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// EventDependencies bundles collaborators for the event service.
type EventDependencies struct {
	Store      repository.Store
	Images     *ImageReplacer
	Templates  *TemplateService
	Reconciler *StaffingReconciler
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewEventService constructs the service.
func NewEventService(deps EventDependencies) *EventService {
	return &EventService{
		store:      deps.Store,
		images:     deps.Images,
		templates:  deps.Templates,
		reconciler: deps.Reconciler,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// CreateEventInput describes a creation request.
type CreateEventInput struct {
	Title         string
	Location      *string
	Date          *time.Time
	Type          string
	SMSTemplate   string
	Presenters    []RosterEntry
	DeskOperators []RosterEntry
	Image         ImageAction
}

// UpdateEventInput describes an update request. Removed id lists are
// authoritative: an id present in both a roster and its removal list is
// detached regardless of the roster payload.
type UpdateEventInput struct {
	Title                string
	Location             *string
	Date                 *time.Time
	Type                 string
	SMSTemplate          string
	Presenters           []RosterEntry
	DeskOperators        []RosterEntry
	RemovedPresenters    []string
	RemovedDeskOperators []string
	Image                ImageAction
}

// EventRosters carries an event with its role groups split out.
type EventRosters struct {
	Event         *domain.Event
	Presenters    []domain.User
	DeskOperators []domain.User
}

func requireOwner(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if actor.Role != domain.RoleOwner {
		return apperrors.NewForbidden("owner role required")
	}
	return nil
}

func validateEventAttributes(title, eventType string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(eventType) == "" {
		return apperrors.NewValidationError("title and type are required", nil)
	}
	return nil
}

// CreateEvent provisions an event with its initial rosters, template
// and optional image. The image upload happens before the relational
// transaction opens; everything relational commits atomically.
func (s *EventService) CreateEvent(ctx context.Context, actor *domain.User, input CreateEventInput) (*domain.Event, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}
	if err := validateEventAttributes(input.Title, input.Type); err != nil {
		return nil, err
	}

	imageURL, err := s.images.Stage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		Title:    input.Title,
		Location: input.Location,
		Date:     input.Date,
		Type:     input.Type,
		OwnerID:  actor.ID,
	}
	if imageURL != "" {
		event.ImageURL = &imageURL
	}

	var reconciled []events.RosterReconciledPayload
	var templateAppended bool
	err = s.store.RunInTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Events().Create(ctx, event); err != nil {
			return apperrors.NewStorageError("create event", err)
		}
		if err := tx.Assignments().Attach(ctx, event.ID, actor.ID); err != nil {
			return apperrors.NewStorageError("assign owner to event", err)
		}
		if templateAppended, err = s.templates.AppendRevision(ctx, tx, event.ID, actor.ID, input.SMSTemplate); err != nil {
			return err
		}

		rosters := []struct {
			role    domain.Role
			desired []RosterEntry
		}{
			{domain.RolePresenter, input.Presenters},
			{domain.RoleDeskOperator, input.DeskOperators},
		}
		for _, group := range rosters {
			plan, err := DiffRoster(nil, group.desired, nil)
			if err != nil {
				return err
			}
			if err := s.reconciler.Apply(ctx, tx, event.ID, actor.ID, group.role, plan); err != nil {
				return err
			}
			reconciled = append(reconciled, rosterPayload(group.role, plan))
		}
		return nil
	})
	if err != nil {
		if imageURL != "" {
			// Staged object stays orphaned; collected out of band.
			s.logger.Warn("event create aborted after image staging", zap.String("image_url", imageURL))
		}
		return nil, err
	}

	if templateAppended {
		s.templates.Invalidate(ctx, event.ID)
	}

	s.publish(ctx, actor, events.EventCreated, event.ID, events.EventCreatedPayload{Title: event.Title, Type: event.Type})
	for _, payload := range reconciled {
		s.publish(ctx, actor, events.EventRosterReconciled, event.ID, payload)
	}
	return event, nil
}

// UpdateEvent applies an update request per the reconciliation
// contract: attribute validation, image staging, then one transaction
// covering the scalar update, the template append and both roster
// reconciliations in order. An abort rolls back every relational step
// but not the already-staged image.
func (s *EventService) UpdateEvent(ctx context.Context, actor *domain.User, eventID string, input UpdateEventInput) (*domain.Event, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}
	if err := validateEventAttributes(input.Title, input.Type); err != nil {
		return nil, err
	}

	event, err := s.getOwnedEvent(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}

	stagedURL, err := s.images.Stage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	var supersededURL string
	if event.ImageURL != nil && (stagedURL != "" || input.Image.Remove) {
		supersededURL = *event.ImageURL
	}

	var reconciled []events.RosterReconciledPayload
	var templateAppended bool
	err = s.store.RunInTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		event.Title = input.Title
		event.Location = input.Location
		event.Date = input.Date
		event.Type = input.Type
		switch {
		case stagedURL != "":
			event.ImageURL = &stagedURL
		case input.Image.Remove:
			event.ImageURL = nil
		}
		if err := tx.Events().Update(ctx, event); err != nil {
			return apperrors.NewStorageError("update event", err)
		}

		if templateAppended, err = s.templates.AppendRevision(ctx, tx, event.ID, actor.ID, input.SMSTemplate); err != nil {
			return err
		}

		rosters := []struct {
			role     domain.Role
			desired  []RosterEntry
			removals []string
		}{
			{domain.RolePresenter, input.Presenters, input.RemovedPresenters},
			{domain.RoleDeskOperator, input.DeskOperators, input.RemovedDeskOperators},
		}
		for _, group := range rosters {
			existing, err := tx.Assignments().ListMembers(ctx, event.ID, group.role)
			if err != nil {
				return apperrors.NewStorageError("load current roster", err)
			}
			plan, err := DiffRoster(existing, group.desired, group.removals)
			if err != nil {
				return err
			}
			if err := s.reconciler.Apply(ctx, tx, event.ID, actor.ID, group.role, plan); err != nil {
				return err
			}
			reconciled = append(reconciled, rosterPayload(group.role, plan))
		}
		return nil
	})
	if err != nil {
		if stagedURL != "" {
			// Staged object stays orphaned; collected out of band.
			s.logger.Warn("event update aborted after image staging",
				zap.String("event_id", eventID), zap.String("image_url", stagedURL))
		}
		return nil, err
	}

	// Committed; the old object is at most orphaned from here on.
	s.images.DiscardOld(ctx, supersededURL)
	if templateAppended {
		s.templates.Invalidate(ctx, event.ID)
	}

	s.publish(ctx, actor, events.EventUpdated, event.ID, events.EventUpdatedPayload{
		Title:        event.Title,
		ImageChanged: stagedURL != "" || input.Image.Remove,
	})
	for _, payload := range reconciled {
		s.publish(ctx, actor, events.EventRosterReconciled, event.ID, payload)
	}
	return event, nil
}

// GetEvent returns an event with both role groups resolved. Owners
// must own the event; roster staff must be assigned to it.
func (s *EventService) GetEvent(ctx context.Context, actor *domain.User, eventID string) (*EventRosters, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	var event *domain.Event
	var err error
	switch {
	case actor.Role == domain.RoleOwner:
		event, err = s.getOwnedEvent(ctx, actor, eventID)
	case domain.IsStaffRole(actor.Role):
		event, err = s.getAssignedEvent(ctx, actor, eventID)
	default:
		return nil, apperrors.NewForbidden("owner or roster role required")
	}
	if err != nil {
		return nil, err
	}

	presenters, err := s.store.Assignments().ListMembers(ctx, eventID, domain.RolePresenter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	operators, err := s.store.Assignments().ListMembers(ctx, eventID, domain.RoleDeskOperator)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &EventRosters{Event: event, Presenters: presenters, DeskOperators: operators}, nil
}

// ListEvents returns the events the actor can see: owners get the
// events they own, roster staff get the events they are assigned to.
func (s *EventService) ListEvents(ctx context.Context, actor *domain.User) ([]domain.Event, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	var result []domain.Event
	var err error
	switch {
	case actor.Role == domain.RoleOwner:
		result, err = s.store.Events().ListByOwner(ctx, actor.ID)
	case domain.IsStaffRole(actor.Role):
		result, err = s.store.Events().ListByAssignee(ctx, actor.ID)
	default:
		return nil, apperrors.NewForbidden("owner or roster role required")
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// DeleteEvent removes an owned event. Assignment edges go with it;
// staff accounts survive. The image object is deleted best-effort.
func (s *EventService) DeleteEvent(ctx context.Context, actor *domain.User, eventID string) error {
	if err := requireOwner(actor); err != nil {
		return err
	}
	event, err := s.getOwnedEvent(ctx, actor, eventID)
	if err != nil {
		return err
	}
	if err := s.store.Events().Delete(ctx, eventID); err != nil {
		return apperrors.MapError(err)
	}
	if event.ImageURL != nil {
		s.images.DiscardOld(ctx, *event.ImageURL)
	}
	return nil
}

func (s *EventService) getOwnedEvent(ctx context.Context, actor *domain.User, eventID string) (*domain.Event, error) {
	event, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, apperrors.MapError(err)
	}
	if event.OwnerID != actor.ID {
		return nil, apperrors.NewForbidden("not the event owner")
	}
	return event, nil
}

func (s *EventService) getAssignedEvent(ctx context.Context, actor *domain.User, eventID string) (*domain.Event, error) {
	assigned, err := s.store.Assignments().IsAssigned(ctx, eventID, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !assigned {
		return nil, apperrors.NewForbidden("not assigned to this event")
	}
	event, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, apperrors.MapError(err)
	}
	return event, nil
}

func rosterPayload(role domain.Role, plan RosterPlan) events.RosterReconciledPayload {
	return events.RosterReconciledPayload{
		Role:     role,
		Created:  len(plan.Creates),
		Updated:  len(plan.Updates),
		Detached: len(plan.Detaches),
	}
}

func (s *EventService) publish(ctx context.Context, actor *domain.User, eventType events.EventType, eventID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EventID:   eventID,
		Actor:     events.Actor{UserID: actor.ID, Role: actor.Role},
		Timestamp: time.Now(),
		Payload:   payload,
	}
	_ = s.dispatcher.Publish(ctx, event)
}
