package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/event-staffing-service/internal/events"
	"github.com/spec-kit/event-staffing-service/internal/observability"
)

// AuditService consumes domain events, writing an audit log line and a
// per-type counter for each. It subscribes itself on construction.
type AuditService struct {
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewAuditService constructs the service and subscribes it to every
// event type the services publish.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	s := &AuditService{logger: logger, metrics: metrics}
	for _, eventType := range []events.EventType{
		events.EventCreated,
		events.EventUpdated,
		events.EventRosterReconciled,
		events.EventDonationRecorded,
	} {
		dispatcher.Subscribe(eventType, s.handle)
	}
	return s
}

func (s *AuditService) handle(ctx context.Context, event events.Event) error {
	s.logger.Info("domain event",
		zap.String("type", string(event.Type)),
		zap.String("event_id", event.EventID),
		zap.String("actor_id", event.Actor.UserID),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.Time("at", event.Timestamp),
	)
	s.metrics.RecordDomainEvent(string(event.Type))
	return nil
}
