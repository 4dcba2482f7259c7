package service

import (
	"context"

	"ai-model-advisor-be/internal/pkg/logger"
	"ai-model-advisor-be/pkg/events"
)

// IAuditService records every event flowing over the advisor bus into the
// structured log, giving operators a durable trail of registrations, logins,
// completed turns and session resets.
type IAuditService interface {
	HandleEvent(ctx context.Context, event events.Event) error
}

type auditService struct {
	logger logger.ILogger
}

func NewAuditService(logger logger.ILogger) IAuditService {
	return &auditService{logger: logger}
}

func (s *auditService) HandleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("audit", "Event received", map[string]interface{}{
		"event_type":  event.EventType(),
		"occurred_at": event.Timestamp(),
		"payload":     event.Payload(),
	})
	return nil
}
