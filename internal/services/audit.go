package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// recordAudit writes event when an audit logger is configured. Failures are logged, never returned.
func recordAudit(ctx context.Context, auditLogger domain.AuditLogger, log logrus.FieldLogger, event *domain.AuditEvent) {
	if auditLogger == nil {
		return
	}
	if err := auditLogger.LogEvent(ctx, event); err != nil {
		log.WithError(err).WithField("event_type", event.EventType).Warn("failed to write audit event")
	}
}
