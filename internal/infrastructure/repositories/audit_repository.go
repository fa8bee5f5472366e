package repositories

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DBAuditEvent is the persisted form of domain.AuditEvent
type DBAuditEvent struct {
	ID        uint              `gorm:"primaryKey"`
	EventType string            `gorm:"size:64;index;not null"`
	UserID    uint              `gorm:"index"`
	Phone     string            `gorm:"size:12;index"`
	Timestamp time.Time         `gorm:"index;not null"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata"`
	IPAddress string            `gorm:"size:64"`
	UserAgent string            `gorm:"size:255"`
	SessionID string            `gorm:"size:64"`
	ErrorMsg  string            `gorm:"type:text"`
	Success   bool              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DBAuditEvent) TableName() string {
	return "audit_events"
}

// AuditLoggerImpl implements domain.AuditLogger by writing rows and a log line
type AuditLoggerImpl struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(db *gorm.DB, log logrus.FieldLogger) domain.AuditLogger {
	return &AuditLoggerImpl{db: db, log: log}
}

// LogEvent implements domain.AuditLogger
func (a *AuditLoggerImpl) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"user_id":    event.UserID,
		"success":    event.Success,
	}
	if event.IPAddress != "" {
		fields["ip"] = event.IPAddress
	}
	entry := a.log.WithFields(fields)
	if event.Success {
		entry.Info("audit event")
	} else {
		entry.WithField("error", event.ErrorMsg).Warn("audit event")
	}

	row := &DBAuditEvent{
		EventType: string(event.EventType),
		UserID:    event.UserID,
		Phone:     event.Phone,
		Timestamp: event.Timestamp,
		Metadata:  datatypes.JSONMap(event.Metadata),
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
		SessionID: event.SessionID,
		ErrorMsg:  event.ErrorMsg,
		Success:   event.Success,
	}
	return a.db.WithContext(ctx).Create(row).Error
}
