package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

func TestAuditLoggerImpl_LogEvent(t *testing.T) {
	db := setupTestDB(t)
	log, hook := test.NewNullLogger()
	audit := NewAuditLogger(db, log)
	ctx := context.Background()

	ok := domain.NewAuditEvent(domain.OTPVerifyEvent, 3).
		WithPhone("989123456789").
		WithClientContext(&domain.ClientContext{IPAddress: "10.0.0.1", UserAgent: "curl"}).
		WithMetadata("created", true)
	require.NoError(t, audit.LogEvent(ctx, ok))

	failed := domain.NewAuditEvent(domain.OTPVerifyFailureEvent, 0).WithError(errors.New("bad code"))
	require.NoError(t, audit.LogEvent(ctx, failed))

	var rows []DBAuditEvent
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "OTP_VERIFIED", rows[0].EventType)
	assert.Equal(t, "10.0.0.1", rows[0].IPAddress)
	assert.Equal(t, true, rows[0].Metadata["created"])
	assert.False(t, rows[1].Success)
	assert.Equal(t, "bad code", rows[1].ErrorMsg)

	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, logrus.InfoLevel, hook.AllEntries()[0].Level)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
