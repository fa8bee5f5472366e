package notifications

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwilioService_MockMode(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	svc := NewTwilioService("", "", "", log)

	require.NoError(t, svc.SendSMS("989123456789", "Your code is 123456"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "Your code is 123456", entry.Message)
	assert.Equal(t, "989123456789", entry.Data["to"])
}

func TestTwilioService_MockModeHidesCodesAtInfo(t *testing.T) {
	log, hook := test.NewNullLogger()
	svc := NewTwilioService("", "", "", log)

	require.NoError(t, svc.SendSMS("989123456789", "Your code is 123456"))
	assert.Empty(t, hook.AllEntries())
}
