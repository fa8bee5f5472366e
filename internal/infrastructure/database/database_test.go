package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/logging"
	"gorm.io/gorm/logger"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open("sqlite://file::memory:?cache=shared", logging.Discard())
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{"users", "phone_otps", "blogs", "categories", "blog_categories", "blog_likes", "content_types", "comments", "audit_events"} {
		assert.True(t, db.Migrator().HasTable(table), "expected table %s", table)
	}
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, logger.Info, gormLevel(logrus.DebugLevel))
	assert.Equal(t, logger.Warn, gormLevel(logrus.InfoLevel))
	assert.Equal(t, logger.Error, gormLevel(logrus.ErrorLevel))
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	_, err = NewRedis(context.Background(), mr.Addr(), "", 0)
	assert.Error(t, err)
}
