package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

func TestSessionRepositoryImpl_Create(t *testing.T) {
	tests := []struct {
		name      string
		repoTTL   time.Duration
		expiresIn time.Duration
		wantTTL   time.Duration
	}{
		{name: "repository ttl when session outlives it", repoTTL: time.Hour, expiresIn: 2 * time.Hour, wantTTL: time.Hour},
		{name: "session expiry when sooner", repoTTL: time.Hour, expiresIn: 30 * time.Minute, wantTTL: 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mr := setupTestRedis(t)
			repo := NewSessionRepository(client, tt.repoTTL)

			session := &domain.Session{
				ID:        "session_123",
				UserID:    1,
				CreatedAt: time.Now(),
				ExpiresAt: time.Now().Add(tt.expiresIn),
			}
			require.NoError(t, repo.Create(context.Background(), session))

			assert.True(t, mr.Exists("session:session_123"))
			assert.InDelta(t, tt.wantTTL.Seconds(), mr.TTL("session:session_123").Seconds(), 2)
		})
	}
}

func TestSessionRepositoryImpl_FindByID(t *testing.T) {
	tests := []struct {
		name      string
		expiresIn time.Duration
		store     bool
		wantErr   error
	}{
		{name: "active session", expiresIn: time.Hour, store: true},
		{name: "session not found", store: false, wantErr: domain.ErrSessionNotFound},
		{name: "expired session", expiresIn: -time.Hour, store: true, wantErr: domain.ErrSessionExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mr := setupTestRedis(t)
			repo := NewSessionRepository(client, time.Hour)
			ctx := context.Background()

			if tt.store {
				require.NoError(t, repo.Create(ctx, &domain.Session{
					ID:        "sess",
					UserID:    7,
					CreatedAt: time.Now(),
					ExpiresAt: time.Now().Add(tt.expiresIn),
				}))
			}

			session, err := repo.FindByID(ctx, "sess")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantErr == domain.ErrSessionExpired {
					assert.False(t, mr.Exists("session:sess"))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "sess", session.ID)
			assert.Equal(t, uint(7), session.UserID)
		})
	}
}

func TestSessionRepositoryImpl_Delete(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Session{ID: "sess", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, repo.Delete(ctx, "sess"))
	assert.False(t, mr.Exists("session:sess"))

	// Deleting twice is not an error.
	assert.NoError(t, repo.Delete(ctx, "sess"))
}

func TestSessionRepositoryImpl_DeleteExpired(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Session{ID: "live", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}))

	stale, err := json.Marshal(redisSession{ID: "stale", UserID: 2, ExpiresAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	require.NoError(t, mr.Set("session:stale", string(stale)))

	require.NoError(t, repo.DeleteExpired(ctx))

	assert.True(t, mr.Exists("session:live"))
	assert.False(t, mr.Exists("session:stale"))
}
