package mocks_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/mocks"
)

func TestMockCasbinEnforcer_Enforce(t *testing.T) {
	e := mocks.NewMockCasbinEnforcer()
	_, _ = e.AddPolicy("role_user", "/api/comment/:id", "(PUT|DELETE)")
	_, _ = e.AddPolicy("role_admin", "/api/admin/*", "GET")
	_, _ = e.AddGroupingPolicy("role_admin", "role_user")

	tests := []struct {
		name            string
		sub, obj, act   string
		expectedAllowed bool
	}{
		{name: "param segment", sub: "role_user", obj: "/api/comment/3", act: "PUT", expectedAllowed: true},
		{name: "wrong action", sub: "role_user", obj: "/api/comment/3", act: "GET", expectedAllowed: false},
		{name: "extra segment", sub: "role_user", obj: "/api/comment/3/x", act: "PUT", expectedAllowed: false},
		{name: "inherited", sub: "role_admin", obj: "/api/comment/3", act: "DELETE", expectedAllowed: true},
		{name: "wildcard", sub: "role_admin", obj: "/api/admin/comments", act: "GET", expectedAllowed: true},
		{name: "no inheritance upward", sub: "role_user", obj: "/api/admin/comments", act: "GET", expectedAllowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := e.Enforce(tt.sub, tt.obj, tt.act)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedAllowed, allowed)
		})
	}
}

func TestMockPhoneOTPRepository_Defaults(t *testing.T) {
	repo := mocks.NewMockPhoneOTPRepository()
	ctx := context.Background()

	_, err := repo.RecordSend(ctx, "989123456789", "111111")
	require.NoError(t, err)
	rec, err := repo.RecordSend(ctx, "989123456789", "222222")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Count)

	found, err := repo.FindByCode(ctx, "222222", "")
	require.NoError(t, err)
	require.NoError(t, repo.MarkVerified(ctx, found.ID))

	stored, ok := repo.Record("989123456789")
	require.True(t, ok)
	assert.True(t, stored.Verified)
	assert.Zero(t, stored.Count)

	_, err = repo.FindByCode(ctx, "111111", "")
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestMockPasswordService_Defaults(t *testing.T) {
	svc := mocks.NewMockPasswordService()

	hash, err := svc.Hash("s3cret-pass")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		password string
		expected bool
	}{
		{name: "matching", hash: hash, password: "s3cret-pass", expected: true},
		{name: "wrong password", hash: hash, password: "guess", expected: false},
		{name: "no two-step password", hash: "", password: "", expected: false},
		{name: "raw password as hash", hash: "s3cret-pass", password: "s3cret-pass", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, svc.Verify(tt.hash, tt.password))
		})
	}
	assert.Equal(t, len(tests), svc.Checked)
}
