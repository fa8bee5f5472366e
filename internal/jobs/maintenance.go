package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

const (
	OTPCounterResetJob = "otp_counter_reset"
	SessionCleanupJob  = "session_cleanup"

	RateLimiterCleanupJob = "rate_limiter_cleanup"
)

// IdleEvicter drops per-client state that has been idle for longer than idle
type IdleEvicter interface {
	Cleanup(idle time.Duration) int
}

// ResetOTPCounters zeroes the send counter of phones that have not requested a code
// for longer than idle, so a limited phone can log in again.
func ResetOTPCounters(repo domain.PhoneOTPRepository, idle time.Duration, log logrus.FieldLogger) Func {
	return func(ctx context.Context) error {
		reset, err := repo.ResetCounts(ctx, time.Now().Add(-idle))
		if err != nil {
			return fmt.Errorf("failed to reset otp counters: %w", err)
		}
		if reset > 0 {
			log.WithField("phones", reset).Info("otp counters reset")
		}
		return nil
	}
}

// CleanupSessions removes expired sessions
func CleanupSessions(repo domain.SessionRepository) Func {
	return func(ctx context.Context) error {
		if err := repo.DeleteExpired(ctx); err != nil {
			return fmt.Errorf("failed to delete expired sessions: %w", err)
		}
		return nil
	}
}

// CleanupRateLimiter drops the buckets of clients that have been quiet for idle
func CleanupRateLimiter(limiter IdleEvicter, idle time.Duration, log logrus.FieldLogger) Func {
	return func(ctx context.Context) error {
		if removed := limiter.Cleanup(idle); removed > 0 {
			log.WithField("clients", removed).Debug("rate limiter buckets dropped")
		}
		return nil
	}
}
