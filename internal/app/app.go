package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/config"
	httpx "github.com/theonlykingpin/ApiBlogWithOTP/internal/http"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/http/handlers"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/http/middleware"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/jobs"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/logging"
)

// rateLimiterIdle is how long a client must be quiet before its bucket is dropped
const rateLimiterIdle = 10 * time.Minute

// Run serves the API until SIGINT or SIGTERM, then drains requests and jobs
func Run(cfg *config.Config) error {
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, cfg.RateLimitBurst, log)
	scheduler, err := newScheduler(c, limiter)
	if err != nil {
		return err
	}

	router := c.Router(limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler.Start()
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("server did not shut down cleanly")
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("jobs still running at shutdown")
	}
	return nil
}

// newScheduler registers the periodic maintenance jobs
func newScheduler(c *Container, limiter *middleware.RateLimiter) (*jobs.Scheduler, error) {
	cfg := c.Config
	scheduler := jobs.NewScheduler(c.Log)

	if err := scheduler.Register(jobs.OTPCounterResetJob, cfg.OTP_CounterResetSchedule,
		jobs.ResetOTPCounters(c.PhoneOTPRepo, cfg.OTP_CounterResetAfter, c.Log)); err != nil {
		return nil, err
	}
	if err := scheduler.Register(jobs.SessionCleanupJob, cfg.SessionCleanupSchedule,
		jobs.CleanupSessions(c.SessionRepo)); err != nil {
		return nil, err
	}
	if err := scheduler.Register(jobs.RateLimiterCleanupJob, "@every 5m",
		jobs.CleanupRateLimiter(limiter, rateLimiterIdle, c.Log)); err != nil {
		return nil, err
	}
	return scheduler, nil
}

// Router builds the HTTP surface over the container's services. limiter throttles
// the code endpoints and may be nil.
func (c *Container) Router(limiter *middleware.RateLimiter) *gin.Engine {
	cfg := c.Config
	opts := httpx.RouterOptions{
		MetricsEnabled: cfg.MetricsEnabled,
		OTPLimiter:     limiter,
	}
	if strings.HasPrefix(cfg.MediaURL, "/") {
		opts.MediaFs = c.Media.Fs()
		opts.MediaPath = cfg.MediaURL
	}

	return httpx.BuildRouter(
		httpx.Handlers{
			Auth:     handlers.NewAuthHandlers(c.AuthSvc, c.OTPSvc, c.Log),
			Users:    handlers.NewUserHandlers(c.UserSvc, c.Log),
			Blogs:    handlers.NewBlogHandlers(c.BlogSvc, c.Media, cfg.MaxUploadBytes, c.Log),
			Category: handlers.NewCategoryHandlers(c.CategorySvc, c.Log),
			Comments: handlers.NewCommentHandlers(c.CommentSvc, c.Log),
			Policies: handlers.NewPolicyHandlers(c.PolicySvc, c.Log),
		},
		middleware.NewAuthMW(c.TokenSvc, c.SessionRepo, c.UserRepo),
		middleware.NewCasbinMW(c.Enforcer, c.Log),
		c.Log,
		opts,
	)
}
