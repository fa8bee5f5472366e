package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	OTP_Length               int
	OTP_TTL                  time.Duration
	OTP_MaxRequests          int
	OTP_CounterResetSchedule string
	OTP_CounterResetAfter    time.Duration

	SessionCleanupSchedule string

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	CasbinModelPath string
	PolicySeedsPath string
	MediaRoot       string
	MediaURL        string
	MaxUploadBytes  int64
	RateLimitPerMin int
	RateLimitBurst  int
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", 8000)
	v.SetDefault("app.gin_mode", "release")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")
	v.SetDefault("app.shutdown_timeout", "10s")
	v.SetDefault("app.metrics_enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.issuer", "blog-api")
	v.SetDefault("jwt.access_ttl", "15m")
	v.SetDefault("jwt.refresh_ttl", "168h")
	v.SetDefault("otp.length", 6)
	v.SetDefault("otp.ttl", "300s")
	v.SetDefault("otp.max_requests", 4)
	v.SetDefault("otp.counter_reset_schedule", "@every 1h")
	v.SetDefault("otp.counter_reset_after", "24h")
	v.SetDefault("sessions.cleanup_schedule", "@hourly")
	v.SetDefault("casbin.model_path", "")
	v.SetDefault("casbin.policies_path", "config/policies.yml")
	v.SetDefault("media.root", "media")
	v.SetDefault("media.url", "/media")
	v.SetDefault("media.max_upload_bytes", 5<<20)
	v.SetDefault("rate_limit.per_minute", 10)
	v.SetDefault("rate_limit.burst", 5)
}

// Load reads .env, then config/config.yml (or $CONFIG_FILE), then BLOG_* environment overrides
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(env("CONFIG_FILE", "config/config.yml"))
	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	durations := map[string]*time.Duration{}
	cfg := &Config{
		Port:                     fmt.Sprintf("%d", v.GetInt("app.port")),
		GinMode:                  v.GetString("app.gin_mode"),
		LogLevel:                 v.GetString("app.log_level"),
		LogFormat:                v.GetString("app.log_format"),
		DSN:                      v.GetString("database.dsn"),
		RedisAddr:                v.GetString("redis.addr"),
		RedisPassword:            v.GetString("redis.password"),
		RedisDB:                  v.GetInt("redis.db"),
		JWTSecret:                v.GetString("jwt.secret"),
		JWTIssuer:                v.GetString("jwt.issuer"),
		OTP_Length:               v.GetInt("otp.length"),
		OTP_MaxRequests:          v.GetInt("otp.max_requests"),
		OTP_CounterResetSchedule: v.GetString("otp.counter_reset_schedule"),
		SessionCleanupSchedule:   v.GetString("sessions.cleanup_schedule"),
		TwilioSID:                v.GetString("twilio.account_sid"),
		TwilioToken:              v.GetString("twilio.auth_token"),
		TwilioFrom:               v.GetString("twilio.from_number"),
		CasbinModelPath:          v.GetString("casbin.model_path"),
		PolicySeedsPath:          v.GetString("casbin.policies_path"),
		MediaRoot:                v.GetString("media.root"),
		MediaURL:                 v.GetString("media.url"),
		MaxUploadBytes:           v.GetInt64("media.max_upload_bytes"),
		RateLimitPerMin:          v.GetInt("rate_limit.per_minute"),
		RateLimitBurst:           v.GetInt("rate_limit.burst"),
		MetricsEnabled:           v.GetBool("app.metrics_enabled"),
	}

	durations["jwt.access_ttl"] = &cfg.AccessTTL
	durations["jwt.refresh_ttl"] = &cfg.RefreshTTL
	durations["otp.ttl"] = &cfg.OTP_TTL
	durations["otp.counter_reset_after"] = &cfg.OTP_CounterResetAfter
	durations["app.shutdown_timeout"] = &cfg.ShutdownTimeout
	for key, dst := range durations {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt.secret must be at least 32 bytes")
	}
	// The verify request binds the code with len=6.
	if c.OTP_Length != 6 {
		return fmt.Errorf("otp.length must be 6, got %d", c.OTP_Length)
	}
	if c.OTP_MaxRequests < 1 {
		return fmt.Errorf("otp.max_requests must be positive, got %d", c.OTP_MaxRequests)
	}
	if c.RateLimitPerMin < 1 {
		return fmt.Errorf("rate_limit.per_minute must be positive, got %d", c.RateLimitPerMin)
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("rate_limit.burst must be positive, got %d", c.RateLimitBurst)
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
