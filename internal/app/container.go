package app

import (
	"context"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/config"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/infrastructure/auth"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/infrastructure/database"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/infrastructure/notifications"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/infrastructure/repositories"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/infrastructure/storage"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Log    *logrus.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Enforcer    *casbin.Enforcer
	Media       *storage.MediaStoreImpl

	// Repositories
	UserRepo        domain.UserRepository
	SessionRepo     domain.SessionRepository
	PhoneOTPRepo    domain.PhoneOTPRepository
	OTPCache        domain.OTPCache
	BlogRepo        domain.BlogRepository
	CategoryRepo    domain.CategoryRepository
	CommentRepo     domain.CommentRepository
	ContentTypeRepo domain.ContentTypeRepository
	AuditLogger     domain.AuditLogger

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	AuthSvc         domain.AuthService
	UserSvc         domain.UserService
	BlogSvc         domain.BlogService
	CategorySvc     domain.CategoryService
	CommentSvc      domain.CommentService
	PolicySvc       domain.PolicyService
}

// NewContainer connects to the database and Redis, migrates, seeds the
// authorization policy when it is empty, and builds every service
func NewContainer(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.initRepositories()
	if err := c.initServices(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.seedPolicies(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN, c.Log)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	client, err := database.NewRedis(ctx, c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err != nil {
		return err
	}
	c.RedisClient = client
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, c.Config.RefreshTTL)
	c.PhoneOTPRepo = repositories.NewPhoneOTPRepository(c.DB)
	c.OTPCache = repositories.NewOTPCache(c.RedisClient)
	c.BlogRepo = repositories.NewBlogRepository(c.DB)
	c.CategoryRepo = repositories.NewCategoryRepository(c.DB)
	c.CommentRepo = repositories.NewCommentRepository(c.DB)
	c.ContentTypeRepo = repositories.NewContentTypeRepository(c.DB)
	c.AuditLogger = repositories.NewAuditLogger(c.DB, c.Log)
}

func (c *Container) initServices() error {
	cfg := c.Config

	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	c.NotificationSvc = notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, c.Log)
	c.Media = storage.NewMediaStore(cfg.MediaRoot, cfg.MediaURL)

	cas, err := auth.NewCasbinService(c.DB, cfg.CasbinModelPath)
	if err != nil {
		return err
	}
	c.Enforcer = cas.E
	c.PolicySvc = services.NewPolicyService(cas.E)

	c.OTPSvc = services.NewOTPService(
		c.NotificationSvc,
		c.UserRepo,
		c.PhoneOTPRepo,
		c.OTPCache,
		c.AuditLogger,
		c.Log,
		services.OTPConfig{
			Length:      cfg.OTP_Length,
			TTL:         cfg.OTP_TTL,
			MaxRequests: cfg.OTP_MaxRequests,
		},
	)
	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionRepo,
		c.PhoneOTPRepo,
		c.OTPCache,
		c.PasswordSvc,
		c.TokenSvc,
		c.AuditLogger,
		c.Log,
		cfg.RefreshTTL,
	)
	c.UserSvc = services.NewUserService(c.UserRepo, c.BlogRepo, c.ContentTypeRepo, c.Media, c.AuditLogger, c.Log)
	c.BlogSvc = services.NewBlogService(c.BlogRepo, c.CategoryRepo, c.ContentTypeRepo, c.Media, c.Log)
	c.CategorySvc = services.NewCategoryService(c.CategoryRepo, c.Log)
	c.CommentSvc = services.NewCommentService(c.CommentRepo, c.BlogRepo, c.ContentTypeRepo, c.Log)
	return nil
}

func (c *Container) seedPolicies() error {
	seeds, err := config.LoadPolicySeeds(c.Config.PolicySeedsPath)
	if err != nil {
		return err
	}
	policies, groupings := seeds.Rows()
	seeded, err := c.PolicySvc.Seed(policies, groupings)
	if err != nil {
		return fmt.Errorf("failed to seed policies: %w", err)
	}
	if seeded {
		c.Log.WithFields(logrus.Fields{"policies": len(policies), "roles": len(groupings)}).Info("casbin: seeded default policies")
	}
	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
