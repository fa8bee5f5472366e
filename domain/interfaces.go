package domain

import (
	"context"
	"io"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	GetOrCreateByPhone(ctx context.Context, phone string) (*User, bool, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
}

// PhoneOTPRepository defines access to the per-phone OTP records
type PhoneOTPRepository interface {
	// RecordSend stores code for phone, creating the row if needed, and increments the send count
	RecordSend(ctx context.Context, phone, code string) (*PhoneOTP, error)
	// FindByCode returns the record holding code, narrowed to phone when phone is not empty
	FindByCode(ctx context.Context, code, phone string) (*PhoneOTP, error)
	MarkVerified(ctx context.Context, id uint) error
	ResetCounts(ctx context.Context, notUpdatedSince time.Time) (int64, error)
}

// OTPCache holds live codes keyed by phone
type OTPCache interface {
	Set(ctx context.Context, phone, code string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context) error
}

// BlogRepository defines blog data access operations
type BlogRepository interface {
	Create(ctx context.Context, blog *Blog, categoryIDs []uint) error
	// Update saves blog fields; categoryIDs replaces the categories when not nil
	Update(ctx context.Context, blog *Blog, categoryIDs []uint) error
	FindByID(ctx context.Context, id uint) (*Blog, error)
	FindBySlug(ctx context.Context, slug string) (*Blog, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter BlogFilter) ([]Blog, int64, error)
	// ListByAuthor returns every blog of the author, drafts included
	ListByAuthor(ctx context.Context, authorID uint) ([]Blog, error)
	// Delete removes the blog, its likes and category links, and the comments filed
	// under contentTypeID, in one transaction
	Delete(ctx context.Context, id, contentTypeID uint) error
	IncrementVisits(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, blogID, userID uint) (bool, int64, error)
}

// CategoryRepository defines category data access operations
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uint) (*Category, error)
	FindByIDs(ctx context.Context, ids []uint) ([]Category, error)
	List(ctx context.Context) ([]Category, error)
	Delete(ctx context.Context, id uint) error
}

// ContentTypeRepository resolves generic relation targets
type ContentTypeRepository interface {
	GetForModel(ctx context.Context, key ContentTypeKey) (*ContentType, error)
}

// CommentRepository defines comment data access operations
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	FindByID(ctx context.Context, id uint) (*Comment, error)
	Update(ctx context.Context, comment *Comment) error
	// Delete removes the comment and its replies
	Delete(ctx context.Context, id uint) error
	FilterByTarget(ctx context.Context, contentTypeID, objectID uint) ([]Comment, error)
	List(ctx context.Context, page Page) ([]Comment, int64, error)
}

// MediaStore persists uploaded files
type MediaStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
	URL(path string) string
}

// OTPService issues one-time codes
type OTPService interface {
	Request(ctx context.Context, phone string, purpose OTPPurpose) error
}

// AuthService defines authentication business logic
type AuthService interface {
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	CreateTwoStepPassword(ctx context.Context, userID uint, newPassword, confirm string) error
	ChangeTwoStepPassword(ctx context.Context, userID uint, oldPassword, newPassword, confirm string) error
}

// UserService defines profile and user administration logic
type UserService interface {
	Get(ctx context.Context, id uint) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	Update(ctx context.Context, id uint, update UserUpdate) (*User, error)
	Delete(ctx context.Context, id uint) error
}

// BlogService defines blog business logic
type BlogService interface {
	List(ctx context.Context, viewer *User, filter BlogFilter) ([]Blog, int64, error)
	Get(ctx context.Context, viewer *User, slug string) (*Blog, error)
	Create(ctx context.Context, author *User, input BlogInput) (*Blog, error)
	Update(ctx context.Context, editor *User, slug string, input BlogInput) (*Blog, error)
	Delete(ctx context.Context, editor *User, slug string) error
	ToggleLike(ctx context.Context, user *User, slug string) (bool, int64, error)
}

// CategoryService defines category business logic
type CategoryService interface {
	List(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, title string, parentID *uint, position int) (*Category, error)
	Update(ctx context.Context, id uint, title string, parentID *uint, position int) (*Category, error)
	Delete(ctx context.Context, id uint) error
}

// CommentService defines comment business logic
type CommentService interface {
	ListForBlog(ctx context.Context, blogID uint) ([]*Comment, error)
	Create(ctx context.Context, user *User, input CommentInput) (*Comment, error)
	Update(ctx context.Context, user *User, id uint, input CommentInput) (*Comment, error)
	Delete(ctx context.Context, user *User, id uint) error
	ListAll(ctx context.Context, page Page) ([]Comment, int64, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(userID uint, role string, sessionID string) (string, error)
	GenerateRefreshToken(userID uint, role string, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
	AccessTTL() time.Duration
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(to, message string) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
	Seed(policies, groupings [][]string) (bool, error)
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	SessionID string `json:"session_id,omitempty"`
	TokenType string `json:"token_type"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	AddGroupingPolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
