package domain

import (
	"strings"
	"time"
)

// Roles derived from user flags. Casbin subjects are prefixed with "role_".
const (
	RoleUser   = "user"
	RoleAuthor = "author"
	RoleAdmin  = "admin"
)

// User represents an account identified by its phone number
type User struct {
	ID              uint
	Phone           string
	FirstName       string
	LastName        string
	Author          bool
	SpecialUser     time.Time
	IsStaff         bool
	IsAdmin         bool
	DateJoined      time.Time
	TwoStepPassword bool
	PasswordHash    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FullName returns first and last name separated by a space, trimmed
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsSpecialUser reports whether the special subscription is still running at now
func (u *User) IsSpecialUser(now time.Time) bool {
	return u.SpecialUser.After(now)
}

// IsSuperUser reports whether the user may administer other users
func (u *User) IsSuperUser() bool {
	return u.IsAdmin
}

// Role returns the strongest role granted by the user's flags
func (u *User) Role() string {
	switch {
	case u.IsAdmin:
		return RoleAdmin
	case u.Author:
		return RoleAuthor
	default:
		return RoleUser
	}
}

// HasUsablePassword reports whether a password hash has been set
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != ""
}

// UserUpdate carries the optional fields an update may change
type UserUpdate struct {
	FirstName   *string
	LastName    *string
	Author      *bool
	IsStaff     *bool
	IsAdmin     *bool
	SpecialUser *time.Time
}

// Apply copies the set fields onto u
func (p UserUpdate) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Author != nil {
		u.Author = *p.Author
	}
	if p.IsStaff != nil {
		u.IsStaff = *p.IsStaff
	}
	if p.IsAdmin != nil {
		u.IsAdmin = *p.IsAdmin
	}
	if p.SpecialUser != nil {
		u.SpecialUser = *p.SpecialUser
	}
}

// PhoneOTP holds the latest code sent to a phone and how many were sent
// since the last successful verification
type PhoneOTP struct {
	ID        uint
	Phone     string
	Code      string
	Count     int
	Verified  bool
	UpdatedAt time.Time
}

// OTPPurpose selects which existence rule applies to an OTP request
type OTPPurpose string

const (
	OTPPurposeLogin    OTPPurpose = "login"
	OTPPurposeRegister OTPPurpose = "register"
)

// VerifyOTPRequest represents the data submitted to complete authentication
type VerifyOTPRequest struct {
	Code     string
	Phone    string
	Password string
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User         *User
	Created      bool
	AccessToken  string
	RefreshToken string
	SessionID    string
	ExpiresIn    int64
}

// Session represents a user session
type Session struct {
	ID        string
	UserID    uint
	ExpiresAt time.Time
	CreatedAt time.Time
}

// BlogStatus is the publication state of a blog
type BlogStatus string

const (
	BlogDraft     BlogStatus = "d"
	BlogPublished BlogStatus = "p"
)

// Valid reports whether s is a known status
func (s BlogStatus) Valid() bool {
	return s == BlogDraft || s == BlogPublished
}

// Blog is a post written by an author
type Blog struct {
	ID         uint
	AuthorID   uint
	Author     *User
	Title      string
	Slug       string
	Body       string
	Image      string
	Summary    string
	Categories []Category
	Publish    time.Time
	Special    bool
	Status     BlogStatus
	Likes      int64
	Visits     uint
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BlogContentType identifies blogs in generic relations
var BlogContentType = ContentTypeKey{AppLabel: "blog", Model: "blog"}

// ContentTypeKey implements Commentable
func (b *Blog) ContentTypeKey() ContentTypeKey { return BlogContentType }

// GetID implements Commentable
func (b *Blog) GetID() uint { return b.ID }

// IsPublished reports whether the blog is publicly listed
func (b *Blog) IsPublished() bool {
	return b.Status == BlogPublished
}

// CategoryTitles returns the titles of the blog's categories in order
func (b *Blog) CategoryTitles() []string {
	titles := make([]string, 0, len(b.Categories))
	for _, c := range b.Categories {
		titles = append(titles, c.Title)
	}
	return titles
}

// VisibleTo reports whether viewer may read the blog. A nil viewer is anonymous.
func (b *Blog) VisibleTo(viewer *User, now time.Time) bool {
	if viewer != nil && (viewer.IsStaff || viewer.IsAdmin) {
		return true
	}
	if !b.IsPublished() {
		return viewer != nil && viewer.ID == b.AuthorID
	}
	if b.Special {
		if viewer == nil {
			return false
		}
		return viewer.ID == b.AuthorID || viewer.IsSpecialUser(now)
	}
	return true
}

// BlogInput carries the writable fields of a blog
type BlogInput struct {
	Title       string
	Body        string
	Summary     string
	CategoryIDs []uint
	Publish     *time.Time
	Special     bool
	Status      BlogStatus
	ImageName   string
	ImageData   []byte
}

// Category groups blogs and may be nested under a parent
type Category struct {
	ID       uint
	ParentID *uint
	Parent   *Category
	Title    string
	Slug     string
	Status   bool
	Position int
}

// ContentTypeKey names a model that can be the target of a generic relation
type ContentTypeKey struct {
	AppLabel string
	Model    string
}

// ContentType is the persisted row for a ContentTypeKey
type ContentType struct {
	ID       uint
	AppLabel string
	Model    string
}

// Commentable is any model instance comments can be attached to
type Commentable interface {
	ContentTypeKey() ContentTypeKey
	GetID() uint
}

// Comment is a threaded comment on a generic target
type Comment struct {
	ID            uint
	UserID        uint
	User          *User
	Name          *string
	ContentTypeID uint
	ObjectID      uint
	ParentID      *uint
	Body          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Children      []*Comment
}

// CommentInput carries the fields submitted for a comment
type CommentInput struct {
	ObjectID uint
	Name     *string
	ParentID *uint
	Body     string
}

// Page selects a window of a list result
type Page struct {
	Number int
	Size   int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize fills defaults and clamps the page size
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the number of rows to skip
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// UserFilter narrows user listings
type UserFilter struct {
	Author   *bool
	Search   string
	Ordering string
	Page     Page
}

// BlogFilter narrows blog listings
type BlogFilter struct {
	Status         *BlogStatus
	CategoryID     uint
	Search         string
	IncludeSpecial bool
	Page           Page
}
