package domain

import "errors"

// Account errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrUserHasBlogs      = errors.New("user still owns blogs")
)

// OTP errors
var (
	ErrOTPInvalid      = errors.New("invalid otp code")
	ErrOTPExpired      = errors.New("otp has expired")
	ErrOTPNotFound     = errors.New("otp not found")
	ErrOTPRequestLimit = errors.New("otp request limit exceeded")
)

// Two-step password errors
var (
	ErrPasswordIncorrect     = errors.New("password is incorrect")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrPasswordTooShort      = errors.New("password must be at least 8 characters")
	ErrTwoStepAlreadyEnabled = errors.New("two-step password already enabled")
	ErrTwoStepNotEnabled     = errors.New("two-step password not enabled")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden")
)

// Content errors
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrBlogNotFound        = errors.New("blog not found")
	ErrInvalidBlogStatus   = errors.New("invalid blog status")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryCycle       = errors.New("category cannot be its own ancestor")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrInvalidParent       = errors.New("parent comment belongs to another target")
	ErrContentTypeNotFound = errors.New("content type not found")
)
