package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/http/middleware"
)

// AuthHandlers handles the OTP login flow, tokens and two-step passwords
type AuthHandlers struct {
	authSvc domain.AuthService
	otpSvc  domain.OTPService
	log     logrus.FieldLogger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, otpSvc domain.OTPService, log logrus.FieldLogger) *AuthHandlers {
	return &AuthHandlers{
		authSvc: authSvc,
		otpSvc:  otpSvc,
		log:     log,
	}
}

// PhoneRequest is the body of the login and register requests
type PhoneRequest struct {
	Phone string `json:"phone" binding:"required,max=12"`
}

// VerifyRequest completes authentication with the code sent by SMS
type VerifyRequest struct {
	Code     string `json:"code" binding:"required,len=6,numeric"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// RefreshRequest represents token refresh request
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// CreateTwoStepPasswordRequest enables the two-step password
type CreateTwoStepPasswordRequest struct {
	NewPassword        string `json:"new_password" binding:"required"`
	ConfirmNewPassword string `json:"confirm_new_password" binding:"required"`
}

// ChangeTwoStepPasswordRequest replaces the two-step password
type ChangeTwoStepPasswordRequest struct {
	OldPassword        string `json:"old_password" binding:"required"`
	NewPassword        string `json:"new_password" binding:"required"`
	ConfirmNewPassword string `json:"confirm_new_password" binding:"required"`
}

var (
	codeSentBody       = gin.H{"code sent.": "The code has been sent to the desired phone number."}
	incorrectCodeBody  = gin.H{"Incorrect code.": "The code entered is incorrect."}
	passwordSavedBody  = gin.H{"Successful.": "Your password was changed successfully."}
	requestDeniedBody  = gin.H{"Error!": "Your request could not be approved."}
	wrongPasswordBody  = gin.H{"Error!": "The password entered is incorrect."}
	invalidRefreshBody = gin.H{"detail": "Token is invalid or expired"}
)

// Login sends a code to the phone of an existing user
func (h *AuthHandlers) Login(c *gin.Context) {
	h.requestOTP(c, domain.OTPPurposeLogin, gin.H{"Many Requests": "You requested too much."})
}

// Register sends a code to a phone that has no account yet
func (h *AuthHandlers) Register(c *gin.Context) {
	h.requestOTP(c, domain.OTPPurposeRegister, gin.H{"Many Request": "You requested too much."})
}

func (h *AuthHandlers) requestOTP(c *gin.Context, purpose domain.OTPPurpose, limitedBody gin.H) {
	var req PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.otpSvc.Request(c.Request.Context(), req.Phone, purpose)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, codeSentBody)
	case errors.Is(err, domain.ErrInvalidPhone):
		c.JSON(http.StatusBadRequest, gin.H{"phone": []string{err.Error()}})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"No User exists.": "Please enter another phone number."})
	case errors.Is(err, domain.ErrUserAlreadyExists):
		c.JSON(http.StatusUnauthorized, gin.H{"User exists.": "Please enter a different phone number."})
	case errors.Is(err, domain.ErrOTPRequestLimit):
		c.JSON(http.StatusTooManyRequests, limitedBody)
	default:
		writeError(c, h.log, err)
	}
}

// VerifyOTP exchanges a code, and the two-step password when enabled, for a token pair
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authSvc.VerifyOTP(c.Request.Context(), domain.VerifyOTPRequest{
		Code:     req.Code,
		Phone:    req.Phone,
		Password: req.Password,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"created": result.Created,
			"refresh": result.RefreshToken,
			"access":  result.AccessToken,
		})
	case errors.Is(err, domain.ErrOTPInvalid):
		c.JSON(http.StatusNotAcceptable, incorrectCodeBody)
	case errors.Is(err, domain.ErrOTPExpired):
		c.JSON(http.StatusRequestTimeout, gin.H{"Code expired.": "The entered code has expired."})
	case errors.Is(err, domain.ErrPasswordIncorrect):
		c.JSON(http.StatusNotAcceptable, gin.H{"Incorrect password.": "The password entered is incorrect."})
	default:
		writeError(c, h.log, err)
	}
}

// Refresh handles token refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.Refresh)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid),
			errors.Is(err, domain.ErrTokenExpired),
			errors.Is(err, domain.ErrTokenMalformed),
			errors.Is(err, domain.ErrSessionNotFound),
			errors.Is(err, domain.ErrSessionExpired),
			errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, invalidRefreshBody)
		default:
			writeError(c, h.log, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": result.AccessToken})
}

// Logout ends the session of the access token
func (h *AuthHandlers) Logout(c *gin.Context) {
	if err := h.authSvc.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateTwoStepPassword enables the two-step password for a user that has none
func (h *AuthHandlers) CreateTwoStepPassword(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil || user.TwoStepPassword {
		c.JSON(http.StatusUnauthorized, requestDeniedBody)
		return
	}

	var req CreateTwoStepPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.authSvc.CreateTwoStepPassword(c.Request.Context(), user.ID, req.NewPassword, req.ConfirmNewPassword)
	h.writePasswordResult(c, err)
}

// ChangeTwoStepPassword replaces the two-step password after checking the old one
func (h *AuthHandlers) ChangeTwoStepPassword(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil || !user.TwoStepPassword {
		c.JSON(http.StatusUnauthorized, requestDeniedBody)
		return
	}

	var req ChangeTwoStepPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.authSvc.ChangeTwoStepPassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword, req.ConfirmNewPassword)
	h.writePasswordResult(c, err)
}

func (h *AuthHandlers) writePasswordResult(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, passwordSavedBody)
	case errors.Is(err, domain.ErrTwoStepAlreadyEnabled), errors.Is(err, domain.ErrTwoStepNotEnabled):
		c.JSON(http.StatusUnauthorized, requestDeniedBody)
	case errors.Is(err, domain.ErrPasswordIncorrect):
		c.JSON(http.StatusNotAcceptable, wrongPasswordBody)
	case errors.Is(err, domain.ErrPasswordMismatch), errors.Is(err, domain.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{err.Error()}})
	default:
		writeError(c, h.log, err)
	}
}
