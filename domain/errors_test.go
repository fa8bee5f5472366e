package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainErrors_Distinct(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{name: "ErrUserNotFound", err: ErrUserNotFound, expectedMsg: "user not found"},
		{name: "ErrUserAlreadyExists", err: ErrUserAlreadyExists, expectedMsg: "user already exists"},
		{name: "ErrInvalidPhone", err: ErrInvalidPhone, expectedMsg: "invalid phone number"},
		{name: "ErrOTPInvalid", err: ErrOTPInvalid, expectedMsg: "invalid otp code"},
		{name: "ErrOTPExpired", err: ErrOTPExpired, expectedMsg: "otp has expired"},
		{name: "ErrOTPRequestLimit", err: ErrOTPRequestLimit, expectedMsg: "otp request limit exceeded"},
		{name: "ErrPasswordIncorrect", err: ErrPasswordIncorrect, expectedMsg: "password is incorrect"},
		{name: "ErrTwoStepNotEnabled", err: ErrTwoStepNotEnabled, expectedMsg: "two-step password not enabled"},
		{name: "ErrTokenExpired", err: ErrTokenExpired, expectedMsg: "token has expired"},
		{name: "ErrSessionNotFound", err: ErrSessionNotFound, expectedMsg: "session not found"},
		{name: "ErrBlogNotFound", err: ErrBlogNotFound, expectedMsg: "blog not found"},
		{name: "ErrCommentNotFound", err: ErrCommentNotFound, expectedMsg: "comment not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expectedMsg {
				t.Errorf("expected error message %q, got %q", tt.expectedMsg, tt.err.Error())
			}

			for _, other := range tests {
				if other.name != tt.name && errors.Is(tt.err, other.err) {
					t.Errorf("error %s should not be equal to %s", tt.name, other.name)
				}
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	wrapped := fmt.Errorf("failed to verify otp: %w", ErrOTPExpired)

	if !errors.Is(wrapped, ErrOTPExpired) {
		t.Error("wrapped error should match ErrOTPExpired")
	}
	if errors.Is(wrapped, ErrOTPInvalid) {
		t.Error("wrapped error should not match ErrOTPInvalid")
	}
}
