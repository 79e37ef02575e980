package domain

import "errors"

// Validation and registration errors
var (
	ErrValidation    = errors.New("invalid input")
	ErrAccountExists = errors.New("account already exists")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("email not verified")
	ErrAccountNotFound    = errors.New("account not found")
)

// One-time secret errors
var (
	ErrOTPInvalidOrExpired        = errors.New("invalid or expired otp")
	ErrOTPResendThrottled         = errors.New("otp resend window not elapsed")
	ErrAlreadyVerified            = errors.New("account already verified")
	ErrResetTokenInvalidOrExpired = errors.New("invalid or expired reset token")
)

// Session token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Delivery errors
var (
	ErrEmailDelivery = errors.New("email could not be sent")
)
