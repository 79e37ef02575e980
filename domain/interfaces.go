package domain

import (
	"context"
	"time"
)

// AccountRepository defines account data access operations. It is the sole
// source of truth for account state; match-and-expiry checks run against
// current store state, never against values read earlier in the request.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByOTP(ctx context.Context, otpHash string, now time.Time) (*Account, error)
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*Account, error)
	Update(ctx context.Context, account *Account) error

	// ConsumeOTP atomically flips the account to verified and clears both OTP
	// fields, but only when the digest matches and the code is unexpired.
	// Concurrent calls with the same code yield exactly one success.
	ConsumeOTP(ctx context.Context, email, otpHash string, now time.Time) (*Account, error)

	// ConsumeResetToken atomically installs the new password hash and clears
	// both reset fields under the same match-and-expiry condition.
	ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time, passwordHash string) (*Account, error)
}

// AuthService defines the credential lifecycle use cases
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error)
	ResendOTP(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) (*AuthResult, error)
	GetAccount(ctx context.Context, accountID string) (*Account, error)
}

// SecretService produces one-time secrets and their one-way digests
type SecretService interface {
	// GenerateOTP mints a fixed-length numeric verification code for the given
	// email, honoring the resend throttle window.
	GenerateOTP(ctx context.Context, email string) (*Secret, error)
	// GenerateResetToken mints a high-entropy password-reset secret.
	GenerateResetToken(ctx context.Context) (*Secret, error)
	// HashSecret returns the one-way digest a supplied plaintext is matched by.
	HashSecret(plaintext string) string
}

// PasswordService defines password hashing operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService mints and verifies stateless signed session tokens
type TokenService interface {
	Generate(accountID string) (string, error)
	// Validate checks signature integrity first, then expiry; the two failure
	// modes are ErrTokenInvalid and ErrTokenExpired respectively.
	Validate(token string) (*TokenClaims, error)
}

// MailerService delivers plaintext secrets out-of-band
type MailerService interface {
	Send(to, subject, body string) error
}
