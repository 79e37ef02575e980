package domain

import "time"

// Account represents a registered user account
type Account struct {
	ID                  string
	Name                string
	Email               string
	PasswordHash        string
	IsVerified          bool
	OTPHash             *string
	OTPExpiresAt        *time.Time
	ResetTokenHash      *string
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// OTPOutstanding reports whether the account has a live verification code
func (a *Account) OTPOutstanding(now time.Time) bool {
	return a.OTPHash != nil && a.OTPExpiresAt != nil && a.OTPExpiresAt.After(now)
}

// ResetPending reports whether the account has a live password-reset token
func (a *Account) ResetPending(now time.Time) bool {
	return a.ResetTokenHash != nil && a.ResetTokenExpiresAt != nil && a.ResetTokenExpiresAt.After(now)
}

// SetOTP binds a new verification code digest, superseding any previous one
func (a *Account) SetOTP(hash string, expiresAt time.Time) {
	a.OTPHash = &hash
	a.OTPExpiresAt = &expiresAt
}

// ClearOTP removes the outstanding verification code; both fields go together
func (a *Account) ClearOTP() {
	a.OTPHash = nil
	a.OTPExpiresAt = nil
}

// SetResetToken binds a new reset token digest, superseding any previous one
func (a *Account) SetResetToken(hash string, expiresAt time.Time) {
	a.ResetTokenHash = &hash
	a.ResetTokenExpiresAt = &expiresAt
}

// ClearResetToken removes the outstanding reset token; both fields go together
func (a *Account) ClearResetToken() {
	a.ResetTokenHash = nil
	a.ResetTokenExpiresAt = nil
}

// AuthResult represents a successful authentication outcome
type AuthResult struct {
	Account   *Account
	Token     string
	ExpiresIn int64
}

// Secret is a freshly generated one-time secret. Plaintext is handed to the
// caller exactly once for out-of-band delivery; only Hash and ExpiresAt may
// ever reach the store.
type Secret struct {
	Plaintext string
	Hash      string
	ExpiresAt time.Time
}

// TokenClaims represents verified session token claims
type TokenClaims struct {
	AccountID string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
