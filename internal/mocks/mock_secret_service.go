package mocks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/you/accountsvc/domain"
)

// MockSecretService implements domain.SecretService for testing
type MockSecretService struct {
	GenerateOTPFunc        func(ctx context.Context, email string) (*domain.Secret, error)
	GenerateResetTokenFunc func(ctx context.Context) (*domain.Secret, error)
	HashSecretFunc         func(plaintext string) string
}

// NewMockSecretService creates a new MockSecretService with default behaviors
func NewMockSecretService() *MockSecretService {
	return &MockSecretService{}
}

// GenerateOTP mints a verification code
func (m *MockSecretService) GenerateOTP(ctx context.Context, email string) (*domain.Secret, error) {
	if m.GenerateOTPFunc != nil {
		return m.GenerateOTPFunc(ctx, email)
	}
	// Default behavior: fixed code, real digest
	return &domain.Secret{
		Plaintext: "482913",
		Hash:      m.HashSecret("482913"),
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}, nil
}

// GenerateResetToken mints a reset secret
func (m *MockSecretService) GenerateResetToken(ctx context.Context) (*domain.Secret, error) {
	if m.GenerateResetTokenFunc != nil {
		return m.GenerateResetTokenFunc(ctx)
	}
	// Default behavior: fixed token, real digest
	return &domain.Secret{
		Plaintext: "fixed-reset-token",
		Hash:      m.HashSecret("fixed-reset-token"),
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}, nil
}

// HashSecret digests a plaintext the way the real service does
func (m *MockSecretService) HashSecret(plaintext string) string {
	if m.HashSecretFunc != nil {
		return m.HashSecretFunc(plaintext)
	}
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Compile-time interface compliance verification
var _ domain.SecretService = (*MockSecretService)(nil)
