package mocks

import (
	"time"

	"github.com/you/accountsvc/domain"
)

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	GenerateFunc func(accountID string) (string, error)
	ValidateFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// Generate mints a session token
func (m *MockTokenService) Generate(accountID string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(accountID)
	}
	// Default behavior: opaque fake token
	return "token_" + accountID, nil
}

// Validate verifies a session token
func (m *MockTokenService) Validate(token string) (*domain.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	// Default behavior: accept tokens minted by the default Generate
	if len(token) > len("token_") && token[:len("token_")] == "token_" {
		now := time.Now().Unix()
		return &domain.TokenClaims{
			AccountID: token[len("token_"):],
			IssuedAt:  now,
			ExpiresAt: now + 900,
		}, nil
	}
	return nil, domain.ErrTokenInvalid
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
