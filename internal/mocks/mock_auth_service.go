package mocks

import (
	"context"

	"github.com/you/accountsvc/domain"
)

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, name, email, password string) (*domain.AuthResult, error)
	LoginFunc          func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	VerifyOTPFunc      func(ctx context.Context, email, code string) (*domain.AuthResult, error)
	ResendOTPFunc      func(ctx context.Context, email string) error
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, token, newPassword string) (*domain.AuthResult, error)
	GetAccountFunc     func(ctx context.Context, accountID string) (*domain.Account, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register registers a new account
func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, email, password)
	}
	return defaultAuthResult(email), nil
}

// Login authenticates an account
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return defaultAuthResult(email), nil
}

// VerifyOTP verifies a one-time code
func (m *MockAuthService) VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, email, code)
	}
	return defaultAuthResult(email), nil
}

// ResendOTP re-issues a verification code
func (m *MockAuthService) ResendOTP(ctx context.Context, email string) error {
	if m.ResendOTPFunc != nil {
		return m.ResendOTPFunc(ctx, email)
	}
	return nil
}

// ForgotPassword starts the reset flow
func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

// ResetPassword completes the reset flow
func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) (*domain.AuthResult, error) {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return defaultAuthResult("reset@example.com"), nil
}

// GetAccount loads an account by id
func (m *MockAuthService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(ctx, accountID)
	}
	return nil, domain.ErrAccountNotFound
}

func defaultAuthResult(email string) *domain.AuthResult {
	return &domain.AuthResult{
		Account: &domain.Account{
			ID:         "acc-1",
			Name:       "Ann",
			Email:      email,
			IsVerified: true,
		},
		Token:     "token_acc-1",
		ExpiresIn: 900,
	}
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
