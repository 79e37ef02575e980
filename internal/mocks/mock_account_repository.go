package mocks

import (
	"context"
	"time"

	"github.com/you/accountsvc/domain"
)

// MockAccountRepository implements domain.AccountRepository for testing
type MockAccountRepository struct {
	CreateFunc            func(ctx context.Context, account *domain.Account) error
	FindByEmailFunc       func(ctx context.Context, email string) (*domain.Account, error)
	FindByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	FindByOTPFunc         func(ctx context.Context, otpHash string, now time.Time) (*domain.Account, error)
	FindByResetTokenFunc  func(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error)
	UpdateFunc            func(ctx context.Context, account *domain.Account) error
	ConsumeOTPFunc        func(ctx context.Context, email, otpHash string, now time.Time) (*domain.Account, error)
	ConsumeResetTokenFunc func(ctx context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.Account, error)
}

// NewMockAccountRepository creates a new MockAccountRepository with default behaviors
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{}
}

// Create creates a new account
func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	// Default behavior: success with an assigned ID
	if account.ID == "" {
		account.ID = "acc-1"
	}
	return nil
}

// FindByEmail finds an account by email
func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// FindByID finds an account by ID
func (m *MockAccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrAccountNotFound
}

// FindByOTP finds an account by a live OTP digest
func (m *MockAccountRepository) FindByOTP(ctx context.Context, otpHash string, now time.Time) (*domain.Account, error) {
	if m.FindByOTPFunc != nil {
		return m.FindByOTPFunc(ctx, otpHash, now)
	}
	// Default behavior: no live code
	return nil, domain.ErrOTPInvalidOrExpired
}

// FindByResetToken finds an account by a live reset token digest
func (m *MockAccountRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error) {
	if m.FindByResetTokenFunc != nil {
		return m.FindByResetTokenFunc(ctx, tokenHash, now)
	}
	// Default behavior: no live token
	return nil, domain.ErrResetTokenInvalidOrExpired
}

// Update persists a mutated account snapshot
func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	// Default behavior: success
	return nil
}

// ConsumeOTP atomically verifies the account and clears the OTP
func (m *MockAccountRepository) ConsumeOTP(ctx context.Context, email, otpHash string, now time.Time) (*domain.Account, error) {
	if m.ConsumeOTPFunc != nil {
		return m.ConsumeOTPFunc(ctx, email, otpHash, now)
	}
	// Default behavior: no live code
	return nil, domain.ErrOTPInvalidOrExpired
}

// ConsumeResetToken atomically rewrites the password and clears the token
func (m *MockAccountRepository) ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.Account, error) {
	if m.ConsumeResetTokenFunc != nil {
		return m.ConsumeResetTokenFunc(ctx, tokenHash, now, passwordHash)
	}
	// Default behavior: no live token
	return nil, domain.ErrResetTokenInvalidOrExpired
}

// Compile-time interface compliance verification
var _ domain.AccountRepository = (*MockAccountRepository)(nil)
