package services

import (
	"testing"
	"time"

	"github.com/you/accountsvc/domain"
	"github.com/you/accountsvc/internal/mocks"
)

// createAuthServiceForTest creates an AuthService with mock dependencies,
// substituting defaults for any nil collaborator
func createAuthServiceForTest(t *testing.T,
	accountRepo domain.AccountRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	secretSvc domain.SecretService,
	mailerSvc domain.MailerService) domain.AuthService {
	t.Helper()

	if accountRepo == nil {
		accountRepo = mocks.NewMockAccountRepository()
	}
	if passwordSvc == nil {
		passwordSvc = mocks.NewMockPasswordService()
	}
	if tokenSvc == nil {
		tokenSvc = mocks.NewMockTokenService()
	}
	if secretSvc == nil {
		secretSvc = mocks.NewMockSecretService()
	}
	if mailerSvc == nil {
		mailerSvc = mocks.NewMockMailerService()
	}

	return NewAuthService(accountRepo, passwordSvc, tokenSvc, secretSvc, mailerSvc,
		"http://localhost:5000", 15*time.Minute)
}

// createVerifiedAccount creates a verified account entity for testing
func createVerifiedAccount(t *testing.T) *domain.Account {
	t.Helper()

	return &domain.Account{
		ID:           "acc-1",
		Name:         "Ann",
		Email:        "a@b.com",
		PasswordHash: "hashed_Secret123",
		IsVerified:   true,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
		UpdatedAt:    time.Now().Add(-time.Hour),
	}
}

// createUnverifiedAccount creates an account that has not completed OTP verification
func createUnverifiedAccount(t *testing.T) *domain.Account {
	t.Helper()

	account := createVerifiedAccount(t)
	account.IsVerified = false
	hash := "otp-digest"
	expires := time.Now().Add(10 * time.Minute)
	account.OTPHash = &hash
	account.OTPExpiresAt = &expires
	return account
}
