package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/you/accountsvc/domain"
)

const minPasswordLength = 6

// bcrypt digest of an unused password, compared against when the account
// lookup misses so that unknown emails cost the same as wrong passwords.
const burnHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	accountRepo domain.AccountRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	secretSvc   domain.SecretService
	mailerSvc   domain.MailerService
	baseURL     string
	tokenTTL    time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	accountRepo domain.AccountRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	secretSvc domain.SecretService,
	mailerSvc domain.MailerService,
	baseURL string,
	tokenTTL time.Duration,
) domain.AuthService {
	return &AuthServiceImpl{
		accountRepo: accountRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		secretSvc:   secretSvc,
		mailerSvc:   mailerSvc,
		baseURL:     baseURL,
		tokenTTL:    tokenTTL,
	}
}

// Register implements domain.AuthService. The session token is issued to the
// still-unverified account, matching the upstream contract; login refuses
// unverified accounts until VerifyOTP succeeds.
func (s *AuthServiceImpl) Register(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
	email = normalizeEmail(email)
	if err := validateRegistration(name, email, password); err != nil {
		return nil, err
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	otp, err := s.secretSvc.GenerateOTP(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	account := &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		IsVerified:   false,
	}
	account.SetOTP(otp.Hash, otp.ExpiresAt)

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	audit(domain.NewAuditEvent(domain.AccountRegisteredEvent, account.ID).WithEmail(email))

	message := fmt.Sprintf("Your verification OTP is: %s", otp.Plaintext)
	if err := s.mailerSvc.Send(email, "Email Verification OTP", message); err != nil {
		audit(domain.NewAuditEvent(domain.DeliveryFailureEvent, account.ID).WithEmail(email).WithError(err))
		return nil, domain.ErrEmailDelivery
	}
	audit(domain.NewAuditEvent(domain.OTPIssuedEvent, account.ID).WithEmail(email))

	return s.authResult(account)
}

// Login implements domain.AuthService. Unknown email and wrong password are
// indistinguishable to the caller; verification status is only checked after
// the credentials pass.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			// Store trouble is not a credential failure
			return nil, fmt.Errorf("failed to load account: %w", err)
		}
		// Burn a compare so the miss costs the same as a mismatch
		s.passwordSvc.Verify(burnHash, password)
		audit(domain.NewAuditEvent(domain.LoginFailureEvent, "").WithEmail(email).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	if !s.passwordSvc.Verify(account.PasswordHash, password) {
		audit(domain.NewAuditEvent(domain.LoginFailureEvent, account.ID).WithEmail(email).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	if !account.IsVerified {
		return nil, domain.ErrNotVerified
	}

	audit(domain.NewAuditEvent(domain.LoginEvent, account.ID).WithEmail(email))
	return s.authResult(account)
}

// VerifyOTP implements domain.AuthService. The store performs the digest
// match, the expiry check and the state flip as one transition, which makes
// the code single-use even under concurrent submission.
func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return nil, fmt.Errorf("%w: email and otp are required", domain.ErrValidation)
	}

	account, err := s.accountRepo.ConsumeOTP(ctx, email, s.secretSvc.HashSecret(code), time.Now())
	if err != nil {
		return nil, err
	}

	audit(domain.NewAuditEvent(domain.AccountVerifiedEvent, account.ID).WithEmail(email))
	return s.authResult(account)
}

// ResendOTP implements domain.AuthService. A fresh code silently supersedes
// the outstanding one; delivery failure rolls the new code back so no
// undeliverable secret stays live.
func (s *AuthServiceImpl) ResendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.IsVerified {
		return domain.ErrAlreadyVerified
	}

	otp, err := s.secretSvc.GenerateOTP(ctx, email)
	if err != nil {
		return err
	}

	account.SetOTP(otp.Hash, otp.ExpiresAt)
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	message := fmt.Sprintf("Your verification OTP is: %s", otp.Plaintext)
	if err := s.mailerSvc.Send(email, "Email Verification OTP", message); err != nil {
		s.rollbackOTP(ctx, account, err)
		return domain.ErrEmailDelivery
	}

	audit(domain.NewAuditEvent(domain.OTPIssuedEvent, account.ID).WithEmail(email).WithMetadata("resend", "true"))
	return nil
}

// ForgotPassword implements domain.AuthService. Unlike login, a miss here is
// reported as not-found on purpose. If delivery fails, the stored reset
// fields are rolled back before the failure surfaces; the rollback only runs
// when an account was actually loaded.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	secret, err := s.secretSvc.GenerateResetToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	account.SetResetToken(secret.Hash, secret.ExpiresAt)
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/resetpassword/%s", s.baseURL, secret.Plaintext)
	message := fmt.Sprintf("You requested a password reset. Click: %s", resetURL)
	if err := s.mailerSvc.Send(email, "Password Reset", message); err != nil {
		s.rollbackResetToken(ctx, account, err)
		return domain.ErrEmailDelivery
	}

	audit(domain.NewAuditEvent(domain.ResetRequestedEvent, account.ID).WithEmail(email))
	return nil
}

// ResetPassword implements domain.AuthService
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) (*domain.AuthResult, error) {
	if len(newPassword) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	hashedPassword, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := s.accountRepo.ConsumeResetToken(ctx, s.secretSvc.HashSecret(token), time.Now(), hashedPassword)
	if err != nil {
		return nil, err
	}

	audit(domain.NewAuditEvent(domain.ResetCompletedEvent, account.ID).WithEmail(account.Email))
	return s.authResult(account)
}

// GetAccount implements domain.AuthService
func (s *AuthServiceImpl) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindByID(ctx, accountID)
}

// rollbackOTP clears an undelivered verification code. Nothing to roll back
// when the account was never loaded.
func (s *AuthServiceImpl) rollbackOTP(ctx context.Context, account *domain.Account, cause error) {
	if account == nil {
		return
	}
	account.ClearOTP()
	if err := s.accountRepo.Update(ctx, account); err != nil {
		audit(domain.NewAuditEvent(domain.DeliveryFailureEvent, account.ID).WithError(err).WithMetadata("rollback", "failed"))
		return
	}
	audit(domain.NewAuditEvent(domain.DeliveryFailureEvent, account.ID).WithError(cause).WithMetadata("rollback", "otp"))
}

// rollbackResetToken clears an undelivered reset token under the same guard.
func (s *AuthServiceImpl) rollbackResetToken(ctx context.Context, account *domain.Account, cause error) {
	if account == nil {
		return
	}
	account.ClearResetToken()
	if err := s.accountRepo.Update(ctx, account); err != nil {
		audit(domain.NewAuditEvent(domain.ResetRolledBackEvent, account.ID).WithError(err).WithMetadata("rollback", "failed"))
		return
	}
	audit(domain.NewAuditEvent(domain.ResetRolledBackEvent, account.ID).WithError(cause))
}

func (s *AuthServiceImpl) authResult(account *domain.Account) (*domain.AuthResult, error) {
	token, err := s.tokenSvc.Generate(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	return &domain.AuthResult{
		Account:   account,
		Token:     token,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !emailRx.MatchString(email) {
		return fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	return nil
}

func audit(event *domain.AuditEvent) {
	log.Printf("%s", event.String())
}
