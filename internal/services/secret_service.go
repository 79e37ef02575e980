package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/accountsvc/domain"
)

const resetTokenBytes = 20

// SecretServiceImpl implements domain.SecretService. Plaintexts leave this
// service exactly once; only digests are ever handed to the store.
type SecretServiceImpl struct {
	redisClient *redis.Client
	config      SecretConfig
}

type SecretConfig struct {
	OTPLength    int
	OTPTTL       time.Duration
	ResetTTL     time.Duration
	ResendWindow time.Duration
}

// NewSecretService creates a new secret service. A nil Redis client disables
// resend throttling (graceful degradation for tests and single-node setups).
func NewSecretService(redisClient *redis.Client, config SecretConfig) domain.SecretService {
	return &SecretServiceImpl{
		redisClient: redisClient,
		config:      config,
	}
}

// GenerateOTP implements domain.SecretService
func (s *SecretServiceImpl) GenerateOTP(ctx context.Context, email string) (*domain.Secret, error) {
	if err := s.checkResendWindow(ctx, email); err != nil {
		return nil, err
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	return &domain.Secret{
		Plaintext: code,
		Hash:      s.HashSecret(code),
		ExpiresAt: time.Now().Add(s.config.OTPTTL),
	}, nil
}

// GenerateResetToken implements domain.SecretService
func (s *SecretServiceImpl) GenerateResetToken(_ context.Context) (*domain.Secret, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	return &domain.Secret{
		Plaintext: token,
		Hash:      s.HashSecret(token),
		ExpiresAt: time.Now().Add(s.config.ResetTTL),
	}, nil
}

// HashSecret implements domain.SecretService
func (s *SecretServiceImpl) HashSecret(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// checkResendWindow enforces the per-email OTP resend throttle in Redis.
// SETNX with the window TTL acts as the gate: a live key means a code was
// issued inside the window. The throttle is advisory: with no client, or a
// client that cannot be reached, issuing proceeds unthrottled.
func (s *SecretServiceImpl) checkResendWindow(ctx context.Context, email string) error {
	if s.redisClient == nil || s.config.ResendWindow <= 0 {
		return nil
	}

	key := fmt.Sprintf("otp:res:%s", email)
	acquired, err := s.redisClient.SetNX(ctx, key, 1, s.config.ResendWindow).Result()
	if err != nil {
		log.Printf("otp resend throttle unavailable, issuing unthrottled: %v", err)
		return nil
	}
	if !acquired {
		return domain.ErrOTPResendThrottled
	}
	return nil
}

// generateSecureCode generates a cryptographically secure numeric code
func (s *SecretServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.OTPLength)

	for i := 0; i < s.config.OTPLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
