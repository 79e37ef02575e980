package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/accountsvc/domain"
)

// AccountRepositoryImpl implements domain.AccountRepository using GORM
type AccountRepositoryImpl struct {
	db *gorm.DB
}

// DBAccount represents the database model for Account (with GORM tags)
type DBAccount struct {
	ID                  string     `gorm:"primaryKey;size:36"`
	Name                string     `gorm:"size:255"`
	Email               string     `gorm:"uniqueIndex;size:255"`
	PasswordHash        string     `gorm:"column:password"`
	IsVerified          bool       `gorm:"index"`
	OTPHash             *string    `gorm:"column:otp_hash;index;size:64"`
	OTPExpiresAt        *time.Time `gorm:"column:otp_expires_at"`
	ResetTokenHash      *string    `gorm:"index;size:64"`
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time `gorm:"index"`
	UpdatedAt           time.Time
}

// TableName returns the table name for GORM
func (DBAccount) TableName() string {
	return "accounts"
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Create implements domain.AccountRepository. A duplicate email surfaces as
// domain.ErrAccountExists via the unique index, never by a read-then-write.
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	dbAccount := r.domainToDB(account)
	if err := r.db.WithContext(ctx).Create(dbAccount).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAccountExists
		}
		return err
	}
	account.CreatedAt = dbAccount.CreatedAt
	account.UpdatedAt = dbAccount.UpdatedAt
	return nil
}

// FindByEmail implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByID implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByOTP implements domain.AccountRepository. The digest match and the
// expiry comparison run in one query against current store state.
func (r *AccountRepositoryImpl) FindByOTP(ctx context.Context, otpHash string, now time.Time) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).
		Where("otp_hash = ? AND otp_expires_at > ?", otpHash, now).
		First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOTPInvalidOrExpired
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByResetToken implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).
		Where("reset_token_hash = ? AND reset_token_expires_at > ?", tokenHash, now).
		First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrResetTokenInvalidOrExpired
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// Update implements domain.AccountRepository. The whole-record snapshot is
// written back in one statement, so clearing a secret and flipping status
// are never observable separately.
func (r *AccountRepositoryImpl) Update(ctx context.Context, account *domain.Account) error {
	dbAccount := r.domainToDB(account)
	return r.db.WithContext(ctx).Save(dbAccount).Error
}

// ConsumeOTP implements domain.AccountRepository. The conditional UPDATE is
// the serialization point: of two concurrent calls with the same code, only
// one sees an affected row.
func (r *AccountRepositoryImpl) ConsumeOTP(ctx context.Context, email, otpHash string, now time.Time) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&DBAccount{}).
			Where("email = ? AND otp_hash = ? AND otp_expires_at > ?", email, otpHash, now).
			Updates(map[string]interface{}{
				"is_verified":    true,
				"otp_hash":       nil,
				"otp_expires_at": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrOTPInvalidOrExpired
		}
		return tx.Where("email = ?", email).First(&dbAccount).Error
	})
	if err != nil {
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// ConsumeResetToken implements domain.AccountRepository with the same
// single-use discipline as ConsumeOTP.
func (r *AccountRepositoryImpl) ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidate DBAccount
		if err := tx.Select("id").
			Where("reset_token_hash = ? AND reset_token_expires_at > ?", tokenHash, now).
			First(&candidate).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrResetTokenInvalidOrExpired
			}
			return err
		}
		// The candidate may have been superseded between the read and this
		// write; the conditional UPDATE re-checks and is the serialization point.
		res := tx.Model(&DBAccount{}).
			Where("id = ? AND reset_token_hash = ? AND reset_token_expires_at > ?", candidate.ID, tokenHash, now).
			Updates(map[string]interface{}{
				"password":               passwordHash,
				"reset_token_hash":       nil,
				"reset_token_expires_at": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrResetTokenInvalidOrExpired
		}
		return tx.Where("id = ?", candidate.ID).First(&dbAccount).Error
	})
	if err != nil {
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// domainToDB converts domain account to database account
func (r *AccountRepositoryImpl) domainToDB(account *domain.Account) *DBAccount {
	return &DBAccount{
		ID:                  account.ID,
		Name:                account.Name,
		Email:               account.Email,
		PasswordHash:        account.PasswordHash,
		IsVerified:          account.IsVerified,
		OTPHash:             account.OTPHash,
		OTPExpiresAt:        account.OTPExpiresAt,
		ResetTokenHash:      account.ResetTokenHash,
		ResetTokenExpiresAt: account.ResetTokenExpiresAt,
		CreatedAt:           account.CreatedAt,
		UpdatedAt:           account.UpdatedAt,
	}
}

// dbToDomain converts database account to domain account
func (r *AccountRepositoryImpl) dbToDomain(dbAccount *DBAccount) *domain.Account {
	return &domain.Account{
		ID:                  dbAccount.ID,
		Name:                dbAccount.Name,
		Email:               dbAccount.Email,
		PasswordHash:        dbAccount.PasswordHash,
		IsVerified:          dbAccount.IsVerified,
		OTPHash:             dbAccount.OTPHash,
		OTPExpiresAt:        dbAccount.OTPExpiresAt,
		ResetTokenHash:      dbAccount.ResetTokenHash,
		ResetTokenExpiresAt: dbAccount.ResetTokenExpiresAt,
		CreatedAt:           dbAccount.CreatedAt,
		UpdatedAt:           dbAccount.UpdatedAt,
	}
}
