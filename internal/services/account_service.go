package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "peppermint/internal/errors"
	"peppermint/internal/models"
)

// accountService handles account-related business logic. Every lookup is
// keyed by account id and owning user id; institution names are only ever a
// filter within one user's accounts, so name collisions across users cannot
// leak rows.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account for a user. The initial balance is
// caller-supplied and not required to be zero.
func (s *accountService) CreateAccount(userID, institution, accountType string, initialBalance float64) (*models.Account, error) {
	if institution == "" || accountType == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "institution and account_type are required")
	}

	account := &models.Account{
		UserID:         userID,
		Institution:    institution,
		AccountType:    accountType,
		CurrentBalance: initialBalance,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetAccountByID(userID, account.ID)
}

// GetAccountByID retrieves an account by ID for a specific user
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// GetAccountByName retrieves one of the user's accounts by institution name.
func (s *accountService) GetAccountByName(userID, institution string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("user_id = ? AND institution = ?", userID, institution).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// GetUserAccounts retrieves the list of accounts for a user.
func (s *accountService) GetUserAccounts(userID string) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ?", userID).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// UpdateAccount overwrites the three editable fields of an account. The
// balance is replaced as given and is not reconciled against the account's
// transaction history; until the next transaction mutation the stored
// balance is whatever the caller wrote.
func (s *accountService) UpdateAccount(userID, accountID, institution, accountType string, balance float64) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	if institution == "" || accountType == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "institution and account_type are required")
	}

	updates := map[string]interface{}{
		"institution":     institution,
		"account_type":    accountType,
		"current_balance": balance,
	}
	if err := s.db.Model(account).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Where("id = ?", account.ID).First(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// DeleteAccount removes an account and its transactions in one database
// transaction.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// AdjustBalance applies a signed delta to an account's balance. The write is
// a single SQL increment so concurrent adjustments against the same account
// cannot lose updates; tx is the caller's database transaction. The
// in-memory struct is kept in step with the stored value.
//
// This is the only write path for balances used by transaction mutations;
// each unit of signed amount change goes through exactly one call.
func (s *accountService) AdjustBalance(tx *gorm.DB, account *models.Account, delta float64) error {
	if err := tx.Model(&models.Account{}).Where("id = ?", account.ID).
		Update("current_balance", gorm.Expr("current_balance + ?", delta)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	account.CurrentBalance += delta
	return nil
}
