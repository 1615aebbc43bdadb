package services

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "peppermint/internal/errors"
	"peppermint/internal/models"
)

// transactionService owns transaction records and the balance-consistency
// protocol: every create, update and delete applies a compensating delta to
// the owning account through the account service's AdjustBalance primitive,
// inside the same database transaction as the row change.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

// CreateTransaction records a new transaction and credits its signed amount
// to the account balance. It returns the account's transaction list
// re-fetched after the insert, not just the created row.
func (s *transactionService) CreateTransaction(userID, accountID string, date time.Time, description, category string, amount float64) ([]models.Transaction, error) {
	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		AccountID:              account.ID,
		TransactionDate:        date,
		TransactionDescription: description,
		TransactionCategory:    category,
		TransactionAmount:      amount,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accountService.AdjustBalance(tx, account, amount); err != nil {
			return err
		}
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetAccountTransactions(userID, accountID)
}

// UpdateTransaction overwrites all fields of a transaction and moves the
// account balance from the old amount to the new one. The old contribution
// is removed and the new one applied as two separate adjustments within one
// database transaction.
func (s *transactionService) UpdateTransaction(userID, accountID, transactionID string, date time.Time, description, category string, amount float64) ([]models.Transaction, error) {
	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.validTransaction(account.ID, transactionID); err != nil {
		return nil, err
	}

	transaction, err := s.getByID(transactionID)
	if err != nil {
		return nil, err
	}
	oldAmount := transaction.TransactionAmount

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Remove the old amount from the balance by negating its sign.
		if err := s.accountService.AdjustBalance(tx, account, -oldAmount); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"transaction_date":        date,
			"transaction_description": description,
			"transaction_category":    category,
			"transaction_amount":      amount,
		}
		if err := tx.Model(transaction).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return s.accountService.AdjustBalance(tx, account, amount)
	})
	if err != nil {
		return nil, err
	}

	return s.GetAccountTransactions(userID, accountID)
}

// DeleteTransaction removes a transaction and debits its amount from the
// account balance.
func (s *transactionService) DeleteTransaction(userID, accountID, transactionID string) error {
	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	if err := s.validTransaction(account.ID, transactionID); err != nil {
		return err
	}

	transaction, err := s.getByID(transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accountService.AdjustBalance(tx, account, -transaction.TransactionAmount); err != nil {
			return err
		}
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetAccountTransactions retrieves all transactions of an account. A valid
// account with no transactions yields an empty list, not an error.
func (s *transactionService) GetAccountTransactions(userID, accountID string) ([]models.Transaction, error) {
	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := s.db.Where("account_id = ?", account.ID).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetUserTransactions collects the transactions of every account the user
// owns. Accounts without transactions contribute nothing to the result.
func (s *transactionService) GetUserTransactions(userID string) ([]models.Transaction, error) {
	accounts, err := s.accountService.GetUserAccounts(userID)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	for _, account := range accounts {
		var accountTransactions []models.Transaction
		if err := s.db.Where("account_id = ?", account.ID).Find(&accountTransactions).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		transactions = append(transactions, accountTransactions...)
	}
	return transactions, nil
}

// SortByDate orders transactions by transaction date, oldest first. The sort
// is stable so transactions sharing a date keep their relative order.
func SortByDate(transactions []models.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].TransactionDate.Before(transactions[j].TransactionDate)
	})
}

// validTransaction checks that the transaction belongs to the account by
// building the set of the account's transaction ids and testing membership.
// A miss means the caller paired a transaction with an account that does not
// own it.
func (s *transactionService) validTransaction(accountID, transactionID string) error {
	var ids []string
	if err := s.db.Model(&models.Transaction{}).Where("account_id = ?", accountID).
		Pluck("id", &ids).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	if _, ok := idSet[transactionID]; !ok {
		return apperrors.ErrTransactionMismatch
	}
	return nil
}

// getByID fetches a transaction row by primary key.
func (s *transactionService) getByID(transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}
