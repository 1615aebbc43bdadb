package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"peppermint/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique
// username/email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithCredentials(t, db, fmt.Sprintf("user%d", n), "password123")
}

// CreateTestUserWithCredentials creates a user with the given username and
// password.
func CreateTestUserWithCredentials(t *testing.T, db *gorm.DB, username, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@test.com", username),
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates an account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, 0)
}

// CreateTestAccountWithBalance creates an account with the given balance.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID string, balance float64) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:         userID,
		Institution:    fmt.Sprintf("Test Bank %d", nextID()),
		AccountType:    "checking",
		CurrentBalance: balance,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestTransaction creates a transaction with the given signed amount.
// The account balance is not touched; use the transaction service when the
// balance should move.
func CreateTestTransaction(t *testing.T, db *gorm.DB, accountID string, amount float64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOnDate(t, db, accountID, amount, time.Now())
}

// CreateTestTransactionOnDate creates a transaction dated as given.
func CreateTestTransactionOnDate(t *testing.T, db *gorm.DB, accountID string, amount float64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		AccountID:              accountID,
		TransactionDate:        date,
		TransactionDescription: fmt.Sprintf("test transaction %d", nextID()),
		TransactionCategory:    "misc",
		TransactionAmount:      amount,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
