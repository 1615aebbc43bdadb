package services

import (
	"time"

	"gorm.io/gorm"

	"peppermint/internal/models"
)

// UserUpdateFields holds the optional fields of a profile update. Nil fields
// are left untouched.
type UserUpdateFields struct {
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, email, password, firstName, lastName string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetAllUsers() ([]models.User, error)
	UpdateUser(id string, fields UserUpdateFields) (*models.User, error)
	DeleteUser(id string) error
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID, institution, accountType string, initialBalance float64) (*models.Account, error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	GetAccountByName(userID, institution string) (*models.Account, error)
	GetUserAccounts(userID string) ([]models.Account, error)
	UpdateAccount(userID, accountID, institution, accountType string, balance float64) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
	AdjustBalance(tx *gorm.DB, account *models.Account, delta float64) error
}

// TransactionServicer defines the contract for transaction-related business
// logic. Create and Update return the account's full transaction list
// re-fetched after the mutation rather than the mutated row alone.
type TransactionServicer interface {
	CreateTransaction(userID, accountID string, date time.Time, description, category string, amount float64) ([]models.Transaction, error)
	UpdateTransaction(userID, accountID, transactionID string, date time.Time, description, category string, amount float64) ([]models.Transaction, error)
	DeleteTransaction(userID, accountID, transactionID string) error
	GetAccountTransactions(userID, accountID string) ([]models.Transaction, error)
	GetUserTransactions(userID string) ([]models.Transaction, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
