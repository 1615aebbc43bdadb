package models

import "time"

// Transaction represents a financial transaction against an account.
// TransactionAmount is signed; positive amounts credit the account,
// negative amounts debit it.
type Transaction struct {
	Base
	AccountID              string    `gorm:"type:uuid;not null;index" json:"account_id"`
	TransactionDate        time.Time `gorm:"not null" json:"transaction_date"`
	TransactionDescription string    `json:"transaction_description"`
	TransactionCategory    string    `json:"transaction_category"`
	TransactionAmount      float64   `gorm:"not null" json:"transaction_amount"`
}
