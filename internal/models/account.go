package models

// Account represents a financial account owned by a user.
//
// CurrentBalance always equals the sum of TransactionAmount over the
// account's transactions. The balance is maintained incrementally by the
// transaction service, never recomputed; a direct account update overwrites
// it and the caller owns the consequences until the next transaction
// mutation.
type Account struct {
	Base
	UserID         string        `gorm:"type:uuid;not null;index" json:"user_id"`
	Institution    string        `gorm:"not null" json:"institution"`
	AccountType    string        `gorm:"not null" json:"account_type"`
	CurrentBalance float64       `gorm:"not null;default:0" json:"current_balance"`
	Transactions   []Transaction `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}
